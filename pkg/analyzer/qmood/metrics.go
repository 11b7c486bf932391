package qmood

import (
	"gonum.org/v1/gonum/stat"

	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

// Metrics holds the per-class design metrics.
type Metrics struct {
	// ANA - Abstraction - Average Number of Ancestors
	ANA float64 `json:"ana"`
	// DAM - Encapsulation - Data Access Metric
	DAM float64 `json:"dam"`
	// DCC - Coupling - Direct Class Coupling
	DCC int `json:"dcc"`
	// CAM - Cohesion - Cohesion Among Methods of Class
	CAM float64 `json:"cam"`
	// MOA - Composition - Measure of Aggregation
	MOA int `json:"moa"`
	// MFA - Inheritance - Measure of Functional Abstraction
	MFA float64 `json:"mfa"`
	// NOP - Polymorphism - Number of Polymorphic Methods
	NOP int `json:"nop"`
	// CIS - Messaging - Class Interface Size
	CIS int `json:"cis"`
	// NOM - Complexity - Number of Methods
	NOM int `json:"nom"`
}

// DSC (Design Size in Classes) counts the records that declare at least one
// method. With countAll every record counts, method-less structs included.
func DSC(records []*decl.Record, countAll bool) int {
	if countAll {
		return len(records)
	}
	n := 0
	for _, r := range records {
		if r.Scope != nil && len(r.Scope.Methods) > 0 {
			n++
		}
	}
	return n
}

// NOH (Number of Hierarchies) counts roots with at least one child.
func NOH(g *Graph) int {
	n := 0
	for _, node := range g.Nodes {
		if node.IsRoot() && len(node.Children) > 0 {
			n++
		}
	}
	return n
}

// ANA is the mean of the heights recorded for a class, 0 if none.
func ANA(heights []int) float64 {
	if len(heights) == 0 {
		return 0
	}
	xs := make([]float64, len(heights))
	for i, h := range heights {
		xs[i] = float64(h)
	}
	return stat.Mean(xs, nil)
}

// DAM is the ratio of non-public fields to all fields, 0 without fields.
func DAM(s *decl.Scope) float64 {
	if len(s.Fields) == 0 {
		return 0
	}
	hidden := 0
	for _, f := range s.Fields {
		if f.Access != decl.Public {
			hidden++
		}
	}
	return float64(hidden) / float64(len(s.Fields))
}

// couples reports whether a type use counts as a class relation: a
// non-builtin type that either resolves to a record or has no declaration in
// the analyzed set. Enums and typedefs do not couple. The string policy only
// applies to unresolved names, so an analyzed record called "string" always
// couples.
func couples(t decl.TypeRef, countStrings bool) bool {
	if t.Builtin {
		return false
	}
	if t.Ref.Status == decl.Resolved {
		return t.Ref.IsRecord()
	}
	return countStrings || !decl.IsStringLike(t.Name)
}

// DCC counts the distinct class types referenced by method parameters and
// field declarations.
func DCC(s *decl.Scope, countStrings bool) int {
	related := make(map[string]bool)
	for _, m := range s.Methods {
		for _, p := range m.Params {
			if couples(p, countStrings) {
				related[p.Name] = true
			}
		}
	}
	for _, f := range s.Fields {
		if couples(f.Type, countStrings) {
			related[f.Type.Name] = true
		}
	}
	return len(related)
}

// CAM is the mean, over the class's methods, of the number of distinct
// parameter types of the method divided by the number of distinct parameter
// types of the whole class. It is 0 when the class has no parameter types.
func CAM(s *decl.Scope) float64 {
	classTypes := make(map[string]bool)
	for _, m := range s.Methods {
		for _, p := range m.Params {
			classTypes[p.Name] = true
		}
	}
	if len(classTypes) == 0 {
		return 0
	}

	sum := 0
	for _, m := range s.Methods {
		own := make(map[string]bool, len(m.Params))
		for _, p := range m.Params {
			own[p.Name] = true
		}
		sum += len(own)
	}
	return float64(sum) / float64(len(s.Methods)*len(classTypes))
}

// MOA counts the fields whose type is a user-defined class.
func MOA(s *decl.Scope, countStrings bool) int {
	seen := make(map[*decl.Field]bool, len(s.Fields))
	for _, f := range s.Fields {
		if couples(f.Type, countStrings) {
			seen[f] = true
		}
	}
	return len(seen)
}

// MFA is inherited / (inherited + own), 0 when both are zero.
func MFA(inherited, own int) float64 {
	if inherited+own == 0 {
		return 0
	}
	return float64(inherited) / float64(inherited+own)
}

// NOP counts the class's own virtual methods.
func NOP(s *decl.Scope) int {
	n := 0
	for _, m := range s.Methods {
		if m.Virtual {
			n++
		}
	}
	return n
}

// CIS counts the class's own public methods.
func CIS(s *decl.Scope) int {
	n := 0
	for _, m := range s.Methods {
		if m.Access == decl.Public {
			n++
		}
	}
	return n
}

// NOM counts the class's own methods.
func NOM(s *decl.Scope) int {
	return len(s.Methods)
}
