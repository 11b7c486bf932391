// Package decl models the declaration tree handed to the metrics analyzer:
// class-like records, their member scopes and their inheritance edges.
package decl

import (
	"fmt"
	"strings"
)

// Access is a C++ access specifier.
type Access string

const (
	Public    Access = "public"
	Protected Access = "protected"
	Private   Access = "private"
)

// ParseAccess converts a specifier string to Access.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, nil
	case "protected":
		return Protected, nil
	case "private":
		return Private, nil
	default:
		return "", fmt.Errorf("unknown access specifier %q", s)
	}
}

// Variant is the class-key a record was declared with.
type Variant string

const (
	VariantClass  Variant = "class"
	VariantStruct Variant = "struct"
	VariantUnion  Variant = "union"
)

// DefaultAccess returns the implicit member and base access for the variant.
func (v Variant) DefaultAccess() Access {
	if v == VariantClass {
		return Private
	}
	return Public
}

// Location identifies where a declaration was found.
type Location struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

func (l Location) String() string {
	if l.File == "" {
		return ""
	}
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// TypeRef is a use of a type: a parameter type, a field type or a base class.
type TypeRef struct {
	Name    string
	Builtin bool
	Ref     Ref
}

// Method is a member function owned by a record.
type Method struct {
	Name    string
	Access  Access
	Virtual bool
	Static  bool
	Params  []TypeRef
}

// Field is a data member owned by a record.
type Field struct {
	Name   string
	Access Access
	Type   TypeRef
}

// Scope holds the members a record declares itself.
type Scope struct {
	Methods []*Method
	Fields  []*Field
	Records []*Record
}

// ParentEdge is one entry of a record's base-specifier list.
type ParentEdge struct {
	Type   TypeRef
	Access Access
}

// Record is a class, struct or union declaration.
//
// Records are compared by pointer identity. Two records may share a name
// (different namespaces, different translation units) and are never merged.
type Record struct {
	ID       string
	Name     string
	Variant  Variant
	Location Location
	// Scope is nil when the member scope could not be retrieved.
	Scope   *Scope
	Parents []ParentEdge
}

// String returns the record name with its location, if known.
func (r *Record) String() string {
	if loc := r.Location.String(); loc != "" {
		return r.Name + " (" + loc + ")"
	}
	return r.Name
}

// TypeDecl is a non-record declaration a type reference can resolve to,
// such as an enum or a typedef.
type TypeDecl struct {
	ID       string
	Name     string
	Kind     Kind
	Location Location
}
