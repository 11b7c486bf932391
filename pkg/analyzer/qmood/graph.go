package qmood

import (
	"fmt"

	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

// Edge is a parent link held by a child node.
type Edge struct {
	Parent int
	Access decl.Access
}

// ClassNode is one class in the hierarchy graph. Nodes live in the graph's
// arena and refer to each other by index.
type ClassNode struct {
	Record   *decl.Record
	Parents  []Edge
	Children []int

	// Heights holds one entry per root-to-node path: the distance from that
	// root along that path.
	Heights []int

	inherited     []*decl.Method
	inheritedSeen map[*decl.Method]bool
	// resolved is set once the inheritance pass has processed the node along
	// at least one path.
	resolved bool
}

// IsRoot reports whether the node has no parent edges in the graph.
func (n *ClassNode) IsRoot() bool {
	return len(n.Parents) == 0
}

// Inherited returns the inherited-not-overridden methods in discovery order.
func (n *ClassNode) Inherited() []*decl.Method {
	return n.inherited
}

func (n *ClassNode) addInherited(m *decl.Method) {
	if n.inheritedSeen == nil {
		n.inheritedSeen = make(map[*decl.Method]bool)
	}
	if n.inheritedSeen[m] {
		return
	}
	n.inheritedSeen[m] = true
	n.inherited = append(n.inherited, m)
}

// privateFrom reports whether the node inherits privately from parent.
func (n *ClassNode) privateFrom(parent int) bool {
	for _, e := range n.Parents {
		if e.Parent == parent && e.Access == decl.Private {
			return true
		}
	}
	return false
}

// Graph is the class hierarchy: an arena of nodes with index edges.
type Graph struct {
	Nodes []*ClassNode
	index map[*decl.Record]int
}

// BuildGraph creates one node per record and links every parent edge whose
// base type resolves to a record of the list. Other edges are dropped and
// reported to diags.
func BuildGraph(records []*decl.Record, diags *Diagnostics) *Graph {
	g := &Graph{
		Nodes: make([]*ClassNode, 0, len(records)),
		index: make(map[*decl.Record]int, len(records)),
	}
	for _, rec := range records {
		if _, dup := g.index[rec]; dup {
			continue
		}
		g.index[rec] = len(g.Nodes)
		g.Nodes = append(g.Nodes, &ClassNode{Record: rec})
	}

	for child, n := range g.Nodes {
		for _, p := range n.Record.Parents {
			parent, ok := g.resolve(p.Type.Ref)
			if !ok {
				diags.Add(child, Diagnostic{
					Kind:     DiagUnresolvedParent,
					Class:    n.Record.Name,
					Location: n.Record.Location.String(),
					Message:  fmt.Sprintf("parent %q dropped: %s", p.Type.Name, parentReason(p.Type.Ref)),
				})
				continue
			}
			n.Parents = append(n.Parents, Edge{Parent: parent, Access: p.Access})
			g.Nodes[parent].Children = append(g.Nodes[parent].Children, child)
		}
	}
	return g
}

func (g *Graph) resolve(ref decl.Ref) (int, bool) {
	if !ref.IsRecord() {
		return 0, false
	}
	idx, ok := g.index[ref.Record]
	return idx, ok
}

func parentReason(ref decl.Ref) string {
	switch {
	case ref.IsRecord():
		return "declaration is not part of the analyzed set"
	case ref.Status == decl.Resolved:
		return fmt.Sprintf("resolves to a non-class declaration (%s)", ref.Kind)
	default:
		return ref.Reason()
	}
}

// Node returns the node for rec, or nil.
func (g *Graph) Node(rec *decl.Record) *ClassNode {
	idx, ok := g.index[rec]
	if !ok {
		return nil
	}
	return g.Nodes[idx]
}

// Roots returns the indices of nodes without parents.
func (g *Graph) Roots() []int {
	var roots []int
	for i, n := range g.Nodes {
		if n.IsRoot() {
			roots = append(roots, i)
		}
	}
	return roots
}
