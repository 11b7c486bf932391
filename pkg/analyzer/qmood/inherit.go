package qmood

import (
	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

// chain is the list of methods visible for inheritance at a point of the
// traversal. A chain value is never modified once built; merge returns a
// new one, so every child can be handed the same value.
type chain struct {
	entries []*decl.Method
}

// merge folds a class's own methods into the chain. An own virtual method
// replaces every entry with its name; any other own method is appended.
func (c chain) merge(own []*decl.Method) chain {
	out := make([]*decl.Method, len(c.entries), len(c.entries)+len(own))
	copy(out, c.entries)
	for _, m := range own {
		replaced := false
		if m.Virtual {
			for i, e := range out {
				if e.Name == m.Name {
					out[i] = m
					replaced = true
				}
			}
		}
		if !replaced {
			out = append(out, m)
		}
	}
	return chain{entries: out}
}

func declares(methods []*decl.Method, name string) bool {
	for _, m := range methods {
		if m.Name == name {
			return true
		}
	}
	return false
}

// ResolveInherited computes every node's inherited-not-overridden method
// set by walking each hierarchy from its root.
func (g *Graph) ResolveInherited(diags *Diagnostics) {
	for _, root := range g.Roots() {
		g.walkInherited(root, chain{}, false, newPathGuard(), diags)
	}
}

func (g *Graph) walkInherited(idx int, in chain, private bool, path *pathGuard, diags *Diagnostics) {
	n := g.Nodes[idx]
	if n.Record.Scope == nil {
		diags.Add(idx, Diagnostic{
			Kind:     DiagMissingScope,
			Class:    n.Record.Name,
			Location: n.Record.Location.String(),
			Message:  "member scope unavailable; inheritance below this class not resolved",
		})
		return
	}
	n.resolved = true

	// Private inheritance stops ancestor members here.
	if private {
		in = chain{}
	}

	own := n.Record.Scope.Methods
	for _, m := range in.entries {
		// Only virtual members can be overridden; a redeclared non-virtual
		// one merely hides the inherited member.
		if m.Virtual && declares(own, m.Name) {
			continue
		}
		n.addInherited(m)
	}

	out := in.merge(own)

	path.enter(idx)
	for _, child := range n.Children {
		if path.onPath(child) {
			g.reportCycle(idx, child, diags)
			continue
		}
		g.walkInherited(child, out, g.Nodes[child].privateFrom(idx), path, diags)
	}
	path.leave(idx)
}
