package qmood

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// pathGuard tracks the nodes active on the current root-to-node path.
type pathGuard struct {
	active *roaring.Bitmap
}

func newPathGuard() *pathGuard {
	return &pathGuard{active: roaring.New()}
}

func (p *pathGuard) enter(idx int) { p.active.Add(uint32(idx)) }
func (p *pathGuard) leave(idx int) { p.active.Remove(uint32(idx)) }

func (p *pathGuard) onPath(idx int) bool {
	return p.active.Contains(uint32(idx))
}

// reportCycle records the edge parent->child that closes a cycle.
func (g *Graph) reportCycle(parent, child int, diags *Diagnostics) {
	n := g.Nodes[child]
	diags.Add(child, Diagnostic{
		Kind:     DiagCycle,
		Class:    n.Record.Name,
		Location: n.Record.Location.String(),
		Message:  fmt.Sprintf("inheritance cycle through %q; branch not traversed", g.Nodes[parent].Record.Name),
	})
}

// ComputeHeights walks the descendants of every root and appends to each
// visited node its distance from that root. A node reached along k paths
// ends up with k heights.
func (g *Graph) ComputeHeights(diags *Diagnostics) {
	reached := roaring.New()
	for _, root := range g.Roots() {
		g.walkHeights(root, 0, newPathGuard(), reached, diags)
	}
	for i, n := range g.Nodes {
		if !reached.Contains(uint32(i)) {
			diags.Add(i, Diagnostic{
				Kind:     DiagUnreachable,
				Class:    n.Record.Name,
				Location: n.Record.Location.String(),
				Message:  "not reachable from any hierarchy root",
			})
		}
	}
}

func (g *Graph) walkHeights(idx, height int, path *pathGuard, reached *roaring.Bitmap, diags *Diagnostics) {
	n := g.Nodes[idx]
	n.Heights = append(n.Heights, height)
	reached.Add(uint32(idx))

	path.enter(idx)
	for _, child := range n.Children {
		if path.onPath(child) {
			g.reportCycle(idx, child, diags)
			continue
		}
		g.walkHeights(child, height+1, path, reached, diags)
	}
	path.leave(idx)
}
