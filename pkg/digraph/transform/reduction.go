package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/codescape/pkg/digraph"
)

// TransitiveReduction marks redundant edges as inessential and returns how
// many were marked.
//
// An edge (u, v) is redundant when v is reachable from u over the remaining
// essential edges without using (u, v) itself. For example, if A→B, B→C and
// A→C all exist, A→C is marked inessential because A reaches C via B.
//
// # Algorithm
//
// All flags are reset to essential first. Edges are then examined ordered by
// the position of From, then To. Each edge is tentatively disabled and a DFS
// checks whether its target is still reachable; if so the edge stays
// disabled. Unlike a closure-based reduction this is well defined on cyclic
// graphs: every edge of a simple cycle stays essential, and reachability
// between any two nodes is never changed. Self-loops are always essential.
//
// # Performance
//
// Time complexity is O(E·(V+E)). Scopes are small (the parts of one artifact),
// so the quadratic bound does not matter in practice.
func TransitiveReduction(g *digraph.Graph) int {
	edges := g.Edges()
	for _, e := range edges {
		g.SetEssential(e.From, e.To, true)
	}
	slices.SortFunc(edges, func(a, b digraph.Edge) int {
		return cmp.Or(
			cmp.Compare(g.Position(a.From), g.Position(b.From)),
			cmp.Compare(g.Position(a.To), g.Position(b.To)),
		)
	})

	removed := 0
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		g.SetEssential(e.From, e.To, false)
		if reachable(g, e.From, e.To) {
			removed++
			continue
		}
		g.SetEssential(e.From, e.To, true)
	}
	return removed
}

// reachable reports whether to can be reached from from over essential edges.
func reachable(g *digraph.Graph, from, to string) bool {
	visited := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.Children(cur) {
			if e, _ := g.Edge(cur, next); !e.Essential {
				continue
			}
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
