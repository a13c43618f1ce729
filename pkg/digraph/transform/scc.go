package transform

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/codescape/pkg/digraph"
)

// StronglyConnected returns the strongly connected components of g using
// Tarjan's algorithm. Members of each component are sorted by position; the
// order of the components themselves is unspecified (see TopologicalOrder).
//
// Every node belongs to exactly one component. A graph without edges yields
// one singleton component per node.
func StronglyConnected(g *digraph.Graph) [][]string {
	if g.NodeCount() == 0 {
		return nil
	}
	v := toGonum(g)
	raw := topo.TarjanSCC(v.directed)
	out := make([][]string, 0, len(raw))
	for _, comp := range raw {
		out = append(out, v.names(comp))
	}
	return out
}

// TopologicalOrder orders the components so that every edge between two
// different components points from an earlier to a later one.
//
// It runs Kahn's algorithm over the condensation of g. When several
// components are ready, the one whose first member has the smallest
// position goes first. Members must be sorted by position, as returned by
// StronglyConnected.
func TopologicalOrder(g *digraph.Graph, sccs [][]string) [][]string {
	compOf := make(map[string]int, g.NodeCount())
	for i, comp := range sccs {
		for _, id := range comp {
			compOf[id] = i
		}
	}

	succ := make([][]int, len(sccs))
	indeg := make([]int, len(sccs))
	seen := make(map[[2]int]bool)
	for _, e := range g.Edges() {
		a, b := compOf[e.From], compOf[e.To]
		if a == b || seen[[2]int{a, b}] {
			continue
		}
		seen[[2]int{a, b}] = true
		succ[a] = append(succ[a], b)
		indeg[b]++
	}

	first := func(i int) int { return g.Position(sccs[i][0]) }

	var ready []int
	for i := range sccs {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([][]string, 0, len(sccs))
	for len(ready) > 0 {
		next := slices.MinFunc(ready, func(a, b int) int { return cmp.Compare(first(a), first(b)) })
		ready = slices.DeleteFunc(ready, func(i int) bool { return i == next })
		ordered = append(ordered, sccs[next])
		for _, s := range succ[next] {
			indeg[s]--
			if indeg[s] == 0 {
				ready = append(ready, s)
			}
		}
	}
	return ordered
}

// IsCycle reports whether the component forms a cycle: it has more than one
// member, or its single member references itself.
func IsCycle(g *digraph.Graph, scc []string) bool {
	switch len(scc) {
	case 0:
		return false
	case 1:
		return g.HasEdge(scc[0], scc[0])
	default:
		return true
	}
}
