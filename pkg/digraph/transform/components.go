package transform

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/codescape/pkg/digraph"
)

// WeakComponents returns the weakly connected components of g, ignoring edge
// direction. Members are sorted by position and components are ranked by the
// position of their first member.
func WeakComponents(g *digraph.Graph) [][]string {
	if g.NodeCount() == 0 {
		return nil
	}
	v := toGonum(g)
	raw := topo.ConnectedComponents(v.undirected)
	out := make([][]string, 0, len(raw))
	for _, comp := range raw {
		out = append(out, v.names(comp))
	}
	slices.SortFunc(out, func(a, b []string) int {
		return cmp.Compare(g.Position(a[0]), g.Position(b[0]))
	})
	return out
}
