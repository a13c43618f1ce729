package transform

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/codescape/pkg/digraph"
)

// gonumView mirrors a digraph as gonum graphs. Node IDs are insertion
// positions, so ids[n.ID()] maps back to the digraph node.
type gonumView struct {
	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	ids        []string
}

func toGonum(g *digraph.Graph) *gonumView {
	v := &gonumView{
		directed:   simple.NewDirectedGraph(),
		undirected: simple.NewUndirectedGraph(),
		ids:        g.Nodes(),
	}
	for i := range v.ids {
		v.directed.AddNode(simple.Node(int64(i)))
		v.undirected.AddNode(simple.Node(int64(i)))
	}

	// simple graphs panic on self-loops; IsCycle checks those separately.
	for _, e := range g.Edges() {
		from, to := int64(g.Position(e.From)), int64(g.Position(e.To))
		if from == to {
			continue
		}
		v.directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		if !v.undirected.HasEdgeBetween(from, to) {
			v.undirected.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return v
}

// names converts gonum nodes back to IDs sorted by position.
func (v *gonumView) names(nodes []graph.Node) []string {
	positions := make([]int, len(nodes))
	for i, n := range nodes {
		positions[i] = int(n.ID())
	}
	slices.Sort(positions)
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = v.ids[p]
	}
	return out
}
