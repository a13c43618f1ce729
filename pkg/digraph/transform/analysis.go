package transform

import "github.com/matzehuels/codescape/pkg/digraph"

// Analysis holds the component structure of one scope graph.
//
// Analysis is returned by [Analyze]. Every node of the analyzed graph has an
// entry in each map.
type Analysis struct {
	// SCCs lists the strongly connected components in topological order.
	SCCs [][]string

	// SCCIndex maps a node to the index of its component in SCCs.
	SCCIndex map[string]int

	// Cyclic is true for nodes whose component is a cycle (see IsCycle).
	Cyclic map[string]bool

	// Components lists the weakly connected components by rank.
	Components [][]string

	// ComponentRank maps a node to the index of its component in Components.
	ComponentRank map[string]int

	// Cycles is the number of cyclic components.
	Cycles int
}

// Analyze computes strongly and weakly connected components of g.
// It never fails: a graph without edges yields singleton SCCs and one
// component per node.
func Analyze(g *digraph.Graph) *Analysis {
	a := &Analysis{
		SCCIndex:      make(map[string]int, g.NodeCount()),
		Cyclic:        make(map[string]bool, g.NodeCount()),
		ComponentRank: make(map[string]int, g.NodeCount()),
	}

	a.SCCs = TopologicalOrder(g, StronglyConnected(g))
	for i, scc := range a.SCCs {
		cyclic := IsCycle(g, scc)
		if cyclic {
			a.Cycles++
		}
		for _, id := range scc {
			a.SCCIndex[id] = i
			a.Cyclic[id] = cyclic
		}
	}

	a.Components = WeakComponents(g)
	for i, comp := range a.Components {
		for _, id := range comp {
			a.ComponentRank[id] = i
		}
	}
	return a
}
