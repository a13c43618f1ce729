package architecture

import (
	"cmp"

	"github.com/matzehuels/codescape/pkg/artifact"
)

// Sort orders the parts of every scope by component rank, then SCC index,
// then source position. Members of one component, and of one SCC inside
// it, end up adjacent, which is what the treemap layout relies on when it
// looks for cuts.
func Sort(tree *artifact.Tree) {
	tree.Walk(tree.Root(), func(scope *artifact.Artifact, _ int) bool {
		g := scope.Graph()
		tree.SortParts(scope, func(x, y *artifact.Artifact) int {
			return cmp.Or(
				cmp.Compare(x.Metrics.ComponentRank, y.Metrics.ComponentRank),
				cmp.Compare(x.Metrics.SCCIndex, y.Metrics.SCCIndex),
				cmp.Compare(g.Position(string(x.ID)), g.Position(string(y.ID))),
			)
		})
		return true
	})
}
