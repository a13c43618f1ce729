package architecture

import (
	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/digraph/transform"
)

// AnalyzeStats summarizes an Analyze run.
type AnalyzeStats struct {
	Scopes      int // artifacts with at least one part
	Edges       int
	Inessential int // edges implied by longer paths
	Cycles      int // cyclic SCCs over all scopes
}

// Analyze runs the per-scope graph analysis on every artifact with parts:
// it marks inessential edges and sets SCCIndex, IsInCycle, ComponentRank
// and the essential dependency counts on each part.
//
// Analyze is idempotent and never fails.
func Analyze(tree *artifact.Tree) AnalyzeStats {
	var stats AnalyzeStats
	tree.Walk(tree.Root(), func(scope *artifact.Artifact, _ int) bool {
		if scope.PartCount() == 0 {
			return true
		}
		g := scope.Graph()
		stats.Scopes++
		stats.Edges += g.EdgeCount()
		stats.Inessential += transform.TransitiveReduction(g)

		an := transform.Analyze(g)
		stats.Cycles += an.Cycles
		for _, part := range tree.Parts(scope) {
			id := string(part.ID)
			part.Metrics.SCCIndex = an.SCCIndex[id]
			part.Metrics.IsInCycle = an.Cyclic[id]
			part.Metrics.ComponentRank = an.ComponentRank[id]
			part.Metrics.IncomingDependencies = g.EssentialInDegree(id)
			part.Metrics.OutgoingDependencies = g.EssentialOutDegree(id)
		}
		return true
	})
	return stats
}
