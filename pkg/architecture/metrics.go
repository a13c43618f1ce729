package architecture

import (
	"strings"

	"github.com/matzehuels/codescape/pkg/artifact"
)

// Aggregate computes LinesOfCode and CyclicPortion bottom-up. It reads the
// cycle flags set by Analyze.
//
// A symbol counts the lines of its own range. Folders, and files with at
// least one symbol, count the sum over their parts; a file without symbols
// counts its own lines so that it still takes up room in the layout.
func Aggregate(tree *artifact.Tree) {
	tree.WalkPost(tree.Root(), func(a *artifact.Artifact) {
		parts := tree.Parts(a)

		total, cyclic := 0, 0
		for _, p := range parts {
			total += p.Metrics.LinesOfCode
			if p.Metrics.IsInCycle {
				cyclic += p.Metrics.LinesOfCode
			}
		}

		switch d := a.Detail.(type) {
		case artifact.Symbol:
			a.Metrics.LinesOfCode = d.Range.LineCount()
		case artifact.File:
			a.Metrics.LinesOfCode = total
			if len(parts) == 0 {
				a.Metrics.LinesOfCode = lineCount(d.Text)
			}
		default:
			a.Metrics.LinesOfCode = total
		}

		a.Metrics.CyclicPortion = 0
		if total > 0 {
			a.Metrics.CyclicPortion = float64(cyclic) / float64(total)
		}
	})
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
