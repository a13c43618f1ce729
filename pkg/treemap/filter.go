package treemap

import (
	"strings"

	"github.com/matzehuels/codescape/pkg/artifact"
)

// MatchName returns a filter presenting the artifacts whose name contains
// term, ignoring case, together with all their ancestors. An empty term
// returns nil, which presents everything.
func MatchName(tree *artifact.Tree, term string) func(*artifact.Artifact) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	match := make(map[artifact.ID]bool)
	tree.WalkPost(tree.Root(), func(a *artifact.Artifact) {
		if strings.Contains(strings.ToLower(a.Name), term) {
			match[a.ID] = true
			return
		}
		for _, p := range tree.Parts(a) {
			if match[p.ID] {
				match[a.ID] = true
				return
			}
		}
	})
	return func(a *artifact.Artifact) bool { return match[a.ID] }
}
