package architecture

import (
	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/codebase"
)

// ResolveStats counts the outcome of ResolveReferences.
type ResolveStats struct {
	Resolved  int // references turned into edges
	Unlocated int // no symbol contains the reference site
	Nested    int // site and target contain one another
}

// ResolveReferences turns the references Build left over into edges.
//
// For each reference the deepest symbol containing the reference site is
// located. The reference is dropped if that symbol and the referenced one
// contain each other (a symbol contains itself). Otherwise the edge is
// lifted to their lowest common scope and recorded between the two parts of
// that scope on the respective containment chains.
//
// ResolveReferences consumes the pending references; a second call is a no-op.
func (a *Architecture) ResolveReferences() ResolveStats {
	var stats ResolveStats
	for _, ref := range a.pending {
		src, ok := a.locate(ref.loc.Path, ref.loc.Range)
		if !ok {
			stats.Unlocated++
			continue
		}
		if a.Tree.Contains(src, ref.target) || a.Tree.Contains(ref.target, src) {
			stats.Nested++
			continue
		}
		scope, from, to := a.commonScope(src, ref.target)
		if err := a.Tree.AddDependency(scope, from.ID, to.ID, 1); err != nil {
			a.logger.Warn("dropped dependency", "from", from.Name, "to", to.Name, "err", err)
			continue
		}
		stats.Resolved++
	}
	a.pending = nil
	a.logger.Debug("resolved references", "resolved", stats.Resolved, "unlocated", stats.Unlocated, "nested", stats.Nested)
	return stats
}

// Locate returns the deepest symbol of the file at path whose range
// contains r.
func (a *Architecture) Locate(path string, r codebase.Range) (artifact.ID, bool) {
	s, ok := a.locate(path, r)
	if !ok {
		return "", false
	}
	return s.ID, true
}

func (a *Architecture) locate(path string, r codebase.Range) (*artifact.Artifact, bool) {
	file, ok := a.files[path]
	if !ok {
		return nil, false
	}
	for _, s := range a.Tree.Parts(file) {
		if found := a.deepest(s, r); found != nil {
			return found, true
		}
	}
	return nil, false
}

// deepest searches s depth-first for the most nested symbol containing r.
func (a *Architecture) deepest(s *artifact.Artifact, r codebase.Range) *artifact.Artifact {
	for _, p := range a.Tree.Parts(s) {
		if found := a.deepest(p, r); found != nil {
			return found
		}
	}
	if sr, ok := s.Range(); ok && sr.Contains(r) {
		return s
	}
	return nil
}

// commonScope returns the lowest common scope of x and y along with its
// parts that contain x and y. Neither may contain the other.
func (a *Architecture) commonScope(x, y *artifact.Artifact) (scope, xPart, yPart *artifact.Artifact) {
	xs, ys := a.Tree.Ancestors(x), a.Tree.Ancestors(y)
	i, j := len(xs)-1, len(ys)-1
	for i > 0 && j > 0 && xs[i-1] == ys[j-1] {
		i--
		j--
	}
	return xs[i], xs[i-1], ys[j-1]
}
