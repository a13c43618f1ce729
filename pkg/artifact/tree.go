package artifact

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/digraph"
)

var (
	// ErrNotAPart is returned by Tree.AddDependency when an endpoint is not
	// a part of the given scope.
	ErrNotAPart = errors.New("artifact is not a part of the scope")

	// ErrSelfDependency is returned by Tree.AddDependency for from == to.
	ErrSelfDependency = errors.New("artifact cannot depend on itself")
)

// Artifact is a folder, file or symbol in a Tree.
type Artifact struct {
	ID      ID
	Name    string
	Detail  Detail
	Metrics Metrics

	index int
	scope int // -1 for the root
	parts []int
	graph *digraph.Graph
}

// KindName returns the display name of the artifact kind.
func (a *Artifact) KindName() string { return a.Detail.KindName() }

// Code returns the artifact's source text, if it has any.
func (a *Artifact) Code() (string, bool) { return a.Detail.Code() }

// IsSymbol reports whether the artifact is a code symbol.
func (a *Artifact) IsSymbol() bool { return a.Detail.IsSymbol() }

// Index returns the arena index of the artifact in its tree.
func (a *Artifact) Index() int { return a.index }

// IsRoot reports whether the artifact has no scope.
func (a *Artifact) IsRoot() bool { return a.scope < 0 }

// Graph returns the dependency graph among the artifact's parts.
func (a *Artifact) Graph() *digraph.Graph { return a.graph }

// PartCount returns the number of direct parts.
func (a *Artifact) PartCount() int { return len(a.parts) }

// Range returns the source range of a symbol.
func (a *Artifact) Range() (codebase.Range, bool) {
	if s, ok := a.Detail.(Symbol); ok {
		return s.Range, true
	}
	return codebase.Range{}, false
}

// Tree is an arena of artifacts rooted at index 0.
type Tree struct {
	nodes []*Artifact
	byID  map[ID]int
}

// NewTree creates a tree holding only a root artifact.
func NewTree(name string, detail Detail) *Tree {
	t := &Tree{byID: make(map[ID]int)}
	t.add(-1, name, detail)
	return t
}

func (t *Tree) add(scope int, name string, detail Detail) *Artifact {
	a := &Artifact{
		ID:     NewID(),
		Name:   name,
		Detail: detail,
		index:  len(t.nodes),
		scope:  scope,
		graph:  digraph.New(),
	}
	t.nodes = append(t.nodes, a)
	t.byID[a.ID] = a.index
	return a
}

// Root returns the root artifact.
func (t *Tree) Root() *Artifact { return t.nodes[0] }

// Len returns the number of artifacts in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// At returns the artifact at arena index i.
func (t *Tree) At(i int) *Artifact { return t.nodes[i] }

// ByID looks up an artifact by ID.
func (t *Tree) ByID(id ID) (*Artifact, bool) {
	i, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return t.nodes[i], true
}

// Add appends a new part to scope and registers it in the scope's graph.
func (t *Tree) Add(scope *Artifact, name string, detail Detail) *Artifact {
	a := t.add(scope.index, name, detail)
	scope.parts = append(scope.parts, a.index)
	_ = scope.graph.AddNode(string(a.ID))
	return a
}

// Attach moves every artifact of sub into t and makes sub's root a part of
// scope. IDs and graphs are preserved; sub must not be used afterwards.
func (t *Tree) Attach(scope *Artifact, sub *Tree) *Artifact {
	offset := len(t.nodes)
	for _, a := range sub.nodes {
		a.index += offset
		if a.scope >= 0 {
			a.scope += offset
		}
		for i := range a.parts {
			a.parts[i] += offset
		}
		t.nodes = append(t.nodes, a)
		t.byID[a.ID] = a.index
	}
	root := t.nodes[offset]
	root.scope = scope.index
	scope.parts = append(scope.parts, root.index)
	_ = scope.graph.AddNode(string(root.ID))
	sub.nodes, sub.byID = nil, nil
	return root
}

// AddDependency records weight references from part from to part to of
// scope. Both must be distinct parts of scope.
func (t *Tree) AddDependency(scope *Artifact, from, to ID, weight int) error {
	if from == to {
		return ErrSelfDependency
	}
	for _, id := range []ID{from, to} {
		if p, ok := t.ByID(id); !ok || p.scope != scope.index {
			return fmt.Errorf("%s in %s: %w", id, scope.Name, ErrNotAPart)
		}
	}
	return scope.graph.AddEdge(string(from), string(to), weight)
}

// Scope returns the artifact's scope, or false for the root.
func (t *Tree) Scope(a *Artifact) (*Artifact, bool) {
	if a.scope < 0 {
		return nil, false
	}
	return t.nodes[a.scope], true
}

// Parts returns the artifact's direct parts in their current order.
func (t *Tree) Parts(a *Artifact) []*Artifact {
	out := make([]*Artifact, len(a.parts))
	for i, p := range a.parts {
		out[i] = t.nodes[p]
	}
	return out
}

// SortParts reorders the artifact's parts. cmp follows slices.SortStableFunc.
func (t *Tree) SortParts(a *Artifact, cmp func(x, y *Artifact) int) {
	slices.SortStableFunc(a.parts, func(x, y int) int { return cmp(t.nodes[x], t.nodes[y]) })
}

// Ancestors returns a's scope chain from a (inclusive) up to the root.
func (t *Tree) Ancestors(a *Artifact) []*Artifact {
	var chain []*Artifact
	for i := a.index; i >= 0; i = t.nodes[i].scope {
		chain = append(chain, t.nodes[i])
	}
	return chain
}

// Contains reports whether a is b or one of b's ancestors.
func (t *Tree) Contains(a, b *Artifact) bool {
	for i := b.index; i >= 0; i = t.nodes[i].scope {
		if i == a.index {
			return true
		}
	}
	return false
}

// EnclosingFile returns the file artifact containing a, or a itself if it
// is a file.
func (t *Tree) EnclosingFile(a *Artifact) (*Artifact, bool) {
	for i := a.index; i >= 0; i = t.nodes[i].scope {
		if _, ok := t.nodes[i].Detail.(File); ok {
			return t.nodes[i], true
		}
	}
	return nil, false
}

// Walk visits the artifacts below and including a in pre-order, parts in
// their current order. Returning false from fn skips the artifact's parts.
func (t *Tree) Walk(a *Artifact, fn func(a *Artifact, depth int) bool) {
	t.walk(a, 0, fn)
}

func (t *Tree) walk(a *Artifact, depth int, fn func(*Artifact, int) bool) {
	if !fn(a, depth) {
		return
	}
	for _, p := range a.parts {
		t.walk(t.nodes[p], depth+1, fn)
	}
}

// WalkPost visits the artifacts below and including a, parts before their
// scope.
func (t *Tree) WalkPost(a *Artifact, fn func(a *Artifact)) {
	for _, p := range a.parts {
		t.WalkPost(t.nodes[p], fn)
	}
	fn(a)
}
