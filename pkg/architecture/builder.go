package architecture

import (
	"context"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/codebase"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// Concurrency bounds the number of files built at once.
	// Defaults to GOMAXPROCS.
	Concurrency int

	Logger *log.Logger
}

// Architecture is the artifact tree of one codebase together with the
// references that Build could not place inside their file.
type Architecture struct {
	Tree *artifact.Tree

	files   map[string]*artifact.Artifact // by root-relative path
	pending []reference
	logger  *log.Logger
}

// reference is a raw reference site pointing at target.
type reference struct {
	target *artifact.Artifact
	loc    codebase.Location
}

type fileJob struct {
	scope *artifact.Artifact
	file  *codebase.File
}

type fileResult struct {
	tree       *artifact.Tree
	unresolved []reference
}

// Build creates the artifact tree for root. Files are built in parallel;
// their subtrees are attached once all of them are done.
//
// The only error Build returns is ctx's.
func Build(ctx context.Context, root *codebase.Folder, opts BuildOptions) (*Architecture, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	tree := artifact.NewTree(root.Name, artifact.Folder{Path: root.Path})
	var jobs []fileJob
	addFolder(tree, tree.Root(), root, &jobs)

	results := make([]fileResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = buildFile(job.file)
			opts.Logger.Debug("built file", "path", job.file.Path, "artifacts", results[i].tree.Len()-1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	arch := &Architecture{
		Tree:   tree,
		files:  make(map[string]*artifact.Artifact, len(jobs)),
		logger: opts.Logger,
	}
	for i, job := range jobs {
		arch.files[job.file.Path] = tree.Attach(job.scope, results[i].tree)
		arch.pending = append(arch.pending, results[i].unresolved...)
	}
	return arch, nil
}

// Pending returns the number of references still waiting for
// ResolveReferences.
func (a *Architecture) Pending() int { return len(a.pending) }

func addFolder(tree *artifact.Tree, scope *artifact.Artifact, folder *codebase.Folder, jobs *[]fileJob) {
	for _, sub := range folder.Subfolders {
		addFolder(tree, tree.Add(scope, sub.Name, artifact.Folder{Path: sub.Path}), sub, jobs)
	}
	for _, f := range folder.Files {
		*jobs = append(*jobs, fileJob{scope: scope, file: f})
	}
}

// buildFile builds the subtree of one file. The returned references point
// into other files.
func buildFile(f *codebase.File) fileResult {
	tree := artifact.NewTree(f.Name, artifact.File{Path: f.Path, Text: f.Content})
	b := fileBuilder{tree: tree, file: f, lines: codebase.SplitLines(f.Content)}
	return fileResult{tree: tree, unresolved: b.buildParts(tree.Root(), f.Symbols, nil)}
}

type fileBuilder struct {
	tree  *artifact.Tree
	file  *codebase.File
	lines []string
}

type partRefs struct {
	part *artifact.Artifact
	refs []reference
}

// buildParts adds symbols as parts of scope, children first, then turns
// the references to each part that lie within bounds into sibling edges.
// A nil bounds stands for the whole file. References outside bounds or in
// other files are returned to the caller.
func (b *fileBuilder) buildParts(scope *artifact.Artifact, symbols []*codebase.Symbol, bounds *codebase.Range) []reference {
	symbols = slices.Clone(symbols)
	slices.SortStableFunc(symbols, func(x, y *codebase.Symbol) int {
		return x.Range.Start.Compare(y.Range.Start)
	})

	parts := make([]partRefs, 0, len(symbols))
	for _, s := range symbols {
		part := b.tree.Add(scope, s.Name, artifact.Symbol{
			Kind:           s.Kind,
			Range:          s.Range,
			SelectionRange: s.SelectionRange,
			Text:           codebase.LinesIn(b.lines, s.Range),
		})
		r := s.Range
		extra := b.buildParts(part, s.Children, &r)

		var refs []reference
		if !s.Kind.IsNamespace() {
			refs = make([]reference, 0, len(s.References)+len(extra))
			for _, loc := range s.References {
				refs = append(refs, reference{target: part, loc: loc})
			}
		}
		parts = append(parts, partRefs{part: part, refs: append(refs, extra...)})
	}

	var up []reference
	for _, p := range parts {
		for _, ref := range p.refs {
			if ref.loc.Path != b.file.Path || (bounds != nil && !bounds.Contains(ref.loc.Range)) {
				up = append(up, ref)
				continue
			}
			if sib := siblingContaining(parts, p.part, ref.loc.Range); sib != nil {
				// both are parts of scope and distinct, so this cannot fail
				_ = b.tree.AddDependency(scope, sib.ID, p.part.ID, 1)
			}
		}
	}
	return up
}

func siblingContaining(parts []partRefs, self *artifact.Artifact, r codebase.Range) *artifact.Artifact {
	for _, p := range parts {
		if p.part == self {
			continue
		}
		if pr, _ := p.part.Range(); pr.Contains(r) {
			return p.part
		}
	}
	return nil
}
