package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/cache"
	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/errors"
	"github.com/matzehuels/codescape/pkg/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource serves fixed symbols for a.go and b.go. A() calls B().
type fakeSource struct {
	block bool
	fail  bool

	mu      sync.Mutex
	queries int
}

func (s *fakeSource) Symbols(ctx context.Context, file *codebase.File) ([]*codebase.Symbol, error) {
	s.count()
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.fail {
		return nil, os.ErrDeadlineExceeded
	}
	switch file.Path {
	case "a.go":
		return []*codebase.Symbol{sym("A", 2, 4)}, nil
	case "b.go":
		return []*codebase.Symbol{sym("B", 2, 2)}, nil
	}
	return nil, nil
}

func (s *fakeSource) References(_ context.Context, file *codebase.File, selection codebase.Range) ([]codebase.Location, error) {
	s.count()
	if file.Path == "b.go" && selection.Start.Line == 2 {
		return []codebase.Location{{Path: "a.go", Range: line(3)}}, nil
	}
	return nil, nil
}

func (s *fakeSource) count() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
}

func sym(name string, start, end int) *codebase.Symbol {
	return &codebase.Symbol{
		Name:           name,
		Kind:           codebase.KindFunction,
		Range:          codebase.Range{Start: codebase.Position{Line: start}, End: codebase.Position{Line: end, Character: 1}},
		SelectionRange: line(start),
	}
}

func line(n int) codebase.Range {
	return codebase.Range{Start: codebase.Position{Line: n, Character: 5}, End: codebase.Position{Line: n, Character: 6}}
}

func writeCodebase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.go":      "package a\n\nfunc A() {\n\tB()\n}\n",
		"b.go":      "package a\n\nfunc B() {}\n",
		"README.md": "# not code\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func collect(ch <-chan State) []State {
	var states []State
	for s := range ch {
		states = append(states, s)
	}
	return states
}

func last(states []State) State { return states[len(states)-1] }

func TestProcessor_Succeeds(t *testing.T) {
	p := NewProcessor(nil)
	src := &fakeSource{}
	states := collect(p.Start(context.Background(), Options{Path: writeCodebase(t), SymbolSource: src}))

	final := last(states)
	require.Equal(t, StatusSucceeded, final.Status, final.Message)

	var steps []Step
	for _, s := range states[:len(states)-1] {
		require.False(t, s.Terminal())
		if s.Done == 0 && (len(steps) == 0 || steps[len(steps)-1] != s.Step) {
			steps = append(steps, s.Step)
		}
	}
	require.Equal(t, Steps, steps)

	res := final.Result
	require.Equal(t, 2, res.Stats.Files)
	require.Equal(t, 1, res.Stats.Resolved)
	require.Equal(t, "custom", res.Source)
	require.Equal(t, 5, res.Tree.Len(), "root, two files, two functions")
	require.Len(t, res.Stats.Durations, len(Steps))

	root := res.Tree.Root()
	parts := res.Tree.Parts(root)
	require.Len(t, parts, 2)
	a, b := parts[0], parts[1]
	if a.Name != "a.go" {
		a, b = b, a
	}
	require.True(t, root.Graph().HasEdge(string(a.ID), string(b.ID)), "a.go depends on b.go")
	require.Equal(t, 1, a.Metrics.OutgoingDependencies)
	require.Equal(t, 1, b.Metrics.IncomingDependencies)

	l, err := res.Session.Layout(context.Background(), 800, 600, "")
	require.NoError(t, err)
	require.Equal(t, 5, l.Len())
}

func TestProcessor_InputErrors(t *testing.T) {
	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "notes.txt"), []byte("x"), 0o644))

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no path", Options{}, errors.ErrCodeInvalidInput},
		{"missing folder", Options{Path: filepath.Join(empty, "absent")}, errors.ErrCodeInvalidPath},
		{"no code files", Options{Path: empty}, errors.ErrCodeNoCodeFiles},
		{"bad extension", Options{Path: empty, Extensions: []string{".go"}}, errors.ErrCodeInvalidConfig},
		{"missing snapshot", Options{Snapshot: filepath.Join(empty, "absent.json")}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.SymbolSource = &fakeSource{}
			final := last(collect(NewProcessor(nil).Start(context.Background(), tt.opts)))
			require.Equal(t, StatusFailed, final.Status)
			require.True(t, errors.Is(final.Err, tt.code), "err = %v", final.Err)
			require.NotEmpty(t, final.Message)
		})
	}
}

func TestProcessor_WithoutSymbols(t *testing.T) {
	dir := writeCodebase(t)
	tests := []struct {
		name string
		opts Options
	}{
		{"failing queries", Options{Path: dir, SymbolSource: &fakeSource{fail: true}}},
		{"unreachable server", Options{Path: dir, LSPCommand: "codescape-no-such-server"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final := last(collect(NewProcessor(nil).Start(context.Background(), tt.opts)))
			require.Equal(t, StatusSucceeded, final.Status, final.Message)
			require.Equal(t, 3, final.Result.Tree.Len(), "only the folder and its files")
			require.Equal(t, 0, final.Result.Stats.Resolved)
		})
	}
}

func TestProcessor_Supersede(t *testing.T) {
	dir := writeCodebase(t)
	p := NewProcessor(nil)

	first := p.Start(context.Background(), Options{Path: dir, SymbolSource: &fakeSource{block: true}})
	for s := range first {
		if s.Step == StepRetrieveSymbols {
			break
		}
	}
	second := p.Start(context.Background(), Options{Path: dir, SymbolSource: &fakeSource{}})

	for s := range first {
		if s.Terminal() {
			require.Equal(t, StatusFailed, s.Status)
			require.True(t, errors.Is(s.Err, errors.ErrCodeCanceled), "err = %v", s.Err)
		}
	}
	final := last(collect(second))
	require.Equal(t, StatusSucceeded, final.Status, final.Message)
}

func TestProcessor_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := NewProcessor(nil)
	states := p.Start(ctx, Options{Path: writeCodebase(t), SymbolSource: &fakeSource{block: true}})
	for s := range states {
		if s.Step == StepRetrieveSymbols {
			cancel()
			break
		}
	}
	for s := range states {
		require.NotEqual(t, StatusSucceeded, s.Status)
	}
	p.Stop()
}

func TestProcessor_Stop(t *testing.T) {
	p := NewProcessor(nil)
	p.Stop()

	states := p.Start(context.Background(), Options{Path: writeCodebase(t), SymbolSource: &fakeSource{block: true}})
	for s := range states {
		if s.Step == StepRetrieveSymbols {
			break
		}
	}
	p.Stop()
	for range states {
	}
}

func TestProcessor_Snapshot(t *testing.T) {
	dir := writeCodebase(t)
	final := last(collect(NewProcessor(nil).Start(context.Background(), Options{Path: dir, SymbolSource: &fakeSource{}})))
	require.Equal(t, StatusSucceeded, final.Status, final.Message)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, codebase.ExportJSON(path, final.Result.Codebase, "gopls"))

	src := &fakeSource{}
	replay := last(collect(NewProcessor(nil).Start(context.Background(), Options{Snapshot: path, SymbolSource: src})))
	require.Equal(t, StatusSucceeded, replay.Status, replay.Message)
	require.Equal(t, "gopls", replay.Result.Source)
	require.Equal(t, final.Result.Tree.Len(), replay.Result.Tree.Len())
	require.Equal(t, 1, replay.Result.Stats.Resolved)
	require.Zero(t, src.queries, "snapshots are analyzed without a symbol source")
}

func TestProcessor_Cache(t *testing.T) {
	dir := writeCodebase(t)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	warm := &fakeSource{}
	final := last(collect(NewProcessor(nil).Start(context.Background(), Options{Path: dir, SymbolSource: warm, Cache: fc})))
	require.Equal(t, StatusSucceeded, final.Status, final.Message)
	require.NotZero(t, warm.queries)

	cached := &fakeSource{}
	final = last(collect(NewProcessor(nil).Start(context.Background(), Options{Path: dir, SymbolSource: cached, Cache: fc})))
	require.Equal(t, StatusSucceeded, final.Status, final.Message)
	require.Zero(t, cached.queries, "answers come from the cache")
	require.Equal(t, 1, final.Result.Stats.Resolved)
}

type stepHooks struct {
	observability.NoopPipelineHooks
	mu        sync.Mutex
	completed []string
	layouts   int
}

func (h *stepHooks) OnStepComplete(_ context.Context, step string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, step)
}

func (h *stepHooks) OnLayout(context.Context, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.layouts++
}

func TestProcessor_Hooks(t *testing.T) {
	hooks := &stepHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	final := last(collect(NewProcessor(nil).Start(context.Background(), Options{Path: writeCodebase(t), SymbolSource: &fakeSource{}})))
	require.Equal(t, StatusSucceeded, final.Status)
	_, err := final.Result.Session.Layout(context.Background(), 400, 300, "")
	require.NoError(t, err)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	require.Len(t, hooks.completed, len(Steps))
	require.Equal(t, string(StepBuildPresentation), hooks.completed[len(Steps)-1])
	require.Equal(t, 1, hooks.layouts)
}

func TestSession(t *testing.T) {
	tree := artifact.NewTree("root", artifact.Folder{})
	parser := tree.Add(tree.Root(), "parser", artifact.Folder{Path: "parser"})
	tree.Add(parser, "parse.go", artifact.File{Path: "parser/parse.go", Text: "package parser\n"})
	tree.Add(tree.Root(), "main.go", artifact.File{Path: "main.go", Text: "package main\n"})
	tree.Root().Metrics.LinesOfCode = 2
	parser.Metrics.LinesOfCode = 1

	s, err := NewSession(tree, SessionOptions{Size: 2})
	require.NoError(t, err)
	ctx := context.Background()

	full, err := s.Layout(ctx, 800, 600, "")
	require.NoError(t, err)
	require.Equal(t, 4, full.Len())

	again, err := s.Layout(ctx, 800, 600, "")
	require.NoError(t, err)
	require.Same(t, full, again, "layouts are memoized")

	filtered, err := s.Layout(ctx, 800, 600, "PARSE")
	require.NoError(t, err)
	require.Equal(t, 3, filtered.Len(), "root, parser and parse.go")
	_, shown := filtered.Placement(tree.Parts(tree.Root())[1].ID)
	require.False(t, shown)

	_, err = s.Layout(ctx, 400, 300, "")
	require.NoError(t, err)
	require.Equal(t, 2, s.Cached())
	evicted, err := s.Layout(ctx, 800, 600, "")
	require.NoError(t, err)
	require.NotSame(t, full, evicted, "the least recently used layout was evicted")

	_, err = s.Layout(ctx, 0, 600, "")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidSize), "err = %v", err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Layout(canceled, 800, 600, "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Path: "."}
	require.NoError(t, opts.ValidateAndSetDefaults())
	require.True(t, filepath.IsAbs(opts.Path))
	require.Equal(t, []string{"go"}, opts.Extensions)
	require.Equal(t, "go", opts.Language)
	require.Positive(t, opts.Concurrency)
	require.NotNil(t, opts.Cache)
	require.NotNil(t, opts.Keyer)
	require.NotNil(t, opts.Logger)
	require.Equal(t, DefaultLayoutCacheSize, opts.LayoutCacheSize)

	path := opts.Path
	require.NoError(t, opts.ValidateAndSetDefaults(), "idempotent")
	require.Equal(t, path, opts.Path)

	snapshotOnly := Options{Snapshot: "x.json"}
	require.NoError(t, snapshotOnly.ValidateAndSetDefaults())
	require.Empty(t, snapshotOnly.Extensions)
}

func TestStepDescriptions(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Steps {
		d := s.Description()
		require.NotEqual(t, string(s), d)
		require.False(t, seen[d])
		seen[d] = true
	}
}
