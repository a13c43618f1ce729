package pipeline

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codescape/pkg/architecture"
	"github.com/matzehuels/codescape/pkg/cache"
	"github.com/matzehuels/codescape/pkg/codebase"
	"github.com/matzehuels/codescape/pkg/errors"
	"github.com/matzehuels/codescape/pkg/lsp"
	"github.com/matzehuels/codescape/pkg/observability"
)

// Processor runs analyses one at a time. Starting a run cancels the one in
// flight; runs never overlap.
type Processor struct {
	logger *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewProcessor creates a processor. Runs without their own logger log to
// logger; nil discards.
func NewProcessor(logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Processor{logger: logger}
}

// Start cancels the current run, if any, and starts a new one. The returned
// channel yields the run's states and is closed after the terminal state.
//
// Receive until the channel is closed, or cancel ctx to abandon the run.
// A canceled or superseded run ends with a failed state carrying a
// CANCELED error when the receiver is still there to take it.
func (p *Processor) Start(ctx context.Context, opts Options) <-chan State {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	previous := p.done
	p.cancel, p.done = cancel, done
	p.mu.Unlock()

	if opts.Logger == nil {
		opts.Logger = p.logger
	}
	states := make(chan State, 1)
	go func() {
		defer close(done)
		defer cancel()
		defer close(states)
		if previous != nil {
			<-previous
		}
		r := &run{ctx: runCtx, opts: opts, states: states}
		r.execute()
	}()
	return states
}

// Stop cancels the current run and waits for it to end.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// run is the state of one analysis.
type run struct {
	ctx    context.Context
	opts   Options
	states chan<- State
	logger *log.Logger

	root       *codebase.Folder
	source     codebase.SymbolSource
	sourceName string
	closer     io.Closer
	arch       *architecture.Architecture
	session    *Session
	stats      Stats
	current    Step
}

func (r *run) execute() {
	if err := r.opts.ValidateAndSetDefaults(); err != nil {
		r.logger = r.opts.Logger
		if r.logger == nil {
			r.logger = log.New(io.Discard)
		}
		r.fail(err)
		return
	}
	r.logger = r.opts.Logger
	r.stats.Durations = make(map[Step]time.Duration, len(Steps))

	start := time.Now()
	err := r.analyze()
	r.closeSource()
	if err != nil {
		r.fail(err)
		return
	}

	tree := r.arch.Tree
	r.stats.Artifacts = tree.Len()
	r.logger.Info("analysis complete",
		"files", r.stats.Files,
		"artifacts", r.stats.Artifacts,
		"cycles", r.stats.Cycles,
		"duration", time.Since(start))
	r.finish(State{
		Status: StatusSucceeded,
		Step:   StepBuildPresentation,
		Result: &Result{
			Codebase: r.root,
			Source:   r.sourceName,
			Tree:     tree,
			Session:  r.session,
			Stats:    r.stats,
		},
	})
}

func (r *run) analyze() error {
	steps := []struct {
		step Step
		fn   func(context.Context) error
	}{
		{StepReadFolder, r.readFolder},
		{StepConnectToSymbolSource, r.connect},
		{StepRetrieveSymbols, r.retrieveSymbols},
		{StepRetrieveReferences, r.retrieveReferences},
		{StepGenerateArchitecture, r.generateArchitecture},
		{StepCrossScopeDependencies, r.crossScopeDependencies},
		{StepCalculateMetrics, r.calculateMetrics},
		{StepSortArtifacts, r.sortArtifacts},
		{StepBuildPresentation, r.buildPresentation},
	}
	for _, s := range steps {
		if err := r.step(s.step, s.fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) step(s Step, fn func(context.Context) error) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.current = s
	r.emit(State{Status: StatusRunning, Step: s})

	hooks := observability.Pipeline()
	hooks.OnStepStart(r.ctx, string(s))
	start := time.Now()
	err := fn(r.ctx)
	duration := time.Since(start)
	hooks.OnStepComplete(r.ctx, string(s), duration, err)

	r.stats.Durations[s] = duration
	if err != nil {
		return err
	}
	r.logger.Info(s.Description(), "duration", duration)
	return nil
}

func (r *run) readFolder(context.Context) error {
	if r.opts.Snapshot != "" {
		root, source, err := codebase.ImportJSON(r.opts.Snapshot)
		if err != nil {
			return err
		}
		r.root, r.sourceName = root, source
	} else {
		root, err := codebase.ReadFolder(r.opts.Path, codebase.ReadOptions{
			Extensions:  r.opts.Extensions,
			Ignore:      r.opts.Ignore,
			NoGitignore: r.opts.NoGitignore,
			Logger:      r.logger,
		})
		if err != nil {
			return err
		}
		r.root = root
	}
	r.stats.Files = r.root.FileCount()
	r.logger.Debug("read codebase", "files", r.stats.Files)
	return nil
}

// connect selects the symbol source. A server that cannot be reached is
// not an error: the run continues without symbols.
func (r *run) connect(ctx context.Context) error {
	switch {
	case r.opts.Snapshot != "":
		r.logger.Debug("using snapshot data", "source", r.sourceName)
		return nil
	case r.opts.SymbolSource != nil:
		r.source = r.opts.SymbolSource
	default:
		src, err := lsp.Connect(ctx, lsp.ConnectOptions{
			URL:        r.opts.LSPURL,
			Command:    r.opts.LSPCommand,
			Args:       r.opts.LSPArgs,
			RootDir:    r.opts.Path,
			LanguageID: r.opts.Language,
			Logger:     r.logger,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("continuing without symbols", "err", err)
			return nil
		}
		r.source, r.closer = src, src
	}
	r.sourceName = r.opts.sourceName()
	if _, disabled := r.opts.Cache.(*cache.NullCache); !disabled {
		r.source = codebase.NewCachedSource(r.source, r.opts.Cache, r.opts.Keyer, r.sourceName, r.root, r.opts.CacheTTL)
	}
	return nil
}

func (r *run) retrieveSymbols(ctx context.Context) error {
	if r.source == nil {
		return nil
	}
	return codebase.RetrieveSymbols(ctx, r.root, r.source, r.retrieveOptions(StepRetrieveSymbols))
}

func (r *run) retrieveReferences(ctx context.Context) error {
	if r.source == nil {
		return nil
	}
	err := codebase.RetrieveReferences(ctx, r.root, r.source, r.retrieveOptions(StepRetrieveReferences))
	r.closeSource()
	return err
}

func (r *run) retrieveOptions(s Step) codebase.RetrieveOptions {
	return codebase.RetrieveOptions{
		Concurrency: r.opts.Concurrency,
		Logger:      r.logger,
		Progress: func(done, total int) {
			r.progress(State{Status: StatusRunning, Step: s, Done: done, Total: total})
		},
	}
}

func (r *run) generateArchitecture(ctx context.Context) error {
	arch, err := architecture.Build(ctx, r.root, architecture.BuildOptions{
		Concurrency: r.opts.Concurrency,
		Logger:      r.logger,
	})
	if err != nil {
		return err
	}
	r.arch = arch
	r.logger.Debug("built artifact tree", "artifacts", arch.Tree.Len(), "pending", arch.Pending())
	return nil
}

func (r *run) crossScopeDependencies(context.Context) error {
	stats := r.arch.ResolveReferences()
	r.stats.Resolved, r.stats.Unlocated = stats.Resolved, stats.Unlocated
	r.logger.Debug("resolved references",
		"resolved", stats.Resolved,
		"unlocated", stats.Unlocated,
		"nested", stats.Nested)
	return nil
}

func (r *run) calculateMetrics(context.Context) error {
	stats := architecture.Analyze(r.arch.Tree)
	architecture.Aggregate(r.arch.Tree)
	r.stats.Edges, r.stats.Inessential, r.stats.Cycles = stats.Edges, stats.Inessential, stats.Cycles
	r.logger.Debug("analyzed scopes",
		"scopes", stats.Scopes,
		"edges", stats.Edges,
		"inessential", stats.Inessential,
		"cycles", stats.Cycles)
	return nil
}

func (r *run) sortArtifacts(context.Context) error {
	architecture.Sort(r.arch.Tree)
	return nil
}

func (r *run) buildPresentation(context.Context) error {
	session, err := NewSession(r.arch.Tree, SessionOptions{
		Size:   r.opts.LayoutCacheSize,
		Keyer:  r.opts.Keyer,
		Logger: r.logger,
	})
	if err != nil {
		return err
	}
	r.session = session
	return nil
}

func (r *run) closeSource() {
	if r.closer == nil {
		return
	}
	if err := r.closer.Close(); err != nil {
		r.logger.Debug("close language server", "err", err)
	}
	r.closer = nil
}

// emit delivers a step state unless the run was canceled.
func (r *run) emit(s State) {
	select {
	case r.states <- s:
	case <-r.ctx.Done():
	}
}

// progress delivers s only if the receiver is keeping up.
func (r *run) progress(s State) {
	select {
	case r.states <- s:
	default:
	}
}

func (r *run) finish(s State) {
	if r.ctx.Err() != nil {
		r.progress(s)
		return
	}
	r.emit(s)
}

func (r *run) fail(err error) {
	if ctxErr := r.ctx.Err(); ctxErr != nil {
		err = errors.Wrap(errors.ErrCodeCanceled, ctxErr, "analysis canceled")
		r.logger.Info("analysis canceled")
	} else {
		r.logger.Error("analysis failed", "step", r.current, "err", err)
	}
	r.finish(State{Status: StatusFailed, Step: r.current, Err: err, Message: errors.UserMessage(err)})
}
