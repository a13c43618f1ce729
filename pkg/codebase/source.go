package codebase

import (
	"context"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// SymbolSource answers symbol and reference queries for the files of one
// codebase. Implementations must be safe for concurrent use.
type SymbolSource interface {
	// Symbols returns the top-level symbols of file with their nested
	// children, ordered by position.
	Symbols(ctx context.Context, file *File) ([]*Symbol, error)

	// References returns the locations referencing the symbol declared at
	// selection in file. Locations outside the codebase are omitted.
	References(ctx context.Context, file *File, selection Range) ([]Location, error)
}

// RetrieveOptions configures RetrieveSymbols and RetrieveReferences.
type RetrieveOptions struct {
	// Concurrency bounds the files queried at once. Zero means NumCPU.
	Concurrency int

	// Logger receives warnings about failed queries. Nil discards them.
	Logger *log.Logger

	// Progress is called after each file with the number of finished files.
	// It may be called from several goroutines.
	Progress func(done, total int)
}

func (o RetrieveOptions) withDefaults() RetrieveOptions {
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Progress == nil {
		o.Progress = func(int, int) {}
	}
	return o
}

// RetrieveSymbols sets File.Symbols for every file below root.
//
// A failed query is logged as a warning and leaves the file without symbols.
// Only cancellation of ctx aborts the retrieval.
func RetrieveSymbols(ctx context.Context, root *Folder, src SymbolSource, opts RetrieveOptions) error {
	opts = opts.withDefaults()
	return forEachFile(ctx, root, opts, func(ctx context.Context, f *File) {
		symbols, err := src.Symbols(ctx, f)
		if err != nil {
			if ctx.Err() == nil {
				opts.Logger.Warn("symbol retrieval failed", "file", f.Path, "err", err)
			}
			f.Symbols = nil
			return
		}
		f.Symbols = symbols
		opts.Logger.Debug("retrieved symbols", "file", f.Path, "count", len(symbols))
	})
}

// RetrieveReferences sets Symbol.References for every symbol below root,
// visiting nested symbols before their parents. Namespace symbols are
// skipped.
//
// A failed query is logged as a warning and leaves the symbol without
// references. Only cancellation of ctx aborts the retrieval.
func RetrieveReferences(ctx context.Context, root *Folder, src SymbolSource, opts RetrieveOptions) error {
	opts = opts.withDefaults()
	return forEachFile(ctx, root, opts, func(ctx context.Context, f *File) {
		for _, top := range f.Symbols {
			top.Walk(func(s *Symbol) {
				if s.Kind.IsNamespace() || ctx.Err() != nil {
					return
				}
				refs, err := src.References(ctx, f, s.SelectionRange)
				if err != nil {
					if ctx.Err() == nil {
						opts.Logger.Warn("reference retrieval failed",
							"file", f.Path, "symbol", s.Name, "err", err)
					}
					s.References = nil
					return
				}
				s.References = refs
			})
		}
	})
}

func forEachFile(ctx context.Context, root *Folder, opts RetrieveOptions, fn func(context.Context, *File)) error {
	files := root.AllFiles()
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, f)
			opts.Progress(int(done.Add(1)), len(files))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
