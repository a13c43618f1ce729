package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/codescape/pkg/artifact"
	"github.com/matzehuels/codescape/pkg/cache"
	"github.com/matzehuels/codescape/pkg/observability"
	"github.com/matzehuels/codescape/pkg/treemap"
)

// SessionOptions configures NewSession.
type SessionOptions struct {
	// Size bounds the number of memoized layouts.
	Size   int
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Session presents one analyzed tree. Layouts are computed on demand and
// memoized per size and filter; concurrent requests for the same layout
// share one computation.
//
// The tree must not be modified while the session is in use.
type Session struct {
	tree    *artifact.Tree
	keyer   cache.Keyer
	logger  *log.Logger
	layouts *lru.Cache[string, *treemap.Layout]
	group   singleflight.Group
}

// NewSession creates a session for tree.
func NewSession(tree *artifact.Tree, opts SessionOptions) (*Session, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultLayoutCacheSize
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	layouts, err := lru.New[string, *treemap.Layout](opts.Size)
	if err != nil {
		return nil, err
	}
	return &Session{tree: tree, keyer: opts.Keyer, logger: opts.Logger, layouts: layouts}, nil
}

// Tree returns the presented tree.
func (s *Session) Tree() *artifact.Tree { return s.tree }

// Layout returns the treemap of the tree within width × height, showing only
// parts whose name or descendants match filter. An empty filter shows all.
func (s *Session) Layout(ctx context.Context, width, height float64, filter string) (*treemap.Layout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := s.keyer.LayoutKey(string(s.tree.Root().ID), cache.LayoutKeyOpts{
		Width:  width,
		Height: height,
		Filter: filter,
	})
	if l, ok := s.layouts.Get(key); ok {
		observability.Cache().OnCacheHit(ctx, "layout")
		return l, nil
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	v, err, _ := s.group.Do(key, func() (any, error) {
		start := time.Now()
		l, err := treemap.Compute(s.tree, treemap.Options{
			Width:  width,
			Height: height,
			Filter: treemap.MatchName(s.tree, filter),
		})
		if err != nil {
			return nil, err
		}
		duration := time.Since(start)
		observability.Pipeline().OnLayout(ctx, l.Len(), duration)
		s.layouts.Add(key, l)
		observability.Cache().OnCacheSet(ctx, "layout", l.Len())
		s.logger.Debug("computed layout",
			"width", width,
			"height", height,
			"filter", filter,
			"placements", l.Len(),
			"feasible", l.Feasible(),
			"duration", duration)
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*treemap.Layout), nil
}

// Cached returns the number of memoized layouts.
func (s *Session) Cached() int { return s.layouts.Len() }
