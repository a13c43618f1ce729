// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; nothing is recorded
// unless an application registers its own implementation at startup. The
// defaults are no-ops, so the analysis packages stay free of any metrics
// backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStepStart(ctx, "retrieveSymbols")
//	// ... query the language server ...
//	observability.Pipeline().OnStepComplete(ctx, "retrieveSymbols", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the analysis pipeline.
type PipelineHooks interface {
	OnStepStart(ctx context.Context, step string)
	OnStepComplete(ctx context.Context, step string, duration time.Duration, err error)
	OnLayout(ctx context.Context, artifacts int, duration time.Duration)
}

// CacheHooks receives events from cache operations. keyType is one of
// "symbols", "refs" or "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// SymbolSourceHooks receives events from language server requests.
type SymbolSourceHooks interface {
	OnRequest(ctx context.Context, method string)
	OnResponse(ctx context.Context, method string, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStepStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStepComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnLayout(context.Context, int, time.Duration)                 {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopSymbolSourceHooks is a no-op implementation of SymbolSourceHooks.
type NoopSymbolSourceHooks struct{}

func (NoopSymbolSourceHooks) OnRequest(context.Context, string)                        {}
func (NoopSymbolSourceHooks) OnResponse(context.Context, string, time.Duration, error) {}

var (
	pipelineHooks     PipelineHooks     = NoopPipelineHooks{}
	cacheHooks        CacheHooks        = NoopCacheHooks{}
	symbolSourceHooks SymbolSourceHooks = NoopSymbolSourceHooks{}
	hooksMu           sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetSymbolSourceHooks registers custom language server hooks. Nil is ignored.
func SetSymbolSourceHooks(h SymbolSourceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		symbolSourceHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// SymbolSource returns the registered language server hooks.
func SymbolSource() SymbolSourceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return symbolSourceHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	symbolSourceHooks = NoopSymbolSourceHooks{}
}
