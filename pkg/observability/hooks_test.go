package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStepStart(ctx, "readFolder")
	p.OnStepComplete(ctx, "readFolder", time.Second, nil)
	p.OnLayout(ctx, 42, time.Millisecond)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "symbols")
	c.OnCacheMiss(ctx, "refs")
	c.OnCacheSet(ctx, "symbols", 1024)

	s := NoopSymbolSourceHooks{}
	s.OnRequest(ctx, "textDocument/documentSymbol")
	s.OnResponse(ctx, "textDocument/documentSymbol", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := SymbolSource().(NoopSymbolSourceHooks); !ok {
		t.Error("SymbolSource() should return NoopSymbolSourceHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customSource := &testSymbolSourceHooks{}
	SetSymbolSourceHooks(customSource)
	if SymbolSource() != customSource {
		t.Error("SetSymbolSourceHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testSymbolSourceHooks struct{ NoopSymbolSourceHooks }
