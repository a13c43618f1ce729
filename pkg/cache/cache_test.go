package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

var errUnavailable = errors.New("server unavailable")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) should miss")
	}

	if err := c.Set(ctx, "symbols:a", []byte(`[{"name":"main"}]`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "symbols:a")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `[{"name":"main"}]` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "symbols:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "symbols:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "symbols:a"); err != nil {
		t.Errorf("Delete of missing key = %v, want nil", err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("Get(%s) after Clear should miss", k)
		}
	}
	if err := c.Set(ctx, "c", []byte("3"), 0); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(Hash([]byte("hello"))) != 64 {
		t.Error("Hash should be 64 hex chars")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	s1 := k.SymbolsKey("gopls", "pkg/a.go", 1)
	s2 := k.SymbolsKey("gopls", "pkg/a.go", 2)
	if s1 == s2 {
		t.Error("different fingerprints should produce different keys")
	}
	if !strings.HasPrefix(s1, "symbols:") {
		t.Errorf("SymbolsKey prefix: %s", s1)
	}

	r1 := k.ReferencesKey("gopls", "tree1", "pkg/a.go", 3, 5)
	r2 := k.ReferencesKey("gopls", "tree2", "pkg/a.go", 3, 5)
	if r1 == r2 {
		t.Error("different codebase fingerprints should produce different keys")
	}

	l1 := k.LayoutKey("t", LayoutKeyOpts{Width: 800, Height: 600})
	l2 := k.LayoutKey("t", LayoutKeyOpts{Width: 800, Height: 600, Filter: "parse"})
	if l1 == l2 {
		t.Error("different filters should produce different layout keys")
	}
	if l1 != "layout:t:800x600:" {
		t.Errorf("LayoutKey = %s", l1)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "team:")

	if got := scoped.LayoutKey("t", LayoutKeyOpts{Width: 1, Height: 2}); got != "team:layout:t:1x2:" {
		t.Errorf("LayoutKey = %s", got)
	}
	if got := scoped.SymbolsKey("gopls", "a.go", 7); !strings.HasPrefix(got, "team:symbols:") {
		t.Errorf("SymbolsKey = %s", got)
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should return nil")
	}
	err := fmt.Errorf("ping: %w", Transient(errUnavailable))
	if !IsTransient(err) {
		t.Error("IsTransient should see through wrapping")
	}
	if !errors.Is(err, errUnavailable) {
		t.Error("transient error should unwrap to its cause")
	}
	if IsTransient(errUnavailable) {
		t.Error("IsTransient should return false for unmarked error")
	}
}

func TestBackoffRetry(t *testing.T) {
	quick := Backoff{Attempts: 3, Delay: time.Millisecond}
	tests := []struct {
		name      string
		policy    Backoff
		failures  int // calls failing before success
		transient bool
		wantCalls int
		wantErr   bool
	}{
		{"succeeds after transient failures", quick, 2, true, 3, false},
		{"permanent failure stops at once", quick, 5, false, 1, true},
		{"gives up after attempts", quick, 5, true, 3, true},
		{"single attempt", Backoff{Attempts: 1, Delay: time.Millisecond}, 5, true, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := tt.policy.Retry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					if tt.transient {
						return Transient(errUnavailable)
					}
					return errUnavailable
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errUnavailable) {
				t.Errorf("Retry() error = %v, want the last failure", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffDelays(t *testing.T) {
	var stamps []time.Time
	policy := Backoff{Attempts: 4, Delay: 10 * time.Millisecond, MaxDelay: 20 * time.Millisecond}
	_ = policy.Retry(context.Background(), func() error {
		stamps = append(stamps, time.Now())
		return Transient(errUnavailable)
	})
	if len(stamps) != 4 {
		t.Fatalf("calls = %d, want 4", len(stamps))
	}
	// waits of 10ms, 20ms and 20ms (capped)
	if total := stamps[3].Sub(stamps[0]); total < 50*time.Millisecond {
		t.Errorf("total wait = %s, want at least 50ms", total)
	}
}

func TestBackoffZeroValue(t *testing.T) {
	if got := (Backoff{}).orDefault(); got.Attempts != DefaultBackoff.Attempts || got.Delay != DefaultBackoff.Delay {
		t.Errorf("orDefault() = %+v, want DefaultBackoff values", got)
	}
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DefaultBackoff.Retry(ctx, func() error {
		return Transient(errUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestNewRedisCache_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisCache with canceled context should fail")
	}
}
