// Package cache stores language-server answers between runs.
//
// Symbol and reference queries dominate the running time of an analysis, and
// their answers only change when the analyzed files change. Keys are derived
// from file fingerprints (see [Keyer]), so stale entries are never read; they
// simply expire.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for teams analyzing one codebase
//   - [NullCache]: stores nothing, used when caching is disabled
//
// All backends implement [Cache] and [Clearer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use: symbol retrieval queries the cache from
// several goroutines.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
