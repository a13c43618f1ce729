package codebase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/codescape/pkg/cache"
	"github.com/matzehuels/codescape/pkg/observability"
)

// CachedSource wraps a SymbolSource with a cache. Symbol answers are keyed
// by the file fingerprint; reference answers additionally by the fingerprint
// of the whole codebase, because references may come from any file.
type CachedSource struct {
	inner    SymbolSource
	cache    cache.Cache
	keyer    cache.Keyer
	name     string
	codebase string
	ttl      time.Duration
}

// NewCachedSource wraps inner. name identifies the source (for example the
// language server command) and root is the codebase the answers belong to.
func NewCachedSource(inner SymbolSource, c cache.Cache, keyer cache.Keyer, name string, root *Folder, ttl time.Duration) *CachedSource {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedSource{
		inner:    inner,
		cache:    c,
		keyer:    keyer,
		name:     name,
		codebase: fmt.Sprintf("%016x", root.Fingerprint()),
		ttl:      ttl,
	}
}

// Symbols returns cached symbols of file or queries the inner source.
func (s *CachedSource) Symbols(ctx context.Context, file *File) ([]*Symbol, error) {
	key := s.keyer.SymbolsKey(s.name, file.Path, file.Fingerprint())
	var symbols []*Symbol
	if s.load(ctx, "symbols", key, &symbols) {
		return symbols, nil
	}
	symbols, err := s.inner.Symbols(ctx, file)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "symbols", key, symbols)
	return symbols, nil
}

// References returns cached references or queries the inner source.
func (s *CachedSource) References(ctx context.Context, file *File, selection Range) ([]Location, error) {
	key := s.keyer.ReferencesKey(s.name, s.codebase, file.Path, selection.Start.Line, selection.Start.Character)
	var refs []Location
	if s.load(ctx, "refs", key, &refs) {
		return refs, nil
	}
	refs, err := s.inner.References(ctx, file, selection)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "refs", key, refs)
	return refs, nil
}

// load reports a hit only for entries that decode; cache errors count as
// misses so a broken cache never fails an analysis.
func (s *CachedSource) load(ctx context.Context, keyType, key string, v any) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (s *CachedSource) store(ctx context.Context, keyType, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if s.cache.Set(ctx, key, data, s.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
}

var _ SymbolSource = (*CachedSource)(nil)
