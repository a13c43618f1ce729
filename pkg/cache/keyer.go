package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys for the values codescape caches.
type Keyer interface {
	// SymbolsKey identifies the document symbols of one file version as
	// reported by one symbol source.
	SymbolsKey(source, path string, fingerprint uint64) string

	// ReferencesKey identifies the references to the symbol declared at
	// (line, character) in path. References may come from any file, so the
	// key includes the fingerprint of the whole codebase.
	ReferencesKey(source, codebase, path string, line, character int) string

	// LayoutKey identifies a treemap layout of one analyzed tree.
	LayoutKey(tree string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the layout inputs that change the resulting rectangles.
type LayoutKeyOpts struct {
	Width  float64
	Height float64
	Filter string
}

// DefaultKeyer hashes the key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SymbolsKey returns "symbols:<hash>".
func (DefaultKeyer) SymbolsKey(source, path string, fingerprint uint64) string {
	return hashKey("symbols", source, path, fmt.Sprintf("%016x", fingerprint))
}

// ReferencesKey returns "refs:<hash>".
func (DefaultKeyer) ReferencesKey(source, codebase, path string, line, character int) string {
	return hashKey("refs", source, codebase, path, line, character)
}

// LayoutKey returns a readable key; layouts are memoized in memory only.
func (DefaultKeyer) LayoutKey(tree string, opts LayoutKeyOpts) string {
	return fmt.Sprintf("layout:%s:%gx%g:%s", tree, opts.Width, opts.Height, opts.Filter)
}

// ScopedKeyer prefixes every key of an inner Keyer. It separates entries
// of different language servers or users sharing one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer defaults to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SymbolsKey generates a prefixed symbols key.
func (k *ScopedKeyer) SymbolsKey(source, path string, fingerprint uint64) string {
	return k.prefix + k.inner.SymbolsKey(source, path, fingerprint)
}

// ReferencesKey generates a prefixed references key.
func (k *ScopedKeyer) ReferencesKey(source, codebase, path string, line, character int) string {
	return k.prefix + k.inner.ReferencesKey(source, codebase, path, line, character)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(tree string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(tree, opts)
}

// hashKey joins prefix and the SHA-256 of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
