package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/codescape/pkg/codebase"
)

// Source is a codebase.SymbolSource backed by a language server.
type Source struct {
	client     *Client
	rootPath   string // absolute, slash-separated
	languageID string

	mu     sync.Mutex
	opened map[string]bool
}

var _ codebase.SymbolSource = (*Source)(nil)

// NewSource serves symbols of the codebase at rootDir through an
// initialized client.
func NewSource(client *Client, rootDir, languageID string) (*Source, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	return &Source{
		client:     client,
		rootPath:   filepath.ToSlash(abs),
		languageID: languageID,
		opened:     make(map[string]bool),
	}, nil
}

// RootURI returns the file URI of the codebase root.
func (s *Source) RootURI() string { return pathURI(s.rootPath) }

// Symbols returns the document symbols of file.
func (s *Source) Symbols(ctx context.Context, file *codebase.File) ([]*codebase.Symbol, error) {
	uri, err := s.open(file)
	if err != nil {
		return nil, err
	}
	var raw []documentSymbol
	params := documentSymbolParams{TextDocument: textDocumentIdentifier{URI: uri}}
	if err := s.client.Call(ctx, "textDocument/documentSymbol", params, &raw); err != nil {
		return nil, err
	}
	symbols := make([]*codebase.Symbol, 0, len(raw))
	for _, r := range raw {
		symbols = append(symbols, r.toSymbol())
	}
	return symbols, nil
}

// References returns the locations referencing the symbol whose name spans
// selection. The declaration itself is not included.
func (s *Source) References(ctx context.Context, file *codebase.File, selection codebase.Range) ([]codebase.Location, error) {
	uri, err := s.open(file)
	if err != nil {
		return nil, err
	}
	var params referenceParams
	params.TextDocument.URI = uri
	params.Position = selection.Start

	var raw []location
	if err := s.client.Call(ctx, "textDocument/references", params, &raw); err != nil {
		return nil, err
	}
	locs := make([]codebase.Location, 0, len(raw))
	for _, l := range raw {
		locs = append(locs, codebase.Location{Path: s.relPath(l.URI), Range: l.Range})
	}
	return locs, nil
}

// open sends didOpen for file unless it was sent before.
func (s *Source) open(file *codebase.File) (string, error) {
	uri := pathURI(s.rootPath + "/" + file.Path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened[file.Path] {
		return uri, nil
	}
	err := s.client.Notify("textDocument/didOpen", didOpenParams{TextDocument: textDocumentItem{
		URI:        uri,
		LanguageID: s.languageID,
		Version:    1,
		Text:       file.Content,
	}})
	if err != nil {
		return "", err
	}
	s.opened[file.Path] = true
	return uri, nil
}

// relPath maps a file URI below the root to a root-relative path. Other
// URIs are returned as their path, or unchanged if they do not parse.
func (s *Source) relPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	if rel, ok := strings.CutPrefix(u.Path, s.rootPath+"/"); ok {
		return rel
	}
	return u.Path
}

const shutdownWait = 5 * time.Second

// Close shuts the server down and closes the connection.
func (s *Source) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	_ = s.client.Shutdown(ctx)
	return s.client.Close()
}

func pathURI(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
