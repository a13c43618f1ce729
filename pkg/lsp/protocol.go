package lsp

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/codescape/pkg/codebase"
)

// JSON-RPC 2.0

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      *int64 `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

// message is any incoming JSON-RPC message: a response has an ID and no
// method, a request has both, a notification only a method.
type message struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

// RPCError is an error response from the server.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("lsp error %d: %s", e.Code, e.Message)
}

// LSP types

type initializeParams struct {
	ProcessID    int                `json:"processId"`
	RootURI      string             `json:"rootUri"`
	Capabilities clientCapabilities `json:"capabilities"`
}

type clientCapabilities struct {
	TextDocument struct {
		DocumentSymbol struct {
			HierarchicalDocumentSymbolSupport bool `json:"hierarchicalDocumentSymbolSupport"`
		} `json:"documentSymbol"`
	} `json:"textDocument"`
}

type textDocumentIdentifier struct {
	URI string `json:"uri"`
}

type textDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type didOpenParams struct {
	TextDocument textDocumentItem `json:"textDocument"`
}

type documentSymbolParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
}

type referenceParams struct {
	TextDocument textDocumentIdentifier `json:"textDocument"`
	Position     codebase.Position      `json:"position"`
	Context      struct {
		IncludeDeclaration bool `json:"includeDeclaration"`
	} `json:"context"`
}

type location struct {
	URI   string         `json:"uri"`
	Range codebase.Range `json:"range"`
}

// documentSymbol decodes both hierarchical DocumentSymbol and flat
// SymbolInformation results; the latter carry a Location instead of ranges.
type documentSymbol struct {
	Name           string           `json:"name"`
	Kind           int              `json:"kind"`
	Range          codebase.Range   `json:"range"`
	SelectionRange codebase.Range   `json:"selectionRange"`
	Children       []documentSymbol `json:"children,omitempty"`
	Location       *location        `json:"location,omitempty"`
}

func (s documentSymbol) toSymbol() *codebase.Symbol {
	sym := &codebase.Symbol{
		Name:           s.Name,
		Kind:           codebase.SymbolKind(s.Kind),
		Range:          s.Range,
		SelectionRange: s.SelectionRange,
	}
	if s.Location != nil {
		sym.Range, sym.SelectionRange = s.Location.Range, s.Location.Range
	}
	for _, c := range s.Children {
		sym.Children = append(sym.Children, c.toSymbol())
	}
	return sym
}
