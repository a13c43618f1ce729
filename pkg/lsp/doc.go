// Package lsp is a minimal language server client that serves as the
// symbol source of an analysis.
//
// # Transports
//
// Messages are JSON-RPC 2.0 bodies framed with a Content-Length header.
// [NewStreamTransport] speaks that framing over a byte stream, which is how
// [StartProcess] talks to a server on stdio. [DialWebSocket] connects to a
// language service that carries one framed message per binary WebSocket
// message and forwards the server's log output as text messages.
//
// # Client and Source
//
// A [Client] matches responses to requests by ID and answers requests the
// server sends with an empty result. [Source] implements
// codebase.SymbolSource on top of it: it opens each file once and asks for
// document symbols and references, translating between file URIs and
// root-relative paths.
//
// Typical use:
//
//	src, err := lsp.Connect(ctx, lsp.ConnectOptions{Command: "gopls", RootDir: dir, LanguageID: "go"})
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
package lsp
