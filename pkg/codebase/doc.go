// Package codebase models the raw input of an analysis: a folder tree of code
// files, the symbols a language server reports for each file and the
// locations that reference each symbol.
//
// # Overview
//
// An analysis starts with [ReadFolder], which loads every file whose
// extension is configured, honoring ignore globs and the root .gitignore.
// A [SymbolSource] (usually a language server, see package lsp) then fills
// in [File.Symbols] via [RetrieveSymbols] and [Symbol.References] via
// [RetrieveReferences]. Both steps tolerate collaborator failures: a file or
// symbol whose query fails is logged and treated as having no data.
//
// Paths are root-relative and slash-separated everywhere ("pkg/a.go"), so a
// [Location] can be matched against [File.Path] directly.
//
// # Ranges
//
// Positions are zero-based (line, character) pairs as in the Language
// Server Protocol. [Range.Contains] compares both ends lexicographically.
//
// # Snapshots
//
// [WriteJSON] and [ReadJSON] persist a fully retrieved codebase so that it
// can be analyzed again without a language server.
package codebase
