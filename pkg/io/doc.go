// Package io reads and writes analysis results as JSON.
//
// # Architecture Format
//
// [WriteArchitecture] encodes the finished artifact tree. Every artifact
// carries its metrics and its nested parts; scopes list the dependencies
// between their parts:
//
//	{
//	  "version": 1,
//	  "root": {
//	    "id": "1f0c…",
//	    "name": "parser",
//	    "kind": "Folder",
//	    "metrics": {"loc": 15, "componentRank": 0, "sccIndex": 0, ...},
//	    "parts": [ ... ],
//	    "dependencies": [
//	      {"from": "…", "to": "…", "weight": 2, "essential": true}
//	    ]
//	  }
//	}
//
// Symbols additionally carry "symbolKind" (the LSP SymbolKind number),
// "range" and "selectionRange". Source text is only included when
// [WithCode] is given.
//
// [ReadArchitecture] rebuilds an artifact tree from this format so that a
// saved analysis can be laid out and rendered again. Artifacts receive new
// IDs on import.
//
// # Layout Format
//
// [WriteLayout] encodes a computed treemap: the bounding size, one entry
// per presented artifact (frames in the coordinates of the root) and the
// dependency anchors.
package io
