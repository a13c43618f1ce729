// Package digraph provides a small directed graph keyed by string IDs, used to
// hold the dependency edges between the sibling parts of one scope.
//
// # Overview
//
// Every folder, file and symbol in an analyzed codebase owns a scope: the
// ordered list of its direct parts. Dependencies between those parts are kept
// in a [Graph] rather than as pointers between artifacts, so graph algorithms
// (see the [transform] subpackage) can run on synthetic graphs in isolation.
//
// Nodes are identified by string IDs and remember their insertion order.
// Callers add nodes in source order, and every algorithm that needs a
// deterministic tie-break ranks nodes by that order ([Graph.Position]).
//
// # Basic Usage
//
//	g := digraph.New()
//	_ = g.AddNode("parse")
//	_ = g.AddNode("lex")
//	_ = g.AddEdge("parse", "lex", 1) // parse references lex once
//	_ = g.AddEdge("parse", "lex", 2) // weight accumulates to 3
//
// # Edges
//
// An edge is unique per (From, To) pair. Adding it again increments its
// [Edge.Weight], the number of references it stands for. The [Edge.Essential]
// flag is owned by transitive reduction and starts out true.
//
// Self-loops are accepted by the graph; the architecture builder never creates
// them, but cycle detection treats a self-loop as a cycle.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Each scope's graph is
// written by exactly one builder goroutine and read afterwards.
//
// [transform]: github.com/matzehuels/codescape/pkg/digraph/transform
package digraph
