// Package artifact holds the analyzed hierarchy: folders, files and code
// symbols, each with its sibling dependency graph and metrics.
//
// # Overview
//
// A [Tree] is an arena of [Artifact] values. Every artifact except the root
// has exactly one scope (its parent), stored as an arena index rather than a
// pointer, and owns the ordered list of its parts. The dependencies between
// the parts of one scope live in that scope's [digraph.Graph], keyed by the
// parts' IDs.
//
// What an artifact is, is described by its [Detail]: a [Folder], a [File] or
// a [Symbol]. Code that only needs the shared capabilities calls
// [Artifact.KindName] or [Artifact.Code]; code that needs specifics uses a
// type switch.
//
// # Construction
//
// Trees are built bottom-up. Subtrees may be built independently (one per
// file, in parallel) and grafted into the main tree with [Tree.Attach].
// The set of parts is fixed once construction finishes; later stages only
// write [Metrics] and reorder parts ([Tree.SortParts]).
//
// # Concurrency
//
// A Tree is not safe for concurrent mutation. Distinct trees may be built
// concurrently; a finished tree may be read from many goroutines.
//
// [digraph.Graph]: github.com/matzehuels/codescape/pkg/digraph
package artifact
