// Package architecture turns a codebase with retrieved symbols and
// references into an analyzed [artifact.Tree].
//
// # Stages
//
// The stages run in this order, each one a separate pipeline step:
//
//  1. [Build] creates one artifact per folder, file and symbol and records
//     the dependencies that can be decided inside a single file.
//  2. [Architecture.ResolveReferences] places the remaining cross-file
//     references at the lowest scope shared by both ends.
//  3. [Analyze] finds cycles, components and essential edges per scope.
//  4. [Aggregate] rolls lines of code and cyclic portions up the tree.
//  5. [Sort] orders the parts of every scope for the treemap layout.
//
// # Dependency Direction
//
// A reference located inside artifact A to a symbol defined by artifact B
// makes A depend on B: the edge runs A → B. Edges only ever connect siblings.
// References between an artifact and something it contains are implied by
// the nesting and never become edges.
//
// [artifact.Tree]: github.com/matzehuels/codescape/pkg/artifact
package architecture
