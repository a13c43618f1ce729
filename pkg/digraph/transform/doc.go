// Package transform provides the analyses run over one scope's dependency
// graph: strongly connected components, their topological ranking, weakly
// connected components and transitive reduction.
//
// # Overview
//
// Cycle and component detection delegate to gonum's graph/topo package.
// The digraph's string IDs are mapped onto gonum int64 node IDs using each
// node's insertion position, so results can be mapped back without a lookup
// table and every ordering decision falls back to source order.
//
// # Strongly Connected Components
//
// [StronglyConnected] returns the SCCs with members sorted by position.
// [TopologicalOrder] ranks them with Kahn's algorithm over the condensation,
// picking the ready SCC with the smallest member position first. An SCC is
// cyclic ([IsCycle]) when it has more than one member or its only member has
// a self-loop.
//
// # Components
//
// [WeakComponents] ignores edge direction and ranks components by the position
// of their first member. Components are the units the treemap layout may cut
// apart freely.
//
// # Transitive Reduction
//
// [TransitiveReduction] flags edges as inessential instead of removing them.
// An edge A→B is inessential if B stays reachable from A over the other
// essential edges. Edges are visited ordered by the position of From, then
// To, which makes the outcome deterministic on cyclic graphs as well.
//
// # Usage
//
// [Analyze] bundles the component analyses into one [Analysis]:
//
//	a := transform.Analyze(g)
//	transform.TransitiveReduction(g)
//	fmt.Println(a.SCCIndex["parse"], a.Cyclic["parse"])
package transform
