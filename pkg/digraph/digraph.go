package digraph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidWeight is returned by [Graph.AddEdge] for a non-positive weight.
	ErrInvalidWeight = errors.New("edge weight must be positive")
)

// Edge is a directed, weighted dependency between two nodes.
type Edge struct {
	From string // Referencing node
	To   string // Referenced node

	// Weight counts the references folded into this edge.
	Weight int

	// Essential is false when the edge is implied by a longer path through
	// other essential edges. New edges are essential.
	Essential bool
}

type edgeKey struct{ from, to string }

// Graph is a directed graph with insertion-ordered nodes and at most one edge
// per ordered node pair.
//
// The zero value is not usable - use New to create a valid Graph instance.
type Graph struct {
	nodes    []string
	position map[string]int
	edges    []*Edge
	byKey    map[edgeKey]*Edge
	outgoing map[string][]string // nodeID -> targets, insertion order
	incoming map[string][]string // nodeID -> sources, insertion order
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		position: make(map[string]int),
		byKey:    make(map[edgeKey]*Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode appends a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the ID is already present.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.position[id]; exists {
		return ErrDuplicateNodeID
	}
	g.position[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
	return nil
}

// AddEdge adds weight to the edge from→to, creating it if needed.
// Both nodes must already exist.
func (g *Graph) AddEdge(from, to string, weight int) error {
	if _, ok := g.position[from]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.position[to]; !ok {
		return ErrUnknownTargetNode
	}
	if weight <= 0 {
		return ErrInvalidWeight
	}
	key := edgeKey{from, to}
	if e, ok := g.byKey[key]; ok {
		e.Weight += weight
		return nil
	}
	e := &Edge{From: from, To: to, Weight: weight, Essential: true}
	g.byKey[key] = e
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// SetEssential updates the essential flag of an existing edge.
// It is a no-op when the edge does not exist.
func (g *Graph) SetEssential(from, to string, essential bool) {
	if e, ok := g.byKey[edgeKey{from, to}]; ok {
		e.Essential = essential
	}
}

// Edge returns a copy of the edge from→to.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	e, ok := g.byKey[edgeKey{from, to}]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.byKey[edgeKey{from, to}]
	return ok
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.position[id]
	return ok
}

// Nodes returns the node IDs in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// Edges returns copies of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = *e
	}
	return out
}

// EssentialEdges returns copies of the essential edges in insertion order.
func (g *Graph) EssentialEdges() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Essential {
			out = append(out, *e)
		}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Position returns the insertion index of a node, or -1 if it is unknown.
func (g *Graph) Position(id string) int {
	if p, ok := g.position[id]; ok {
		return p
	}
	return -1
}

// Children returns the targets of the node's outgoing edges.
// The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of the node's incoming edges.
// The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges of the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges of the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// EssentialOutDegree counts the node's outgoing essential edges.
func (g *Graph) EssentialOutDegree(id string) int {
	n := 0
	for _, to := range g.outgoing[id] {
		if g.byKey[edgeKey{id, to}].Essential {
			n++
		}
	}
	return n
}

// EssentialInDegree counts the node's incoming essential edges.
func (g *Graph) EssentialInDegree(id string) int {
	n := 0
	for _, from := range g.incoming[id] {
		if g.byKey[edgeKey{from, id}].Essential {
			n++
		}
	}
	return n
}

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
