package bipartite

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrClassConflict is returned by [Graph.AddNode] when a node with the
	// same ID already exists with the other class. An identifier can name
	// a taxon or a metabolite, never both.
	ErrClassConflict = errors.New("node already exists with a different class")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From
	// node does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To
	// node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeClass distinguishes the two sides of the bipartite graph.
type NodeClass int

const (
	// Taxon is an organism node.
	Taxon NodeClass = iota
	// Metabolite is a compound node.
	Metabolite
)

// String returns the serialization name of the class.
func (c NodeClass) String() string {
	if c == Taxon {
		return "taxon"
	}
	return "metabolite"
}

// Node is a vertex with its class. Two nodes are equal iff they have the
// same ID and class.
type Node struct {
	ID    string
	Class NodeClass
}

// Edge is a directed connection between two nodes. Flux is not carried:
// it participates in filtering decisions only, never in topology.
type Edge struct {
	From string
	To   string
}

// Graph is a directed bipartite graph keyed by node ID.
//
// Adding an existing node with the same class is a no-op, and adding an
// existing edge is a no-op ("first occurrence wins"). The zero value is
// not usable; use [New].
//
// Graph is not safe for concurrent mutation. Independent graphs can be
// built and read concurrently without locking.
type Graph struct {
	classes  map[string]NodeClass
	edges    []Edge
	edgeSet  map[Edge]bool
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		classes:  make(map[string]NodeClass),
		edgeSet:  make(map[Edge]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node with the given class. Re-adding a node with the
// same class is a no-op; a class mismatch returns ErrClassConflict.
func (g *Graph) AddNode(id string, class NodeClass) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if existing, ok := g.classes[id]; ok {
		if existing != class {
			return ErrClassConflict
		}
		return nil
	}
	g.classes[id] = class
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding an
// edge that already exists is a no-op.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.classes[from]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.classes[to]; !ok {
		return ErrUnknownTargetNode
	}
	e := Edge{From: from, To: to}
	if g.edgeSet[e] {
		return nil
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// RemoveNode deletes the node and all its incident edges.
// Removing an unknown node is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.classes[id]; !ok {
		return
	}
	delete(g.classes, id)

	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if e.From != id && e.To != id {
			return false
		}
		delete(g.edgeSet, e)
		return true
	})

	for _, to := range g.outgoing[id] {
		g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(s string) bool { return s == id })
	}
	for _, from := range g.incoming[id] {
		g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(s string) bool { return s == id })
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
}

// RemoveIsolates deletes every node with zero total degree and returns
// how many were removed.
func (g *Graph) RemoveIsolates() int {
	var isolated []string
	for id := range g.classes {
		if g.Degree(id) == 0 {
			isolated = append(isolated, id)
		}
	}
	for _, id := range isolated {
		g.RemoveNode(id)
	}
	return len(isolated)
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.classes[id]
	return ok
}

// HasEdge reports whether the directed edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	return g.edgeSet[Edge{From: from, To: to}]
}

// Class returns the node's class and whether the node exists.
func (g *Graph) Class(id string) (NodeClass, bool) {
	c, ok := g.classes[id]
	return c, ok
}

// Nodes returns all nodes sorted by ID for deterministic iteration.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.classes))
	for id, class := range g.classes {
		nodes = append(nodes, Node{ID: id, Class: class})
	}
	slices.SortFunc(nodes, func(a, b Node) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return nodes
}

// NodeIDs returns the IDs of all nodes in the given class, sorted.
func (g *Graph) NodeIDs(class NodeClass) []string {
	var ids []string
	for id, c := range g.classes {
		if c == class {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.classes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Successors returns the IDs this node has edges to.
// The returned slice is a read-only view.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs that have edges to this node.
// The returned slice is a read-only view.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// Neighbors returns the undirected neighborhood of the node, sorted and
// without duplicates.
func (g *Graph) Neighbors(id string) []string {
	seen := make(map[string]bool)
	for _, n := range g.outgoing[id] {
		seen[n] = true
	}
	for _, n := range g.incoming[id] {
		seen[n] = true
	}
	neighbors := make([]string, 0, len(seen))
	for n := range seen {
		neighbors = append(neighbors, n)
	}
	slices.Sort(neighbors)
	return neighbors
}

// Degree returns the total (in + out) degree of the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) Degree(id string) int {
	return len(g.outgoing[id]) + len(g.incoming[id])
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for id, class := range g.classes {
		c.classes[id] = class
	}
	for _, e := range g.edges {
		c.edges = append(c.edges, e)
		c.edgeSet[e] = true
		c.outgoing[e.From] = append(c.outgoing[e.From], e.To)
		c.incoming[e.To] = append(c.incoming[e.To], e.From)
	}
	return c
}
