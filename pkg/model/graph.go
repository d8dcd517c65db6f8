package model

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// Graph is a snapshot of an attributed entity graph with a prebuilt adjacency
// index. It is optimized for the read patterns of the physics simulator:
// neighbor iteration, degree lookups, and leaf classification.
//
// The zero value is not usable - use [New] or [Build]. Graph is not safe for
// concurrent mutation; the intended lifecycle is build once, read many.
type Graph struct {
	nodes     map[string]*Node
	order     []string // node IDs in insertion order, for deterministic walks
	edges     []Edge
	neighbors map[string][]string // nodeID -> adjacent node IDs (undirected view)
	degree    map[string]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		neighbors: make(map[string][]string),
		degree:    make(map[string]int),
	}
}

// Build constructs a snapshot from a node and edge list. Edges referencing an
// unknown node ID are silently dropped - stub creation for dangling links is
// the upstream pipeline's job, and by the time a snapshot is built a dangling
// edge is simply stale. Duplicate node IDs keep the first occurrence.
func Build(nodes []Node, edges []Edge) *Graph {
	g := New()
	for i := range nodes {
		// First occurrence wins; later duplicates are stale upstream rows.
		_ = g.AddNode(nodes[i])
	}
	for _, e := range edges {
		g.addEdgeIfValid(e)
	}
	return g
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID for an empty ID
// or ErrDuplicateNodeID if the ID is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[node.ID] = &node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds an edge if both endpoints exist; unknown endpoints drop the
// edge silently; a dangling edge is not fatal.
// Returns true if the edge was added.
func (g *Graph) AddEdge(e Edge) bool {
	return g.addEdgeIfValid(e)
}

func (g *Graph) addEdgeIfValid(e Edge) bool {
	if _, ok := g.nodes[e.Source]; !ok {
		return false
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return false
	}
	g.edges = append(g.edges, e)
	g.neighbors[e.Source] = append(g.neighbors[e.Source], e.Target)
	g.neighbors[e.Target] = append(g.neighbors[e.Target], e.Source)
	g.degree[e.Source]++
	g.degree[e.Target]++
	return true
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order. The returned slice contains
// pointers to the actual node structs, so modifications affect the graph.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the IDs adjacent to the node in the undirected view of
// the graph. A node connected by k parallel edges appears k times. The
// returned slice should not be modified.
func (g *Graph) Neighbors(id string) []string { return g.neighbors[id] }

// Degree returns the number of incident edges (undirected). 0 for unknown IDs.
func (g *Graph) Degree(id string) int { return g.degree[id] }

// IsLeaf reports whether the node has exactly one incident edge.
func (g *Graph) IsLeaf(id string) bool { return g.degree[id] == 1 }

// LeafChildCount returns how many of the node's neighbors are leaves. The
// simulator boosts repulsion between hubs proportionally to their leaf fans
// so star clusters don't interleave.
func (g *Graph) LeafChildCount(id string) int {
	count := 0
	for _, nb := range g.neighbors[id] {
		if g.degree[nb] == 1 {
			count++
		}
	}
	return count
}

// HubNeighbor returns the highest-degree neighbor of the node, or "" if the
// node has no neighbors. Degree ties break toward the lexicographically
// smaller ID so the result is stable across runs.
func (g *Graph) HubNeighbor(id string) string {
	best := ""
	bestDegree := -1
	for _, nb := range g.neighbors[id] {
		d := g.degree[nb]
		if d > bestDegree || (d == bestDegree && nb < best) {
			best = nb
			bestDegree = d
		}
	}
	return best
}

// Components returns the connected components of the graph as slices of node
// IDs. Components are ordered by their smallest member's insertion order, and
// IDs within a component are in insertion order, so the result is
// deterministic for a given build sequence.
func (g *Graph) Components() [][]string {
	visited := make(map[string]bool, len(g.nodes))
	var components [][]string

	for _, start := range g.order {
		if visited[start] {
			continue
		}
		// BFS from start
		var comp []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			comp = append(comp, id)
			for _, nb := range g.neighbors[id] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		components = append(components, comp)
	}
	return components
}
