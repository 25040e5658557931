// Package graph holds the in-memory knowledge graph built from a
// reader's history. Nodes are books, authors, subjects, awards and
// publication eras; edges are undirected and weighted.
package graph

import (
	"fmt"
	"sort"
)

// Kind identifies what a node represents.
type Kind string

const (
	KindBook    Kind = "book"
	KindAuthor  Kind = "author"
	KindSubject Kind = "subject"
	KindAward   Kind = "award"
	KindEra     Kind = "era"
)

// Node is a vertex in the graph. Ephemeral nodes exist only in
// per-request working copies and never in a session's canonical graph.
type Node struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Label     string         `json:"label"`
	Ephemeral bool           `json:"ephemeral,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Edge connects two nodes. From/To ordering carries no meaning.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason,omitempty"`
}

// Graph is an undirected weighted graph keyed by node ID.
// It is not safe for concurrent mutation; callers that share a graph
// across requests must Clone first.
type Graph struct {
	nodes map[string]*Node
	// adj[a][b] holds the edge between a and b. Both orientations are
	// stored so neighbor walks are a single map lookup.
	adj map[string]map[string]*Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		adj:   make(map[string]map[string]*Edge),
	}
}

// NodeID builds the canonical ID for a node of the given kind.
func NodeID(kind Kind, key string) string {
	return fmt.Sprintf("%s::%s", kind, key)
}

// AddNode inserts or replaces a node.
func (g *Graph) AddNode(n Node) {
	g.nodes[n.ID] = &n
	if g.adj[n.ID] == nil {
		g.adj[n.ID] = make(map[string]*Edge)
	}
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge connects two existing nodes. Re-adding an edge between the
// same pair overwrites the previous weight and reason. Self-loops and
// edges to missing nodes are ignored.
func (g *Graph) AddEdge(from, to string, weight float64, reason string) {
	if from == to {
		return
	}
	if !g.HasNode(from) || !g.HasNode(to) {
		return
	}
	e := &Edge{From: from, To: to, Weight: weight, Reason: reason}
	g.adj[from][to] = e
	g.adj[to][from] = e
}

// Edge returns the edge between two nodes, or nil.
func (g *Graph) Edge(a, b string) *Edge {
	return g.adj[a][b]
}

// Neighbors returns the IDs adjacent to the given node, sorted for
// deterministic output.
func (g *Graph) Neighbors(id string) []string {
	m := g.adj[id]
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for nid := range m {
		out = append(out, nid)
	}
	sort.Strings(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, m := range g.adj {
		total += len(m)
	}
	return total / 2
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodesOfKind returns all nodes of the given kind sorted by ID.
func (g *Graph) NodesOfKind(kind Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges, each once, sorted by (From, To) with the
// lexicographically smaller endpoint first.
func (g *Graph) Edges() []*Edge {
	seen := make(map[[2]string]bool)
	var out []*Edge
	for a, m := range g.adj {
		for b, e := range m {
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			key := [2]string{lo, hi}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, hi := ordered(out[i])
		lj, hj := ordered(out[j])
		if li != lj {
			return li < lj
		}
		return hi < hj
	})
	return out
}

func ordered(e *Edge) (string, string) {
	if e.From < e.To {
		return e.From, e.To
	}
	return e.To, e.From
}

// Clone returns a deep copy. Per-request mutation happens on clones so
// the session's canonical graph stays untouched.
func (g *Graph) Clone() *Graph {
	c := New()
	for id, n := range g.nodes {
		cp := *n
		if n.Attrs != nil {
			cp.Attrs = make(map[string]any, len(n.Attrs))
			for k, v := range n.Attrs {
				cp.Attrs[k] = v
			}
		}
		c.nodes[id] = &cp
		c.adj[id] = make(map[string]*Edge)
	}
	for a, m := range g.adj {
		for b, e := range m {
			if _, done := c.adj[a][b]; done {
				continue
			}
			cp := *e
			c.adj[a][b] = &cp
			c.adj[b][a] = &cp
		}
	}
	return c
}
