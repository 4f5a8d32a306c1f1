package circuit

import (
	"slices"

	"github.com/matzehuels/benchgraph/pkg/bench"
)

// Role classifies a node. The numeric values are the node_type codes of the
// emitted record.
type Role uint8

const (
	PrimaryInput  Role = 0
	PrimaryOutput Role = 1
	Internal      Role = 2
)

func (r Role) String() string {
	switch r {
	case PrimaryInput:
		return "PI"
	case PrimaryOutput:
		return "PO"
	case Internal:
		return "Internal"
	}
	return "unknown"
}

// Node is a signal placed in the graph.
type Node struct {
	Index int
	Name  string
	Role  Role
	Gate  bench.GateType // driving gate, GateNone for undriven signals

	invertedPredecessors int
}

// InvertedPredecessors returns the number of Inverted incoming edges.
// It is derived while edges are added and cannot be set directly.
func (n Node) InvertedPredecessors() int { return n.invertedPredecessors }

// Edge connects a gate input to the gate's output signal.
// Source feeds Target.
type Edge struct {
	Source   int
	Target   int
	Polarity bench.Polarity // literal marker folded with the gate inversion
	Alias    bool           // contributed by a BUFF gate
}

// Graph is the typed dependency graph of a netlist.
//
// Nodes are stored in index order and edges in creation order (declaration
// order, then argument order). Incoming adjacency is kept in compressed
// arrays indexed by node. The zero value is an empty graph; use [Build].
// Graph is read-only after Build and safe for concurrent readers.
type Graph struct {
	nodes   []Node
	edges   []Edge
	inStart []int // inEdges[inStart[n]:inStart[n+1]] are the incoming edges of n
	inEdges []int
	index   map[string]int
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node at index i. It panics if i is out of range.
func (g *Graph) Node(i int) Node { return g.nodes[i] }

// Edge returns the edge at index i. It panics if i is out of range.
func (g *Graph) Edge(i int) Edge { return g.edges[i] }

// Nodes returns a copy of all nodes in index order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in creation order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Lookup returns the node index of a signal name.
func (g *Graph) Lookup(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Incoming returns the indices of edges whose target is node n.
// The returned slice must not be modified.
func (g *Graph) Incoming(n int) []int {
	return g.inEdges[g.inStart[n]:g.inStart[n+1]]
}

// InDegree returns the number of incoming edges of node n.
func (g *Graph) InDegree(n int) int { return g.inStart[n+1] - g.inStart[n] }

// Predecessors returns the source node of every incoming edge of n, in edge
// order. Parallel edges yield repeated entries.
func (g *Graph) Predecessors(n int) []int {
	in := g.Incoming(n)
	out := make([]int, len(in))
	for i, e := range in {
		out[i] = g.edges[e].Source
	}
	return out
}
