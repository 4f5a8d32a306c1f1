package circuit

import (
	"github.com/matzehuels/benchgraph/pkg/bench"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
)

// Stats holds the whole-graph statistics of a compiled netlist.
type Stats struct {
	Nodes          int // total node count
	Edges          int
	PrimaryInputs  int
	PrimaryOutputs int
	Internal       int // and_nodes in the record
	InvertedEdges  int // not_edges in the record
	LongestPath    int // logic levels on the longest path ending at an output
}

// Analyze computes graph statistics and checks that the graph is acyclic.
//
// Depth is computed for every node with a memoized depth-first traversal
// over incoming edges: a node without incoming edges has depth 0, any other
// node takes the maximum over its incoming edges of the source depth plus
// the edge weight. Gate edges weigh 1. Direct alias edges (BUFF) weigh 0
// because a buffer is a plain wire and adds no logic level; an inverted
// alias such as BUFF(~a) is an inverter and weighs 1 like NOT. LongestPath
// is the maximum depth over PrimaryOutput nodes, or 0 without outputs.
//
// The traversal is iterative, so deep netlists do not grow the goroutine
// stack, and the memo is a slice parallel to node indices. Every node is
// visited, not only those reachable from outputs, so a cycle anywhere fails
// with *errors.CyclicGraphError naming the closing edge.
func Analyze(g *Graph) (Stats, error) {
	st := Stats{Nodes: g.NodeCount(), Edges: g.EdgeCount()}

	for _, n := range g.nodes {
		switch n.Role {
		case PrimaryInput:
			st.PrimaryInputs++
		case PrimaryOutput:
			st.PrimaryOutputs++
		default:
			st.Internal++
		}
	}
	for _, e := range g.edges {
		if e.Polarity == bench.Inverted {
			st.InvertedEdges++
		}
	}

	depth, err := Depths(g)
	if err != nil {
		return Stats{}, err
	}
	for _, n := range g.nodes {
		if n.Role == PrimaryOutput && depth[n.Index] > st.LongestPath {
			st.LongestPath = depth[n.Index]
		}
	}
	return st, nil
}

const (
	unvisited uint8 = iota
	active
	finished
)

type frame struct {
	node int
	next int // position in the node's incoming edge list
}

// Depths returns the logic depth of every node, indexed by node.
// It fails like [Analyze] on cyclic graphs.
func Depths(g *Graph) ([]int, error) {
	n := g.NodeCount()
	depth := make([]int, n)
	state := make([]uint8, n)
	var stack []frame

	for root := 0; root < n; root++ {
		if state[root] != unvisited {
			continue
		}
		state[root] = active
		stack = append(stack[:0], frame{node: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			in := g.Incoming(top.node)

			if top.next < len(in) {
				e := g.edges[in[top.next]]
				top.next++
				switch state[e.Source] {
				case unvisited:
					state[e.Source] = active
					stack = append(stack, frame{node: e.Source})
				case active:
					return nil, cycleError(g, stack, e)
				}
				continue
			}

			d := 0
			for _, ei := range in {
				e := g.edges[ei]
				if c := depth[e.Source] + weight(e); c > d {
					d = c
				}
			}
			depth[top.node] = d
			state[top.node] = finished
			stack = stack[:len(stack)-1]
		}
	}
	return depth, nil
}

func weight(e Edge) int {
	if e.Alias && e.Polarity == bench.Direct {
		return 0
	}
	return 1
}

// cycleError reports the cycle closed by e. Each stack frame is fed by the
// frame above it, so the cycle in dependency order runs from e.Target down
// the stack to e.Source and back to e.Target.
func cycleError(g *Graph, stack []frame, e Edge) error {
	top := len(stack) - 1
	j := top
	for j >= 0 && stack[j].node != e.Source {
		j--
	}

	nodes := []string{g.nodes[e.Target].Name}
	for k := top - 1; k >= j && k >= 0; k-- {
		nodes = append(nodes, g.nodes[stack[k].node].Name)
	}
	nodes = append(nodes, g.nodes[e.Target].Name)

	return &errs.CyclicGraphError{
		From:  g.nodes[e.Source].Name,
		To:    g.nodes[e.Target].Name,
		Nodes: nodes,
	}
}
