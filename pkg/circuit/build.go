package circuit

import (
	"maps"

	"github.com/matzehuels/benchgraph/pkg/bench"
)

// Build constructs the typed graph from a resolution.
//
// Roles follow declaration priority: an OUTPUT declaration makes a
// PrimaryOutput; otherwise an INPUT declaration or a constant driver makes a
// PrimaryInput; every other signal is Internal.
//
// Each gate argument becomes one edge from the argument's node to the gate's
// output node. Its polarity is the argument's literal marker folded with the
// gate's own inversion (see [bench.GateType.Polarity]), so NAND, NOR, XNOR
// and NOT need no intermediate inverter node. Build performs no traversal
// and does not detect cycles; that is [Analyze]'s job.
func Build(res *Resolution) *Graph {
	n := len(res.Signals)
	g := &Graph{
		nodes:   make([]Node, n),
		inStart: make([]int, n+1),
		index:   maps.Clone(res.index),
	}
	if g.index == nil {
		g.index = map[string]int{}
	}

	for i, s := range res.Signals {
		g.nodes[i] = Node{Index: i, Name: s.Name, Role: classify(s), Gate: s.Gate}
	}

	nEdges := 0
	for _, gate := range res.Gates {
		nEdges += len(gate.Args)
	}
	g.edges = make([]Edge, 0, nEdges)

	for _, gate := range res.Gates {
		for _, a := range gate.Args {
			e := Edge{
				Source:   a.Node,
				Target:   gate.Target,
				Polarity: gate.Gate.Polarity(a.Polarity),
				Alias:    gate.Gate.Alias(),
			}
			g.edges = append(g.edges, e)
			if e.Polarity == bench.Inverted {
				g.nodes[e.Target].invertedPredecessors++
			}
			g.inStart[e.Target+1]++
		}
	}

	for i := 1; i <= n; i++ {
		g.inStart[i] += g.inStart[i-1]
	}
	g.inEdges = make([]int, len(g.edges))
	fill := make([]int, n)
	copy(fill, g.inStart[:n])
	for ei, e := range g.edges {
		g.inEdges[fill[e.Target]] = ei
		fill[e.Target]++
	}

	return g
}

func classify(s Signal) Role {
	switch {
	case s.IsOutput:
		return PrimaryOutput
	case s.IsInput, s.Gate == bench.GateConst:
		return PrimaryInput
	default:
		return Internal
	}
}
