package record

import (
	"fmt"

	"github.com/matzehuels/benchgraph/pkg/bench"
	"github.com/matzehuels/benchgraph/pkg/circuit"
)

// Emit builds the record of an analyzed graph. st must be the result of
// [circuit.Analyze] on g.
//
// Emit panics if the assembled record is inconsistent (for example when st
// belongs to another graph). That is a programming error, not an input
// error: every graph accepted by Analyze yields a consistent record.
func Emit(g *circuit.Graph, st circuit.Stats) *Record {
	n, e := g.NodeCount(), g.EdgeCount()
	r := &Record{
		nodeID:      make([]string, n),
		nodeType:    make([]int, n),
		gateType:    make([]int, n),
		invPreds:    make([]int, n),
		edgeSrc:     make([]int, e),
		edgeDst:     make([]int, e),
		edgeType:    make([]int, e),
		longestPath: st.LongestPath,
		pi:          st.PrimaryInputs,
		po:          st.PrimaryOutputs,
		andNodes:    st.Internal,
		notEdges:    st.InvertedEdges,
	}

	for i := range n {
		node := g.Node(i)
		r.nodeID[i] = node.Name
		r.nodeType[i] = int(node.Role)
		r.gateType[i] = int(node.Gate)
		r.invPreds[i] = node.InvertedPredecessors()
	}
	for i := range e {
		edge := g.Edge(i)
		r.edgeSrc[i] = edge.Source
		r.edgeDst[i] = edge.Target
		r.edgeType[i] = int(edge.Polarity)
	}

	if err := r.check(); err != nil {
		panic(fmt.Sprintf("record: internal assertion failed: %v", err))
	}
	if st.Nodes != n || st.Edges != e {
		panic(fmt.Sprintf("record: internal assertion failed: stats describe %d nodes and %d edges, graph has %d and %d",
			st.Nodes, st.Edges, n, e))
	}
	return r
}

// Netlist re-serializes a record as BENCH declarations.
//
// Nodes are written in index order. A node contributes its role line
// (INPUT or OUTPUT) followed by its driver line, so compiling the result
// assigns the same node indices. Argument markers are recovered by
// unfolding the gate inversion from each edge polarity. The edge order of a
// recompiled netlist may differ when the source declared gates out of node
// order, but every scalar statistic is preserved.
func Netlist(r *Record) []bench.Declaration {
	n := r.NumNodes()

	in := make([][]int, n)
	for i, d := range r.edgeDst {
		in[d] = append(in[d], i)
	}

	decls := make([]bench.Declaration, 0, n+r.pi+r.po)
	for i := range n {
		name := r.nodeID[i]
		gate := bench.GateType(r.gateType[i])

		switch circuit.Role(r.nodeType[i]) {
		case circuit.PrimaryOutput:
			decls = append(decls, bench.Declaration{Kind: bench.KindOutput, Name: name})
		case circuit.PrimaryInput:
			if gate == bench.GateNone {
				decls = append(decls, bench.Declaration{Kind: bench.KindInput, Name: name})
			}
		}

		switch {
		case gate == bench.GateConst:
			decls = append(decls, bench.Declaration{Kind: bench.KindConst, Name: name, Gate: gate})
		case gate.IsLogic():
			args := make([]bench.Arg, len(in[i]))
			for j, ei := range in[i] {
				// folding is an involution, so applying it again unfolds
				args[j] = bench.Arg{
					Name:     r.nodeID[r.edgeSrc[ei]],
					Polarity: gate.Polarity(bench.Polarity(r.edgeType[ei])),
				}
			}
			decls = append(decls, bench.Declaration{Kind: bench.KindGate, Name: name, Gate: gate, Args: args})
		}
	}
	return decls
}
