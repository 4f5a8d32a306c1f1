package record

import (
	"fmt"
	"slices"

	"github.com/matzehuels/benchgraph/pkg/bench"
	"github.com/matzehuels/benchgraph/pkg/circuit"
)

// Record is the immutable typed-graph record of one netlist.
// The zero value is the record of an empty netlist.
type Record struct {
	nodeID   []string
	nodeType []int
	gateType []int
	invPreds []int

	edgeSrc  []int
	edgeDst  []int
	edgeType []int

	longestPath int
	pi          int
	po          int
	andNodes    int
	notEdges    int
}

// NumNodes returns the number of nodes.
func (r *Record) NumNodes() int { return len(r.nodeID) }

// NumEdges returns the number of edges.
func (r *Record) NumEdges() int { return len(r.edgeSrc) }

// LongestPath returns the logic depth of the deepest primary output.
func (r *Record) LongestPath() int { return r.longestPath }

// PI returns the number of primary inputs.
func (r *Record) PI() int { return r.pi }

// PO returns the number of primary outputs.
func (r *Record) PO() int { return r.po }

// AndNodes returns the number of internal nodes.
func (r *Record) AndNodes() int { return r.andNodes }

// NotEdges returns the number of inverted edges.
func (r *Record) NotEdges() int { return r.notEdges }

// NodeIDs returns the signal names in node index order.
func (r *Record) NodeIDs() []string { return slices.Clone(r.nodeID) }

// NodeTypes returns the node_type code of every node.
func (r *Record) NodeTypes() []int { return slices.Clone(r.nodeType) }

// GateTypes returns the gate_type code of every node.
func (r *Record) GateTypes() []int { return slices.Clone(r.gateType) }

// InvertedPredecessors returns num_inverted_predecessors.
func (r *Record) InvertedPredecessors() []int { return slices.Clone(r.invPreds) }

// EdgeIndex returns the source row and the target row of edge_index.
func (r *Record) EdgeIndex() [2][]int {
	return [2][]int{slices.Clone(r.edgeSrc), slices.Clone(r.edgeDst)}
}

// EdgeTypes returns the edge_type code of every edge.
func (r *Record) EdgeTypes() []int { return slices.Clone(r.edgeType) }

// Stats returns the scalar statistics in their analyzer form.
func (r *Record) Stats() circuit.Stats {
	return circuit.Stats{
		Nodes:          r.NumNodes(),
		Edges:          r.NumEdges(),
		PrimaryInputs:  r.pi,
		PrimaryOutputs: r.po,
		Internal:       r.andNodes,
		InvertedEdges:  r.notEdges,
		LongestPath:    r.longestPath,
	}
}

// Map returns the record as a map keyed by the record field names. Every
// value is a fresh copy.
func (r *Record) Map() map[string]any {
	return map[string]any{
		"edge_index":                [][]int{slices.Clone(r.edgeSrc), slices.Clone(r.edgeDst)},
		"node_type":                 slices.Clone(r.nodeType),
		"node_id":                   slices.Clone(r.nodeID),
		"gate_type":                 slices.Clone(r.gateType),
		"num_inverted_predecessors": slices.Clone(r.invPreds),
		"edge_type":                 slices.Clone(r.edgeType),
		"num_nodes":                 r.NumNodes(),
		"num_edges":                 r.NumEdges(),
		"longest_path":              r.longestPath,
		"pi":                        r.pi,
		"po":                        r.po,
		"and_nodes":                 r.andNodes,
		"not_edges":                 r.notEdges,
	}
}

// Equal reports whether two records are identical.
func (r *Record) Equal(o *Record) bool {
	return slices.Equal(r.nodeID, o.nodeID) &&
		slices.Equal(r.nodeType, o.nodeType) &&
		slices.Equal(r.gateType, o.gateType) &&
		slices.Equal(r.invPreds, o.invPreds) &&
		slices.Equal(r.edgeSrc, o.edgeSrc) &&
		slices.Equal(r.edgeDst, o.edgeDst) &&
		slices.Equal(r.edgeType, o.edgeType) &&
		r.Stats() == o.Stats()
}

// check verifies the structural invariants of a record. It does not verify
// acyclicity or longest_path; see [Decode] for that.
func (r *Record) check() error {
	n, e := len(r.nodeID), len(r.edgeSrc)

	if len(r.nodeType) != n || len(r.gateType) != n || len(r.invPreds) != n {
		return fmt.Errorf("node arrays differ in length: node_id=%d node_type=%d gate_type=%d num_inverted_predecessors=%d",
			n, len(r.nodeType), len(r.gateType), len(r.invPreds))
	}
	if len(r.edgeDst) != e || len(r.edgeType) != e {
		return fmt.Errorf("edge arrays differ in length: sources=%d targets=%d edge_type=%d",
			e, len(r.edgeDst), len(r.edgeType))
	}

	seen := make(map[string]struct{}, n)
	var roles [3]int
	for i, id := range r.nodeID {
		if id == "" {
			return fmt.Errorf("node %d has an empty id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("node id %q appears twice", id)
		}
		seen[id] = struct{}{}

		t := r.nodeType[i]
		if t < 0 || t > int(circuit.Internal) {
			return fmt.Errorf("node %q: node_type %d out of range", id, t)
		}
		roles[t]++

		if r.gateType[i] < 0 || r.gateType[i] > int(bench.GateConst) {
			return fmt.Errorf("node %q: gate_type %d out of range", id, r.gateType[i])
		}
		g := bench.GateType(r.gateType[i])
		switch circuit.Role(t) {
		case circuit.PrimaryInput:
			if g.IsLogic() {
				return fmt.Errorf("node %q: primary input driven by %s", id, g)
			}
		case circuit.Internal:
			if !g.IsLogic() {
				return fmt.Errorf("node %q: internal node without a driving gate", id)
			}
		}
	}
	if roles[circuit.PrimaryInput] != r.pi || roles[circuit.PrimaryOutput] != r.po || roles[circuit.Internal] != r.andNodes {
		return fmt.Errorf("role counts pi=%d po=%d and_nodes=%d do not match node_type (%d, %d, %d)",
			r.pi, r.po, r.andNodes, roles[0], roles[1], roles[2])
	}

	inDegree := make([]int, n)
	inverted := make([]int, n)
	notEdges := 0
	for i := range e {
		s, d := r.edgeSrc[i], r.edgeDst[i]
		if s < 0 || s >= n || d < 0 || d >= n {
			return fmt.Errorf("edge %d (%d -> %d) references a missing node", i, s, d)
		}
		switch r.edgeType[i] {
		case int(bench.Direct):
		case int(bench.Inverted):
			inverted[d]++
			notEdges++
		default:
			return fmt.Errorf("edge %d: edge_type %d out of range", i, r.edgeType[i])
		}
		inDegree[d]++
	}
	if notEdges != r.notEdges {
		return fmt.Errorf("not_edges=%d but %d edges are inverted", r.notEdges, notEdges)
	}

	for i := range n {
		if inverted[i] != r.invPreds[i] {
			return fmt.Errorf("node %q: num_inverted_predecessors=%d but %d inverted edges arrive",
				r.nodeID[i], r.invPreds[i], inverted[i])
		}
		g := bench.GateType(r.gateType[i])
		if !g.IsLogic() {
			if inDegree[i] != 0 {
				return fmt.Errorf("node %q: %d incoming edges without a driving gate", r.nodeID[i], inDegree[i])
			}
			continue
		}
		if !g.ArityOK(inDegree[i]) {
			return fmt.Errorf("node %q: %s gate with %d inputs", r.nodeID[i], g, inDegree[i])
		}
	}

	if r.longestPath < 0 {
		return fmt.Errorf("longest_path %d is negative", r.longestPath)
	}
	return nil
}
