// Package record holds the canonical typed-graph record of a compiled
// netlist.
//
// A [Record] is an immutable snapshot of a circuit graph laid out as
// index-ordered parallel arrays, the shape graph learning frameworks expect:
//
//	edge_index                 [2][E] source and target node indices
//	node_id                    [N] signal names
//	node_type                  [N] 0=PI, 1=PO, 2=Internal
//	gate_type                  [N] driving gate code, 0 if undriven
//	num_inverted_predecessors  [N] Inverted incoming edges per node
//	edge_type                  [E] 0=Direct, 1=Inverted
//
// plus the scalars num_nodes, num_edges, longest_path, pi, po, and_nodes
// and not_edges.
//
// [Emit] builds a record from an analyzed [circuit.Graph] and panics if the
// result violates a structural invariant, which cannot happen for graphs
// produced by the compiler. [Decode] reads records from outside the process
// (cache entries, files) and reports the same violations as errors.
//
// Accessors return copies; no method mutates a Record after emission.
package record
