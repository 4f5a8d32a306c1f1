package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/benchgraph/pkg/circuit"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
)

type document struct {
	EdgeIndex               [2][]int `json:"edge_index" bson:"edge_index"`
	NodeType                []int    `json:"node_type" bson:"node_type"`
	NodeID                  []string `json:"node_id" bson:"node_id"`
	NumInvertedPredecessors []int    `json:"num_inverted_predecessors" bson:"num_inverted_predecessors"`
	EdgeType                []int    `json:"edge_type" bson:"edge_type"`
	GateType                []int    `json:"gate_type" bson:"gate_type"`
	NumNodes                int      `json:"num_nodes" bson:"num_nodes"`
	NumEdges                int      `json:"num_edges" bson:"num_edges"`
	LongestPath             int      `json:"longest_path" bson:"longest_path"`
	PI                      int      `json:"pi" bson:"pi"`
	PO                      int      `json:"po" bson:"po"`
	AndNodes                int      `json:"and_nodes" bson:"and_nodes"`
	NotEdges                int      `json:"not_edges" bson:"not_edges"`
}

func (r *Record) document() document {
	// slices.Clone keeps nil for empty input; JSON wants [] for empty arrays
	clone := func(s []int) []int { return append([]int{}, s...) }
	return document{
		EdgeIndex:               [2][]int{clone(r.edgeSrc), clone(r.edgeDst)},
		NodeType:                clone(r.nodeType),
		NodeID:                  append([]string{}, r.nodeID...),
		NumInvertedPredecessors: clone(r.invPreds),
		EdgeType:                clone(r.edgeType),
		GateType:                clone(r.gateType),
		NumNodes:                r.NumNodes(),
		NumEdges:                r.NumEdges(),
		LongestPath:             r.longestPath,
		PI:                      r.pi,
		PO:                      r.po,
		AndNodes:                r.andNodes,
		NotEdges:                r.notEdges,
	}
}

// MarshalJSON encodes the record with the record field names.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.document())
}

// Document returns a value suitable for document stores. Its fields carry
// both json and bson tags matching the record field names.
func (r *Record) Document() any { return r.document() }

// WriteJSON encodes a record as indented JSON and writes it to w.
// The output can be read back with [Decode].
func WriteJSON(w io.Writer, r *Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Decode reads a JSON record from r.
//
// Records read from outside the process are checked like emitted ones, but
// violations are returned as errors with code INVALID_RECORD instead of
// panicking. Beyond the structural checks, Decode re-serializes the record
// with [Netlist], recompiles it and requires identical node order and
// scalar statistics, which rejects cyclic graphs and a wrong longest_path.
// Decode does not close r.
func Decode(r io.Reader) (*Record, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidRecord, err, "decode record")
	}

	rec := &Record{
		nodeID:      slices.Clone(doc.NodeID),
		nodeType:    slices.Clone(doc.NodeType),
		gateType:    slices.Clone(doc.GateType),
		invPreds:    slices.Clone(doc.NumInvertedPredecessors),
		edgeSrc:     slices.Clone(doc.EdgeIndex[0]),
		edgeDst:     slices.Clone(doc.EdgeIndex[1]),
		edgeType:    slices.Clone(doc.EdgeType),
		longestPath: doc.LongestPath,
		pi:          doc.PI,
		po:          doc.PO,
		andNodes:    doc.AndNodes,
		notEdges:    doc.NotEdges,
	}
	if doc.NumNodes != rec.NumNodes() || doc.NumEdges != rec.NumEdges() {
		return nil, errs.New(errs.ErrCodeInvalidRecord,
			"num_nodes=%d num_edges=%d but arrays hold %d nodes and %d edges",
			doc.NumNodes, doc.NumEdges, rec.NumNodes(), rec.NumEdges())
	}
	if err := rec.check(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidRecord, err, "invalid record")
	}
	if err := rec.verify(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Unmarshal is [Decode] for in-memory data.
func Unmarshal(data []byte) (*Record, error) {
	return Decode(bytes.NewReader(data))
}

// ReadFile decodes the JSON record stored at path.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func (r *Record) verify() error {
	// Netlist errors are flattened into the message so that the record
	// error code is not shadowed by the netlist one.
	res, err := circuit.Resolve(Netlist(r))
	if err != nil {
		return errs.New(errs.ErrCodeInvalidRecord, "invalid record: %v", err)
	}
	g := circuit.Build(res)
	st, err := circuit.Analyze(g)
	if err != nil {
		return errs.New(errs.ErrCodeInvalidRecord, "invalid record: %v", err)
	}
	if st != r.Stats() {
		return errs.New(errs.ErrCodeInvalidRecord, "stats %+v do not match the graph (%+v)", r.Stats(), st)
	}
	for i := range r.NumNodes() {
		if g.Node(i).Name != r.nodeID[i] {
			return errs.New(errs.ErrCodeInvalidRecord, "node %d is %q, recompiles as %q", i, r.nodeID[i], g.Node(i).Name)
		}
	}
	return nil
}
