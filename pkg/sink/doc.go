// Package sink serializes compiled records and delivers them to storage.
//
// # Formats
//
// [Encode] writes a record in one of five [Format]s:
//
//   - json: the record itself (see package record for the field contract)
//   - graphml: GraphML with node_id, node_type, gate_type and
//     num_inverted_predecessors node attributes and an edge_type edge
//     attribute, readable by networkx and yEd
//   - dot: Graphviz source from package nodelink
//   - svg: the rendered diagram
//   - bench: the canonical BENCH netlist of the record
//
// # Sinks
//
// A [Sink] receives records by name. [DirSink] mirrors the input directory
// structure under an output directory and writes one file per format,
// [MongoSink] upserts one document per record into a MongoDB collection and
// [Multi] fans out to several sinks. All sinks are safe for concurrent use
// by batch workers.
package sink
