// Package pkg provides the libraries behind benchgraph, a compiler from
// BENCH gate-level netlists to typed graph records.
//
// # Overview
//
// A netlist declares primary inputs, primary outputs and gates. benchgraph
// turns it into a graph with one node per signal and one edge per gate
// input, tags every node with its role and driving gate and every edge with
// its polarity, and computes whole-graph statistics such as the logic depth
// of the deepest output.
//
// # Architecture
//
// The compilation stages, each in its own package:
//
//	BENCH text
//	    ↓
//	[bench] parse declarations
//	    ↓
//	[circuit] resolve names, build the graph, analyze depth and cycles
//	    ↓
//	[record] emit the immutable typed-graph record
//	    ↓
//	[sink] JSON, GraphML, DOT, SVG, BENCH; directories or MongoDB
//
// [compiler] runs the stages end to end. [pipeline] adds caching through
// [cache], logging and batch orchestration and is what the CLI and HTTP
// server use.
//
// # Quick Start
//
//	rec, err := compiler.CompileString("INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = AND(a, b)\n")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rec.NumNodes(), rec.LongestPath()) // 3 1
//
// # Main Packages
//
// ## Compiler core
//
// [bench] - Tokenizer and line parser for the BENCH format, plus the gate
// and polarity vocabulary.
//
// [circuit] - Name resolution, the compressed incoming-edge graph and the
// iterative depth analysis with cycle reporting.
//
// [record] - The record type, its JSON contract, and decoding with full
// verification.
//
// [compiler] - Single-call compilation from readers, strings and files.
//
// ## Around the core
//
// [pipeline] - Cached compilation and bounded-parallel batch runs.
//
// [cache] - Null, file and Redis caches with content-addressed keys.
//
// [sink] - Output formats and record destinations.
//
// [render/nodelink] - Circuit diagrams via Graphviz.
//
// [config] - TOML configuration.
//
// [observability] - Hooks for compile, cache and HTTP metrics.
//
// [errors] - Error codes and the typed netlist errors.
//
// [bench]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/bench
// [circuit]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/circuit
// [record]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/record
// [compiler]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/compiler
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/cache
// [sink]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/render/nodelink
// [config]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/benchgraph/pkg/errors
package pkg
