// Package compiler runs the full netlist-to-record pipeline.
//
// Compile chains the stages in their fixed order: [bench.Parse],
// [circuit.Resolve], [circuit.Build], [circuit.Analyze] and [record.Emit].
// The first failing stage ends the compilation and its typed error is
// returned unchanged, so callers can match it with errors.As or by code:
//
//	rec, err := compiler.CompileFile("c17.bench")
//	if errors.Is(err, errors.ErrCodeCyclicGraph) {
//	    // ...
//	}
//
// Compilation is pure and synchronous. Independent netlists may be compiled
// from any number of goroutines.
package compiler

import (
	"io"
	"os"
	"strings"

	"github.com/matzehuels/benchgraph/pkg/bench"
	"github.com/matzehuels/benchgraph/pkg/circuit"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/record"
)

// Version identifies the record layout produced by this compiler. It is
// part of every cache key, so bumping it invalidates cached records.
const Version = "1"

// Compile reads a BENCH netlist from r and returns its record.
func Compile(r io.Reader) (*record.Record, error) {
	decls, err := bench.Parse(r)
	if err != nil {
		return nil, err
	}
	return CompileDeclarations(decls)
}

// CompileString compiles an in-memory netlist.
func CompileString(src string) (*record.Record, error) {
	return Compile(strings.NewReader(src))
}

// CompileFile compiles the netlist stored at path. Errors are wrapped with
// the path; the netlist error code is preserved.
func CompileFile(path string) (*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	rec, err := Compile(f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "compile %s", path)
	}
	return rec, nil
}

// CompileDeclarations compiles already parsed declarations.
func CompileDeclarations(decls []bench.Declaration) (*record.Record, error) {
	res, err := circuit.Resolve(decls)
	if err != nil {
		return nil, err
	}
	g := circuit.Build(res)
	st, err := circuit.Analyze(g)
	if err != nil {
		return nil, err
	}
	return record.Emit(g, st), nil
}

// Graph compiles a netlist up to the analyzed graph, for consumers that
// need the graph itself (rendering) rather than the record.
func Graph(r io.Reader) (*circuit.Graph, circuit.Stats, error) {
	decls, err := bench.Parse(r)
	if err != nil {
		return nil, circuit.Stats{}, err
	}
	res, err := circuit.Resolve(decls)
	if err != nil {
		return nil, circuit.Stats{}, err
	}
	g := circuit.Build(res)
	st, err := circuit.Analyze(g)
	if err != nil {
		return nil, circuit.Stats{}, err
	}
	return g, st, nil
}
