// Package pipeline runs the compiler for the CLI and the HTTP server with
// caching, logging and batch orchestration around it.
//
// # Single netlists
//
// A [Runner] compiles one netlist at a time and consults its cache first.
// Records are cached as JSON under content-addressed keys, so an unchanged
// netlist is never compiled twice:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	res, err := runner.CompileFile(ctx, "c17.bench")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Record.LongestPath(), res.Cached)
//
// # Batches
//
// [Runner.Batch] discovers netlists under a directory and compiles them on
// a bounded worker pool. A failing file is recorded in the [Report] and
// does not stop the others; cancelling the context stops new files from
// starting and counts them as skipped.
//
//	report, err := runner.Batch(ctx, pipeline.BatchOptions{
//	    Root:      "benchmarks/",
//	    Recursive: true,
//	    Sink:      dirSink,
//	})
package pipeline

import (
	"time"

	"github.com/matzehuels/benchgraph/pkg/record"
)

// DefaultExtension is the netlist file extension used for discovery.
const DefaultExtension = ".bench"

// Result is the outcome of compiling one netlist.
type Result struct {
	Name     string
	Record   *record.Record
	Cached   bool          // served from the cache
	Duration time.Duration // wall time including cache access
}
