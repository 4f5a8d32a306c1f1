// Package circuit turns parsed BENCH declarations into a typed dependency
// graph and analyzes it.
//
// The package covers three stages of the compiler, each a pure function:
//
//  1. [Resolve] assigns dense node indices in first-declaration order and
//     binds every gate argument, including forward references.
//  2. [Build] creates one node per signal and one edge per gate input, with
//     role classification and polarity folding.
//  3. [Analyze] runs a single memoized traversal that yields the longest
//     path and the node and edge counts, and rejects cycles.
//
// # Example
//
//	decls, _ := bench.ParseString(src)
//	res, err := circuit.Resolve(decls)
//	if err != nil {
//	    return err
//	}
//	g := circuit.Build(res)
//	stats, err := circuit.Analyze(g)
//
// # Concurrency
//
// Nothing in this package holds package-level mutable state. A [Graph] is
// read-only once built, so independent netlists can be compiled in parallel
// without synchronization.
package circuit
