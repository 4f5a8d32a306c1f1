// Package bench reads and writes gate-level netlists in the BENCH format.
//
// # Format
//
// A netlist is line oriented, one declaration per line:
//
//	# full-line comment
//	INPUT(a)
//	OUTPUT(y)
//	n1 = NAND(a, ~b)
//	y  = BUFF(n1)
//	c1 = vdd
//
// Gate arguments may carry a leading negation marker ('~' or '!'). Gate
// keywords are case-insensitive and drawn from AND, OR, NAND, NOR, XOR,
// XNOR, BUFF (alias BUF) and NOT. BUFF and NOT take exactly one argument,
// every other gate at least two.
//
// # Gate Polarity
//
// [GateType] is a closed set. Each gate knows whether it inverts relative to
// its core function, and [GateType.Polarity] folds that inversion into the
// literal marker of each argument. The graph builder uses the folded
// polarity as the edge type instead of materializing inverter nodes.
//
// # Parsing
//
// [Parse] is a pure text-to-declarations transform. It preserves file order
// and reports the first malformed line as an [errors.SyntaxError]. Name
// resolution and structural checks happen later, in package circuit.
//
// [errors.SyntaxError]: github.com/matzehuels/benchgraph/pkg/errors.SyntaxError
package bench
