package bench

import "strings"

// Polarity says whether a signal reference is taken directly or inverted.
type Polarity uint8

const (
	// Direct is a non-inverted reference (edge code 0).
	Direct Polarity = iota
	// Inverted is a logically negated reference (edge code 1).
	Inverted
)

// Invert returns the opposite polarity.
func (p Polarity) Invert() Polarity { return p ^ 1 }

func (p Polarity) String() string {
	if p == Inverted {
		return "inverted"
	}
	return "direct"
}

// GateType is the closed set of gate kinds a netlist may declare.
// The numeric values are the gate_type codes of the emitted record.
type GateType uint8

const (
	GateNone GateType = iota // not driven by a gate (primary input, undriven output)
	GateAND
	GateOR
	GateNAND
	GateNOR
	GateXOR
	GateXNOR
	GateBUFF
	GateNOT
	GateConst // vdd constant source
)

type gateInfo struct {
	name      string
	inverting bool // implicit output inversion folded into every input edge
	unary     bool
	alias     bool // plain wire, contributes no logic level
}

var gateTable = [...]gateInfo{
	GateNone:  {name: "NONE"},
	GateAND:   {name: "AND"},
	GateOR:    {name: "OR"},
	GateNAND:  {name: "NAND", inverting: true},
	GateNOR:   {name: "NOR", inverting: true},
	GateXOR:   {name: "XOR"},
	GateXNOR:  {name: "XNOR", inverting: true},
	GateBUFF:  {name: "BUFF", unary: true, alias: true},
	GateNOT:   {name: "NOT", inverting: true, unary: true},
	GateConst: {name: "VDD"},
}

var gatesByName = map[string]GateType{
	"AND":  GateAND,
	"OR":   GateOR,
	"NAND": GateNAND,
	"NOR":  GateNOR,
	"XOR":  GateXOR,
	"XNOR": GateXNOR,
	"BUFF": GateBUFF,
	"BUF":  GateBUFF,
	"NOT":  GateNOT,
}

// LookupGate returns the gate type for a BENCH keyword, case-insensitively.
// Only logic gates are returned; NONE and VDD are not keywords.
func LookupGate(name string) (GateType, bool) {
	g, ok := gatesByName[strings.ToUpper(name)]
	return g, ok
}

// Valid reports whether g is a known gate type.
func (g GateType) Valid() bool { return int(g) < len(gateTable) }

func (g GateType) String() string {
	if !g.Valid() {
		return "INVALID"
	}
	return gateTable[g].name
}

// Inverting reports whether the gate inverts relative to its core function
// (NAND, NOR, XNOR, NOT).
func (g GateType) Inverting() bool { return g.Valid() && gateTable[g].inverting }

// Unary reports whether the gate takes exactly one argument.
func (g GateType) Unary() bool { return g.Valid() && gateTable[g].unary }

// Alias reports whether the gate is a plain wire alias (BUFF).
func (g GateType) Alias() bool { return g.Valid() && gateTable[g].alias }

// IsLogic reports whether g is a gate that can appear on the right-hand side
// of a gate declaration.
func (g GateType) IsLogic() bool { return g != GateNone && g != GateConst && g.Valid() }

// Polarity folds the gate's implicit inversion into an argument's literal
// marker and returns the polarity of the resulting edge.
func (g GateType) Polarity(literal Polarity) Polarity {
	if g.Inverting() {
		return literal.Invert()
	}
	return literal
}

// ArityOK reports whether n arguments are acceptable for the gate.
func (g GateType) ArityOK(n int) bool {
	if !g.IsLogic() {
		return false
	}
	if g.Unary() {
		return n == 1
	}
	return n >= 2
}
