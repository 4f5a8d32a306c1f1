package bench

import "strings"

// Kind distinguishes the declaration forms of a netlist line.
type Kind uint8

const (
	// KindInput is an INPUT(name) role declaration.
	KindInput Kind = iota
	// KindOutput is an OUTPUT(name) role declaration.
	KindOutput
	// KindGate is a name = GATE(args...) declaration.
	KindGate
	// KindConst is a name = vdd constant source.
	KindConst
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "INPUT"
	case KindOutput:
		return "OUTPUT"
	case KindGate:
		return "gate"
	case KindConst:
		return "constant"
	}
	return "unknown"
}

// Arg is a gate argument: a signal name with its literal polarity marker.
type Arg struct {
	Name     string
	Polarity Polarity
}

func (a Arg) String() string {
	if a.Polarity == Inverted {
		return "~" + a.Name
	}
	return a.Name
}

// Declaration is one parsed netlist line.
//
// Name is the declared signal: the role target for INPUT/OUTPUT, the driven
// signal for gates and constants. Gate and Args are set only for KindGate.
type Declaration struct {
	Kind Kind
	Name string
	Gate GateType
	Args []Arg
	Line int // 1-based source line, 0 for synthesized declarations
}

// Drives reports whether the declaration defines the value of its signal.
func (d Declaration) Drives() bool { return d.Kind == KindGate || d.Kind == KindConst }

// Site describes the declaration for error messages ("INPUT", "gate NAND").
func (d Declaration) Site() string {
	if d.Kind == KindGate {
		return "gate " + d.Gate.String()
	}
	return d.Kind.String()
}

// String renders the declaration as a canonical BENCH line.
func (d Declaration) String() string {
	var b strings.Builder
	switch d.Kind {
	case KindInput, KindOutput:
		b.WriteString(d.Kind.String())
		b.WriteByte('(')
		b.WriteString(d.Name)
		b.WriteByte(')')
	case KindConst:
		b.WriteString(d.Name)
		b.WriteString(" = vdd")
	case KindGate:
		b.WriteString(d.Name)
		b.WriteString(" = ")
		b.WriteString(d.Gate.String())
		b.WriteByte('(')
		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}
