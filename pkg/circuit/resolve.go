package circuit

import (
	"github.com/matzehuels/benchgraph/pkg/bench"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
)

// Signal is a named wire with its declarations merged.
type Signal struct {
	Name     string
	Index    int            // dense node index, first-declaration order
	IsInput  bool           // declared with INPUT(name)
	IsOutput bool           // declared with OUTPUT(name)
	Gate     bench.GateType // driver, GateNone if undriven

	inputSite  errs.Site
	outputSite errs.Site
	driverSite errs.Site
}

// Driven reports whether a gate or constant defines the signal.
func (s Signal) Driven() bool { return s.Gate != bench.GateNone }

// ResolvedArg is a gate argument bound to a node index.
type ResolvedArg struct {
	Node     int
	Polarity bench.Polarity // literal marker, before gate folding
}

// ResolvedGate is a gate declaration with its output and arguments bound.
type ResolvedGate struct {
	Target int
	Gate   bench.GateType
	Args   []ResolvedArg
	Line   int
}

// Resolution is the output of [Resolve]: every signal with its node index
// and every gate with its references bound.
type Resolution struct {
	Signals []Signal
	Gates   []ResolvedGate
	index   map[string]int
}

// Lookup returns the node index of a signal name.
func (r *Resolution) Lookup(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Resolve assigns node indices and binds gate arguments.
//
// Resolution runs in two passes so that gate arguments may name signals
// declared later in the file. The first pass walks the declarations in
// order, gives every first-seen declared name the next dense index and
// rejects incompatible redeclarations with a
// *errors.DuplicateDeclarationError. The second pass binds each gate
// argument and fails with *errors.UnresolvedReferenceError for the first
// argument naming a signal that is never declared.
func Resolve(decls []bench.Declaration) (*Resolution, error) {
	res := &Resolution{index: make(map[string]int, len(decls))}

	nGates := 0
	for _, d := range decls {
		if err := res.declare(d); err != nil {
			return nil, err
		}
		if d.Kind == bench.KindGate {
			nGates++
		}
	}

	res.Gates = make([]ResolvedGate, 0, nGates)
	for _, d := range decls {
		if d.Kind != bench.KindGate {
			continue
		}
		g := ResolvedGate{
			Target: res.index[d.Name],
			Gate:   d.Gate,
			Args:   make([]ResolvedArg, len(d.Args)),
			Line:   d.Line,
		}
		for i, a := range d.Args {
			idx, ok := res.index[a.Name]
			if !ok {
				return nil, &errs.UnresolvedReferenceError{Signal: a.Name, Line: d.Line}
			}
			g.Args[i] = ResolvedArg{Node: idx, Polarity: a.Polarity}
		}
		res.Gates = append(res.Gates, g)
	}

	return res, nil
}

func (r *Resolution) declare(d bench.Declaration) error {
	idx, ok := r.index[d.Name]
	if !ok {
		idx = len(r.Signals)
		r.index[d.Name] = idx
		r.Signals = append(r.Signals, Signal{Name: d.Name, Index: idx})
	}
	s := &r.Signals[idx]
	site := errs.Site{Line: d.Line, Kind: d.Site()}

	switch d.Kind {
	case bench.KindInput:
		if s.IsInput {
			return duplicate(s.Name, s.inputSite, site)
		}
		if s.Driven() {
			return duplicate(s.Name, s.driverSite, site)
		}
		s.IsInput, s.inputSite = true, site

	case bench.KindOutput:
		if s.IsOutput {
			return duplicate(s.Name, s.outputSite, site)
		}
		s.IsOutput, s.outputSite = true, site

	case bench.KindGate, bench.KindConst:
		if s.Driven() {
			return duplicate(s.Name, s.driverSite, site)
		}
		if s.IsInput {
			return duplicate(s.Name, s.inputSite, site)
		}
		s.Gate, s.driverSite = d.Gate, site
	}
	return nil
}

func duplicate(name string, first, second errs.Site) error {
	return &errs.DuplicateDeclarationError{Signal: name, First: first, Second: second}
}
