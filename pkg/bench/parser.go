package bench

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
)

// maxLineBytes bounds a single netlist line. Generated netlists put one
// declaration per line, so this is generous.
const maxLineBytes = 1 << 20

const nameExpr = `[^\s(),=~!#]+`

var (
	roleRe   = regexp.MustCompile(`^(?i:(INPUT|OUTPUT))\s*\(\s*(` + nameExpr + `)\s*\)$`)
	assignRe = regexp.MustCompile(`^(` + nameExpr + `)\s*=\s*(.*)$`)
	callRe   = regexp.MustCompile(`^([A-Za-z]+)\s*\((.*)\)$`)
	constRe  = regexp.MustCompile(`^(?i:vdd)$`)
	argRe    = regexp.MustCompile(`^([~!]?)\s*(` + nameExpr + `)$`)
)

// Parse reads a BENCH netlist and returns its declarations in file order.
//
// Blank lines and full-line comments (starting with '#') are skipped. Any
// other line must be a role declaration, a gate declaration or a vdd
// constant; otherwise Parse returns a *errors.SyntaxError carrying the line
// number and text. Parse stops at the first error.
func Parse(r io.Reader) ([]Declaration, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var decls []Declaration
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read netlist: %w", err)
	}
	return decls, nil
}

// ParseString is a convenience wrapper around [Parse] for in-memory netlists.
func ParseString(s string) ([]Declaration, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(line string, lineNo int) (Declaration, error) {
	if m := roleRe.FindStringSubmatch(line); m != nil {
		kind := KindInput
		if strings.EqualFold(m[1], "OUTPUT") {
			kind = KindOutput
		}
		return Declaration{Kind: kind, Name: m[2], Line: lineNo}, nil
	}

	m := assignRe.FindStringSubmatch(line)
	if m == nil {
		return Declaration{}, &errs.SyntaxError{Line: lineNo, Text: line}
	}
	name, rhs := m[1], strings.TrimSpace(m[2])

	if constRe.MatchString(rhs) {
		return Declaration{Kind: KindConst, Name: name, Gate: GateConst, Line: lineNo}, nil
	}

	call := callRe.FindStringSubmatch(rhs)
	if call == nil {
		return Declaration{}, &errs.SyntaxError{Line: lineNo, Text: line}
	}
	gate, ok := LookupGate(call[1])
	if !ok {
		return Declaration{}, &errs.SyntaxError{
			Line:   lineNo,
			Text:   line,
			Reason: "unknown gate type " + call[1],
		}
	}

	args, reason := parseArgs(call[2])
	if reason != "" {
		return Declaration{}, &errs.SyntaxError{Line: lineNo, Text: line, Reason: reason}
	}
	if !gate.ArityOK(len(args)) {
		return Declaration{}, &errs.SyntaxError{
			Line:   lineNo,
			Text:   line,
			Reason: fmt.Sprintf("%s takes %s, got %d", gate, arityText(gate), len(args)),
		}
	}

	return Declaration{Kind: KindGate, Name: name, Gate: gate, Args: args, Line: lineNo}, nil
}

func parseArgs(list string) ([]Arg, string) {
	if strings.TrimSpace(list) == "" {
		return nil, ""
	}
	parts := strings.Split(list, ",")
	args := make([]Arg, 0, len(parts))
	for _, p := range parts {
		m := argRe.FindStringSubmatch(strings.TrimSpace(p))
		if m == nil {
			return nil, fmt.Sprintf("malformed argument %q", strings.TrimSpace(p))
		}
		pol := Direct
		if m[1] != "" {
			pol = Inverted
		}
		args = append(args, Arg{Name: m[2], Polarity: pol})
	}
	return args, ""
}

func arityText(g GateType) string {
	if g.Unary() {
		return "exactly 1 argument"
	}
	return "at least 2 arguments"
}
