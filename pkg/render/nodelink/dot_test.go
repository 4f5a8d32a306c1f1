package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/benchgraph/pkg/bench"
	"github.com/matzehuels/benchgraph/pkg/compiler"
	"github.com/matzehuels/benchgraph/pkg/record"
)

func compile(t *testing.T, src string) *record.Record {
	t.Helper()
	rec, err := compiler.CompileString(src)
	if err != nil {
		t.Fatalf("CompileString() error: %v", err)
	}
	return rec
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(compile(t, "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = AND(a, b)\n"), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=TB",
		`n0 [label="a", shape=box`,
		`n2 [label="c", shape=doubleoctagon`,
		"{ rank=source; n0; n1; }",
		"n0 -> n2;",
		"n1 -> n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_InvertedEdges(t *testing.T) {
	dot := ToDOT(compile(t, "INPUT(a)\nOUTPUT(y)\nn = NOT(a)\ny = BUFF(n)\n"), Options{})

	if !strings.Contains(dot, "n0 -> n2 [style=dashed, arrowhead=odot];") {
		t.Errorf("inverted edge not dashed:\n%s", dot)
	}
	if !strings.Contains(dot, "n2 -> n1;") {
		t.Errorf("direct edge missing:\n%s", dot)
	}
	if !strings.Contains(dot, `n2 [label="n", shape=ellipse]`) {
		t.Errorf("internal node not an ellipse:\n%s", dot)
	}
}

func TestToDOT_Options(t *testing.T) {
	rec := compile(t, "INPUT(a)\nOUTPUT(y)\ny = NAND(a, a)\n")

	if dot := ToDOT(rec, Options{LeftToRight: true}); !strings.Contains(dot, "rankdir=LR") {
		t.Error("LeftToRight not applied")
	}
	dot := ToDOT(rec, Options{Detailed: true})
	if !strings.Contains(dot, `label="y\nNAND\ninv: 2"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="a"`) {
		t.Errorf("undriven node label should be the name only:\n%s", dot)
	}
}

func TestToDOT_QuotedNames(t *testing.T) {
	dot := ToDOT(compile(t, "INPUT(a\"b)\nOUTPUT(y)\ny = NOT(a\"b)\n"), Options{})
	if !strings.Contains(dot, `label="a\"b"`) {
		t.Errorf("name not escaped:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		gate     bench.GateType
		inverted int
		detailed bool
		want     string
	}{
		{bench.GateAND, 0, false, "x"},
		{bench.GateAND, 0, true, "x\nAND"},
		{bench.GateNOR, 2, true, "x\nNOR\ninv: 2"},
		{bench.GateNone, 0, true, "x"},
		{bench.GateConst, 0, true, "x\nVDD"},
	}
	for _, tt := range tests {
		if got := fmtLabel("x", tt.gate, tt.inverted, tt.detailed); got != tt.want {
			t.Errorf("fmtLabel(%v, %d, %v) = %q, want %q", tt.gate, tt.inverted, tt.detailed, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`
	if !strings.Contains(out, want) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
