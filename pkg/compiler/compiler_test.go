package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/benchgraph/pkg/bench"
	"github.com/matzehuels/benchgraph/pkg/circuit"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/record"
)

func mustCompile(t *testing.T, src string) *record.Record {
	t.Helper()
	rec, err := CompileString(src)
	if err != nil {
		t.Fatalf("CompileString() error: %v", err)
	}
	return rec
}

func TestCompileAndGate(t *testing.T) {
	rec := mustCompile(t, "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = AND(a, b)\n")

	if rec.NumNodes() != 3 || rec.PI() != 2 || rec.PO() != 1 || rec.AndNodes() != 0 || rec.NotEdges() != 0 || rec.LongestPath() != 1 {
		t.Errorf("scalars = %+v", rec.Stats())
	}
	if got, want := rec.EdgeIndex(), [2][]int{{0, 1}, {2, 2}}; !reflect.DeepEqual(got, want) {
		t.Errorf("EdgeIndex() = %v, want %v", got, want)
	}
	if got, want := rec.NodeTypes(), []int{0, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("NodeTypes() = %v, want %v", got, want)
	}
	if got, want := rec.NodeIDs(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NodeIDs() = %v, want %v", got, want)
	}
	if got, want := rec.GateTypes(), []int{0, 0, int(bench.GateAND)}; !reflect.DeepEqual(got, want) {
		t.Errorf("GateTypes() = %v, want %v", got, want)
	}
}

func TestCompileInverter(t *testing.T) {
	rec := mustCompile(t, "INPUT(a)\nOUTPUT(b)\nb = NOT(a)\n")

	if got, want := rec.EdgeTypes(), []int{1}; !reflect.DeepEqual(got, want) {
		t.Errorf("EdgeTypes() = %v, want %v", got, want)
	}
	if rec.NotEdges() != 1 {
		t.Errorf("NotEdges() = %d, want 1", rec.NotEdges())
	}
	if got, want := rec.InvertedPredecessors(), []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("InvertedPredecessors() = %v, want %v", got, want)
	}
	if rec.LongestPath() != 1 {
		t.Errorf("LongestPath() = %d, want 1", rec.LongestPath())
	}
}

func TestCompileAlias(t *testing.T) {
	rec := mustCompile(t, "INPUT(a)\nOUTPUT(b)\nb = BUFF(a)\n")
	if rec.LongestPath() != 0 {
		t.Errorf("LongestPath() = %d, want 0", rec.LongestPath())
	}
	if rec.NumEdges() != 1 {
		t.Errorf("NumEdges() = %d, want 1", rec.NumEdges())
	}
}

var corpus = map[string]string{
	"and":      "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = AND(a, b)\n",
	"not":      "INPUT(a)\nOUTPUT(b)\nb = NOT(a)\n",
	"alias":    "INPUT(a)\nOUTPUT(b)\nb = BUFF(a)\n",
	"empty":    "",
	"no po":    "INPUT(a)\nn = NOT(a)\n",
	"forward":  "OUTPUT(y)\ny = XNOR(n, ~a)\nn = NOR(a, !b)\nINPUT(a)\nINPUT(b)\n",
	"constant": "INPUT(a)\nOUTPUT(y)\nk = vdd\ny = nand(a, k)\n",
	"in+out":   "INPUT(a)\nOUTPUT(a)\nOUTPUT(y)\ny = XOR(a, a)\n",
	"dangling": "INPUT(a)\nOUTPUT(y)\nOUTPUT(z)\ny = BUF(a)\n",
	"wide":     "INPUT(a)\nINPUT(b)\nINPUT(c)\nINPUT(d)\nOUTPUT(y)\ny = OR(a, ~b, c, !d, a)\n",
}

func corpusWithFiles(t *testing.T) map[string]string {
	t.Helper()
	out := make(map[string]string, len(corpus)+2)
	for k, v := range corpus {
		out[k] = v
	}
	for _, name := range []string{"c17.bench", "abc_mapped.bench"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		out[name] = string(data)
	}
	return out
}

func TestCompileInvariants(t *testing.T) {
	for name, src := range corpusWithFiles(t) {
		t.Run(name, func(t *testing.T) {
			rec := mustCompile(t, src)

			if n := len(rec.NodeTypes()); n != rec.NumNodes() || n != rec.PI()+rec.PO()+rec.AndNodes() {
				t.Errorf("len(node_type)=%d num_nodes=%d pi+po+and=%d", n, rec.NumNodes(), rec.PI()+rec.PO()+rec.AndNodes())
			}

			inverted := 0
			for _, et := range rec.EdgeTypes() {
				if et == 1 {
					inverted++
				}
			}
			sum := 0
			for _, c := range rec.InvertedPredecessors() {
				sum += c
			}
			if inverted != rec.NotEdges() || sum != rec.NotEdges() {
				t.Errorf("inverted edges=%d not_edges=%d sum(num_inverted_predecessors)=%d", inverted, rec.NotEdges(), sum)
			}

			ei := rec.EdgeIndex()
			for i := range ei[0] {
				if ei[0][i] >= rec.NumNodes() || ei[1][i] >= rec.NumNodes() {
					t.Errorf("edge %d references a missing node", i)
				}
			}
		})
	}
}

func TestCompileKnownCircuits(t *testing.T) {
	tests := []struct {
		file string
		want circuit.Stats
	}{
		{"c17.bench", circuit.Stats{Nodes: 11, Edges: 12, PrimaryInputs: 5, PrimaryOutputs: 2, Internal: 4, InvertedEdges: 12, LongestPath: 3}},
		{"abc_mapped.bench", circuit.Stats{Nodes: 9, Edges: 8, PrimaryInputs: 4, PrimaryOutputs: 2, Internal: 3, InvertedEdges: 3, LongestPath: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			rec, err := CompileFile(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatalf("CompileFile() error: %v", err)
			}
			if got := rec.Stats(); got != tt.want {
				t.Errorf("Stats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompileDeterministic(t *testing.T) {
	for name, src := range corpusWithFiles(t) {
		a := mustCompile(t, src)
		b := mustCompile(t, src)
		if !a.Equal(b) {
			t.Errorf("%s: two compilations differ", name)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for name, src := range corpusWithFiles(t) {
		t.Run(name, func(t *testing.T) {
			rec := mustCompile(t, src)
			text := bench.Format(record.Netlist(rec))

			again := mustCompile(t, text)
			if again.Stats() != rec.Stats() {
				t.Errorf("stats changed: %+v -> %+v\n%s", rec.Stats(), again.Stats(), text)
			}
			if !reflect.DeepEqual(again.NodeIDs(), rec.NodeIDs()) {
				t.Errorf("node order changed: %v -> %v", rec.NodeIDs(), again.NodeIDs())
			}

			// a canonical netlist is a fixed point
			if text2 := bench.Format(record.Netlist(again)); text2 != text {
				t.Errorf("second round trip differs:\n%s\nvs\n%s", text, text2)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errs.Code
	}{
		{"syntax", "INPUT(a)\nthis is not bench\n", errs.ErrCodeSyntax},
		{"unknown gate", "INPUT(a)\nb = MUX(a, a)\n", errs.ErrCodeSyntax},
		{"unresolved", "OUTPUT(y)\ny = AND(a, b)\n", errs.ErrCodeUnresolvedReference},
		{"duplicate", "INPUT(a)\nOUTPUT(y)\ny = NOT(a)\ny = BUFF(a)\n", errs.ErrCodeDuplicateDeclaration},
		{"cycle", "a = BUFF(b)\nb = BUFF(a)\n", errs.ErrCodeCyclicGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := CompileString(tt.src)
			if err == nil {
				t.Fatalf("CompileString() = %v, want error", rec)
			}
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q (%v)", got, tt.code, err)
			}
			if !errs.IsNetlistError(err) {
				t.Errorf("IsNetlistError(%v) = false", err)
			}
		})
	}
}

func TestCompileUnresolvedNamesSignal(t *testing.T) {
	_, err := CompileString("OUTPUT(y)\ny = AND(a, b)\n")
	var ue *errs.UnresolvedReferenceError
	if !errors.As(err, &ue) || ue.Signal != "a" {
		t.Fatalf("error = %v, want unresolved reference to a", err)
	}
}

func TestCompileFileErrors(t *testing.T) {
	_, err := CompileFile(filepath.Join(t.TempDir(), "missing.bench"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %q, want FILE_NOT_FOUND", errs.GetCode(err))
	}

	path := filepath.Join("testdata", "cycle.bench")
	_, err = CompileFile(path)
	var ce *errs.CyclicGraphError
	if !errors.As(err, &ce) {
		t.Fatalf("cycle.bench: error = %v, want *CyclicGraphError", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not mention %s", err, path)
	}
	if want := []string{"q", "p", "q"}; !reflect.DeepEqual(ce.Nodes, want) {
		t.Errorf("cycle = %v, want %v", ce.Nodes, want)
	}
}

func TestGraph(t *testing.T) {
	g, st, err := Graph(strings.NewReader(corpus["forward"]))
	if err != nil {
		t.Fatalf("Graph() error: %v", err)
	}
	if g.NodeCount() != st.Nodes || st.PrimaryOutputs != 1 {
		t.Errorf("Graph() = %d nodes, stats %+v", g.NodeCount(), st)
	}
}

func TestCompileConcurrent(t *testing.T) {
	src := corpus["forward"]
	want := mustCompile(t, src)

	var wg sync.WaitGroup
	results := make([]*record.Record, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := CompileString(src)
			if err == nil {
				results[i] = rec
			}
		}(i)
	}
	wg.Wait()

	for i, rec := range results {
		if rec == nil || !rec.Equal(want) {
			t.Errorf("goroutine %d produced a different record", i)
		}
	}
}
