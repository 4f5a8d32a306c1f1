package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/benchgraph/pkg/config"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/pipeline"
	"github.com/matzehuels/benchgraph/pkg/record"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

const andNetlist = "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = AND(a, b)\n"

// isolate points config and cache lookups at a fresh home directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv(config.EnvVar, "")
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileToStdout(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "and.bench", andNetlist)

	out, err := run(t, "compile", path)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	rec, err := record.Unmarshal([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not a record: %v\n%s", err, out)
	}
	if rec.NumNodes() != 3 || rec.LongestPath() != 1 {
		t.Errorf("stats = %+v", rec.Stats())
	}
}

func TestCompileToFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "and.bench", andNetlist)
	base := filepath.Join(dir, "out", "and")

	out, err := run(t, "compile", path, "-f", "json,graphml", "-o", base)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	for _, ext := range []string{".json", ".graphml"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", base+ext, err)
		}
	}
	if !strings.Contains(out, "Compiled") || !strings.Contains(out, "3 nodes") {
		t.Errorf("output = %q", out)
	}
}

func TestCompileFlagErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "and.bench", andNetlist)
	cycle := writeFile(t, dir, "cycle.bench", "a = BUFF(b)\nb = BUFF(a)\n")

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"several formats to stdout", []string{"compile", good, "-f", "json,dot"}, errs.ErrCodeInvalidInput},
		{"unknown format", []string{"compile", good, "-f", "pdf"}, errs.ErrCodeInvalidFormat},
		{"cycle", []string{"compile", cycle}, errs.ErrCodeCyclicGraph},
		{"missing file", []string{"compile", filepath.Join(dir, "nope.bench")}, errs.ErrCodeFileNotFound},
		{"missing config", []string{"compile", good, "--config", filepath.Join(dir, "nope.toml")}, errs.ErrCodeFileNotFound},
		{"render format", []string{"render", good, "-f", "png"}, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestCompileConfigFormats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "and.bench", andNetlist)
	cfg := writeFile(t, dir, "config.toml", "[compile]\nformats = [\"bench\"]\n")

	out, err := run(t, "--config", cfg, "compile", path)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if out != andNetlist {
		t.Errorf("output = %q, want the canonical netlist", out)
	}
}

func TestBatch(t *testing.T) {
	isolate(t)
	src := t.TempDir()
	writeFile(t, src, "and.bench", andNetlist)
	writeFile(t, src, "sub/not.bench", "INPUT(a)\nOUTPUT(b)\nb = NOT(a)\n")
	writeFile(t, src, "sub/bad.bench", "OUTPUT(y)\ny = NOT(x)\n")
	outdir := filepath.Join(t.TempDir(), "records")
	reportPath := filepath.Join(t.TempDir(), "report.json")

	out, err := run(t, "batch", src, outdir, "-r", "-w", "2", "--report", reportPath)
	if !errs.Is(err, errs.ErrCodeUnresolvedReference) || !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("batch error = %v, want 1 of 3 failed", err)
	}
	if !strings.Contains(out, "Batch summary") || !strings.Contains(out, "sub/bad.bench") {
		t.Errorf("output = %q", out)
	}

	for _, name := range []string{"and.json", "sub/not.json"} {
		if _, err := record.ReadFile(filepath.Join(outdir, filepath.FromSlash(name))); err != nil {
			t.Errorf("record %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	var report pipeline.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if report.Total != 3 || report.Success != 2 || len(report.Failures) != 1 ||
		report.Failures[0].Code != errs.ErrCodeUnresolvedReference {
		t.Errorf("report = %+v", report)
	}
}

func TestBatchError(t *testing.T) {
	tests := []struct {
		name     string
		failures []errs.Code
		want     errs.Code
	}{
		{"no failures", nil, ""},
		{"netlist errors", []errs.Code{errs.ErrCodeSyntax, errs.ErrCodeCyclicGraph}, errs.ErrCodeSyntax},
		{"mixed", []errs.Code{errs.ErrCodeCyclicGraph, errs.ErrCodeStorage}, errs.ErrCodeInvalidInput},
		{"other only", []errs.Code{errs.ErrCodeFileNotFound}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &pipeline.Report{Total: 3, Failed: len(tt.failures)}
			for i, c := range tt.failures {
				report.Failures = append(report.Failures, pipeline.Failure{Name: string(rune('a' + i)), Code: c})
			}
			err := batchError(report)
			if tt.want == "" {
				if err != nil {
					t.Errorf("batchError() = %v, want nil", err)
				}
				return
			}
			if got := errs.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
			if errs.IsNetlistError(err) != errs.IsNetlistCode(tt.want) {
				t.Errorf("IsNetlistError(%v) = %v", err, errs.IsNetlistError(err))
			}
		})
	}
}

func TestBatchFlat(t *testing.T) {
	isolate(t)
	src := t.TempDir()
	writeFile(t, src, "and.bench", andNetlist)
	writeFile(t, src, "sub/bad.bench", "garbage\n")
	outdir := t.TempDir()

	if _, err := run(t, "batch", src, outdir, "-f", "dot"); err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outdir, "and.dot")); err != nil {
		t.Error(err)
	}
}

func TestBatchMongoNeedsConfig(t *testing.T) {
	isolate(t)
	_, err := run(t, "batch", t.TempDir(), t.TempDir(), "--mongo")
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestStats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	and := writeFile(t, dir, "and.bench", andNetlist)
	not := writeFile(t, dir, "not.bench", "INPUT(a)\nOUTPUT(b)\nb = NOT(a)\n")

	out, err := run(t, "stats", and, not)
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	for _, want := range []string{"Nodes", "Depth", "and.bench", "not.bench"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	bad := writeFile(t, dir, "bad.bench", "garbage\n")
	out, err = run(t, "stats", and, bad)
	if err == nil || !strings.Contains(out, "and.bench") {
		t.Errorf("stats with a bad file: err=%v output=%q", err, out)
	}
}

func TestRenderDOT(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "and.bench", andNetlist)

	out, err := run(t, "render", path, "-f", "dot", "--detailed")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") || !strings.Contains(out, "AND") {
		t.Errorf("output = %q", out)
	}
}

func TestCacheCommands(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, t.TempDir(), "and.bench", andNetlist)
	want := filepath.Join(home, "cache", appName)

	out, err := run(t, "cache", "path")
	if err != nil || strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, %v; want %s", out, err, want)
	}

	out, _ = run(t, "cache", "clear")
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear before use = %q", out)
	}

	if _, err := run(t, "--no-cache", "compile", path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(want); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("--no-cache created %s", want)
	}

	if _, err := run(t, "compile", path); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear after compile = %q, %v", out, err)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := run(t, "completion", shell)
		if err != nil || !strings.Contains(out, appName) {
			t.Errorf("completion %s: err=%v, %d bytes", shell, err, len(out))
		}
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base  string
		f     sink.Format
		multi bool
		want  string
	}{
		{"out.json", sink.FormatJSON, false, "out.json"},
		{"out/c17", sink.FormatGraphML, true, "out/c17.graphml"},
		{"out/c17.json", sink.FormatDOT, true, "out/c17.dot"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.base, tt.f, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %s, %v) = %q, want %q", tt.base, tt.f, tt.multi, got, tt.want)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at info level: %q", buf.String())
	}
	newProgress(l).done("compiled c17")
	if !strings.Contains(buf.String(), "compiled c17 (") {
		t.Errorf("progress output = %q", buf.String())
	}

	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext without a logger returned nil")
	}
}
