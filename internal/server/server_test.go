package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/benchgraph/pkg/cache"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/observability"
	"github.com/matzehuels/benchgraph/pkg/pipeline"
	"github.com/matzehuels/benchgraph/pkg/record"
)

const andNetlist = "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = AND(a, b)\n"

func newTestServer(t *testing.T, maxBody int64) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(pipeline.NewRunner(fc, nil, nil), Options{MaxBodyBytes: maxBody}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("GET /healthz = %d %v", resp.StatusCode, body)
	}
}

func TestCompileJSON(t *testing.T) {
	srv := newTestServer(t, 0)

	resp := post(t, srv.URL+"/v1/compile", andNetlist)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := resp.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	rec, err := record.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if rec.NumNodes() != 3 || rec.LongestPath() != 1 {
		t.Errorf("record stats = %+v", rec.Stats())
	}

	again := post(t, srv.URL+"/v1/compile", andNetlist)
	if got := again.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second request X-Cache = %q, want hit", got)
	}
}

func TestCompileFormats(t *testing.T) {
	srv := newTestServer(t, 0)
	tests := []struct {
		format string
		ctype  string
		prefix string
	}{
		{"dot", "text/vnd.graphviz", "digraph"},
		{"graphml", "application/graphml+xml", "<?xml"},
		{"bench", "text/plain; charset=utf-8", "INPUT(a)"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, srv.URL+"/v1/compile?format="+tt.format, andNetlist)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.ctype {
				t.Errorf("Content-Type = %q, want %q", ct, tt.ctype)
			}
			buf := new(strings.Builder)
			if _, err := io.Copy(buf, resp.Body); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("body starts %q, want prefix %q", firstLine(buf.String()), tt.prefix)
			}
		})
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func TestCompileErrors(t *testing.T) {
	srv := newTestServer(t, 0)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errs.Code
	}{
		{"syntax", "/v1/compile", "not a netlist\n", http.StatusUnprocessableEntity, errs.ErrCodeSyntax},
		{"unresolved", "/v1/compile", "OUTPUT(y)\ny = NOT(x)\n", http.StatusUnprocessableEntity, errs.ErrCodeUnresolvedReference},
		{"cycle", "/v1/stats", "a = BUFF(b)\nb = BUFF(a)\n", http.StatusUnprocessableEntity, errs.ErrCodeCyclicGraph},
		{"format", "/v1/compile?format=pdf", andNetlist, http.StatusBadRequest, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code || body.Error == "" {
				t.Errorf("body = %+v, want code %s", body, tt.code)
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	srv := newTestServer(t, 16)
	resp := post(t, srv.URL+"/v1/compile", andNetlist)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, 0)
	resp := post(t, srv.URL+"/v1/stats", "INPUT(a)\nOUTPUT(b)\nb = NOT(a)\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := statsResponse{NumNodes: 2, NumEdges: 1, LongestPath: 1, PI: 1, PO: 1, NotEdges: 1}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, 0)
	resp, err := http.Get(srv.URL + "/v1/compile")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/compile = %d, want 405", resp.StatusCode)
	}
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingServerHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, 0)
	post(t, srv.URL+"/v1/stats", andNetlist)
	post(t, srv.URL+"/v1/stats", "garbage\n")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 422 {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
