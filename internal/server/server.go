// Package server exposes the compiler over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness probe
//	POST /v1/compile?format=   netlist body in, encoded record out
//	POST /v1/stats             netlist body in, scalar statistics out
//
// Netlist errors are answered with 422 and a JSON body carrying the error
// code, bodies over the configured limit with 413. Compilation goes through
// a [pipeline.Runner], so its cache applies to every request.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/benchgraph/pkg/compiler"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/pipeline"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

// DefaultMaxBodyBytes limits request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 16 << 20

// Options configures a Server.
type Options struct {
	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server serves compile requests.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// New creates a server that compiles with runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	s := &Server{
		runner:  runner,
		logger:  opts.Logger,
		maxBody: opts.MaxBodyBytes,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Post("/stats", s.handleStats)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "compiler": compiler.Version})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	format := sink.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := sink.ParseFormat(q)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = f
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	out, cached, err := s.runner.Artifact(r.Context(), requestName(r), body, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", cacheHeader(cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// statsResponse mirrors the scalar fields of a record.
type statsResponse struct {
	NumNodes    int `json:"num_nodes"`
	NumEdges    int `json:"num_edges"`
	LongestPath int `json:"longest_path"`
	PI          int `json:"pi"`
	PO          int `json:"po"`
	AndNodes    int `json:"and_nodes"`
	NotEdges    int `json:"not_edges"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	res, err := s.runner.CompileBytes(r.Context(), requestName(r), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec := res.Record
	w.Header().Set("X-Cache", cacheHeader(res.Cached))
	writeJSON(w, http.StatusOK, statsResponse{
		NumNodes:    rec.NumNodes(),
		NumEdges:    rec.NumEdges(),
		LongestPath: rec.LongestPath(),
		PI:          rec.PI(),
		PO:          rec.PO(),
		AndNodes:    rec.AndNodes(),
		NotEdges:    rec.NotEdges(),
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Code:  errs.ErrCodeInvalidInput,
				Error: "request body exceeds " + formatBytes(s.maxBody),
			})
			return nil, false
		}
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body"))
		return nil, false
	}
	return body, true
}

type errorResponse struct {
	Code  errs.Code `json:"code"`
	Error string    `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errs.UserMessage(err)})
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeSyntax, errs.ErrCodeUnresolvedReference,
		errs.ErrCodeDuplicateDeclaration, errs.ErrCodeCyclicGraph:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestName labels a request in logs and hooks.
func requestName(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return "request " + id
	}
	return "request"
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func formatBytes(n int64) string {
	const unit = 1 << 10
	switch {
	case n >= unit*unit:
		return strconv.FormatInt(n/(unit*unit), 10) + " MiB"
	case n >= unit:
		return strconv.FormatInt(n/unit, 10) + " KiB"
	}
	return strconv.FormatInt(n, 10) + " bytes"
}
