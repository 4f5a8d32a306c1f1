package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/benchgraph/pkg/cache"
	"github.com/matzehuels/benchgraph/pkg/compiler"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/observability"
	"github.com/matzehuels/benchgraph/pkg/record"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

// Runner compiles netlists with caching.
//
// The Runner holds no per-compilation state; one Runner can serve any
// number of goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // cache entry lifetime, 0 keeps entries forever
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses a DefaultKeyer for the current compiler version and a nil logger
// discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer(compiler.Version)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// CompileBytes compiles netlist text. name is used for logging, hooks and
// error context only.
//
// Cache failures never fail a compilation: a broken or unreadable entry is
// logged and the netlist is compiled from scratch.
func (r *Runner) CompileBytes(ctx context.Context, name string, data []byte) (*Result, error) {
	start := time.Now()
	hooks := observability.Compile()
	hooks.OnCompileStart(ctx, name)

	key := r.Keyer.RecordKey(data)
	if rec, ok := r.lookup(ctx, key); ok {
		res := &Result{Name: name, Record: rec, Cached: true, Duration: time.Since(start)}
		hooks.OnCompileComplete(ctx, name, rec.NumNodes(), rec.NumEdges(), res.Duration, nil)
		r.Logger.Debug("compiled netlist", "file", name, "nodes", rec.NumNodes(), "edges", rec.NumEdges(),
			"duration", res.Duration, "cached", true)
		return res, nil
	}

	rec, err := compiler.Compile(bytes.NewReader(data))
	if err != nil {
		hooks.OnCompileComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, err
	}
	r.store(ctx, key, rec)

	res := &Result{Name: name, Record: rec, Duration: time.Since(start)}
	hooks.OnCompileComplete(ctx, name, rec.NumNodes(), rec.NumEdges(), res.Duration, nil)
	r.Logger.Debug("compiled netlist", "file", name, "nodes", rec.NumNodes(), "edges", rec.NumEdges(),
		"duration", res.Duration, "cached", false)
	return res, nil
}

// CompileFile reads and compiles the netlist at path. Errors carry the
// path; netlist error codes are preserved.
func (r *Runner) CompileFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	res, err := r.CompileBytes(ctx, path, data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "compile %s", path)
	}
	return res, nil
}

// Artifact compiles netlist text and encodes the record in format. Encoded
// artifacts are cached separately from records, which matters for SVG.
func (r *Runner) Artifact(ctx context.Context, name string, data []byte, format sink.Format) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(data, string(format))
	if out, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return out, true, nil
	} else if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	res, err := r.CompileBytes(ctx, name, data)
	if err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := sink.Encode(ctx, &buf, res.Record, format); err != nil {
		return nil, false, err
	}
	out := buf.Bytes()
	if err := r.Cache.Set(ctx, key, out, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(out))
	}
	return out, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*record.Record, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "record")
		return nil, false
	}
	rec, err := record.Unmarshal(data)
	if err != nil {
		r.Logger.Warn("discarding invalid cache entry", "key", key, "error", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "record")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "record")
	return rec, true
}

func (r *Runner) store(ctx context.Context, key string, rec *record.Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		r.Logger.Warn("encode record for cache", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "record", len(data))
}
