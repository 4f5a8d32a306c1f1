package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

// BatchOptions configures [Runner.Batch].
type BatchOptions struct {
	Root      string // directory to scan
	Recursive bool   // descend into subdirectories
	Extension string // defaults to DefaultExtension
	Workers   int    // defaults to runtime.NumCPU()

	// Sink receives every compiled record. Nil discards records.
	Sink sink.Sink

	// OnResult is called once per finished file. Calls are serialized.
	OnResult func(FileResult)
}

// FileResult reports one file of a batch.
type FileResult struct {
	Name   string // path relative to the batch root, slash separated
	Result *Result
	Err    error
}

// Failure describes a file that could not be compiled or stored.
type Failure struct {
	Name    string    `json:"name"`
	Code    errs.Code `json:"code"`
	Message string    `json:"error"`
}

// Report summarizes a batch run.
type Report struct {
	RunID    string        `json:"run_id"`
	Total    int           `json:"total"`
	Success  int           `json:"success"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Cached   int           `json:"cached"`
	Duration time.Duration `json:"duration_ns"`
	Failures []Failure     `json:"failures"`
}

// Discover returns the netlists under root in lexical order, as slash
// separated paths relative to root. Extensions match case-insensitively.
func Discover(root, ext string, recursive bool) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "batch root %s", root)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "batch root %s", root)
	}
	if !info.IsDir() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "batch root %s is not a directory", root)
	}

	var names []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "scan %s", root)
	}
	return names, nil
}

// Batch compiles every netlist under opts.Root.
//
// Files are compiled on at most opts.Workers goroutines. A file that fails
// to compile or to reach the sink is listed in Report.Failures and the
// batch moves on. Once ctx is cancelled no further files are compiled, even
// those already queued for a worker; the remaining ones are counted as
// skipped and ctx.Err() is returned with the partial report.
func (r *Runner) Batch(ctx context.Context, opts BatchOptions) (*Report, error) {
	start := time.Now()
	names, err := Discover(opts.Root, opts.Extension, opts.Recursive)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := opts.Sink
	if out == nil {
		out = sink.Discard
	}

	report := &Report{RunID: uuid.NewString(), Total: len(names), Failures: []Failure{}}
	ctx = sink.WithRunID(ctx, report.RunID)
	r.Logger.Info("batch started", "run", report.RunID, "root", opts.Root, "files", len(names), "workers", workers)

	var mu sync.Mutex
	finish := func(fr FileResult) {
		mu.Lock()
		defer mu.Unlock()
		if fr.Err != nil {
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				Name:    fr.Name,
				Code:    errs.GetCode(fr.Err),
				Message: fr.Err.Error(),
			})
			r.Logger.Warn("netlist failed", "file", fr.Name, "error", fr.Err)
		} else {
			report.Success++
			if fr.Result.Cached {
				report.Cached++
			}
		}
		if opts.OnResult != nil {
			opts.OnResult(fr)
		}
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, name := range names {
		if ctx.Err() != nil {
			mu.Lock()
			report.Skipped += len(names) - i
			mu.Unlock()
			break
		}
		g.Go(func() error {
			// g.Go may block for a free worker while ctx is cancelled
			if ctx.Err() != nil {
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				return nil
			}
			res, err := r.CompileFile(ctx, filepath.Join(opts.Root, filepath.FromSlash(name)))
			if err == nil {
				err = out.Put(ctx, name, res.Record)
			}
			finish(FileResult{Name: name, Result: res, Err: err})
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Name < report.Failures[j].Name
	})
	report.Duration = time.Since(start)
	r.Logger.Info("batch finished", "run", report.RunID, "success", report.Success,
		"failed", report.Failed, "skipped", report.Skipped, "duration", report.Duration)

	if err := ctx.Err(); err != nil && report.Skipped > 0 {
		return report, err
	}
	return report, nil
}
