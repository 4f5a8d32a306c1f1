package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/record"
)

// Sink receives compiled records.
//
// name identifies the record, normally the netlist path relative to the
// batch root with forward slashes ("iscas85/c17.bench").
type Sink interface {
	Put(ctx context.Context, name string, rec *record.Record) error
	Close(ctx context.Context) error
}

type runIDKey struct{}

// WithRunID attaches a batch run ID to ctx. Sinks that store metadata tag
// records with it.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run ID attached by [WithRunID], or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// DirSink writes each record as files under a directory, one per format.
// The record name's directory structure is preserved and its extension
// replaced: "sub/c17.bench" with formats json and svg becomes
// "<dir>/sub/c17.json" and "<dir>/sub/c17.svg".
type DirSink struct {
	dir     string
	formats []Format
}

// NewDirSink creates dir if needed. Without formats, records are written as
// JSON.
func NewDirSink(dir string, formats ...Format) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create output directory %s", dir)
	}
	if len(formats) == 0 {
		formats = []Format{FormatJSON}
	}
	return &DirSink{dir: dir, formats: formats}, nil
}

// Paths returns the files Put writes for name.
func (s *DirSink) Paths(name string) []string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	out := make([]string, len(s.formats))
	for i, f := range s.formats {
		out[i] = filepath.Join(s.dir, filepath.FromSlash(base)+"."+f.Ext())
	}
	return out
}

// Put writes rec in every configured format.
func (s *DirSink) Put(ctx context.Context, name string, rec *record.Record) error {
	if err := errs.ValidatePath(name); err != nil {
		return err
	}
	for i, path := range s.Paths(name) {
		if err := writeFile(ctx, path, rec, s.formats[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(ctx context.Context, path string, rec *record.Record, f Format) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create %s", filepath.Dir(path))
	}
	out, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create %s", path)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = errs.Wrap(errs.ErrCodeStorage, cerr, "close %s", path)
		}
	}()
	if err := Encode(ctx, out, rec, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Close does nothing for directory sinks.
func (s *DirSink) Close(ctx context.Context) error { return nil }

// Multi delivers every record to all sinks in order. Put stops at the first
// failing sink; Close closes all sinks and joins their errors.
type Multi []Sink

// Put implements [Sink].
func (m Multi) Put(ctx context.Context, name string, rec *record.Record) error {
	for _, s := range m {
		if err := s.Put(ctx, name, rec); err != nil {
			return err
		}
	}
	return nil
}

// Close implements [Sink].
func (m Multi) Close(ctx context.Context) error {
	var all []error
	for _, s := range m {
		if err := s.Close(ctx); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

// Discard accepts and drops every record.
var Discard Sink = Multi(nil)

var (
	_ Sink = (*DirSink)(nil)
	_ Sink = Multi(nil)
)
