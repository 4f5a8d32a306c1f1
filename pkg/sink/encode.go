package sink

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/matzehuels/benchgraph/pkg/bench"
	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/observability"
	"github.com/matzehuels/benchgraph/pkg/record"
	"github.com/matzehuels/benchgraph/pkg/render/nodelink"
)

// Encode writes rec to w in format f.
func Encode(ctx context.Context, w io.Writer, rec *record.Record, f Format) error {
	start := time.Now()
	cw := &countingWriter{w: w}
	err := encode(ctx, cw, rec, f)
	observability.Compile().OnEncode(ctx, string(f), cw.n, time.Since(start), err)
	return err
}

func encode(ctx context.Context, w io.Writer, rec *record.Record, f Format) error {
	switch f {
	case FormatJSON:
		return record.WriteJSON(w, rec)
	case FormatGraphML:
		return WriteGraphML(w, rec)
	case FormatDOT:
		_, err := io.WriteString(w, nodelink.ToDOT(rec, nodelink.Options{}))
		return err
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(rec, nodelink.Options{}))
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		_, err = w.Write(svg)
		return err
	case FormatBench:
		return bench.Write(w, record.Netlist(rec))
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", f)
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
