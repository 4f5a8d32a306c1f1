package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/record"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

// compileOpts holds the command-line flags for the compile command.
type compileOpts struct {
	output  string // output file, or base path with several formats; stdout if empty
	formats string // comma-separated formats; config default if empty
}

func (c *CLI) compileCommand() *cobra.Command {
	var opts compileOpts

	cmd := &cobra.Command{
		Use:   "compile <file.bench>",
		Short: "Compile a BENCH netlist into a typed graph record",
		Long: `Compile a BENCH netlist into a typed graph record.

Without --output the record is written to stdout. With several formats
--output is a base path and each format gets its own extension:

  benchgraph compile c17.bench -f json,graphml -o out/c17
  # writes out/c17.json and out/c17.graphml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompile(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json, graphml, dot, svg, bench (comma-separated)")

	return cmd
}

func (c *CLI) runCompile(cmd *cobra.Command, path string, opts compileOpts) error {
	ctx := cmd.Context()
	formats, err := c.formats(opts.formats)
	if err != nil {
		return err
	}
	if opts.output == "" && len(formats) > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "writing %d formats needs --output", len(formats))
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.CompileFile(ctx, path)
	if err != nil {
		return err
	}

	if opts.output == "" {
		return sink.Encode(ctx, cmd.OutOrStdout(), res.Record, formats[0])
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Compiled %s", path)
	printStats(out, res.Record.Stats(), res.Cached)
	for _, f := range formats {
		dest := outputPath(opts.output, f, len(formats) > 1)
		if err := writeRecord(ctx, dest, res.Record, f); err != nil {
			return err
		}
		printFile(out, dest)
	}
	prog.done("Compiled " + filepath.Base(path))
	return nil
}

// outputPath returns the file for format f. With several formats base has
// its extension replaced by the format's.
func outputPath(base string, f sink.Format, multi bool) string {
	if !multi {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + f.Ext()
}

func writeRecord(ctx context.Context, path string, rec *record.Record, f sink.Format) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "create %s", dir)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create %s", path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errs.Wrap(errs.ErrCodeStorage, cerr, "close %s", path)
		}
	}()
	return sink.Encode(ctx, file, rec, f)
}

func writeBytes(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeStorage, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}
