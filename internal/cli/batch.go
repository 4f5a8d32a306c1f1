package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/pipeline"
	"github.com/matzehuels/benchgraph/pkg/sink"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	recursive bool
	workers   int
	formats   string
	mongo     bool   // also upsert records into the configured MongoDB collection
	tui       bool   // interactive progress view
	report    string // write the JSON report here
}

func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch <dir> <outdir>",
		Short: "Compile every netlist in a directory",
		Long: `Compile every netlist in a directory.

Records are written under <outdir> with the input directory structure
preserved: <dir>/sub/c17.bench becomes <outdir>/sub/c17.json. A netlist that
fails to compile is reported and the batch continues.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("recursive") {
				opts.recursive = c.cfg.Compile.Recursive
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = c.cfg.WorkerCount()
			}
			return c.runBatch(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel compilations (default one per CPU)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json, graphml, dot, svg, bench (comma-separated)")
	cmd.Flags().BoolVar(&opts.mongo, "mongo", false, "also store records in MongoDB ([store] config)")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show an interactive progress view")
	cmd.Flags().StringVar(&opts.report, "report", "", "write the batch report as JSON to this file")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, dir, outdir string, opts batchOpts) (err error) {
	ctx := cmd.Context()
	formats, err := c.formats(opts.formats)
	if err != nil {
		return err
	}
	out, err := c.newSink(ctx, outdir, formats, opts.mongo)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(context.Background()); err == nil && cerr != nil {
			err = cerr
		}
	}()

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	bopts := pipeline.BatchOptions{
		Root:      dir,
		Recursive: opts.recursive,
		Extension: c.cfg.Compile.Extension,
		Workers:   opts.workers,
		Sink:      out,
	}

	var report *pipeline.Report
	if opts.tui {
		report, err = runBatchTUI(ctx, runner, bopts, cmd.OutOrStdout())
	} else {
		report, err = runBatchSpinner(ctx, runner, bopts, cmd.ErrOrStderr())
	}
	if report == nil {
		return err
	}

	printBatchSummary(cmd.OutOrStdout(), report)
	if opts.report != "" {
		data, jerr := json.MarshalIndent(report, "", "  ")
		if jerr != nil {
			return jerr
		}
		if werr := writeBytes(opts.report, append(data, '\n')); werr != nil {
			return werr
		}
		printFile(cmd.OutOrStdout(), opts.report)
	}
	if err != nil {
		return err
	}
	return batchError(report)
}

// batchError summarizes the failures of a finished batch. When every failure
// is a rejected netlist the error carries the first one's code, so the
// process exits like a single failed compile.
func batchError(report *pipeline.Report) error {
	if report.Failed == 0 {
		return nil
	}
	code := errs.ErrCodeInvalidInput
	if len(report.Failures) > 0 && errs.IsNetlistCode(report.Failures[0].Code) {
		code = report.Failures[0].Code
		for _, f := range report.Failures[1:] {
			if !errs.IsNetlistCode(f.Code) {
				code = errs.ErrCodeInvalidInput
				break
			}
		}
	}
	return errs.New(code, "%d of %d netlists failed", report.Failed, report.Total)
}

// newSink builds the batch output: files under outdir, plus MongoDB when
// requested.
func (c *CLI) newSink(ctx context.Context, outdir string, formats []sink.Format, mongo bool) (sink.Sink, error) {
	dirSink, err := sink.NewDirSink(outdir, formats...)
	if err != nil {
		return nil, err
	}
	if !mongo {
		return dirSink, nil
	}
	if c.cfg.Store.MongoURI == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "--mongo needs store.mongo_uri in the config file")
	}
	ms, err := sink.NewMongoSink(ctx, sink.MongoConfig{
		URI:        c.cfg.Store.MongoURI,
		Database:   c.cfg.Store.Database,
		Collection: c.cfg.Store.Collection,
	})
	if err != nil {
		return nil, err
	}
	return sink.Multi{dirSink, ms}, nil
}

// runBatchSpinner runs a batch with a one-line progress indicator on w.
func runBatchSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.BatchOptions, w io.Writer) (*pipeline.Report, error) {
	spin := newSpinner(ctx, w, "Discovering netlists")
	spin.Start()
	defer spin.Stop()

	done := 0
	opts.OnResult = func(fr pipeline.FileResult) {
		done++
		spin.SetMessage("Compiled %d netlists (%s)", done, fr.Name)
	}
	return runner.Batch(ctx, opts)
}

// failureLine formats a failed file for progress views.
func failureLine(fr pipeline.FileResult) string {
	return fmt.Sprintf("%s: %s", fr.Name, errs.UserMessage(fr.Err))
}
