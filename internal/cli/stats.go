package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
)

func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.bench>...",
		Short: "Print graph statistics of one or more netlists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd, args)
		},
	}
}

func (c *CLI) runStats(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var rows []statsRow
	var failed []error
	for _, path := range paths {
		res, err := runner.CompileFile(ctx, path)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		rows = append(rows, statsRow{name: path, stats: res.Record.Stats(), cached: res.Cached})
	}

	out := cmd.OutOrStdout()
	if len(rows) > 0 {
		fmt.Fprintln(out, statsTable(rows))
	}
	for _, err := range failed {
		printError(out, "%s", errs.UserMessage(err))
	}
	if len(failed) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "%d of %d netlists failed", len(failed), len(paths))
	}
	return nil
}
