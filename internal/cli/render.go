package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file; stdout if empty
	format      string // "svg" or "dot"
	detailed    bool   // gate type and inverted input count in labels
	leftToRight bool   // inputs on the left instead of the top
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: "svg"}

	cmd := &cobra.Command{
		Use:   "render <file.bench>",
		Short: "Draw the circuit graph of a netlist as SVG or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "svg" && opts.format != "dot" {
				return errs.New(errs.ErrCodeInvalidFormat, "invalid render format %q (must be svg or dot)", opts.format)
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show gate types and inverted input counts")
	cmd.Flags().BoolVar(&opts.leftToRight, "lr", false, "lay out left to right")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.CompileFile(ctx, path)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(res.Record, nodelink.Options{Detailed: opts.detailed, LeftToRight: opts.leftToRight})
	data := []byte(dot)
	if opts.format == "svg" {
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "render %s", path)
		}
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := writeBytes(opts.output, data); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Rendered %s", path)
	printFile(cmd.OutOrStdout(), opts.output)
	return nil
}
