package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchgraph/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var maxBody int64

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Serve the compiler over HTTP.

  POST /v1/compile?format=json|graphml|dot|svg|bench   netlist in, record out
  POST /v1/stats                                       netlist in, statistics out
  GET  /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("max-body") {
				maxBody = c.cfg.Serve.MaxBodyBytes
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Options{MaxBodyBytes: maxBody, Logger: loggerFromContext(ctx)})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "request body limit in bytes")

	return cmd
}
