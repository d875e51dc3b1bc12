package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API until the
// context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API.

Routes:
  GET  /healthz
  GET  /v1/version
  GET  /v1/designs
  POST /v1/calculate/{design}
  POST /v1/grid

The address, timeouts and cache backend come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := c.Config
			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := server.New(runner, c.Logger, server.Options{
				Addr:         addr,
				ReadTimeout:  cfg.Server.ReadTimeout.Duration,
				WriteTimeout: cfg.Server.WriteTimeout.Duration,
				GridWidth:    cfg.Grid.Width,
				GridHeight:   cfg.Grid.Height,
			})
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
