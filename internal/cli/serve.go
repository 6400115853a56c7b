package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/internal/server"
)

// serveCommand creates the serve command that runs the artifact server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	opts := c.options()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve theme artifacts over HTTP",
		Long: `Serve theme artifacts over HTTP.

The document is re-read on every request, so edits are picked up without a
restart. Endpoints:

  /theme.css  /tailwind.config.js  /scopes  /scopes.svg  /scopes.json
  /resolve?scope=dark,portal  /tokens/{name}?scope=dark  /healthz

With --cache-backend redis, several servers share one artifact cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts.ConfigPath = c.configPath
			opts.Logger = c.Logger
			srv, err := server.New(server.Config{Options: opts, Runner: runner, Logger: c.Logger})
			if err != nil {
				return err
			}
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "list declared keys in the lattice diagram")
	cmd.Flags().BoolVar(&opts.OmitBase, "omit-base", false, "leave scope blocks out of the engine config")

	return cmd
}
