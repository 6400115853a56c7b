package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/buildinfo"
	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Themescope builds scoped theme variables for utility-first CSS",
		Long: `Themescope turns one theme document into the stylesheet and engine
configuration of a site whose colors change with two independent conditions:
dark mode and the portal region.

Variables are declared in four layers (default, dark, portal, dark+portal);
an element sees the most specific layer its context activates.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			c.configPath = config.Resolve(c.configPath)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "theme document (default $THEMESCOPE_CONFIG or ./themescope.toml)")
	flags.StringVar(&c.cacheBackend, "cache-backend", "", "artifact cache: file (default), redis, none (env THEMESCOPE_CACHE)")
	flags.StringVar(&c.storeBackend, "store", "", "revision store: file (default), mongo (env THEMESCOPE_STORE)")

	// Register all subcommands
	root.AddCommand(c.initCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.tokenCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.revisionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
