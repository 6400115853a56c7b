package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/pipeline"
)

// buildCommand creates the build command that renders artifacts.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		formatsStr string
		outDir     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render theme artifacts",
		Long: `Render theme artifacts from the theme document.

Formats:
  css   theme.css           scope layers as custom properties
  js    tailwind.config.js  engine configuration module
  json  scopes.json         resolved scope matrix
  dot   scopes.dot          scope lattice (Graphviz)
  svg   scopes.svg          scope lattice (rendered)

Results are cached by document hash; --refresh re-renders and updates the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), opts, outDir, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): css,js (default), json, dot, svg, all")
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "list declared keys in the lattice diagram")
	cmd.Flags().BoolVar(&opts.OmitBase, "omit-base", false, "leave scope blocks out of the engine config (use theme.css instead)")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, outDir string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.ConfigPath = c.configPath
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	spin := startSpinner(ctx, "Building "+c.configPath+"...")
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.Fail("Build failed")
		return err
	}
	spin.Stop()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	printSuccess("Built %s", c.configPath)
	for _, format := range opts.Formats {
		path := filepath.Join(outDir, pipeline.Filenames[format])
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(opts.Formats)))
	return nil
}
