package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/pipeline"
)

// graphCommand creates the graph command that renders the scope lattice.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the scope precedence lattice",
		Long: `Render the scope precedence lattice.

Nodes are the four scope layers labeled with their declared key counts;
edges point from a layer to the layers that override it. DOT is written
to stdout unless -o is given; SVG needs -o.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid graph format %q (must be dot or svg)", format)
			}
			if format == pipeline.FormatSVG && output == "" {
				return fmt.Errorf("refusing to write SVG to a terminal; use -o")
			}
			ctx := cmd.Context()
			doc, err := pipeline.Load(ctx, c.options())
			if err != nil {
				return err
			}

			opts := c.options()
			opts.Detailed = detailed
			var spin *spinner
			if format == pipeline.FormatSVG {
				spin = startSpinner(ctx, "Laying out lattice...")
			}
			data, err := pipeline.RenderFormat(ctx, doc, format, opts)
			if spin != nil {
				spin.Stop()
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Lattice rendered")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list declared keys per layer")

	return cmd
}
