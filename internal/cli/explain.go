package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/scope"
)

// explainCommand creates the explain command that traces one variable.
func (c *CLI) explainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <key>",
		Short: "Show which layer supplies a variable in each scope",
		Long: `Show which layer supplies a variable in each scope.

For every combination of dark mode and portal, prints the value an element
sees and the layer it comes from, followed by the layers that declare the key.`,
		Example: `  themescope explain background-color`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pipeline.Load(cmd.Context(), c.options())
			if err != nil {
				return err
			}
			vars := doc.Variables()
			key := args[0]

			var declared []string
			for _, p := range scope.Predicates() {
				if vars.Declared(p, key) {
					declared = append(declared, p.String())
				}
			}
			if len(declared) == 0 {
				return errors.New(errors.ErrCodeNotFound, "variable --%s is not declared in any layer", key)
			}

			printInfo("--%s", StyleHighlight.Render(key))
			for _, s := range scope.AllSets() {
				fmt.Println("  " + explainLine(vars, s, key))
			}
			printNewline()
			printDetail("declared in: %v", declared)
			return nil
		},
	}
}

// explainLine describes the value key takes in set and its supplying layer.
func explainLine(vars *scope.Table, set scope.Set, key string) string {
	v, from, ok := vars.Lookup(set, key)
	if !ok {
		return fmt.Sprintf("%-12s %s %s", set, swatchOrPad(""), StyleDim.Render("not set"))
	}
	return fmt.Sprintf("%-12s %s %s %s", set, swatchOrPad(v), StyleValue.Render(v), StyleDim.Render("from "+from.String()))
}
