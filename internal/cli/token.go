package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/scope"
)

// tokenCommand creates the token command that resolves a color token.
func (c *CLI) tokenCommand() *cobra.Command {
	var (
		scopeStr string
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "token [name]",
		Short: "Resolve a semantic color token",
		Long: `Resolve a semantic color token.

Tokens are the entries of [theme.colors], named by their dotted path
(e.g. "tag.location.bg"). Without --scope the token is shown in all four
scopes. --list prints every token and its indirection.`,
		Example: `  themescope token primary --scope dark
  themescope token --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pipeline.Load(cmd.Context(), c.options())
			if err != nil {
				return err
			}
			tokens := doc.Tokens()

			if list || len(args) == 0 {
				for _, tok := range tokens.Tokens() {
					fmt.Printf("  %-28s %s\n", StyleHighlight.Render(tok.Name), StyleDim.Render(tok.Value))
				}
				return nil
			}

			tok, err := tokens.Lookup(args[0])
			if err != nil {
				return err
			}
			sets := scope.AllSets()
			if scopeStr != "" {
				set, err := scope.ParseSet(scopeStr)
				if err != nil {
					return err
				}
				sets = []scope.Set{set}
			}

			printInfo("%s = %s", StyleHighlight.Render(tok.Name), StyleDim.Render(tok.Value))
			for _, s := range sets {
				v, err := tokens.Resolve(tok.Name, s, doc.Variables())
				if err != nil {
					return err
				}
				fmt.Printf("  %-12s %s %s\n", s, swatchOrPad(v), StyleValue.Render(v))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scopeStr, "scope", "s", "", "active predicates, e.g. dark,portal")
	cmd.Flags().BoolVar(&list, "list", false, "list all tokens")

	return cmd
}
