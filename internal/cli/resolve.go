package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/config"
	pkgio "github.com/matzehuels/themescope/pkg/io"
	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/scope"
)

// resolveCommand creates the resolve command that prints resolved variables.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		scopeStr string
		all      bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the variables an element sees in a scope",
		Long: `Print the variables an element sees in a scope.

--scope takes the active predicates, e.g. "dark", "portal" or "dark,portal";
empty means the default scope. --all prints every scope side by side.`,
		Example: `  themescope resolve --scope dark,portal
  themescope resolve --all
  themescope resolve --all --json > scopes.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := scope.ParseSet(scopeStr)
			if err != nil {
				return err
			}
			doc, err := pipeline.Load(cmd.Context(), c.options())
			if err != nil {
				return err
			}
			switch {
			case all && asJSON:
				return pkgio.WriteJSON(doc.Variables(), os.Stdout)
			case all:
				fmt.Println(matrixTable(doc))
				return nil
			case asJSON:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(doc.Variables().Resolve(set))
			}
			return runResolve(cmd.Context(), doc, set)
		},
	}

	cmd.Flags().StringVarP(&scopeStr, "scope", "s", "", "active predicates, e.g. dark,portal")
	cmd.Flags().BoolVar(&all, "all", false, "print all four scopes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func runResolve(_ context.Context, doc *config.Document, set scope.Set) error {
	printInfo("Scope %s", StyleHighlight.Render(set.String()))
	for _, e := range resolvedEntries(doc.Variables(), set) {
		fmt.Printf("  %-24s %s %s %s\n", e.key, swatchOrPad(e.value), StyleValue.Render(e.value), StyleDim.Render("("+e.from.String()+")"))
	}
	return nil
}

// resolvedEntry is one variable visible in a scope and the layer supplying it.
type resolvedEntry struct {
	key   string
	value string
	from  scope.Predicate
}

// resolvedEntries lists the variables visible in set. Keys declared only in
// layers set does not reach are omitted.
func resolvedEntries(vars *scope.Table, set scope.Set) []resolvedEntry {
	var out []resolvedEntry
	for _, k := range vars.Keys() {
		v, from, ok := vars.Lookup(set, k)
		if !ok {
			continue
		}
		out = append(out, resolvedEntry{key: k, value: v, from: from})
	}
	return out
}

// matrixTable renders every key's resolved value in the four scopes.
func matrixTable(doc *config.Document) string {
	vars := doc.Variables()
	matrix := vars.Matrix()
	sets := scope.AllSets()

	headers := []string{"key"}
	for _, s := range sets {
		headers = append(headers, s.String())
	}
	var rows [][]string
	for _, k := range vars.Keys() {
		row := []string{k}
		for _, s := range sets {
			row = append(row, matrix[s][k])
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle
		}).
		Render()
}

// swatchOrPad keeps columns aligned for values that are not colors.
func swatchOrPad(v string) string {
	if s := swatch(v); s != "" {
		return s
	}
	return "    "
}
