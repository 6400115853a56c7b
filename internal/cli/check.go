package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/scope"
)

// checkCommand creates the check command that validates a document.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the theme document and summarize it",
		Long: `Validate the theme document and summarize it.

Every scope name, variable key and value, selector, plugin and token reference
is checked. The command exits non-zero on the first problem found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context())
		},
	}
}

func (c *CLI) runCheck(ctx context.Context) error {
	doc, err := pipeline.Load(ctx, c.options())
	if err != nil {
		if errors.IsConfigError(err) {
			printError("%s is invalid", c.configPath)
			printDetail("%s: %s", errors.GetCode(err), errors.UserMessage(err))
		}
		return err
	}

	printSuccess("%s is valid", c.configPath)
	printNewline()
	summarize(doc)
	return nil
}

// summarize prints the shape of a valid document.
func summarize(doc *config.Document) {
	vars := doc.Variables()
	printKeyValue("dark mode", doc.DarkMode.Strategy)
	printKeyValue("variables", fmt.Sprintf("%d keys", len(vars.Keys())))
	for _, p := range scope.Predicates() {
		printDetail("%-12s %2d declared  %s", p, vars.Len(p), doc.Selectors.For(p))
	}
	printKeyValue("color tokens", fmt.Sprintf("%d", doc.Tokens().Len()))

	names := make([]string, len(doc.Plugins))
	for i, p := range doc.Plugins {
		names[i] = p.Name
	}
	if len(names) == 0 {
		names = []string{"none"}
	}
	printKeyValue("plugins", strings.Join(names, ", "))

	variants := make([]string, len(doc.Variants))
	for i, v := range doc.Variants {
		variants[i] = v.Name
	}
	printKeyValue("variants", strings.Join(variants, ", "))
	printKeyValue("hash", doc.Hash()[:12])
}
