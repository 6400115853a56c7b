package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/config"
	pkgio "github.com/matzehuels/themescope/pkg/io"
)

// initCommand creates the init command that writes a starter document.
func (c *CLI) initCommand() *cobra.Command {
	var (
		force    bool
		fromJSON string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter theme document",
		Long: `Write a starter theme document.

By default the built-in starter is written: a complete theme with all four
scope layers, semantic color tokens, the usual plugins and a hocus variant.

With --from, the variable layers are taken from a scopes.json file written
by 'build -f json' instead, and only a [variables] section is generated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(path, fromJSON, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing document")
	cmd.Flags().StringVar(&fromJSON, "from", "", "build the variables from a scopes.json export")

	return cmd
}

func runInit(path, fromJSON string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data := config.Starter()
	if fromJSON != "" {
		var err error
		if data, err = documentFromJSON(fromJSON); err != nil {
			return err
		}
	}

	// Refuse to write something that would not load.
	if _, err := config.Parse(data); err != nil {
		return fmt.Errorf("generated document is invalid: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Theme document created")
	printFile(path)
	printNewline()
	printNextStep("Build", appName+" build -c "+path)
	return nil
}

// documentFromJSON encodes the layers of a scopes.json export as a theme
// document's [variables] tables.
func documentFromJSON(path string) ([]byte, error) {
	t, err := pkgio.ImportJSON(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	doc := struct {
		Variables map[string]map[string]string `toml:"variables"`
	}{Variables: make(map[string]map[string]string)}
	for p, layer := range t.Layers() {
		doc.Variables[p.String()] = layer
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Imported from %s\n\n", path)
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}
