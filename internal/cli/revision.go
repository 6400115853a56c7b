package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/scope"
	"github.com/matzehuels/themescope/pkg/store"
)

// revisionCommand creates the revision command group.
func (c *CLI) revisionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "revision",
		Aliases: []string{"rev"},
		Short:   "Save and compare theme document revisions",
	}

	cmd.AddCommand(c.revisionSaveCommand())
	cmd.AddCommand(c.revisionListCommand())
	cmd.AddCommand(c.revisionShowCommand())
	cmd.AddCommand(c.revisionDiffCommand())

	return cmd
}

// withStore opens the revision store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open revision store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) revisionSaveCommand() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the current document as a revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := pipeline.Load(ctx, c.options())
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(st store.Store) error {
				candidate := store.NewRevision(doc.Hash(), doc.Source(), message)
				rev, err := st.Save(ctx, candidate)
				if err != nil {
					return err
				}
				if rev.ID != candidate.ID {
					printInfo("Unchanged since revision %s", StyleHighlight.Render(rev.ShortID()))
					return nil
				}
				printSuccess("Saved revision %s", StyleHighlight.Render(rev.ShortID()))
				printDetail("hash %s", rev.ShortHash())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "revision message")
	return cmd
}

func (c *CLI) revisionListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved revisions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				revs, err := st.List(ctx, limit)
				if err != nil {
					return err
				}
				if len(revs) == 0 {
					printInfo("No revisions saved yet")
					printNextStep("Save one", appName+" revision save -m \"initial theme\"")
					return nil
				}
				for _, r := range revs {
					fmt.Printf("%s  %s  %s  %s\n",
						StyleHighlight.Render(r.ShortID()),
						StyleDim.Render(r.CreatedAt.Local().Format("2006-01-02 15:04")),
						StyleDim.Render(r.ShortHash()),
						r.Message)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of revisions")
	return cmd
}

func (c *CLI) revisionShowCommand() *cobra.Command {
	var source bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				rev, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if source {
					_, err := os.Stdout.WriteString(rev.Source)
					return err
				}
				printKeyValue("id", rev.ID)
				printKeyValue("hash", rev.Hash)
				printKeyValue("created", rev.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				if rev.Message != "" {
					printKeyValue("message", rev.Message)
				}
				doc, err := config.Parse([]byte(rev.Source))
				if err != nil {
					printWarning("revision no longer loads: %v", err)
					return nil
				}
				printNewline()
				summarize(doc)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&source, "source", false, "print the document source")
	return cmd
}

func (c *CLI) revisionDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> [to]",
		Short: "Compare resolved values between revisions",
		Long: `Compare resolved values between revisions.

Both revisions are resolved in all four scopes and compared key by key.
Without [to], the revision is compared with the current document.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				from, fromName, err := loadRevision(ctx, st, args[0])
				if err != nil {
					return err
				}

				var (
					to     *config.Document
					toName = "working document"
				)
				if len(args) == 2 {
					to, toName, err = loadRevision(ctx, st, args[1])
				} else {
					to, err = pipeline.Load(ctx, c.options())
				}
				if err != nil {
					return err
				}

				changes := scope.Diff(from.Variables(), to.Variables())
				printInfo("%s %s %s", fromName, iconArrow, toName)
				if len(changes) == 0 {
					printDetail("no resolved values differ")
					return nil
				}
				for _, ch := range changes {
					printChange(ch)
				}
				printDetail("%d change(s)", len(changes))
				return nil
			})
		},
	}
}

func loadRevision(ctx context.Context, st store.Store, id string) (*config.Document, string, error) {
	rev, err := st.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := config.Parse([]byte(rev.Source))
	if err != nil {
		return nil, "", fmt.Errorf("revision %s: %w", rev.ShortID(), err)
	}
	name := rev.ShortID()
	if rev.Message != "" {
		name += " (" + strings.TrimSpace(rev.Message) + ")"
	}
	return doc, name, nil
}
