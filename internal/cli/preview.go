package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/scope"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	toggleOnStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

// previewCommand creates the interactive scope explorer.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Explore resolved variables and tokens interactively",
		Long: `Explore resolved variables and tokens interactively.

Toggle dark mode with 'd' and the portal region with 'p' to see how every
variable and color token resolves. 't' switches between variables and tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pipeline.Load(cmd.Context(), c.options())
			if err != nil {
				return err
			}
			p := tea.NewProgram(newPreviewModel(doc), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// previewModel - Interactive scope explorer
// =============================================================================

// previewKeys are the preview's key bindings. They double as the help line.
type previewKeys struct {
	Dark   key.Binding
	Portal key.Binding
	View   key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Dark, k.Portal, k.View, k.Up, k.Down, k.Quit}
}

func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultPreviewKeys = previewKeys{
	Dark:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark")),
	Portal: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "portal")),
	View:   key.NewBinding(key.WithKeys("t", "tab"), key.WithHelp("t", "variables/tokens")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type previewRow struct {
	name  string
	value string
	note  string // source layer or indirection
	err   bool
}

type previewModel struct {
	doc    *config.Document
	dark   bool
	portal bool
	tokens bool // show color tokens instead of variables

	rows   []previewRow
	cursor int
	offset int
	height int

	keys previewKeys
	help help.Model
}

func newPreviewModel(doc *config.Document) previewModel {
	m := previewModel{doc: doc, height: 15, keys: defaultPreviewKeys, help: help.New()}
	m.refresh()
	return m
}

// set returns the active predicate set.
func (m previewModel) set() scope.Set {
	var ps []scope.Predicate
	if m.dark {
		ps = append(ps, scope.Dark)
	}
	if m.portal {
		ps = append(ps, scope.Portal)
	}
	return scope.NewSet(ps...)
}

// refresh recomputes the rows for the current scope and view.
func (m *previewModel) refresh() {
	set := m.set()
	vars := m.doc.Variables()
	m.rows = nil

	if m.tokens {
		tokens := m.doc.Tokens()
		for _, tok := range tokens.Tokens() {
			v, err := tokens.Resolve(tok.Name, set, vars)
			row := previewRow{name: tok.Name, value: v, note: tok.Value}
			if err != nil {
				row.value, row.err = err.Error(), true
			}
			m.rows = append(m.rows, row)
		}
	} else {
		for _, k := range vars.Keys() {
			v, from, _ := vars.Lookup(set, k)
			m.rows = append(m.rows, previewRow{name: "--" + k, value: v, note: from.String()})
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
	m.offset = min(m.offset, m.cursor)
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dark):
			m.dark = !m.dark
			m.refresh()
		case key.Matches(msg, m.keys.Portal):
			m.portal = !m.portal
			m.refresh()
		case key.Matches(msg, m.keys.View):
			m.tokens = !m.tokens
			m.cursor, m.offset = 0, 0
			m.refresh()
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-7, 5)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	view := "variables"
	if m.tokens {
		view = "tokens"
	}
	b.WriteString(StyleTitle.Render("Scope preview") + "  " + listDimStyle.Render(view))
	b.WriteString("\n")
	b.WriteString(toggle("dark", m.dark) + "  " + toggle("portal", m.portal) + "  " +
		listDimStyle.Render("scope "+m.set().String()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		value := r.value
		if r.err {
			value = StyleWarning.Render(value)
		} else if _, ok := parseColor(r.value); ok {
			value = labelOn(r.value, r.value)
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", cursor, style.Render(fmt.Sprintf("%-28s", r.name)), value, listDimStyle.Render(r.note)))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	return b.String()
}

func toggle(name string, on bool) string {
	if on {
		return toggleOnStyle.Render("● " + name)
	}
	return listDimStyle.Render("○ " + name)
}
