package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/themescope/pkg/config"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m previewModel, msgs ...tea.Msg) previewModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(previewModel)
	}
	return m
}

func row(m previewModel, name string) (previewRow, bool) {
	for _, r := range m.rows {
		if r.name == name {
			return r, true
		}
	}
	return previewRow{}, false
}

func TestPreviewToggles(t *testing.T) {
	doc, err := config.Parse(config.Starter())
	if err != nil {
		t.Fatal(err)
	}
	m := newPreviewModel(doc)

	tests := []struct {
		keys      []tea.Msg
		wantValue string
		wantFrom  string
	}{
		{nil, "#f9fafb", "default"},
		{[]tea.Msg{key("d")}, "#111827", "dark"},
		{[]tea.Msg{key("p")}, "#0f172a", "dark+portal"},
		{[]tea.Msg{key("d")}, "#f1f5f9", "portal"},
		{[]tea.Msg{key("p")}, "#f9fafb", "default"},
	}
	for i, tt := range tests {
		m = press(t, m, tt.keys...)
		r, ok := row(m, "--background-color")
		if !ok {
			t.Fatalf("step %d: no --background-color row", i)
		}
		if r.value != tt.wantValue || r.note != tt.wantFrom {
			t.Errorf("step %d: got %s from %s, want %s from %s", i, r.value, r.note, tt.wantValue, tt.wantFrom)
		}
	}
}

func TestPreviewTokensAndCursor(t *testing.T) {
	doc, err := config.Parse(config.Starter())
	if err != nil {
		t.Fatal(err)
	}
	m := newPreviewModel(doc)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.tokens || m.cursor != 0 {
		t.Fatalf("tab should switch to tokens and reset the cursor, got tokens=%v cursor=%d", m.tokens, m.cursor)
	}
	if _, ok := row(m, "tag.location.bg"); !ok {
		t.Error("token view missing tag.location.bg")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.cursor)
	}

	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	if m.height != 5 {
		t.Errorf("height = %d, want 5", m.height)
	}
	if !strings.Contains(m.View(), "tokens") {
		t.Error("View() does not mention the token view")
	}
}
