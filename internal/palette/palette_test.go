package palette

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/trestle/internal/keymap"
)

func openPalette(t *testing.T) Model {
	t.Helper()

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)

	m := New()
	m.SetSize(100, 40)
	m.Open(km, nil, "conversations", "conversations")
	return m
}

func TestOpenBuildsCurrentContextEntries(t *testing.T) {
	t.Parallel()

	m := openPalette(t)

	if m.ShowAllContexts() {
		t.Fatal("palette should open in current-context mode")
	}
	if len(m.Filtered()) == 0 {
		t.Fatal("expected entries for conversations + global")
	}
	for _, e := range m.Filtered() {
		if e.Context != "conversations" && e.Context != "global" {
			t.Fatalf("current-context mode leaked entry from %q", e.Context)
		}
	}
}

func TestTabTogglesAllContexts(t *testing.T) {
	t.Parallel()

	m := openPalette(t)
	before := len(m.Filtered())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.ShowAllContexts() {
		t.Fatal("tab should switch to all-contexts mode")
	}
	// Workspace bindings only show up in all-contexts mode.
	if len(m.Filtered()) < before {
		t.Fatalf("all-contexts mode shrank the list: %d -> %d", before, len(m.Filtered()))
	}
}

func TestTypingFiltersEntries(t *testing.T) {
	t.Parallel()

	m := openPalette(t)

	for _, r := range "quit" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	if len(m.Filtered()) == 0 {
		t.Fatal("filtering for quit should keep the quit command")
	}
	if m.Filtered()[0].CommandID != keymap.CmdQuit {
		t.Fatalf("top entry = %q, want %q", m.Filtered()[0].CommandID, keymap.CmdQuit)
	}
}

func TestEnterEmitsCommandSelected(t *testing.T) {
	t.Parallel()

	m := openPalette(t)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with a selection should emit a command")
	}

	msg, ok := cmd().(CommandSelectedMsg)
	if !ok {
		t.Fatalf("expected CommandSelectedMsg, got %T", cmd())
	}
	if msg.CommandID == "" {
		t.Fatal("selected command ID is empty")
	}
	_ = m
}

func TestViewRendersAndRegistersRegions(t *testing.T) {
	t.Parallel()

	m := openPalette(t)
	out := m.View()
	if out == "" {
		t.Fatal("view is empty")
	}
	if m.renderedW == 0 || m.renderedH == 0 {
		t.Fatal("view should capture rendered size")
	}
	if len(m.mouseHandler.HitMap.Regions()) == 0 {
		t.Fatal("view should register entry hit regions")
	}
}
