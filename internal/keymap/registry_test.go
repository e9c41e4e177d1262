package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type firedMsg string

func fire(id string) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return firedMsg(id) }
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mustFire(t *testing.T, cmd tea.Cmd, want string) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected command %q, got none", want)
	}
	msg, ok := cmd().(firedMsg)
	if !ok || string(msg) != want {
		t.Fatalf("fired %v, want %q", msg, want)
	}
}

func TestHandleDispatches(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCommand(Command{ID: "app.quit", Handler: fire("app.quit")})
	r.RegisterBinding(Binding{Key: "ctrl+q", Command: "app.quit", Context: "global"})

	mustFire(t, r.Handle(tea.KeyMsg{Type: tea.KeyCtrlQ}, "conversations"), "app.quit")

	if cmd := r.Handle(runes("z"), "conversations"); cmd != nil {
		t.Fatal("unbound key should yield nil")
	}
}

func TestContextPrecedence(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCommand(Command{ID: "global.thing", Handler: fire("global.thing")})
	r.RegisterCommand(Command{ID: "workspace.thing", Handler: fire("workspace.thing")})
	r.RegisterBinding(Binding{Key: "ctrl+r", Command: "global.thing", Context: "global"})
	r.RegisterBinding(Binding{Key: "ctrl+r", Command: "workspace.thing", Context: "workspace"})

	mustFire(t, r.Handle(tea.KeyMsg{Type: tea.KeyCtrlR}, "workspace"), "workspace.thing")
	mustFire(t, r.Handle(tea.KeyMsg{Type: tea.KeyCtrlR}, "activity"), "global.thing")
}

func TestUserOverrideWins(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCommand(Command{ID: "a", Handler: fire("a")})
	r.RegisterCommand(Command{ID: "b", Handler: fire("b")})
	r.RegisterBinding(Binding{Key: "ctrl+t", Command: "a", Context: "global"})
	r.ApplyOverrides(map[string]string{"ctrl+t": "b"})

	mustFire(t, r.Handle(tea.KeyMsg{Type: tea.KeyCtrlT}, ""), "b")
}

func TestKeySequences(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCommand(Command{ID: "app.focus-workspace", Handler: fire("app.focus-workspace")})
	r.RegisterBinding(Binding{Key: "g w", Command: "app.focus-workspace", Context: "global"})

	// First key of a sequence is held, not dispatched.
	if cmd := r.Handle(runes("g"), ""); cmd != nil {
		t.Fatal("sequence prefix should not dispatch")
	}
	if !r.HasPending() {
		t.Fatal("prefix should be pending")
	}
	mustFire(t, r.Handle(runes("w"), ""), "app.focus-workspace")
	if r.HasPending() {
		t.Fatal("sequence should be consumed")
	}

	// A broken sequence falls through to the second key on its own.
	r.RegisterCommand(Command{ID: "solo", Handler: fire("solo")})
	r.RegisterBinding(Binding{Key: "x", Command: "solo", Context: "global"})
	if cmd := r.Handle(runes("g"), ""); cmd != nil {
		t.Fatal("prefix dispatched")
	}
	mustFire(t, r.Handle(runes("x"), ""), "solo")
}

func TestResetPending(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCommand(Command{ID: "c", Handler: fire("c")})
	r.RegisterBinding(Binding{Key: "g a", Command: "c", Context: "global"})

	r.Handle(runes("g"), "")
	r.ResetPending()
	if r.HasPending() {
		t.Fatal("pending not cleared")
	}
}

func TestAllContexts(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "a", Command: "x", Context: "workspace"})
	r.RegisterBinding(Binding{Key: "b", Command: "y", Context: "global"})
	r.RegisterPluginBinding("c", "z", "conversations")

	got := r.AllContexts()
	want := []string{"conversations", "global", "workspace"}
	if len(got) != len(want) {
		t.Fatalf("AllContexts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllContexts() = %v, want %v", got, want)
		}
	}
}

func TestCommandsSortedByID(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterCommand(Command{ID: "b.two", Name: "Two", Context: "global"})
	r.RegisterCommand(Command{ID: "a.one", Name: "One", Context: "global"})
	r.RegisterCommand(Command{ID: "c.three", Name: "Three", Context: "plugin"})

	cmds := r.Commands()
	want := []string{"a.one", "b.two", "c.three"}
	if len(cmds) != len(want) {
		t.Fatalf("Commands() returned %d commands, want %d", len(cmds), len(want))
	}
	for i, id := range want {
		if cmds[i].ID != id {
			t.Errorf("cmds[%d].ID = %q, want %q", i, cmds[i].ID, id)
		}
	}
}

func TestRegisterDefaultsBindings(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	RegisterDefaults(r)

	if got := r.BindingsForContext("global"); len(got) == 0 {
		t.Fatal("no global bindings installed")
	}
	found := false
	for _, b := range r.BindingsForContext("conversations") {
		if b.Key == "ctrl+t" && b.Command == CmdNewTab {
			found = true
		}
	}
	if !found {
		t.Fatal("conversations new-tab binding missing")
	}
}
