package app

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/config"
	"github.com/wilbur182/trestle/internal/keymap"
	"github.com/wilbur182/trestle/internal/styles"
)

// The switcher previews themes by mutating package-level styles, so these
// tests stay serial and put the original theme back when they finish.

func restoreTheme(t *testing.T) {
	t.Helper()
	original := styles.GetCurrentThemeName()
	t.Cleanup(func() { styles.ApplyTheme(original) })
}

func TestThemeSwitcherListsThemes(t *testing.T) {
	ts := newThemeSwitcher(config.Default())

	if got, want := len(ts.filtered), len(styles.ListThemes()); got != want {
		t.Fatalf("filtered = %d themes, want %d", got, want)
	}
	if ts.original != styles.GetCurrentThemeName() {
		t.Errorf("original = %q, want %q", ts.original, styles.GetCurrentThemeName())
	}
	if ts.cursor != 0 {
		t.Errorf("cursor = %d, want 0", ts.cursor)
	}
}

func TestThemeSwitcherFilters(t *testing.T) {
	restoreTheme(t)

	ts := newThemeSwitcher(config.Default())
	sw := &ts

	sw, _ = sw.Update(keyRunes("dra"))
	if len(sw.filtered) != 1 || sw.filtered[0] != "dracula" {
		t.Fatalf("filtered = %v, want [dracula]", sw.filtered)
	}
	if got := styles.GetCurrentThemeName(); got != "dracula" {
		t.Errorf("narrowing the filter should preview the match, active = %q", got)
	}

	sw, _ = sw.Update(keyRunes("zzz"))
	if len(sw.filtered) != 0 {
		t.Fatalf("filtered = %v, want none", sw.filtered)
	}

	// Enter with nothing selected keeps the switcher open.
	sw, cmd := sw.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if sw == nil {
		t.Fatal("enter on an empty list should not close the switcher")
	}
	if cmd != nil {
		t.Error("enter on an empty list should not emit a command")
	}
}

func TestThemeSwitcherPreviewAndCancel(t *testing.T) {
	restoreTheme(t)
	original := styles.GetCurrentThemeName()

	ts := newThemeSwitcher(config.Default())
	sw := &ts

	sw, _ = sw.Update(tea.KeyMsg{Type: tea.KeyDown})
	if sw.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", sw.cursor)
	}
	if got := styles.GetCurrentThemeName(); got != sw.filtered[1] {
		t.Errorf("moving the cursor should preview, active = %q want %q", got, sw.filtered[1])
	}

	sw, cmd := sw.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if sw != nil {
		t.Fatal("esc should close the switcher")
	}
	if got := styles.GetCurrentThemeName(); got != original {
		t.Errorf("esc should restore the original theme, active = %q want %q", got, original)
	}
	msg, ok := cmd().(themeChosenMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want themeChosenMsg", cmd())
	}
	if msg.name != "" || msg.err != nil {
		t.Errorf("cancel message = %+v, want empty", msg)
	}
}

func TestThemeSwitcherPersistsSelection(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	restoreTheme(t)

	ts := newThemeSwitcher(config.Default())
	sw := &ts

	sw, _ = sw.Update(keyRunes("nord"))
	sw, cmd := sw.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if sw != nil {
		t.Fatal("enter should close the switcher")
	}
	msg, ok := cmd().(themeChosenMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want themeChosenMsg", cmd())
	}
	if msg.name != "nord" {
		t.Fatalf("chosen name = %q, want %q", msg.name, "nord")
	}
	if msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}
	if got := styles.GetCurrentThemeName(); got != "nord" {
		t.Errorf("active theme = %q, want %q", got, "nord")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.Theme.Name != "nord" {
		t.Errorf("persisted theme = %q, want %q", cfg.UI.Theme.Name, "nord")
	}
}

func TestThemeSwitcherViewMarksCurrent(t *testing.T) {
	restoreTheme(t)
	styles.ApplyTheme("default")

	ts := newThemeSwitcher(config.Default())
	view := (&ts).View()

	if !strings.Contains(view, "Theme") {
		t.Error("view should carry the title")
	}
	if !strings.Contains(view, "Dracula") {
		t.Error("view should list theme display names")
	}
	if !strings.Contains(view, "(current)") {
		t.Error("view should mark the active theme")
	}
}

func TestThemeCommandOpensSwitcher(t *testing.T) {
	restoreTheme(t)
	rig := newTestRig(t)

	rig.step(appCommandMsg{id: keymap.CmdThemeSwitcher})
	if rig.model.themes == nil {
		t.Fatal("theme command should open the switcher")
	}

	rig.step(themeChosenMsg{name: "nord"})
	if rig.model.themes != nil {
		t.Error("chosen message should close the switcher")
	}
	if rig.model.cfg.UI.Theme.Name != "nord" {
		t.Errorf("config theme = %q, want %q", rig.model.cfg.UI.Theme.Name, "nord")
	}
	if rig.model.statusMsg != "Theme: nord" {
		t.Errorf("toast = %q, want %q", rig.model.statusMsg, "Theme: nord")
	}

	rig.step(appCommandMsg{id: keymap.CmdThemeSwitcher})
	rig.step(themeChosenMsg{err: errors.New("disk full")})
	if rig.model.themes != nil {
		t.Error("failed save should still close the switcher")
	}
	if rig.model.statusMsg != "Theme save failed" || !rig.model.statusIsError {
		t.Errorf("toast = %q (error=%v), want save failure", rig.model.statusMsg, rig.model.statusIsError)
	}
}
