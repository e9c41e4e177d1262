package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wilbur182/trestle/internal/config"
	"github.com/wilbur182/trestle/internal/styles"
)

// themeChosenMsg closes the switcher. name is empty when it was cancelled.
type themeChosenMsg struct {
	name string
	err  error
}

// themeSwitcher is the theme picker overlay. Moving the cursor previews a
// theme live; enter persists the selection, esc restores whatever was
// active before it opened.
type themeSwitcher struct {
	input     textinput.Model
	keys      []string
	filtered  []string
	cursor    int
	original  string
	overrides map[string]string
}

func newThemeSwitcher(cfg *config.Config) themeSwitcher {
	ti := textinput.New()
	ti.Placeholder = "Filter themes..."
	ti.Focus()
	ti.CharLimit = 30
	ti.Width = 28

	var overrides map[string]string
	if cfg != nil {
		overrides = cfg.UI.Theme.Overrides
	}

	keys := styles.ListThemes()
	return themeSwitcher{
		input:     ti,
		keys:      keys,
		filtered:  keys,
		original:  styles.GetCurrentThemeName(),
		overrides: overrides,
	}
}

func (t themeSwitcher) Init() tea.Cmd {
	return textinput.Blink
}

// Update consumes every key while the switcher is open. It returns nil when
// the switcher closed.
func (t *themeSwitcher) Update(msg tea.KeyMsg) (*themeSwitcher, tea.Cmd) {
	switch msg.String() {
	case "esc":
		styles.ApplyThemeWithOverrides(t.original, t.overrides)
		return nil, func() tea.Msg { return themeChosenMsg{} }

	case "enter":
		if len(t.filtered) == 0 {
			return t, nil
		}
		name := t.filtered[t.cursor]
		styles.ApplyThemeWithOverrides(name, t.overrides)
		err := config.SaveThemeWithOverrides(name, t.overrides)
		return nil, func() tea.Msg { return themeChosenMsg{name: name, err: err} }

	case "up", "ctrl+k":
		if t.cursor > 0 {
			t.cursor--
			t.preview()
		}
		return t, nil

	case "down", "ctrl+j":
		if t.cursor < len(t.filtered)-1 {
			t.cursor++
			t.preview()
		}
		return t, nil
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	t.refilter()
	return t, cmd
}

func (t *themeSwitcher) refilter() {
	q := strings.ToLower(strings.TrimSpace(t.input.Value()))
	if q == "" {
		t.filtered = t.keys
	} else {
		matched := make([]string, 0, len(t.keys))
		for _, k := range t.keys {
			if strings.Contains(strings.ToLower(k), q) {
				matched = append(matched, k)
			}
		}
		t.filtered = matched
	}
	if t.cursor >= len(t.filtered) {
		t.cursor = 0
	}
	t.preview()
}

func (t *themeSwitcher) preview() {
	if len(t.filtered) == 0 {
		return
	}
	styles.ApplyThemeWithOverrides(t.filtered[t.cursor], t.overrides)
}

func (t *themeSwitcher) View() string {
	var inner strings.Builder
	inner.WriteString(styles.ModalTitle.Render("Theme"))
	inner.WriteString("\n")
	inner.WriteString(t.input.View())
	inner.WriteString("\n\n")

	if len(t.filtered) == 0 {
		inner.WriteString(styles.Muted.Render("No themes match"))
		inner.WriteString("\n")
	}
	for i, key := range t.filtered {
		theme := styles.GetTheme(key)
		cursor := "  "
		name := fmt.Sprintf("%-14s", theme.DisplayName)
		if i == t.cursor {
			cursor = styles.ListCursor.Render("❯ ")
			name = styles.ListItemSelected.Render(name)
		} else {
			name = styles.ListItemNormal.Render(name)
		}

		inner.WriteString(cursor)
		inner.WriteString(name)
		inner.WriteString(" ")
		inner.WriteString(swatches(theme))
		if key == t.original {
			inner.WriteString(styles.Muted.Render(" (current)"))
		}
		inner.WriteString("\n")
	}

	inner.WriteString("\n")
	inner.WriteString(styles.Muted.Render("↑/↓ preview · enter apply · esc cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(46).
		Render(inner.String())
}

// swatches renders a strip of the theme's key colors.
func swatches(theme styles.Theme) string {
	var sb strings.Builder
	for _, hex := range []string{
		theme.Colors.Primary,
		theme.Colors.Success,
		theme.Colors.Warning,
		theme.Colors.Error,
	} {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██"))
	}
	return sb.String()
}
