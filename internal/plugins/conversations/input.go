package conversations

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wilbur182/trestle/internal/styles"
)

// SubmitMsg is emitted when the user submits the input line.
type SubmitMsg struct {
	Text string
}

// Input is the chat prompt backed by a bubbles textarea. It doubles as the
// reply box while an approval request is pending.
type Input struct {
	textarea textarea.Model
	focused  bool
}

// NewInput creates a new Input with default settings.
func NewInput() *Input {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.SetHeight(1)
	ta.MaxHeight = 5
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	// Plain enter submits (handled in Update), so newline needs its own chord.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Blur()

	return &Input{textarea: ta}
}

// Update handles incoming tea messages.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter && !keyMsg.Alt {
		// Submit on Enter; alt+enter falls through for a literal newline.
		val := strings.TrimSpace(i.textarea.Value())
		if val == "" {
			return i, nil
		}
		i.textarea.Reset()
		return i, func() tea.Msg { return SubmitMsg{Text: val} }
	}

	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	return i, cmd
}

// View renders the input constrained to the given width. The box grows with
// the composed text up to three rows.
func (i *Input) View(width int) string {
	if width <= 0 {
		width = 80
	}

	// Border + padding on both sides.
	innerWidth := width - 4
	if innerWidth < 1 {
		innerWidth = 1
	}
	i.textarea.SetWidth(innerWidth)

	rows := i.textarea.LineCount()
	if rows < 1 {
		rows = 1
	}
	if rows > 3 {
		rows = 3
	}
	i.textarea.SetHeight(rows)

	// Built per render so theme switches take effect.
	border := styles.BorderNormal
	if i.focused {
		border = styles.BorderActive
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	return box.Width(width - 2).Render(i.textarea.View())
}

// Focus focuses the textarea.
func (i *Input) Focus() {
	i.textarea.Focus()
	i.focused = true
}

// Blur blurs the textarea.
func (i *Input) Blur() {
	i.textarea.Blur()
	i.focused = false
}

// Value returns the current textarea text.
func (i *Input) Value() string {
	return i.textarea.Value()
}

// Reset clears the textarea content.
func (i *Input) Reset() {
	i.textarea.Reset()
}

// IsFocused returns whether the input is focused.
func (i *Input) IsFocused() bool {
	return i.focused
}
