package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/styles"
)

const (
	minWidth     = 30
	defaultWidth = 52
)

// ActionCancel is returned by Update when the modal is dismissed.
const ActionCancel = "cancel"

// Variant selects the accent color for the border and title.
type Variant int

const (
	VariantDefault Variant = iota
	VariantInfo
	VariantWarning
	VariantDanger
)

// Button is one choice in the modal's button row. Update returns its ID
// when the button is activated.
type Button struct {
	ID     string
	Label  string
	Danger bool
}

// Modal is a centered dialog with a title, body text, and a button row.
// It renders on top of the app view via ui.OverlayModal and reports the
// chosen button as an action string.
type Modal struct {
	Title   string
	Body    string
	Variant Variant
	Buttons []Button
	Width   int

	focusIdx int
	hoverID  string
}

// New creates a modal with the given buttons. The first button starts focused.
func New(title, body string, variant Variant, buttons ...Button) *Modal {
	return &Modal{
		Title:   title,
		Body:    body,
		Variant: variant,
		Buttons: buttons,
		Width:   defaultWidth,
	}
}

// Alert creates a single-button modal for status and error notices.
func Alert(title, body string, variant Variant) *Modal {
	return New(title, body, variant, Button{ID: "ok", Label: "OK"})
}

// Update handles keyboard input. It returns the activated button's ID,
// ActionCancel when the modal is dismissed, or "" when nothing happened.
func (m *Modal) Update(msg tea.Msg) string {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return ""
	}

	switch key.String() {
	case "tab", "right":
		m.moveFocus(1)
	case "shift+tab", "left":
		m.moveFocus(-1)
	case "enter":
		if m.focusIdx >= 0 && m.focusIdx < len(m.Buttons) {
			return m.Buttons[m.focusIdx].ID
		}
	case "esc":
		return ActionCancel
	case "y":
		// Danger modals accept y/n directly.
		if m.Variant == VariantDanger {
			for _, b := range m.Buttons {
				if b.Danger {
					return b.ID
				}
			}
		}
	case "n":
		if m.Variant == VariantDanger {
			return ActionCancel
		}
	}
	return ""
}

// HandleMouse applies a processed mouse action. Clicks on a button return
// its ID; hover moves the highlight; everything else is absorbed.
func (m *Modal) HandleMouse(action mouse.MouseAction) string {
	switch action.Type {
	case mouse.ActionHover:
		m.hoverID = ""
		if action.Region != nil {
			if id, ok := action.Region.Data.(string); ok {
				m.hoverID = id
			}
		}
	case mouse.ActionClick:
		if action.Region == nil {
			return ""
		}
		if id, ok := action.Region.Data.(string); ok && id != "" {
			for i, b := range m.Buttons {
				if b.ID == id {
					m.focusIdx = i
					return id
				}
			}
		}
	}
	return ""
}

func (m *Modal) moveFocus(delta int) {
	if len(m.Buttons) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + len(m.Buttons)) % len(m.Buttons)
}

// Render draws the modal box sized for the given screen and registers mouse
// hit regions when hits is non-nil. The returned block is positioned by
// ui.OverlayModal, which centers it the same way the hit math does.
func (m *Modal) Render(screenW, screenH int, hits *mouse.HitMap) string {
	width := m.Width
	if width < minWidth {
		width = minWidth
	}
	if limit := screenW - 4; limit > 0 && width > limit {
		width = limit
	}
	contentWidth := width - 6 // border(2) + padding(4)
	if contentWidth < 1 {
		contentWidth = 1
	}

	titleBlock := m.renderTitle()
	bodyBlock := wrapText(m.Body, contentWidth)
	buttonRow, offsets := m.renderButtons()
	hint := styles.Muted.Render("Tab to switch · Enter to confirm · Esc to cancel")

	var inner strings.Builder
	inner.WriteString(titleBlock)
	inner.WriteString("\n")
	inner.WriteString(bodyBlock)
	inner.WriteString("\n\n")
	inner.WriteString(buttonRow)
	inner.WriteString("\n\n")
	inner.WriteString(hint)

	styled := m.boxStyle(width).Render(inner.String())

	if hits != nil {
		modalW := lipgloss.Width(styled)
		modalH := lipgloss.Height(styled)
		modalX := (screenW - modalW) / 2
		modalY := (screenH - modalH) / 2
		if modalX < 0 {
			modalX = 0
		}
		if modalY < 0 {
			modalY = 0
		}

		hits.Clear()
		// Background absorber keeps clicks from reaching the view underneath.
		hits.AddRect("modal-backdrop", 0, 0, screenW, screenH, nil)
		hits.AddRect("modal-body", modalX, modalY, modalW, modalH, nil)

		// border(1) + padding: top 1, left 2
		buttonY := modalY + 2 + lipgloss.Height(titleBlock) + lipgloss.Height(bodyBlock) + 1
		buttonX := modalX + 3
		for i, b := range m.Buttons {
			hits.AddRect("modal-btn-"+b.ID, buttonX+offsets[i].x, buttonY, offsets[i].w, 1, b.ID)
		}
	}

	return styled
}

func (m *Modal) renderTitle() string {
	style := styles.ModalTitle
	switch m.Variant {
	case VariantDanger:
		style = style.Foreground(styles.Error)
	case VariantWarning:
		style = style.Foreground(styles.Warning)
	case VariantInfo:
		style = style.Foreground(styles.Info)
	}
	return style.Render(m.Title)
}

type buttonOffset struct {
	x, w int
}

func (m *Modal) renderButtons() (string, []buttonOffset) {
	var sb strings.Builder
	offsets := make([]buttonOffset, len(m.Buttons))
	x := 0

	for i, b := range m.Buttons {
		if i > 0 {
			sb.WriteString("  ")
			x += 2
		}
		rendered := m.buttonStyle(i, b).Render(b.Label)
		sb.WriteString(rendered)
		w := ansi.StringWidth(rendered)
		offsets[i] = buttonOffset{x: x, w: w}
		x += w
	}
	return sb.String(), offsets
}

func (m *Modal) buttonStyle(idx int, b Button) lipgloss.Style {
	focused := idx == m.focusIdx
	hovered := b.ID == m.hoverID

	if b.Danger {
		switch {
		case focused:
			return styles.ButtonDangerFocused
		case hovered:
			return styles.ButtonDangerHover
		default:
			return styles.ButtonDanger
		}
	}
	switch {
	case focused:
		return styles.ButtonFocused
	case hovered:
		return styles.ButtonHover
	default:
		return styles.Button
	}
}

func (m *Modal) boxStyle(width int) lipgloss.Style {
	borderColor := styles.Primary
	switch m.Variant {
	case VariantDanger:
		borderColor = styles.Error
	case VariantWarning:
		borderColor = styles.Warning
	case VariantInfo:
		borderColor = styles.Info
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(width)
}

// wrapText word-wraps text to the given visual width, preserving existing
// line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	lines := strings.Split(text, "\n")
	var result []string

	for _, line := range lines {
		if ansi.StringWidth(line) <= width {
			result = append(result, line)
			continue
		}

		words := strings.Fields(line)
		var current string
		for _, word := range words {
			switch {
			case current == "":
				current = word
			case ansi.StringWidth(current+" "+word) <= width:
				current += " " + word
			default:
				result = append(result, current)
				current = word
			}
		}
		if current != "" {
			result = append(result, current)
		}
	}

	return strings.Join(result, "\n")
}
