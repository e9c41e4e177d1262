package palette

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/trestle/internal/styles"
)

const (
	keyColumnWidth = 12
	nameColumnMax  = 26
)

// View renders the palette modal and registers mouse hit regions for the
// visible entries. The caller composites the result over the app view;
// ui.OverlayModal centers it with the same math handleMouse uses.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	modalWidth := min(80, width-4)
	if modalWidth < 40 {
		modalWidth = 40
	}
	contentWidth := modalWidth - 6 // border(2) + padding(4)

	var inner strings.Builder
	inner.WriteString(m.textInput.View())
	inner.WriteString("\n")
	inner.WriteString(m.renderStatus(contentWidth))
	inner.WriteString("\n\n")
	inner.WriteString(m.renderEntries(contentWidth))
	inner.WriteString("\n\n")
	inner.WriteString(styles.Muted.Render("↑/↓ move · enter run · tab contexts · esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(modalWidth - 2).
		Render(inner.String())

	m.renderedW = lipgloss.Width(box)
	m.renderedH = lipgloss.Height(box)
	m.registerRegions(contentWidth)

	return box
}

// renderStatus renders the mode line under the input: scope on the left,
// match position on the right.
func (m *Model) renderStatus(contentWidth int) string {
	scope := m.activeContext
	if m.showAllContexts {
		scope = "all contexts"
	}
	if scope == "" {
		scope = "global"
	}

	left := styles.Subtle.Render(scope)

	count := fmt.Sprintf("%d", len(m.filtered))
	if len(m.filtered) > 0 {
		count = fmt.Sprintf("%d/%d", m.cursor+1, len(m.filtered))
	}
	if m.offset > 0 {
		count = "↑ " + count
	}
	if m.offset+m.maxVisible < len(m.filtered) {
		count += " ↓"
	}
	right := styles.Subtle.Render(count)

	gap := contentWidth - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderEntries renders exactly maxVisible rows, padding the tail so the
// modal height stays stable while filtering.
func (m *Model) renderEntries(contentWidth int) string {
	rows := make([]string, 0, m.maxVisible)

	if len(m.filtered) == 0 {
		rows = append(rows, styles.Muted.Render("  No matching commands"))
	}

	end := min(m.offset+m.maxVisible, len(m.filtered))
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderEntry(m.filtered[i], i == m.cursor, contentWidth))
	}
	for len(rows) < m.maxVisible {
		rows = append(rows, "")
	}

	return strings.Join(rows, "\n")
}

// renderEntry renders one palette row: cursor marker, highlighted name,
// muted description, right-aligned key.
func (m *Model) renderEntry(e PaletteEntry, selected bool, contentWidth int) string {
	marker := "  "
	nameStyle := styles.PaletteEntry
	if selected {
		marker = styles.ListCursor.Render("▸") + " "
		nameStyle = styles.PaletteEntrySelected
	}

	name := e.Name
	if m.showAllContexts && e.ContextCount > 1 {
		name = fmt.Sprintf("%s (%d)", name, e.ContextCount)
	}
	nameW := min(nameColumnMax, len([]rune(name)))
	rendered := highlightName(name, e.MatchRanges, nameStyle)
	pad := nameColumnMax - nameW
	if pad < 1 {
		pad = 1
	}

	key := e.Key
	if w := ansi.StringWidth(key); w > keyColumnWidth {
		key = ansi.Truncate(key, keyColumnWidth, "…")
	}
	keyRendered := styles.PaletteKey.Render(key)

	descWidth := contentWidth - 2 - nameColumnMax - pad - keyColumnWidth
	desc := ""
	if descWidth > 4 && e.Description != "" && e.Description != e.Name {
		desc = styles.Muted.Render(ansi.Truncate(e.Description, descWidth, "…"))
	}

	line := marker + rendered + strings.Repeat(" ", pad) + desc
	gap := contentWidth - ansi.StringWidth(line) - ansi.StringWidth(keyRendered)
	if gap < 1 {
		gap = 1
	}
	return line + strings.Repeat(" ", gap) + keyRendered
}

// highlightName applies the fuzzy-match style to the matched rune spans.
func highlightName(name string, ranges []MatchRange, base lipgloss.Style) string {
	runes := []rune(name)
	if len(runes) > nameColumnMax {
		runes = runes[:nameColumnMax-1]
		runes = append(runes, '…')
	}
	if len(ranges) == 0 {
		return base.Render(string(runes))
	}

	inRange := make([]bool, len(runes))
	for _, r := range ranges {
		for i := r.Start; i < r.End && i < len(runes); i++ {
			if i >= 0 {
				inRange[i] = true
			}
		}
	}

	var sb strings.Builder
	start := 0
	for start < len(runes) {
		end := start
		for end < len(runes) && inRange[end] == inRange[start] {
			end++
		}
		segment := string(runes[start:end])
		if inRange[start] {
			sb.WriteString(styles.FuzzyMatchChar.Render(segment))
		} else {
			sb.WriteString(base.Render(segment))
		}
		start = end
	}
	return sb.String()
}

// registerRegions records per-row hit regions in modal-relative coordinates.
// handleMouse translates screen coordinates before testing.
func (m *Model) registerRegions(contentWidth int) {
	m.mouseHandler.HitMap.Clear()

	// border(1) + padding(1) above content, then input, status, blank.
	firstRowY := 2 + 3
	end := min(m.offset+m.maxVisible, len(m.filtered))
	for i := m.offset; i < end; i++ {
		y := firstRowY + (i - m.offset)
		m.mouseHandler.HitMap.AddRect(regionPaletteEntry, 3, y, contentWidth, 1, i)
	}
}
