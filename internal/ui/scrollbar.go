package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/trestle/internal/styles"
)

const (
	trackGlyph = "│"
	thumbGlyph = "┃"
)

// RenderScrollbar draws a one-column vertical scrollbar for a viewport
// showing visible of total lines, scrolled down by offset. The column is
// track rows tall. When everything fits it degrades to a blank column so
// the layout keeps its width.
func RenderScrollbar(track, total, visible, offset int) string {
	if track < 1 {
		return ""
	}
	if total <= visible || total < 1 {
		return strings.TrimSuffix(strings.Repeat(" \n", track), "\n")
	}

	// Thumb height follows the visible fraction, never shorter than one row.
	size := visible * track / total
	size = min(max(size, 1), track)

	span := max(total-visible, 1)
	top := offset * (track - size) / span
	top = min(max(top, 0), track-size)

	trackStyle := lipgloss.NewStyle().Foreground(styles.ScrollbarTrackColor)
	thumbStyle := lipgloss.NewStyle().Foreground(styles.ScrollbarThumbColor)

	column := func(style lipgloss.Style, glyph string, rows int) string {
		if rows < 1 {
			return ""
		}
		return strings.TrimSuffix(strings.Repeat(style.Render(glyph)+"\n", rows), "\n")
	}

	parts := make([]string, 0, 3)
	for _, seg := range []string{
		column(trackStyle, trackGlyph, top),
		column(thumbStyle, thumbGlyph, size),
		column(trackStyle, trackGlyph, track-top-size),
	} {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "\n")
}
