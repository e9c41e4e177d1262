package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/trestle/internal/styles"
)

// RenderDivider draws a vertical rule between two panes. height is the full
// pane height; the rule is inset one row at each end so it sits between the
// pane borders rather than crossing them.
func RenderDivider(height int) string {
	rows := height - 2
	if rows < 1 {
		return ""
	}
	bar := strings.TrimSuffix(strings.Repeat("│\n", rows), "\n")
	return lipgloss.NewStyle().
		Foreground(styles.BorderNormal).
		MarginTop(1).
		Render(bar)
}
