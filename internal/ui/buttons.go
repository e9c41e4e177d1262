package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/trestle/internal/styles"
)

// ButtonStyle picks the style for entry btn in a button row. Focus wins
// over hover; pass -1 for a state that does not apply.
func ButtonStyle(btn, focused, hovered int) lipgloss.Style {
	switch btn {
	case focused:
		return styles.ButtonFocused
	case hovered:
		return styles.ButtonHover
	}
	return styles.Button
}
