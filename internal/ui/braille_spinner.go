package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/trestle/internal/styles"
)

// spinnerFrames is the classic single-cell braille cycle.
var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// BrailleSpinner is a one-cell activity indicator. It is passive: it only
// advances when Tick is called, so callers drive it from a tick message they
// already handle instead of scheduling another timer.
type BrailleSpinner struct {
	frame  int
	active bool
}

// NewBrailleSpinner returns an inactive spinner.
func NewBrailleSpinner() BrailleSpinner {
	return BrailleSpinner{}
}

// Start begins the animation from the first frame.
func (b *BrailleSpinner) Start() {
	b.active = true
	b.frame = 0
}

// Stop halts the animation.
func (b *BrailleSpinner) Stop() { b.active = false }

// IsActive reports whether the spinner is running.
func (b BrailleSpinner) IsActive() bool { return b.active }

// Tick advances one frame while active.
func (b *BrailleSpinner) Tick() {
	if b.active {
		b.frame = (b.frame + 1) % len(spinnerFrames)
	}
}

// View renders the current frame, or "" when stopped.
func (b BrailleSpinner) View() string {
	if !b.active {
		return ""
	}
	return lipgloss.NewStyle().Foreground(styles.Accent).Render(spinnerFrames[b.frame])
}
