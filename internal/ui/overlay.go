package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// OverlayModal composites a modal block over a full-screen background view,
// centered within a width x height canvas. The background stays visible
// around the modal; covered rows are spliced on visual columns so styled
// background text is not corrupted mid-escape-sequence.
func OverlayModal(background, modal string, width, height int) string {
	if modal == "" || width < 1 || height < 1 {
		return background
	}

	modalLines := strings.Split(modal, "\n")
	if len(modalLines) > height {
		modalLines = modalLines[:height]
	}

	modalWidth := 0
	for _, line := range modalLines {
		if w := ansi.StringWidth(line); w > modalWidth {
			modalWidth = w
		}
	}
	if modalWidth > width {
		modalWidth = width
	}

	row := (height - len(modalLines)) / 2
	col := (width - modalWidth) / 2

	bgLines := strings.Split(background, "\n")
	out := make([]string, height)
	for i := range height {
		var bg string
		if i < len(bgLines) {
			bg = bgLines[i]
		}
		j := i - row
		if j < 0 || j >= len(modalLines) {
			out[i] = bg
			continue
		}
		out[i] = spliceLine(bg, modalLines[j], col, modalWidth)
	}

	return strings.Join(out, "\n")
}

// spliceLine replaces the visual columns [col, col+overlayWidth) of bg with
// content. Both sides of the cut keep their ANSI styling; resets around the
// overlay stop background styles from bleeding into the modal and back.
func spliceLine(bg, content string, col, overlayWidth int) string {
	left := ansi.Truncate(bg, col, "")
	if w := ansi.StringWidth(left); w < col {
		left += strings.Repeat(" ", col-w)
	}

	content = ansi.Truncate(content, overlayWidth, "")
	if w := ansi.StringWidth(content); w < overlayWidth {
		content += strings.Repeat(" ", overlayWidth-w)
	}

	right := ansi.TruncateLeft(bg, col+overlayWidth, "")

	return left + ansi.ResetStyle + content + ansi.ResetStyle + right
}
