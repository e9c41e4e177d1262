package workspace

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/mattn/go-runewidth"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/styles"
)

// Pane geometry. Inner widths are text columns; the panel border and
// padding add four more per pane.
const (
	paneGap         = 2
	minTreeInner    = 20
	singlePaneBelow = 64
)

// View renders the tree and preview panes side by side, degrading to the
// active pane alone when the terminal is too narrow for both.
func (p *Plugin) View(width, height int) string {
	p.mouseHandler.Clear()
	p.syncGen()

	if width <= 0 || height <= 0 {
		return ""
	}

	contentH := max(height-2, 1)
	rowsH := max(contentH-2, 1)
	p.treeHeight = rowsH
	p.previewHeight = rowsH

	if width < singlePaneBelow {
		inner := max(width-4, 10)
		if p.activePane == PanePreview {
			p.mouseHandler.HitMap.AddRect(regionPreview, 0, 0, width, height, nil)
			return clampView(p.renderPreviewPane(inner, contentH, rowsH, p.focused), width, height)
		}
		p.mouseHandler.HitMap.AddRect(regionTree, 0, 0, width, height, nil)
		return clampView(p.renderTreePane(inner, contentH, rowsH, p.focused), width, height)
	}

	avail := width - 2*4 - paneGap
	treeInner := max(avail*3/10, minTreeInner)
	previewInner := max(avail-treeInner, minTreeInner)

	p.mouseHandler.HitMap.AddRect(regionTree, 0, 0, treeInner+4, height, nil)
	p.mouseHandler.HitMap.AddRect(regionPreview, treeInner+4+paneGap, 0, previewInner+4, height, nil)

	treePane := p.renderTreePane(treeInner, contentH, rowsH, p.focused && p.activePane == PaneTree)
	previewPane := p.renderPreviewPane(previewInner, contentH, rowsH, p.focused && p.activePane == PanePreview)

	joined := lipgloss.JoinHorizontal(lipgloss.Top, treePane, strings.Repeat(" ", paneGap), previewPane)
	return clampView(joined, width, height)
}

func (p *Plugin) renderTreePane(inner, contentH, rowsH int, focused bool) string {
	header := styles.PanelHeader.Render("Workspace")
	body := p.renderTreeRows(inner, rowsH)
	style := styles.PanelInactive
	if focused {
		style = styles.PanelActive
	}
	return style.Width(inner + 2).Height(contentH).Render(header + "\n" + body)
}

// renderTreeRows renders the visible slice of the flattened forest, keeping
// the cursor in view, and registers a hit region per visible row.
func (p *Plugin) renderTreeRows(inner, rowsH int) string {
	tree := &p.ctx.Store.Tree
	switch tree.Status {
	case "":
		if p.skeleton.IsActive() {
			return p.skeleton.View(inner)
		}
		return styles.Muted.Render("Loading workspace…")
	case bridge.StatusEmpty:
		msg := tree.Message
		if msg == "" {
			msg = "Workspace is empty."
		}
		return styles.Muted.Render(cellbuf.Wrap(msg, inner, ""))
	case bridge.StatusError:
		return styles.TreeError.Render(cellbuf.Wrap(tree.Message, inner, ""))
	}

	rows := flattenForest(tree.Roots, p.expanded, p.fetched, p.loading)
	if len(rows) == 0 {
		return styles.Muted.Render("Workspace is empty.")
	}
	p.cursor = min(max(p.cursor, 0), len(rows)-1)

	// Keep the cursor visible.
	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	}
	if p.cursor >= p.scrollOff+rowsH {
		p.scrollOff = p.cursor - rowsH + 1
	}
	p.scrollOff = min(max(p.scrollOff, 0), max(len(rows)-rowsH, 0))

	var b strings.Builder
	end := min(p.scrollOff+rowsH, len(rows))
	for i := p.scrollOff; i < end; i++ {
		if i > p.scrollOff {
			b.WriteByte('\n')
		}
		b.WriteString(p.renderTreeRow(rows[i], i == p.cursor, inner))
		p.mouseHandler.HitMap.AddRect(regionTreeRow, 2, 3+(i-p.scrollOff), inner, 1, i)
	}
	return b.String()
}

// renderTreeRow renders one row. Truncation happens before styling so the
// escape sequences stay intact.
func (p *Plugin) renderTreeRow(row treeRow, selected bool, width int) string {
	marker := "  "
	switch {
	case row.IsDir && p.expanded[row.Path]:
		marker = "> "
	case row.IsDir:
		marker = "+ "
	}
	label := runewidth.Truncate(strings.Repeat("  ", row.Depth)+marker+row.Name, width, "…")

	if selected {
		return styles.ListItemSelected.Render(padRight(label, width))
	}
	switch {
	case row.Loading || row.Empty:
		return styles.Muted.Render(label)
	case row.IsDir:
		return styles.TreeDir.Render(label)
	default:
		return styles.TreeFile.Render(label)
	}
}

func (p *Plugin) renderPreviewPane(inner, contentH, rowsH int, focused bool) string {
	title := "Preview"
	if p.preview.Path != "" {
		title = runewidth.Truncate(p.preview.Path, inner, "…")
	}
	header := styles.PanelHeader.Render(title)
	body := p.renderPreviewBody(inner, rowsH)
	style := styles.PanelInactive
	if focused {
		style = styles.PanelActive
	}
	return style.Width(inner + 2).Height(contentH).Render(header + "\n" + body)
}

// renderPreviewBody renders up to rowsH lines of the loaded file with line
// numbers. Load failures and binary detection render as content.
func (p *Plugin) renderPreviewBody(inner, rowsH int) string {
	pv := &p.preview
	switch {
	case pv.Path == "":
		return styles.Muted.Render("Select a file to preview.")
	case pv.Loading:
		if p.skeleton.IsActive() {
			return p.skeleton.View(inner)
		}
		return styles.Muted.Render("Loading…")
	case pv.Err != "":
		return styles.TreeError.Render(cellbuf.Wrap(pv.Err, inner, ""))
	case pv.Binary:
		return styles.Muted.Render("Binary file, no preview.")
	case len(pv.Lines) == 0:
		return styles.Muted.Render("Empty file.")
	}

	pv.Scroll = min(max(pv.Scroll, 0), max(len(pv.Lines)-rowsH, 0))

	lineW := max(inner-6, 10)
	var b strings.Builder
	end := min(pv.Scroll+rowsH, len(pv.Lines))
	for i := pv.Scroll; i < end; i++ {
		if i > pv.Scroll {
			b.WriteByte('\n')
		}
		line := pv.Lines[i]
		if i < len(pv.Highlighted) {
			line = pv.Highlighted[i]
		}
		b.WriteString(styles.TreeLineNumber.Render(strconv.Itoa(i + 1)))
		b.WriteByte(' ')
		b.WriteString(lipgloss.NewStyle().MaxWidth(lineW).Render(line))
	}
	if pv.Truncated && end == len(pv.Lines) && end-pv.Scroll < rowsH {
		b.WriteByte('\n')
		b.WriteString(styles.Muted.Render("… preview truncated"))
	}
	return b.String()
}

func clampView(s string, width, height int) string {
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(s)
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
