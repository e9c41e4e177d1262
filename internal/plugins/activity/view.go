package activity

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/styles"
	"github.com/wilbur182/trestle/internal/ui"
)

const regionLog = "log"

// View renders the feed inside a single panel.
func (p *Plugin) View(width, height int) string {
	p.mouseHandler.Clear()

	if width <= 0 || height <= 0 {
		return ""
	}

	inner := max(width-4, 10)
	contentH := max(height-2, 1)
	feedH := max(contentH-2, 1)
	feedW := max(inner-2, 8)

	header := styles.PanelHeader.Render(fmt.Sprintf("Activity (%d)", len(p.ctx.Store.General)))
	p.log.SetSize(feedW, feedH)
	p.log.SetContent(p.renderFeed(feedW))

	p.mouseHandler.HitMap.AddRect(regionLog, 0, 0, width, height, nil)

	scrollbar := ui.RenderScrollbar(feedH, p.log.TotalLines(), feedH, p.log.Offset())
	body := lipgloss.JoinHorizontal(lipgloss.Top, p.log.View(), " ", scrollbar)

	style := styles.PanelInactive
	if p.focused {
		style = styles.PanelActive
	}
	pane := style.Width(inner + 2).Height(contentH).Render(header + "\n" + body)
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(pane)
}

// renderFeed renders every entry, oldest first.
func (p *Plugin) renderFeed(width int) string {
	entries := p.ctx.Store.General
	if len(entries) == 0 {
		return styles.Muted.Render("No activity yet. Supervisor events will show up here.")
	}
	blocks := make([]string, 0, len(entries))
	for _, m := range entries {
		blocks = append(blocks, renderEntry(m, width))
	}
	return strings.Join(blocks, "\n\n")
}

// renderEntry renders one feed entry: a meta line with timestamp and event
// type, then the body indented beneath it.
func renderEntry(m bridge.Message, width int) string {
	labelStyle := styles.MsgReceived
	if m.Direction == bridge.DirectionSent {
		labelStyle = styles.MsgSent
	}
	meta := styles.MsgMeta.Render(entryTime(m)) + " " + labelStyle.Render(entryLabel(m))

	body := strings.TrimSpace(m.Body())
	if body == "" {
		return meta
	}
	wrapped := cellbuf.Wrap(body, max(width-2, 10), "")
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = "  " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(line)
	}
	return meta + "\n" + strings.Join(lines, "\n")
}

// logViewport wraps the bubbles viewport with tail following: while the user
// sits at the bottom, new content keeps the view pinned there.
type logViewport struct {
	vp       viewport.Model
	atBottom bool
}

func newLogViewport() logViewport {
	return logViewport{vp: viewport.New(0, 0), atBottom: true}
}

func (v *logViewport) SetSize(width, height int) {
	v.vp.Width = width
	v.vp.Height = height
}

func (v *logViewport) SetContent(content string) {
	v.vp.SetContent(content)
	if v.atBottom {
		v.vp.GotoBottom()
	}
}

// Follow snaps back to the tail on the next content set.
func (v *logViewport) Follow() {
	v.atBottom = true
	v.vp.GotoBottom()
}

func (v *logViewport) Update(msg tea.Msg) (logViewport, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	v.atBottom = v.vp.AtBottom()
	return *v, cmd
}

func (v *logViewport) ScrollBy(delta int) {
	v.vp.SetYOffset(v.vp.YOffset + delta)
	v.atBottom = v.vp.AtBottom()
}

// TotalLines reports the full content height, for the scrollbar.
func (v *logViewport) TotalLines() int { return v.vp.TotalLineCount() }

// Offset reports the current scroll position, for the scrollbar.
func (v *logViewport) Offset() int { return v.vp.YOffset }

func (v *logViewport) View() string {
	return v.vp.View()
}
