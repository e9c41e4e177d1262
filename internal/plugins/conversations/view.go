package conversations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/mattn/go-runewidth"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/styles"
	"github.com/wilbur182/trestle/internal/ui"
)

// View renders the tab sidebar, the message log, the approval panel and the
// input, and rebuilds the mouse hit regions for the frame.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height
	p.mouseHandler.Clear()

	sidebarW := sidebarWidthFor(width)
	p.sidebarWidth = sidebarW

	mainX := 0
	if sidebarW > 0 {
		mainX = sidebarW + dividerWidth
	}
	mainW := width - mainX

	inputView := p.input.View(mainW)
	inputH := lipgloss.Height(inputView)

	promptView, promptButtons := p.renderPrompt(mainW)
	promptH := 0
	if promptView != "" {
		promptH = lipgloss.Height(promptView)
	}

	vpH := height - inputH - promptH
	if vpH < 1 {
		vpH = 1
	}
	p.log.SetSize(mainW, vpH)
	p.log.SetContent(p.renderLog(mainW))

	p.mouseHandler.HitMap.AddRect(regionLog, mainX, 0, mainW, vpH, nil)
	for i, b := range promptButtons {
		p.mouseHandler.HitMap.AddRect(regionPromptButton, mainX+b.x, vpH+b.y, b.w, 1, i)
	}
	p.mouseHandler.HitMap.AddRect(regionInput, mainX, vpH+promptH, mainW, inputH, nil)

	parts := []string{p.log.View()}
	if promptView != "" {
		parts = append(parts, promptView)
	}
	parts = append(parts, inputView)
	main := lipgloss.JoinVertical(lipgloss.Left, parts...)

	var content string
	if sidebarW > 0 {
		sidebar := p.renderSidebar(sidebarW, height)
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, ui.RenderDivider(height), main)
	} else {
		content = main
	}

	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// sidebarWidthFor sizes the tab list, hiding it entirely on narrow screens.
func sidebarWidthFor(width int) int {
	if width < 48 {
		return 0
	}
	w := width / 6
	if w < 14 {
		w = 14
	}
	if w > 20 {
		w = 20
	}
	return w
}

// renderSidebar renders the tab list and registers its hit regions.
func (p *Plugin) renderSidebar(width, height int) string {
	p.mouseHandler.HitMap.AddRect(regionSidebar, 0, 0, width, height, nil)

	tabs := p.ctx.Store.Tabs.Tabs()
	header := styles.PanelHeader.Render(fmt.Sprintf(" Tabs (%d)", len(tabs)))

	if len(tabs) == 0 {
		content := header + "\n" + styles.Muted.Render(" none yet")
		return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
	}

	// Keep the active tab inside the visible window.
	visible := height - 2
	if visible < 1 {
		visible = 1
	}
	activeIdx := 0
	for i, t := range tabs {
		if t.ID == p.ctx.Store.Tabs.ActiveID() {
			activeIdx = i
			break
		}
	}
	if activeIdx < p.sidebarScroll {
		p.sidebarScroll = activeIdx
	}
	if activeIdx >= p.sidebarScroll+visible {
		p.sidebarScroll = activeIdx - visible + 1
	}
	if p.sidebarScroll < 0 {
		p.sidebarScroll = 0
	}

	end := p.sidebarScroll + visible
	if end > len(tabs) {
		end = len(tabs)
	}

	rows := make([]string, 0, end-p.sidebarScroll)
	for i := p.sidebarScroll; i < end; i++ {
		y := 2 + (i - p.sidebarScroll)
		p.mouseHandler.HitMap.AddRect(regionTabItem, 0, y, width, 1, tabs[i].ID)
		rows = append(rows, p.renderTabRow(tabs[i].ID, tabs[i].Unread, i, width))
	}

	content := header + "\n" + strings.Join(rows, "\n")
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderTabRow renders one sidebar row: marker, accent dot, label and an
// unread badge pinned to the right edge.
func (p *Plugin) renderTabRow(id, unread, idx, width int) string {
	active := id == p.ctx.Store.Tabs.ActiveID()

	marker := "  "
	if active {
		marker = styles.ListCursor.Render("▸ ")
	}
	dot := lipgloss.NewStyle().Foreground(styles.TabColorFor(idx)).Render("●")

	label := runewidth.Truncate(fmt.Sprintf("Tab %d", id), width-6, "…")
	labelStyle := styles.TabTextInactive
	if active {
		labelStyle = styles.TabTextActive
	}
	left := marker + dot + " " + labelStyle.Render(label)

	badge := ""
	if unread > 0 {
		badge = styles.TabBadge.Render(strconv.Itoa(unread))
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(badge)
	if pad < 0 {
		pad = 0
	}
	return ansi.Truncate(left+strings.Repeat(" ", pad)+badge, width, "")
}

// renderLog renders the active tab's messages.
func (p *Plugin) renderLog(width int) string {
	tab := p.ctx.Store.Tabs.Active()
	if tab == nil {
		return styles.Muted.Render("\n  No conversations yet.\n\n  Inbound messages open tabs on their own; type below to start one.")
	}
	if len(tab.Messages) == 0 {
		return styles.Muted.Render(fmt.Sprintf("\n  Tab %d is empty — type a message below.", tab.ID))
	}

	var sb strings.Builder
	for i := range tab.Messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.renderMessage(tab.Messages[i], width))
	}
	return sb.String()
}

// renderMessage renders one message: a role/time meta line, then the body.
// Received text goes through the markdown renderer; sent text stays plain.
func (p *Plugin) renderMessage(m bridge.Message, width int) string {
	var role string
	switch {
	case m.Direction == bridge.DirectionSent:
		role = styles.MsgSent.Render("you")
	case m.Type == bridge.TypePendingRequest:
		role = styles.PromptTitle.Render("approval request")
	default:
		role = styles.MsgReceived.Render("bridge")
	}

	meta := role
	if t, ok := m.Timestamp.Time(); ok {
		meta += " " + styles.MsgMeta.Render(t.Local().Format("15:04:05"))
	}

	var body string
	if m.Direction == bridge.DirectionSent {
		wrapW := width - 2
		if wrapW < 10 {
			wrapW = 10
		}
		text := lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(cellbuf.Wrap(m.Body(), wrapW, ""))
		body = lipgloss.JoinHorizontal(lipgloss.Top, styles.MsgSent.Render("> "), text)
	} else {
		body = strings.Join(p.renderer.RenderContent(m.Body(), width), "\n")
	}

	return meta + "\n" + body
}

// promptButton is one approval button's geometry relative to the panel's
// top-left corner.
type promptButton struct {
	x, y, w int
}

// renderPrompt renders the approval panel for the pending request, or ""
// when none is outstanding. Button rects are returned for hit registration.
func (p *Plugin) renderPrompt(width int) (string, []promptButton) {
	pending := p.ctx.Store.Pending
	if pending == nil {
		return "", nil
	}

	contentWidth := width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := styles.PromptTitle.Render(fmt.Sprintf("Approval requested · Tab %d", pending.TabID))

	bodyLines := strings.Split(cellbuf.Wrap(pending.Text, contentWidth, ""), "\n")
	const maxBodyLines = 5
	if len(bodyLines) > maxBodyLines {
		bodyLines = append(bodyLines[:maxBodyLines], styles.Muted.Render("…"))
	}

	var buttons []promptButton
	var row strings.Builder
	x := 2 // border + padding
	buttonY := 2 + len(bodyLines) + 1
	for i, label := range presetReplies {
		btn := ui.ButtonStyle(i, -1, p.hoverButton).Render(label)
		w := lipgloss.Width(btn)
		buttons = append(buttons, promptButton{x: x, y: buttonY, w: w})
		row.WriteString(btn)
		row.WriteString("  ")
		x += w + 2
	}
	for _, hint := range []string{"esc dismiss · or reply below", "esc dismiss"} {
		if lipgloss.Width(row.String())+len(hint) <= contentWidth {
			row.WriteString(styles.Muted.Render(hint))
			break
		}
	}

	content := title + "\n" + strings.Join(bodyLines, "\n") + "\n\n" + row.String()
	return styles.PromptBox.Width(width - 2).Render(content), buttons
}

// logViewport wraps a bubbles viewport with tail-follow behavior: as long as
// the view sits at the bottom, new content keeps it there.
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

func (v *logViewport) View() string {
	return v.vp.View()
}
