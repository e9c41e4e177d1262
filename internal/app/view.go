package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/wilbur182/trestle/internal/styles"
	"github.com/wilbur182/trestle/internal/ui"
)

// Header rows: brand line plus the panel tab bar.
const headerHeight = 2

// Hit region ids registered by renderHeader.
const (
	regionHeaderHost = "header-host"
	regionHeaderTab  = "header-tab"
)

// View renders the frame: header, the active plugin's panel, the footer, and
// whichever overlay is open on top.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	header := m.renderHeader()

	footer := ""
	footerH := 0
	if m.showFooter {
		footer = m.renderFooter()
		footerH = 1
	}

	contentH := m.height - headerHeight - footerH
	content := ""
	if active := m.ActivePlugin(); active != nil && contentH > 0 {
		content = active.View(m.width, contentH)
	}
	content = fitHeight(content, contentH)

	view := header + "\n" + content
	if m.showFooter {
		view += "\n" + footer
	}

	switch {
	case m.dialog != nil:
		box := m.dialog.Render(m.width, m.height, m.dialogMouse.HitMap)
		return ui.OverlayModal(view, box, m.width, m.height)
	case m.showPalette:
		return ui.OverlayModal(view, m.palette.View(), m.width, m.height)
	case m.themes != nil:
		return ui.OverlayModal(view, m.themes.View(), m.width, m.height)
	}
	return view
}

// renderHeader draws the two header rows and rebuilds their hit regions.
// Row 0 carries the wordmark, the bridge host and the clock; row 1 is the
// panel tab bar.
func (m Model) renderHeader() string {
	m.headerHits.Clear()

	brand := styles.Logo.Render("Trestle")
	host := m.intro.HostView()
	if m.intro.Active {
		brand = m.intro.View()
	} else if host == "" && m.intro.HostName != "" {
		host = styles.Muted.Render(" / ") + styles.Subtitle.Render(m.intro.HostName)
	}

	if !m.intro.Active && host != "" {
		m.headerHits.AddRect(regionHeaderHost, 1+ansi.StringWidth(brand), 0, ansi.StringWidth(host), 1, nil)
	}

	right := ""
	if m.showClock && !m.clock.IsZero() {
		right = styles.Muted.Render(m.clock.Format("15:04"))
	}
	row0 := joinEnds(m.width, " "+brand+host, right)

	var sb strings.Builder
	sb.WriteString(" ")
	x := 1
	for i, p := range m.registry.Plugins() {
		if i > 0 {
			sb.WriteString("  ")
			x += 2
		}
		label := p.Icon() + " " + p.Name()
		style := styles.TabTextInactive
		if i == m.activePlugin {
			style = styles.TabTextActive.Foreground(styles.TabColorFor(i))
		}
		seg := style.Render(label)
		if n := m.unreadFor(p.ID()); n > 0 {
			seg += " " + styles.TabBadge.Render(fmt.Sprintf("%d", n))
		}
		w := ansi.StringWidth(seg)
		m.headerHits.AddRect(regionHeaderTab, x, 1, w, 1, i)
		sb.WriteString(seg)
		x += w
	}

	return row0 + "\n" + joinEnds(m.width, sb.String(), "")
}

func (m Model) unreadFor(pluginID string) int {
	switch pluginID {
	case "conversations":
		return m.conversationsUnread()
	case "activity":
		return m.activityUnread()
	}
	return 0
}

// renderFooter draws the status bar: connection state and host on the left,
// toast or version info on the right.
func (m Model) renderFooter() string {
	var left strings.Builder
	left.WriteString(" ")
	if m.store != nil && m.store.Connected {
		left.WriteString(styles.StatusOnline.Render("●"))
	} else {
		left.WriteString(styles.StatusOffline.Render("●"))
	}
	if m.intro.HostName != "" {
		left.WriteString(" ")
		left.WriteString(styles.Muted.Render(m.intro.HostName))
	}
	if m.connecting {
		left.WriteString("  ")
		left.WriteString(m.spinner.View())
		left.WriteString(" ")
		left.WriteString(styles.Muted.Render("connecting"))
	}

	var right string
	switch {
	case m.statusMsg != "":
		style := styles.ToastSuccess
		if m.statusIsError {
			style = styles.ToastError
		}
		right = style.Render(m.statusMsg)
	default:
		parts := []string{styles.KeyHint.Render("ctrl+p") + styles.Muted.Render(" palette")}
		if m.updateAvailable != nil {
			parts = append(parts, styles.StatusOnline.Render("⬆ "+m.updateAvailable.LatestVersion+" available"))
		}
		if m.currentVersion != "" {
			parts = append(parts, styles.Muted.Render(m.currentVersion))
		}
		right = strings.Join(parts, styles.Muted.Render(" │ ")) + " "
	}

	return joinEnds(m.width, left.String(), right)
}

// joinEnds lays left and right on one row of the given width. When they do
// not fit, the right side is dropped and the left truncated.
func joinEnds(width int, left, right string) string {
	lw := ansi.StringWidth(left)
	rw := ansi.StringWidth(right)
	gap := width - lw - rw
	if right == "" || gap < 1 {
		if lw > width {
			return ansi.Truncate(left, width, "…")
		}
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// fitHeight pads or truncates a block to exactly h lines so the footer stays
// glued to the bottom row.
func fitHeight(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
