package conversations

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/state"
)

func regionIDs(p *Plugin) map[string]int {
	counts := make(map[string]int)
	for _, r := range p.mouseHandler.HitMap.Regions() {
		counts[r.ID]++
	}
	return counts
}

func TestViewHeightConstrained(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	p.Update(SubmitMsg{Text: newTabTrigger})

	const width, height = 100, 24
	out := p.View(width, height)
	if out == "" {
		t.Fatal("View() returned empty string")
	}
	if lines := strings.Count(out, "\n") + 1; lines > height {
		t.Fatalf("View() produced %d lines, want <= %d", lines, height)
	}
}

func TestViewRegistersRegions(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	p.Update(SubmitMsg{Text: newTabTrigger})
	p.Update(SubmitMsg{Text: newTabTrigger})

	p.View(100, 24)
	counts := regionIDs(p)

	if counts[regionSidebar] != 1 {
		t.Errorf("sidebar regions = %d, want 1", counts[regionSidebar])
	}
	if counts[regionTabItem] != 2 {
		t.Errorf("tab row regions = %d, want 2", counts[regionTabItem])
	}
	if counts[regionLog] != 1 {
		t.Errorf("log regions = %d, want 1", counts[regionLog])
	}
	if counts[regionInput] != 1 {
		t.Errorf("input regions = %d, want 1", counts[regionInput])
	}
	if counts[regionPromptButton] != 0 {
		t.Errorf("prompt buttons = %d, want 0 without a pending request", counts[regionPromptButton])
	}
}

func TestViewNarrowHidesSidebar(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	p.Update(SubmitMsg{Text: newTabTrigger})

	p.View(40, 20)
	counts := regionIDs(p)
	if counts[regionSidebar] != 0 || counts[regionTabItem] != 0 {
		t.Fatalf("narrow layout still registered sidebar regions: %v", counts)
	}
	if counts[regionLog] != 1 || counts[regionInput] != 1 {
		t.Fatalf("narrow layout missing main regions: %v", counts)
	}
}

func TestViewShowsUnreadBadge(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	st := p.ctx.Store
	st.Tabs.Ensure(1)
	st.Tabs.Ensure(2)
	st.Tabs.Select(1)
	st.Tabs.Get(2).Unread = 7

	out := p.View(100, 24)
	if !strings.Contains(out, "7") {
		t.Fatal("expected the background tab's unread count in the sidebar")
	}
}

func TestViewShowsApprovalPanel(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	p.ctx.Store.Tabs.Ensure(2)
	p.ctx.Store.Pending = &state.Prompt{TabID: 2, Text: "Run migrations?"}

	out := p.View(100, 24)
	for _, want := range []string{"Approval requested", "Tab 2", "Run migrations?", "Yes", "No", "Revise"} {
		if !strings.Contains(out, want) {
			t.Errorf("approval panel missing %q", want)
		}
	}
	if got := regionIDs(p)[regionPromptButton]; got != 3 {
		t.Fatalf("prompt button regions = %d, want 3", got)
	}
}

func TestClickTabRowSelects(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	st := p.ctx.Store
	st.Tabs.Ensure(1)
	st.Tabs.Ensure(2)
	st.Tabs.Select(1)

	p.View(100, 24)

	// Rows start under the two header lines; the second row is tab 2.
	p.Update(tea.MouseMsg{X: 2, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := st.Tabs.ActiveID(); got != 2 {
		t.Fatalf("active tab after click = %d, want 2", got)
	}
}

func TestWheelOverSidebarCyclesTabs(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	st := p.ctx.Store
	st.Tabs.Ensure(1)
	st.Tabs.Ensure(2)
	st.Tabs.Select(1)

	p.View(100, 24)

	p.Update(tea.MouseMsg{X: 3, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if got := st.Tabs.ActiveID(); got != 2 {
		t.Fatalf("active tab after wheel = %d, want 2", got)
	}
}

func TestClickApprovalButtonSendsPreset(t *testing.T) {
	t.Parallel()

	srv, rec := newSendServer(t)
	p := newTestPlugin(t, srv.URL)
	p.ctx.Store.Tabs.Ensure(1)
	p.ctx.Store.Pending = &state.Prompt{TabID: 1, Text: "Continue?"}

	p.View(100, 24)

	var target *mouse.Region
	for _, r := range p.mouseHandler.HitMap.Regions() {
		if r.ID == regionPromptButton {
			if i, ok := r.Data.(int); ok && i == 1 { // the "No" button
				target = &r
				break
			}
		}
	}
	if target == nil {
		t.Fatal("no hit region for the decline button")
	}

	_, cmd := p.Update(tea.MouseMsg{
		X:      target.Rect.X,
		Y:      target.Rect.Y,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	if cmd == nil {
		t.Fatal("expected a send command from the button click")
	}
	if p.ctx.Store.Pending != nil {
		t.Fatal("prompt should clear on click")
	}
	cmd()

	sent := rec.all()
	if len(sent) != 1 || sent[0].Text != "No" || sent[0].Type != bridge.TypePendingResponse {
		t.Fatalf("unexpected outbound after click: %+v", sent)
	}
}

func TestHoverTracksApprovalButton(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	p.ctx.Store.Tabs.Ensure(1)
	p.ctx.Store.Pending = &state.Prompt{TabID: 1, Text: "Continue?"}

	p.View(100, 24)

	var target *mouse.Region
	for _, r := range p.mouseHandler.HitMap.Regions() {
		if r.ID == regionPromptButton {
			if i, ok := r.Data.(int); ok && i == 2 {
				target = &r
				break
			}
		}
	}
	if target == nil {
		t.Fatal("no hit region for the revise button")
	}

	p.Update(tea.MouseMsg{X: target.Rect.X, Y: target.Rect.Y, Action: tea.MouseActionMotion})
	if p.hoverButton != 2 {
		t.Fatalf("hoverButton = %d, want 2", p.hoverButton)
	}

	p.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if p.hoverButton != -1 {
		t.Fatalf("hoverButton = %d, want reset to -1", p.hoverButton)
	}
}
