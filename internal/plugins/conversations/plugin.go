// Package conversations is the multi-tab chat panel: one tab per supervisor
// conversation, a message log, the prompt input and the approval panel for
// pending requests. All conversation state lives in the shared store; this
// plugin renders it and drives sends.
package conversations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/markdown"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/plugin"
)

const (
	pluginID   = "conversations"
	pluginName = "Conversations"
	pluginIcon = "C"

	// Typed into the input to spawn a tab locally; never sent.
	newTabTrigger = "/new"

	dividerWidth = 1
)

// Command ids, namespaced by plugin id so the app can route palette and
// keymap dispatches here.
const (
	cmdNewTab   = "conversations.new-tab"
	cmdCloseTab = "conversations.close-tab"
	cmdNextTab  = "conversations.next-tab"
	cmdPrevTab  = "conversations.prev-tab"
	cmdYank     = "conversations.yank"
	cmdYankTab  = "conversations.yank-tab"
	cmdApprove  = "conversations.approve"
	cmdDecline  = "conversations.decline"
	cmdRevise   = "conversations.revise"
)

// Preset replies for the approval panel. Approve is the literal the
// supervisor matches on; the other two follow the same convention.
const (
	replyApprove = "Yes"
	replyDecline = "No"
	replyRevise  = "Revise"
)

// presetReplies orders the approval buttons left to right.
var presetReplies = []string{replyApprove, replyDecline, replyRevise}

var (
	_ plugin.Plugin            = (*Plugin)(nil)
	_ plugin.TextInputConsumer = (*Plugin)(nil)
)

// Plugin implements the conversations panel.
type Plugin struct {
	ctx     *plugin.Context
	focused bool

	input        *Input
	log          logViewport
	renderer     *markdown.Renderer
	mouseHandler *mouse.Handler

	width  int
	height int

	// Layout state captured during render for mouse routing.
	sidebarWidth  int
	sidebarScroll int

	// Hovered approval button index, -1 when none.
	hoverButton int
}

// New creates the conversations plugin.
func New() *Plugin {
	return &Plugin{
		input:        NewInput(),
		log:          newLogViewport(),
		renderer:     markdown.NewRenderer(),
		mouseHandler: mouse.NewHandler(),
		hoverButton:  -1,
	}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon character.
func (p *Plugin) Icon() string { return pluginIcon }

// Init wires the shared context and registers the bindings that should show
// up in the palette. ctrl+t / ctrl+w ship with the defaults.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	if ctx.Keymap != nil {
		for _, b := range []struct{ key, command string }{
			{"]", cmdNextTab},
			{"[", cmdPrevTab},
			{"y", cmdYank},
			{"Y", cmdYankTab},
			{"ctrl+y", cmdApprove},
			{"ctrl+n", cmdDecline},
			{"ctrl+r", cmdRevise},
		} {
			ctx.Keymap.RegisterPluginBinding(b.key, b.command, pluginID)
		}
	}
	return nil
}

// Start begins plugin operation. The socket and history replay are owned by
// the app, so there is nothing to kick off here.
func (p *Plugin) Start() tea.Cmd { return nil }

// Stop releases plugin resources.
func (p *Plugin) Stop() {}

// Update handles messages.
func (p *Plugin) Update(msg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case plugin.PluginFocusedMsg:
		p.input.Focus()
		return p, nil

	case plugin.CommandMsg:
		return p.handleCommand(msg.ID)

	case SubmitMsg:
		return p.handleSubmit(msg.Text)

	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

// handleKey routes keys to the approval prompt, the input, or the log.
func (p *Plugin) handleKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if p.ctx.Store.Pending != nil {
			// Dismiss without answering; the prompt stays unanswered
			// server-side until the next pending_request.
			p.ctx.Store.ClearPending()
			return p, nil
		}
		if p.input.IsFocused() {
			p.input.Blur()
		}
		return p, nil
	}

	// Tab switching works regardless of where focus sits.
	switch msg.String() {
	case "alt+down", "alt+j":
		p.cycleTab(1)
		return p, nil
	case "alt+up", "alt+k":
		p.cycleTab(-1)
		return p, nil
	}

	if p.input.IsFocused() {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}

	switch msg.String() {
	case "enter", "i":
		p.input.Focus()
		return p, nil
	}

	// Remaining keys scroll the log.
	var cmd tea.Cmd
	p.log, cmd = p.log.Update(msg)
	return p, cmd
}

// handleCommand executes a routed palette/keymap command.
func (p *Plugin) handleCommand(id string) (plugin.Plugin, tea.Cmd) {
	switch id {
	case cmdNewTab:
		p.openTab()
	case cmdCloseTab:
		p.ctx.Store.Tabs.Close(p.ctx.Store.Tabs.ActiveID())
		p.log.Follow()
	case cmdNextTab:
		p.cycleTab(1)
	case cmdPrevTab:
		p.cycleTab(-1)
	case cmdYank:
		return p, p.yankLast()
	case cmdYankTab:
		return p, p.yankTranscript()
	case cmdApprove:
		return p, p.replyPending(replyApprove)
	case cmdDecline:
		return p, p.replyPending(replyDecline)
	case cmdRevise:
		return p, p.replyPending(replyRevise)
	}
	return p, nil
}

// handleSubmit consumes one submitted input line.
func (p *Plugin) handleSubmit(text string) (plugin.Plugin, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return p, nil
	}
	if strings.EqualFold(text, newTabTrigger) {
		p.openTab()
		return p, nil
	}
	if p.ctx.Store.Pending != nil {
		return p, p.replyPending(text)
	}
	return p, p.sendChat(text)
}

// openTab spawns a fresh tab with the next id and selects it.
func (p *Plugin) openTab() {
	p.ctx.Store.Tabs.Open()
	p.log.Follow()
}

// cycleTab moves the active tab selection by delta, wrapping.
func (p *Plugin) cycleTab(delta int) {
	tabs := p.ctx.Store.Tabs.Tabs()
	if len(tabs) == 0 {
		return
	}
	active := p.ctx.Store.Tabs.ActiveID()
	i := 0
	for j, t := range tabs {
		if t.ID == active {
			i = j
			break
		}
	}
	next := ((i+delta)%len(tabs) + len(tabs)) % len(tabs)
	p.ctx.Store.Tabs.Select(tabs[next].ID)
	p.log.Follow()
}

// sendChat echoes the text into the active tab and posts it to the
// supervisor. The echo lands before, and regardless of, the POST outcome.
func (p *Plugin) sendChat(text string) tea.Cmd {
	tabs := &p.ctx.Store.Tabs
	if tabs.Len() == 0 {
		tabs.Open()
	}
	id := tabs.ActiveID()

	echo := bridge.Message{
		Type:      bridge.TypeSessionInput,
		Text:      text,
		TabID:     bridge.TabRef(id),
		Direction: bridge.DirectionSent,
		Timestamp: bridge.Now(),
	}
	p.ctx.Store.RecordSent(echo)
	p.cacheEcho(echo)
	p.log.Follow()

	return p.postSend(bridge.Outbound{Type: bridge.TypeSessionInput, Text: text, TabID: bridge.TabRef(id)})
}

// replyPending answers the outstanding approval request. The prompt clears
// before the POST settles; the reply is addressed to the tab that raised it,
// not the active one.
func (p *Plugin) replyPending(text string) tea.Cmd {
	pending := p.ctx.Store.Pending
	if pending == nil {
		return nil
	}
	p.ctx.Store.ClearPending()

	echo := bridge.Message{
		Type:      bridge.TypePendingResponse,
		Text:      text,
		TabID:     bridge.TabRef(pending.TabID),
		Direction: bridge.DirectionSent,
		Timestamp: bridge.Now(),
	}
	p.ctx.Store.RecordSent(echo)
	p.cacheEcho(echo)
	p.log.Follow()

	return p.postSend(bridge.Outbound{Type: bridge.TypePendingResponse, Text: text, TabID: bridge.TabRef(pending.TabID)})
}

// postSend runs the POST /send off the update loop. Failures degrade to a
// toast and a log line.
func (p *Plugin) postSend(out bridge.Outbound) tea.Cmd {
	client := p.ctx.Bridge
	logger := p.ctx.Logger
	return func() tea.Msg {
		res, err := client.Send(context.Background(), out)
		if err != nil {
			logger.Warn("send failed", "type", out.Type, "error", err)
			return plugin.ToastMsg{Message: "Send failed: " + err.Error(), Duration: 3 * time.Second, IsError: true}
		}
		if res.Message != "" {
			logger.Debug("send acknowledged", "status", res.Status, "message", res.Message)
		}
		return nil
	}
}

// cacheEcho persists a local echo so it survives restarts. Replay feeds it
// back through the dedup gate, so double-append is harmless.
func (p *Plugin) cacheEcho(m bridge.Message) {
	if p.ctx.Cache == nil {
		return
	}
	if err := p.ctx.Cache.Append(m); err != nil {
		p.ctx.Logger.Warn("history append failed", "error", err)
	}
}

// yankLast copies the newest message of the active tab.
func (p *Plugin) yankLast() tea.Cmd {
	tab := p.ctx.Store.Tabs.Active()
	if tab == nil || len(tab.Messages) == 0 {
		return nil
	}
	return copyToClipboard(tab.Messages[len(tab.Messages)-1].Body(), "Message copied")
}

// yankTranscript copies the whole active tab, one prefixed line per message.
func (p *Plugin) yankTranscript() tea.Cmd {
	tab := p.ctx.Store.Tabs.Active()
	if tab == nil || len(tab.Messages) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, m := range tab.Messages {
		fmt.Fprintf(&sb, "%s: %s\n", transcriptRole(m), m.Body())
	}
	return copyToClipboard(sb.String(), fmt.Sprintf("Tab %d copied", tab.ID))
}

func transcriptRole(m bridge.Message) string {
	if m.Direction == bridge.DirectionSent {
		return "you"
	}
	if m.Type == bridge.TypePendingRequest {
		return "approval"
	}
	return "bridge"
}

func copyToClipboard(text, okNote string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return plugin.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: 2 * time.Second, IsError: true}
		}
		return plugin.ToastMsg{Message: okNote, Duration: 2 * time.Second}
	}
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// ConsumesTextInput reports whether typing should reach the textarea instead
// of single-key bindings.
func (p *Plugin) ConsumesTextInput() bool { return p.input.IsFocused() }

// Commands returns the palette commands.
func (p *Plugin) Commands() []plugin.Command {
	return []plugin.Command{
		{ID: cmdNewTab, Name: "New tab", Description: "Open a fresh conversation tab", Category: plugin.CategoryActions, Context: pluginID, Priority: 1},
		{ID: cmdCloseTab, Name: "Close tab", Description: "Close the active tab and drop its log", Category: plugin.CategoryActions, Context: pluginID, Priority: 2},
		{ID: cmdNextTab, Name: "Next tab", Description: "Select the following tab", Category: plugin.CategoryNavigation, Context: pluginID, Priority: 3},
		{ID: cmdPrevTab, Name: "Previous tab", Description: "Select the preceding tab", Category: plugin.CategoryNavigation, Context: pluginID, Priority: 4},
		{ID: cmdYank, Name: "Yank message", Description: "Copy the newest message in this tab", Category: plugin.CategoryActions, Context: pluginID, Priority: 5},
		{ID: cmdYankTab, Name: "Yank transcript", Description: "Copy the whole tab as text", Category: plugin.CategoryActions, Context: pluginID, Priority: 6},
		{ID: cmdApprove, Name: "Approve request", Description: "Reply Yes to the pending request", Category: plugin.CategoryActions, Context: pluginID, Priority: 7},
		{ID: cmdDecline, Name: "Decline request", Description: "Reply No to the pending request", Category: plugin.CategoryActions, Context: pluginID, Priority: 8},
		{ID: cmdRevise, Name: "Revise request", Description: "Ask the supervisor to revise the pending request", Category: plugin.CategoryActions, Context: pluginID, Priority: 9},
	}
}

// FocusContext returns the keymap context while this plugin is focused.
func (p *Plugin) FocusContext() string { return pluginID }
