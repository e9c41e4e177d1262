// Package activity is the general event feed: every inbound message that is
// not tab-scoped or a tree update lands here, newest at the bottom. Progress
// notices from the supervisor (git_status and friends) make up most of it.
package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/plugin"
)

const (
	pluginID   = "activity"
	pluginName = "Activity"
	pluginIcon = "A"
)

// Command ids, namespaced by plugin id.
const (
	cmdFollow  = "activity.follow"
	cmdYankLog = "activity.yank-log"
)

var _ plugin.Plugin = (*Plugin)(nil)

// Plugin implements the activity feed panel.
type Plugin struct {
	ctx     *plugin.Context
	focused bool

	log          logViewport
	mouseHandler *mouse.Handler

	width  int
	height int
}

// New creates the activity plugin.
func New() *Plugin {
	return &Plugin{
		log:          newLogViewport(),
		mouseHandler: mouse.NewHandler(),
	}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon character.
func (p *Plugin) Icon() string { return pluginIcon }

// Init wires the shared context and registers bindings.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	if ctx.Keymap != nil {
		ctx.Keymap.RegisterPluginBinding("f", cmdFollow, pluginID)
		ctx.Keymap.RegisterPluginBinding("y", cmdYankLog, pluginID)
	}
	return nil
}

// Start begins plugin operation. The feed is fed by the app's socket loop,
// so there is nothing to kick off.
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

	case plugin.CommandMsg:
		return p.handleCommand(msg.ID)

	case tea.MouseMsg:
		p.handleMouse(msg)
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

func (p *Plugin) handleCommand(id string) (plugin.Plugin, tea.Cmd) {
	switch id {
	case cmdFollow:
		p.log.Follow()
	case cmdYankLog:
		return p, p.yankLog()
	}
	return p, nil
}

// handleKey scrolls the feed. G and end snap back to following the tail.
func (p *Plugin) handleKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch msg.String() {
	case "G", "end":
		p.log.Follow()
		return p, nil
	case "home":
		p.log.ScrollBy(-1 << 30)
		return p, nil
	}
	var cmd tea.Cmd
	p.log, cmd = p.log.Update(msg)
	return p, cmd
}

func (p *Plugin) handleMouse(msg tea.MouseMsg) {
	action := p.mouseHandler.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		p.log.ScrollBy(action.Delta)
	}
}

// yankLog copies the whole feed as plain text, one line per entry.
func (p *Plugin) yankLog() tea.Cmd {
	entries := p.ctx.Store.General
	if len(entries) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, m := range entries {
		fmt.Fprintf(&sb, "%s %s: %s\n", entryTime(m), entryLabel(m), m.Body())
	}
	text := sb.String()
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return plugin.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: 2 * time.Second, IsError: true}
		}
		return plugin.ToastMsg{Message: "Activity log copied", Duration: 2 * time.Second}
	}
}

// entryTime formats the wire timestamp for display, falling back to a blank
// marker when the stamp is unparsable.
func entryTime(m bridge.Message) string {
	if t, ok := m.Timestamp.Time(); ok {
		return t.Local().Format("15:04:05")
	}
	return "--:--:--"
}

// entryLabel is the displayed event type.
func entryLabel(m bridge.Message) string {
	if m.Type == "" {
		return "event"
	}
	return m.Type
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Commands returns the palette commands.
func (p *Plugin) Commands() []plugin.Command {
	return []plugin.Command{
		{ID: cmdFollow, Name: "Follow feed", Description: "Jump to the newest activity", Category: plugin.CategoryNavigation, Context: pluginID, Priority: 1},
		{ID: cmdYankLog, Name: "Yank activity log", Description: "Copy the whole feed as text", Category: plugin.CategoryActions, Context: pluginID, Priority: 2},
	}
}

// FocusContext returns the keymap context while this plugin is focused.
func (p *Plugin) FocusContext() string { return pluginID }
