package plugin

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Plugin is the interface every dashboard panel implements. Plugins are
// bubbletea models with identity and lifecycle hooks layered on top: the
// registry Inits and Starts them, the app routes Update messages and asks
// the active one to View.
type Plugin interface {
	// ID returns a stable identifier used for focus commands and config.
	ID() string

	// Name returns the human-readable name shown in the tab bar.
	Name() string

	// Icon returns a short glyph rendered next to the name.
	Icon() string

	// Init prepares the plugin with shared resources. Returning an error
	// marks the plugin unavailable without failing the app.
	Init(ctx *Context) error

	// Start returns the plugin's initial command, if any.
	Start() tea.Cmd

	// Stop releases any resources held by the plugin.
	Stop()

	// Update handles a message and returns the updated plugin.
	Update(msg tea.Msg) (Plugin, tea.Cmd)

	// View renders the plugin into the given content area.
	View(width, height int) string

	// IsFocused reports whether the plugin currently has focus.
	IsFocused() bool

	// SetFocused sets the focus state.
	SetFocused(focused bool)

	// Commands returns the commands the plugin contributes to the palette.
	Commands() []Command

	// FocusContext returns the keymap context to activate while focused.
	FocusContext() string
}

// TextInputConsumer is implemented by plugins that sometimes capture raw
// keystrokes (a focused text field). While ConsumesTextInput reports true
// the app bypasses single-key global bindings so typing is not hijacked.
type TextInputConsumer interface {
	ConsumesTextInput() bool
}

// Category groups commands in the palette.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategorySearch     Category = "Search"
	CategoryView       Category = "View"
	CategoryEdit       Category = "Edit"
	CategorySystem     Category = "System"
	CategoryActions    Category = "Actions"
)

// Command describes a plugin command for palette display.
type Command struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Context     string // keymap context the command belongs to
	Priority    int    // lower renders first
}

// PluginFocusedMsg notifies a plugin that it just received focus.
type PluginFocusedMsg struct{}

// PluginFocused returns a command that emits PluginFocusedMsg.
func PluginFocused() tea.Cmd {
	return func() tea.Msg {
		return PluginFocusedMsg{}
	}
}

// CommandMsg carries a palette or keymap command to the plugin that owns it.
// Command IDs are namespaced by plugin id ("conversations.new-tab"), which is
// how the app decides where to route.
type CommandMsg struct {
	ID string
}

// RunCommand returns a command that emits CommandMsg for the given id.
func RunCommand(id string) tea.Cmd {
	return func() tea.Msg {
		return CommandMsg{ID: id}
	}
}

// ToastMsg asks the app shell to flash a transient notice in the status bar.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool
}
