package keymap

// Command IDs used by the default bindings. The app and plugins register the
// handlers; a binding whose command is not registered yet is inert.
const (
	CmdQuit               = "app.quit"
	CmdNextPlugin         = "app.next-plugin"
	CmdPrevPlugin         = "app.prev-plugin"
	CmdPalette            = "app.palette"
	CmdThemeSwitcher      = "app.theme"
	CmdResetMenu          = "app.reset-menu"
	CmdResetDB            = "app.reset-db"
	CmdResetLLM           = "app.reset-llm"
	CmdFocusConversations = "app.focus-conversations"
	CmdFocusWorkspace     = "app.focus-workspace"
	CmdFocusActivity      = "app.focus-activity"

	CmdNewTab   = "conversations.new-tab"
	CmdCloseTab = "conversations.close-tab"
	CmdReload   = "workspace.reload"
)

// RegisterDefaults installs the stock bindings.
func RegisterDefaults(r *Registry) {
	for _, b := range []Binding{
		{Key: "ctrl+c", Command: CmdQuit, Context: "global"},
		{Key: "ctrl+q", Command: CmdQuit, Context: "global"},
		{Key: "tab", Command: CmdNextPlugin, Context: "global"},
		{Key: "shift+tab", Command: CmdPrevPlugin, Context: "global"},
		{Key: "ctrl+p", Command: CmdPalette, Context: "global"},

		// Sequence navigation straight to a panel.
		{Key: "g c", Command: CmdFocusConversations, Context: "global"},
		{Key: "g w", Command: CmdFocusWorkspace, Context: "global"},
		{Key: "g a", Command: CmdFocusActivity, Context: "global"},
		{Key: "g r", Command: CmdResetMenu, Context: "global"},

		{Key: "ctrl+t", Command: CmdNewTab, Context: "conversations"},
		{Key: "ctrl+w", Command: CmdCloseTab, Context: "conversations"},
		{Key: "ctrl+r", Command: CmdReload, Context: "workspace"},
	} {
		r.RegisterBinding(b)
	}
}
