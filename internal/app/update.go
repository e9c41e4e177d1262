package app

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/keymap"
	"github.com/wilbur182/trestle/internal/modal"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/palette"
	"github.com/wilbur182/trestle/internal/plugin"
	"github.com/wilbur182/trestle/internal/state"
	"github.com/wilbur182/trestle/internal/ui"
	"github.com/wilbur182/trestle/internal/version"
)

// Update is the single mutation point for the whole application.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.palette.SetSize(msg.Width, msg.Height)
		return m, m.fanOut(msg)

	case TickMsg:
		m.clock = time.Time(msg)
		m.ClearToast()
		return m, tickCmd()

	case IntroTickMsg:
		if !m.intro.Active {
			return m, nil
		}
		m.intro.Update(introFrameInterval)
		if m.intro.Done && m.intro.HostOpacity >= 1.0 {
			m.intro.Active = false
			return m, nil
		}
		return m, IntroTick()

	case ui.SkeletonTickMsg:
		m.spinner.Tick()
		cmd := m.fanOut(msg)
		if m.spinner.IsActive() {
			return m, tea.Batch(cmd, ui.SkeletonTick())
		}
		return m, cmd

	case version.UpdateAvailableMsg:
		v := msg
		m.updateAvailable = &v
		return m, nil

	case socketConnectedMsg:
		m.socket = msg.socket
		m.connecting = false
		m.spinner.Stop()
		m.store.SetConnected(true)
		m.logger.Info("connected to supervisor", "url", m.client.BaseURL())
		return m, waitFrame(m.socket)

	case socketFailedMsg:
		m.connecting = false
		m.spinner.Stop()
		m.store.SetConnected(false)
		m.logger.Warn("supervisor socket dial failed", "error", msg.err)
		m.ShowToast("Bridge connection failed", 5*time.Second, true)
		return m, nil

	case frameMsg:
		return m.handleFrame(msg)

	case historyLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("history fetch failed", "error", msg.err)
			m.ShowToast("History fetch failed", 4*time.Second, true)
			return m, nil
		}
		admitted := 0
		for _, hm := range msg.messages {
			if m.admit(hm) {
				admitted++
			}
		}
		m.logger.Debug("history replayed", "fetched", len(msg.messages), "admitted", admitted)
		return m, nil

	case cacheLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("history cache replay failed, disabling cache", "error", msg.err)
			m.cache = nil
			return m, nil
		}
		for _, cm := range msg.messages {
			m.store.Ingest(cm)
		}
		m.logger.Debug("cache replayed", "messages", len(msg.messages))
		return m, nil

	case resetDBDoneMsg:
		return m.handleResetDBDone(msg)

	case resetLLMDoneMsg:
		if msg.err != nil {
			m.logger.Warn("reset send failed", "error", msg.err)
			m.ShowToast("Reset failed: "+msg.err.Error(), 5*time.Second, true)
			return m, nil
		}
		m.logger.Debug("reset acknowledged", "status", msg.result.Status, "message", msg.result.Message)
		m.ShowToast("LLM state reset requested", 3*time.Second, false)
		return m, nil

	case plugin.ToastMsg:
		m.ShowToast(msg.Message, msg.Duration, msg.IsError)
		return m, nil

	case palette.CommandSelectedMsg:
		m.showPalette = false
		return m, m.dispatchCommand(msg.CommandID)

	case appCommandMsg:
		return m.handleAppCommand(msg.id)

	case plugin.CommandMsg:
		return m, m.routeCommand(msg)

	case themeChosenMsg:
		m.themes = nil
		if msg.err != nil {
			m.logger.Warn("theme save failed", "error", msg.err)
			m.ShowToast("Theme save failed", 4*time.Second, true)
			return m, nil
		}
		if msg.name != "" {
			m.cfg.UI.Theme.Name = msg.name
			m.ShowToast("Theme: "+msg.name, 2*time.Second, false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, m.fanOut(msg)
}

// fanOut forwards a message to every plugin and batches their commands.
// Plugins are pointers, so the returned instances are discarded.
func (m *Model) fanOut(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range m.registry.Plugins() {
		if _, cmd := p.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// updateActive forwards a message to the focused plugin only.
func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	p := m.ActivePlugin()
	if p == nil {
		return nil
	}
	_, cmd := p.Update(msg)
	return cmd
}

// admit ingests one replayable message and mirrors admitted conversation
// traffic into the cache. Tree frames are not cached: the forest is
// refetched on every start.
func (m *Model) admit(msg bridge.Message) bool {
	route := m.store.Ingest(msg)
	switch route {
	case state.RouteTab, state.RouteGeneral:
		if m.cache != nil {
			if err := m.cache.Append(msg); err != nil {
				m.logger.Warn("history cache write failed, disabling cache", "error", err)
				m.cache = nil
			}
		}
		return true
	case state.RouteTree:
		return true
	default:
		return false
	}
}

func (m Model) handleFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.store.SetConnected(false)
		return m, nil
	}
	if msg.frame.Err != nil {
		m.store.SetConnected(false)
		m.logger.Warn("supervisor socket closed", "error", msg.frame.Err)
		m.ShowToast("Connection lost", 5*time.Second, true)
		return m, waitFrame(m.socket)
	}

	m.admit(msg.frame.Message)
	return m, waitFrame(m.socket)
}

func (m Model) handleResetDBDone(msg resetDBDoneMsg) (tea.Model, tea.Cmd) {
	m.dialogKind = dialogResetResult
	m.dialogMouse = mouse.NewHandler()

	switch {
	case msg.err != nil:
		m.dialog = modal.Alert("Reset database", msg.err.Error(), modal.VariantDanger)
	case msg.result.Status == bridge.StatusOK:
		body := msg.result.Message
		if body == "" {
			body = "Supervisor database reset."
		}
		m.dialog = modal.Alert("Reset database", body, modal.VariantInfo)
		if m.cache != nil {
			if err := m.cache.Clear(); err != nil {
				m.logger.Warn("history cache clear failed", "error", err)
			}
		}
	default:
		body := msg.result.Message
		if body == "" {
			body = "The supervisor reported failure."
		}
		m.dialog = modal.Alert("Reset database", body, modal.VariantDanger)
	}
	return m, nil
}

// dispatchCommand runs a command id from the palette or a key binding.
// Plugin commands focus their owner first so the result is visible.
func (m *Model) dispatchCommand(id string) tea.Cmd {
	if strings.HasPrefix(id, "app.") {
		return appCommand(id)
	}

	owner, _, ok := strings.Cut(id, ".")
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	if p := m.registry.Get(owner); p != nil && !p.IsFocused() {
		cmds = append(cmds, m.FocusPluginByID(owner))
	}
	cmds = append(cmds, plugin.RunCommand(id))
	return tea.Batch(cmds...)
}

// routeCommand hands a CommandMsg to the plugin that owns its namespace.
func (m *Model) routeCommand(msg plugin.CommandMsg) tea.Cmd {
	owner, _, ok := strings.Cut(msg.ID, ".")
	if !ok {
		return nil
	}
	p := m.registry.Get(owner)
	if p == nil {
		m.logger.Debug("command for unknown plugin", "id", msg.ID)
		return nil
	}
	_, cmd := p.Update(msg)
	return cmd
}

func (m Model) handleAppCommand(id string) (tea.Model, tea.Cmd) {
	switch id {
	case keymap.CmdQuit:
		m.openQuitDialog()
		return m, nil

	case keymap.CmdNextPlugin:
		return m, m.NextPlugin()

	case keymap.CmdPrevPlugin:
		return m, m.PrevPlugin()

	case keymap.CmdPalette:
		active := m.ActivePlugin()
		pluginCtx := ""
		if active != nil {
			pluginCtx = active.ID()
		}
		m.palette.Open(m.keymap, m.registry.Plugins(), m.currentContext(), pluginCtx)
		m.showPalette = true
		return m, m.palette.Init()

	case keymap.CmdThemeSwitcher:
		ts := newThemeSwitcher(m.cfg)
		m.themes = &ts
		return m, ts.Init()

	case keymap.CmdResetMenu:
		m.openResetMenu()
		return m, nil

	case keymap.CmdResetDB:
		m.openResetConfirm()
		return m, nil

	case keymap.CmdResetLLM:
		return m, m.sendResetLLM()

	case keymap.CmdFocusConversations:
		return m, m.FocusPluginByID("conversations")

	case keymap.CmdFocusWorkspace:
		return m, m.FocusPluginByID("workspace")

	case keymap.CmdFocusActivity:
		return m, m.FocusPluginByID("activity")
	}
	return m, nil
}

// sendResetLLM fires the unconfirmed reset action: the echo lands in the
// activity feed immediately, the POST runs in the background.
func (m *Model) sendResetLLM() tea.Cmd {
	m.store.RecordSent(bridge.Message{Type: bridge.TypeReset, Text: "LLM state reset requested"})
	return resetLLM(m.client)
}

func (m *Model) openQuitDialog() {
	m.dialogKind = dialogQuit
	m.dialogMouse = mouse.NewHandler()
	m.dialog = modal.New("Quit", "Disconnect from the supervisor and exit?", modal.VariantDefault,
		modal.Button{ID: "quit", Label: "Quit"},
		modal.Button{ID: "cancel", Label: "Cancel"},
	)
}

func (m *Model) openResetMenu() {
	m.dialogKind = dialogResetMenu
	m.dialogMouse = mouse.NewHandler()
	m.dialog = modal.New("Reset", "Choose what to reset on the supervisor.", modal.VariantWarning,
		modal.Button{ID: "reset-llm", Label: "LLM state"},
		modal.Button{ID: "reset-db", Label: "Database", Danger: true},
		modal.Button{ID: "cancel", Label: "Cancel"},
	)
}

func (m *Model) openResetConfirm() {
	m.dialogKind = dialogResetConfirm
	m.dialogMouse = mouse.NewHandler()
	m.dialog = modal.New("Reset database",
		"This truncates every conversation and repository record the supervisor holds. It cannot be undone.",
		modal.VariantDanger,
		modal.Button{ID: "confirm", Label: "Reset", Danger: true},
		modal.Button{ID: "cancel", Label: "Cancel"},
	)
}

func (m *Model) closeDialog() {
	m.dialog = nil
	m.dialogKind = dialogNone
	m.dialogMouse = nil
}

// handleDialogAction reacts to a modal button. Empty actions mean the modal
// absorbed the event without deciding anything.
func (m Model) handleDialogAction(action string) (tea.Model, tea.Cmd) {
	if action == "" {
		return m, nil
	}

	kind := m.dialogKind
	if action == modal.ActionCancel || action == "cancel" || action == "ok" {
		m.closeDialog()
		return m, nil
	}

	switch kind {
	case dialogQuit:
		if action == "quit" {
			return m, m.shutdown()
		}

	case dialogResetMenu:
		switch action {
		case "reset-llm":
			m.closeDialog()
			return m, m.sendResetLLM()
		case "reset-db":
			m.openResetConfirm()
			return m, nil
		}

	case dialogResetConfirm:
		if action == "confirm" {
			m.closeDialog()
			m.ShowToast("Resetting database…", 10*time.Second, false)
			return m, resetDB(m.client)
		}
	}

	m.closeDialog()
	return m, nil
}

// shutdown stops plugins and releases connections before quitting.
func (m *Model) shutdown() tea.Cmd {
	m.registry.Stop()
	if m.socket != nil {
		_ = m.socket.Close()
	}
	if m.cache != nil {
		_ = m.cache.Close()
	}
	return tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog != nil {
		return m.handleDialogAction(m.dialog.Update(msg))
	}

	if m.themes != nil {
		ts, cmd := m.themes.Update(msg)
		m.themes = ts
		return m, cmd
	}

	if m.showPalette {
		if msg.Type == tea.KeyEsc {
			m.showPalette = false
			return m, nil
		}
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	// While a text field is focused only modifier chords reach the keymap;
	// everything else is typing.
	typing := false
	if tic, ok := m.ActivePlugin().(plugin.TextInputConsumer); ok && tic.ConsumesTextInput() {
		typing = true
	}
	if typing && !isChord(msg) {
		return m, m.updateActive(msg)
	}

	if cmd := m.keymap.Handle(msg, m.currentContext()); cmd != nil {
		return m, cmd
	}
	if m.keymap.HasPending() {
		return m, nil
	}
	return m, m.updateActive(msg)
}

// isChord reports keys carrying a ctrl or alt modifier, which stay global
// even while typing.
func isChord(msg tea.KeyMsg) bool {
	s := msg.String()
	return strings.HasPrefix(s, "ctrl+") || strings.HasPrefix(s, "alt+")
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.dialog != nil {
		action := m.dialogMouse.HandleMouse(msg)
		return m.handleDialogAction(m.dialog.HandleMouse(action))
	}

	if m.themes != nil {
		// The switcher is keyboard driven; clicks outside do nothing.
		return m, nil
	}

	if m.showPalette {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	if msg.Y < headerHeight {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m.handleHeaderClick(msg)
		}
		return m, nil
	}

	// Plugin hit regions are registered in content coordinates.
	translated := msg
	translated.Y -= headerHeight
	return m, m.updateActive(translated)
}

func (m Model) handleHeaderClick(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	region := m.headerHits.Test(msg.X, msg.Y)
	if region == nil {
		return m, nil
	}

	switch region.ID {
	case regionHeaderHost:
		// Clicking the host copies the full bridge origin.
		if m.intro.Active {
			return m, nil
		}
		if err := clipboard.WriteAll(m.client.BaseURL()); err != nil {
			m.ShowToast("Copy failed: "+err.Error(), 3*time.Second, true)
		} else {
			m.ShowToast("Bridge URL copied", 2*time.Second, false)
		}
		return m, nil

	case regionHeaderTab:
		if idx, ok := region.Data.(int); ok {
			return m, m.SetActivePlugin(idx)
		}
	}
	return m, nil
}
