package app

import (
	"log/slog"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/config"
	"github.com/wilbur182/trestle/internal/history"
	"github.com/wilbur182/trestle/internal/keymap"
	"github.com/wilbur182/trestle/internal/modal"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/palette"
	"github.com/wilbur182/trestle/internal/plugin"
	"github.com/wilbur182/trestle/internal/state"
	"github.com/wilbur182/trestle/internal/ui"
	"github.com/wilbur182/trestle/internal/version"
)

// dialogKind tells the update loop which flow owns the open dialog.
type dialogKind int

const (
	dialogNone dialogKind = iota
	dialogQuit
	dialogResetMenu
	dialogResetConfirm
	dialogResetResult
)

// Model is the root bubbletea model: it owns the store, the supervisor
// connections, the plugin registry and every overlay surface. All mutation
// happens inside Update.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	registry *plugin.Registry
	keymap   *keymap.Registry
	store    *state.Store
	client   *bridge.Client
	cache    *history.Cache // nil when disabled or broken
	socket   *bridge.Socket

	activePlugin  int
	activeContext string

	width, height int
	ready         bool
	showFooter    bool
	showClock     bool

	// Socket lifecycle. connecting covers the window between Init and the
	// dial outcome; the spinner runs only during it.
	connecting bool
	spinner    ui.BrailleSpinner

	showPalette bool
	palette     palette.Model

	themes *themeSwitcher // nil while closed

	dialog      *modal.Modal
	dialogKind  dialogKind
	dialogMouse *mouse.Handler

	// Header hit regions, rebuilt on every View.
	headerHits *mouse.HitMap

	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	currentVersion  string
	updateAvailable *version.UpdateAvailableMsg

	// Entries of the general log already seen while the activity panel was
	// focused; the difference is its unread badge.
	activitySeen int

	intro IntroModel
	clock time.Time
}

// New wires the root model. The caller has already built and registered the
// plugins; cache may be nil.
func New(reg *plugin.Registry, km *keymap.Registry, cfg *config.Config, store *state.Store, client *bridge.Client, cache *history.Cache, logger *slog.Logger, currentVersion string) Model {
	m := Model{
		cfg:            cfg,
		logger:         logger,
		registry:       reg,
		keymap:         km,
		store:          store,
		client:         client,
		cache:          cache,
		activeContext:  "global",
		showFooter:     cfg.UI.ShowFooter,
		showClock:      cfg.UI.ShowClock,
		palette:        palette.New(),
		headerHits:     mouse.NewHitMap(),
		currentVersion: currentVersion,
		intro:          NewIntroModel(hostLabel(client.BaseURL())),
		clock:          time.Now(),
		spinner:        ui.NewBrailleSpinner(),
		connecting:     true,
	}
	m.spinner.Start()
	m.registerCommands()

	if first := m.ActivePlugin(); first != nil {
		first.SetFocused(true)
		m.activeContext = first.FocusContext()
	}
	return m
}

// Init starts the clock, the intro, the version check, the supervisor
// connection and every plugin. The cache replay and the history fetch race
// freely: ingestion is idempotent.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		IntroTick(),
		ui.SkeletonTick(),
		version.CheckAsync(m.currentVersion),
		connectSocket(m.client.BaseURL(), m.logger),
		loadHistory(m.client, m.cfg.Bridge.HistoryLimit),
	}
	if m.cache != nil {
		cmds = append(cmds, loadCache(m.cache, m.cfg.Cache.MaxEntries))
	}
	cmds = append(cmds, m.registry.Start()...)

	return tea.Batch(cmds...)
}

// registerCommands installs handlers for the app-level command ids the
// default bindings reference, plus one handler per plugin command so palette
// selections and key bindings share a dispatch path.
func (m *Model) registerCommands() {
	appCmds := []struct {
		id, name string
	}{
		{keymap.CmdQuit, "Quit"},
		{keymap.CmdNextPlugin, "Next panel"},
		{keymap.CmdPrevPlugin, "Previous panel"},
		{keymap.CmdPalette, "Command palette"},
		{keymap.CmdThemeSwitcher, "Switch theme"},
		{keymap.CmdResetMenu, "Reset menu"},
		{keymap.CmdResetDB, "Reset database"},
		{keymap.CmdResetLLM, "Reset LLM state"},
		{keymap.CmdFocusConversations, "Go to conversations"},
		{keymap.CmdFocusWorkspace, "Go to workspace"},
		{keymap.CmdFocusActivity, "Go to activity"},
	}
	for _, c := range appCmds {
		id := c.id
		m.keymap.RegisterCommand(keymap.Command{
			ID:      id,
			Name:    c.name,
			Context: "global",
			Handler: func() tea.Cmd { return appCommand(id) },
		})
	}

	for _, p := range m.registry.Plugins() {
		for _, c := range p.Commands() {
			id := c.ID
			m.keymap.RegisterCommand(keymap.Command{
				ID:      id,
				Name:    c.Name,
				Context: c.Context,
				Handler: func() tea.Cmd { return plugin.RunCommand(id) },
			})
		}
	}
}

// ActivePlugin returns the focused plugin, or nil when none registered.
func (m Model) ActivePlugin() plugin.Plugin {
	plugins := m.registry.Plugins()
	if len(plugins) == 0 {
		return nil
	}
	if m.activePlugin >= len(plugins) {
		return plugins[0]
	}
	return plugins[m.activePlugin]
}

// SetActivePlugin moves focus to the plugin at idx and returns the focus
// notification command.
func (m *Model) SetActivePlugin(idx int) tea.Cmd {
	plugins := m.registry.Plugins()
	if idx < 0 || idx >= len(plugins) {
		return nil
	}
	if current := m.ActivePlugin(); current != nil {
		current.SetFocused(false)
	}
	m.activePlugin = idx

	next := plugins[idx]
	next.SetFocused(true)
	m.activeContext = next.FocusContext()
	m.keymap.ResetPending()

	if next.ID() == "activity" {
		m.activitySeen = len(m.store.General)
	}
	return plugin.PluginFocused()
}

func (m *Model) NextPlugin() tea.Cmd {
	n := len(m.registry.Plugins())
	if n == 0 {
		return nil
	}
	return m.SetActivePlugin((m.activePlugin + 1) % n)
}

func (m *Model) PrevPlugin() tea.Cmd {
	n := len(m.registry.Plugins())
	if n == 0 {
		return nil
	}
	return m.SetActivePlugin((m.activePlugin - 1 + n) % n)
}

// FocusPluginByID moves focus to the named plugin.
func (m *Model) FocusPluginByID(id string) tea.Cmd {
	for i, p := range m.registry.Plugins() {
		if p.ID() == id {
			return m.SetActivePlugin(i)
		}
	}
	return nil
}

// currentContext returns the keymap context to dispatch against. Plugins may
// move between contexts without a focus change (the workspace panes), so the
// live FocusContext wins over the value cached at focus time.
func (m Model) currentContext() string {
	if p := m.ActivePlugin(); p != nil {
		return p.FocusContext()
	}
	return m.activeContext
}

// ShowToast displays a transient status-bar notice.
func (m *Model) ShowToast(msg string, duration time.Duration, isError bool) {
	if duration <= 0 {
		duration = 3 * time.Second
	}
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = isError
}

// ClearToast drops the notice once it has expired. Called from the clock tick.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// activityUnread counts general-log entries that arrived since the activity
// panel last had focus.
func (m Model) activityUnread() int {
	if p := m.ActivePlugin(); p != nil && p.ID() == "activity" {
		return 0
	}
	n := len(m.store.General) - m.activitySeen
	if n < 0 {
		return 0
	}
	return n
}

// conversationsUnread sums unread counts across every conversation tab.
func (m Model) conversationsUnread() int {
	total := 0
	for _, t := range m.store.Tabs.Tabs() {
		total += t.Unread
	}
	return total
}

// hostLabel reduces the configured origin to the host shown in the header
// and status bar.
func hostLabel(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
