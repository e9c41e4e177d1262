package palette

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/trestle/internal/keymap"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/plugin"
)

// CommandSelectedMsg is sent when a command is selected from the palette.
type CommandSelectedMsg struct {
	CommandID string
	Context   string
}

// Model is the command palette state.
type Model struct {
	textInput    textinput.Model
	mouseHandler *mouse.Handler

	allEntries []PaletteEntry
	filtered   []PaletteEntry
	cursor     int
	offset     int // scroll offset for virtual scrolling

	width           int
	height          int
	maxVisible      int
	showAllContexts bool // false = current context only, true = all contexts grouped

	// Rendered modal size, captured by View so mouse translation matches
	// what is actually on screen.
	renderedW int
	renderedH int

	activeContext string
	pluginContext string

	keymap  *keymap.Registry
	plugins []plugin.Plugin
}

// New creates a new command palette model.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search commands..."
	ti.Focus()
	ti.CharLimit = 50
	ti.Width = 40

	return Model{
		textInput:    ti,
		mouseHandler: mouse.NewHandler(),
		maxVisible:   15,
	}
}

// Init starts the input cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Reserve space for the input, borders, and the status and hint rows.
	m.maxVisible = max(5, height-14)
	m.textInput.Width = min(50, width-10)
}

// Open prepares the palette for display, rebuilding entries for the
// current context. It opens in current-context mode with an empty query.
func (m *Model) Open(km *keymap.Registry, plugins []plugin.Plugin, activeContext, pluginContext string) {
	m.keymap = km
	m.plugins = plugins
	m.activeContext = activeContext
	m.pluginContext = pluginContext

	m.allEntries = BuildEntries(km, plugins, activeContext, pluginContext)

	m.textInput.SetValue("")
	m.textInput.Focus()
	m.showAllContexts = false
	m.resetList()
}

// ShowAllContexts returns whether all-contexts mode is active.
func (m Model) ShowAllContexts() bool {
	return m.showAllContexts
}

// refilter applies the current filter mode and query to entries.
func (m *Model) refilter() {
	var base []PaletteEntry
	if m.showAllContexts {
		base = GroupEntriesByCommand(m.allEntries)
	} else {
		base = FilterEntriesForContext(m.allEntries, m.activeContext)
	}
	m.filtered = FilterEntries(base, m.textInput.Value())
}

// resetList refilters and rewinds the cursor after the query or mode changed.
func (m *Model) resetList() {
	m.refilter()
	m.cursor = 0
	m.offset = 0
}

// Query returns the current search query.
func (m Model) Query() string {
	return m.textInput.Value()
}

// Filtered returns the currently filtered entries.
func (m Model) Filtered() []PaletteEntry {
	return m.filtered
}

// Cursor returns the current cursor position.
func (m Model) Cursor() int {
	return m.cursor
}

// SelectedEntry returns the currently selected entry, if any.
func (m Model) SelectedEntry() *PaletteEntry {
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		return &m.filtered[m.cursor]
	}
	return nil
}

// Update handles input while the palette is open. Esc is absorbed here; the
// app owns closing the palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, nil

	case tea.KeyEnter:
		if entry := m.SelectedEntry(); entry != nil {
			return m, selectCmd(*entry)
		}
		return m, nil

	case tea.KeyUp, tea.KeyCtrlP:
		m.moveCursor(-1)
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		m.moveCursor(1)
		return m, nil

	case tea.KeyCtrlU:
		m.moveCursor(-m.maxVisible)
		return m, nil

	case tea.KeyCtrlD:
		m.moveCursor(m.maxVisible)
		return m, nil

	case tea.KeyTab:
		// Flip between current-context and all-contexts mode.
		m.showAllContexts = !m.showAllContexts
		m.resetList()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.resetList()
	return m, cmd
}

func selectCmd(entry PaletteEntry) tea.Cmd {
	return func() tea.Msg {
		return CommandSelectedMsg{CommandID: entry.CommandID, Context: entry.Context}
	}
}

// moveCursor moves the cursor by delta, clamping to the valid range.
func (m *Model) moveCursor(delta int) {
	m.cursor += delta

	if len(m.filtered) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}

	m.ensureCursorVisible()
}
