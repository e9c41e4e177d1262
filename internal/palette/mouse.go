package palette

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/trestle/internal/mouse"
)

// Mouse region identifiers
const (
	regionPaletteEntry = "palette-entry" // Individual command entry (Data: entry index int)
)

// handleMouse processes mouse events for the command palette.
func (m *Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	// Prefer the size View actually rendered; fall back to the layout
	// formula before the first render.
	modalWidth, modalHeight := m.renderedW, m.renderedH
	if modalWidth == 0 {
		modalWidth = min(80, m.width-4)
		if modalWidth < 40 {
			modalWidth = 40
		}
		modalHeight = m.maxVisible + 9
	}

	modalX := (m.width - modalWidth) / 2
	modalY := (m.height - modalHeight) / 2

	// Translate to modal-relative coordinates.
	relX := msg.X - modalX
	relY := msg.Y - modalY

	// Ignore clicks outside modal bounds.
	if relX < 0 || relY < 0 || relX >= modalWidth || relY >= modalHeight {
		return *m, nil
	}

	adjusted := tea.MouseMsg{
		X:      relX,
		Y:      relY,
		Button: msg.Button,
		Action: msg.Action,
	}

	action := m.mouseHandler.HandleMouse(adjusted)

	switch action.Type {
	case mouse.ActionClick:
		return m.handleMouseClick(action)
	case mouse.ActionDoubleClick:
		return m.handleMouseDoubleClick(action)
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		return m.handleMouseScroll(action)
	}

	return *m, nil
}

// handleMouseClick moves the cursor to the clicked entry.
func (m *Model) handleMouseClick(action mouse.MouseAction) (Model, tea.Cmd) {
	if action.Region == nil || action.Region.ID != regionPaletteEntry {
		return *m, nil
	}

	if idx, ok := action.Region.Data.(int); ok {
		m.cursor = idx
		m.ensureCursorVisible()
	}

	return *m, nil
}

// handleMouseDoubleClick executes the clicked entry.
func (m *Model) handleMouseDoubleClick(action mouse.MouseAction) (Model, tea.Cmd) {
	if action.Region == nil || action.Region.ID != regionPaletteEntry {
		return *m, nil
	}

	if idx, ok := action.Region.Data.(int); ok {
		m.cursor = idx
		if entry := m.SelectedEntry(); entry != nil {
			return *m, selectCmd(*entry)
		}
	}

	return *m, nil
}

// handleMouseScroll moves the cursor with the wheel.
func (m *Model) handleMouseScroll(action mouse.MouseAction) (Model, tea.Cmd) {
	m.moveCursor(action.Delta)
	return *m, nil
}

// ensureCursorVisible adjusts offset to keep the cursor in view.
func (m *Model) ensureCursorVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxVisible {
		m.offset = m.cursor - m.maxVisible + 1
	}
}
