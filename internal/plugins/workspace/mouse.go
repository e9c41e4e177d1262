package workspace

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/plugin"
)

// Mouse hit region ids registered by View.
const (
	regionTree    = "tree"
	regionTreeRow = "tree-row"
	regionPreview = "preview"
)

// handleMouse routes clicks and wheel events against the regions the last
// render registered.
func (p *Plugin) handleMouse(msg tea.MouseMsg) (plugin.Plugin, tea.Cmd) {
	action := p.mouseHandler.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionClick:
		return p, p.handleClick(action, false)
	case mouse.ActionDoubleClick:
		return p, p.handleClick(action, true)
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		p.handleScroll(action)
	}
	return p, nil
}

// handleClick moves focus to the clicked pane. A click on a folder row
// toggles it; files open on double click.
func (p *Plugin) handleClick(action mouse.MouseAction, double bool) tea.Cmd {
	if action.Region == nil {
		return nil
	}
	switch action.Region.ID {
	case regionTreeRow:
		p.activePane = PaneTree
		i, ok := action.Region.Data.(int)
		if !ok {
			return nil
		}
		p.cursor = i
		rows := p.visibleRows()
		if i >= len(rows) {
			return nil
		}
		row := rows[i]
		if row.IsDir {
			return p.toggleFolder(row)
		}
		if double {
			return p.openFile(row.Path)
		}
	case regionTree:
		p.activePane = PaneTree
	case regionPreview:
		p.activePane = PanePreview
	}
	return nil
}

// handleScroll moves whichever pane sits under the pointer.
func (p *Plugin) handleScroll(action mouse.MouseAction) {
	if action.Region == nil {
		return
	}
	switch action.Region.ID {
	case regionTree, regionTreeRow:
		p.moveCursor(action.Delta)
	case regionPreview:
		p.scrollPreview(action.Delta)
	}
}
