package conversations

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/plugin"
)

// Hit region identifiers, registered by View each frame.
const (
	regionSidebar      = "sidebar"
	regionTabItem      = "tab-item"
	regionLog          = "log"
	regionInput        = "input"
	regionPromptButton = "prompt-button"
)

func (p *Plugin) handleMouse(msg tea.MouseMsg) (plugin.Plugin, tea.Cmd) {
	action := p.mouseHandler.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		return p.handleClick(action)

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		return p.handleScroll(action)

	case mouse.ActionHover:
		p.hoverButton = -1
		if action.Region != nil && action.Region.ID == regionPromptButton {
			if i, ok := action.Region.Data.(int); ok {
				p.hoverButton = i
			}
		}
	}
	return p, nil
}

func (p *Plugin) handleClick(action mouse.MouseAction) (plugin.Plugin, tea.Cmd) {
	if action.Region == nil {
		return p, nil
	}
	switch action.Region.ID {
	case regionTabItem:
		if id, ok := action.Region.Data.(int); ok {
			p.ctx.Store.Tabs.Select(id)
			p.log.Follow()
		}

	case regionPromptButton:
		if i, ok := action.Region.Data.(int); ok && i >= 0 && i < len(presetReplies) {
			return p, p.replyPending(presetReplies[i])
		}

	case regionInput:
		p.input.Focus()

	case regionLog:
		p.input.Blur()
	}
	return p, nil
}

func (p *Plugin) handleScroll(action mouse.MouseAction) (plugin.Plugin, tea.Cmd) {
	// Wheel over the sidebar walks the tab ring; anywhere else scrolls the log.
	inSidebar := p.sidebarWidth > 0 && action.X < p.sidebarWidth
	if action.Region != nil {
		switch action.Region.ID {
		case regionSidebar, regionTabItem:
			inSidebar = true
		case regionLog, regionInput, regionPromptButton:
			inSidebar = false
		}
	}

	if inSidebar {
		if action.Delta > 0 {
			p.cycleTab(1)
		} else {
			p.cycleTab(-1)
		}
		return p, nil
	}

	p.log.ScrollBy(action.Delta)
	return p, nil
}
