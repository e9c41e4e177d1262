package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Rect represents a rectangular region.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point (x, y) is within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangular hit region with associated data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap tracks hit regions for mouse click detection. Views rebuild it on
// every render pass, Update consults it on every mouse event.
type HitMap struct {
	regions []Region
}

// NewHitMap creates a new empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{
		regions: make([]Region, 0, 32),
	}
}

// Clear removes all regions from the hit map.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Add adds a new region to the hit map.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{
		ID:   id,
		Rect: rect,
		Data: data,
	})
}

// AddRect adds a region using individual coordinates.
func (h *HitMap) AddRect(id string, x, y, w, height int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: height}, data)
}

// Test returns the first region containing the point, or nil if none.
func (h *HitMap) Test(x, y int) *Region {
	// Test in reverse order so later (topmost) regions take priority
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Regions returns a copy of all registered regions (for testing).
func (h *HitMap) Regions() []Region {
	return append([]Region(nil), h.regions...)
}

const (
	// doubleClickWindow is how close two clicks on the same region must land
	// to count as a double click.
	doubleClickWindow = 400 * time.Millisecond
	// wheelStep is the scroll delta reported per wheel notch.
	wheelStep = 3
)

// Handler combines a HitMap with click timing for double-click detection.
type Handler struct {
	HitMap *HitMap

	lastClickTime   time.Time
	lastClickRegion string
}

// NewHandler creates a new mouse handler.
func NewHandler() *Handler {
	return &Handler{
		HitMap: NewHitMap(),
	}
}

// ActionType represents the type of mouse action detected.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionHover
)

// MouseAction represents a processed mouse event.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int
	Delta  int // Scroll delta
}

// Clear resets the handler state and clears the hit map.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleMouse maps a tea.MouseMsg onto the hit regions.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return h.click(msg)
		case tea.MouseButtonWheelUp:
			return h.at(ActionScrollUp, msg, -wheelStep)
		case tea.MouseButtonWheelDown:
			return h.at(ActionScrollDown, msg, wheelStep)
		}
	case tea.MouseActionMotion:
		return h.at(ActionHover, msg, 0)
	}
	return MouseAction{Type: ActionNone}
}

// click resolves a left press into a click or double click on a region.
func (h *Handler) click(msg tea.MouseMsg) MouseAction {
	region := h.HitMap.Test(msg.X, msg.Y)
	if region == nil {
		return MouseAction{Type: ActionNone}
	}

	typ := ActionClick
	now := time.Now()
	if region.ID == h.lastClickRegion && now.Sub(h.lastClickTime) < doubleClickWindow {
		typ = ActionDoubleClick
		// A third quick click starts a new sequence instead of chaining.
		h.lastClickRegion = ""
		h.lastClickTime = time.Time{}
	} else {
		h.lastClickRegion = region.ID
		h.lastClickTime = now
	}
	return MouseAction{Type: typ, Region: region, X: msg.X, Y: msg.Y}
}

// at builds an action at the event position, resolving the region under it.
func (h *Handler) at(typ ActionType, msg tea.MouseMsg, delta int) MouseAction {
	return MouseAction{
		Type:   typ,
		Region: h.HitMap.Test(msg.X, msg.Y),
		X:      msg.X,
		Y:      msg.Y,
		Delta:  delta,
	}
}
