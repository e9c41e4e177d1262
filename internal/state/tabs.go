package state

import (
	"sort"

	"github.com/wilbur182/trestle/internal/bridge"
)

// Tab is one conversation: an integer id and its buffered messages. Unread
// counts frames that arrived while another tab was active.
type Tab struct {
	ID       int
	Messages []bridge.Message
	Unread   int
}

// TabSet tracks the known tabs in ascending id order plus the active
// selection. It is never empty once a tab exists; closing the last tab
// recreates a default one.
type TabSet struct {
	tabs   []*Tab
	active int
}

// Tabs returns the tabs in ascending id order. Callers must not reorder the
// slice.
func (ts *TabSet) Tabs() []*Tab {
	return ts.tabs
}

func (ts *TabSet) Len() int {
	return len(ts.tabs)
}

// ActiveID returns the selected tab's id, or 0 when no tabs exist yet.
func (ts *TabSet) ActiveID() int {
	return ts.active
}

// Active returns the selected tab, or nil when no tabs exist yet.
func (ts *TabSet) Active() *Tab {
	return ts.Get(ts.active)
}

func (ts *TabSet) Get(id int) *Tab {
	for _, t := range ts.tabs {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Ensure returns the tab with the given id, creating it in sorted position
// when unseen. The first tab ever created becomes active.
func (ts *TabSet) Ensure(id int) *Tab {
	if t := ts.Get(id); t != nil {
		return t
	}
	t := &Tab{ID: id}
	i := sort.Search(len(ts.tabs), func(i int) bool { return ts.tabs[i].ID > id })
	ts.tabs = append(ts.tabs, nil)
	copy(ts.tabs[i+1:], ts.tabs[i:])
	ts.tabs[i] = t
	if ts.active == 0 {
		ts.active = id
	}
	return t
}

// NextID returns one past the current maximum id, starting at 1.
func (ts *TabSet) NextID() int {
	max := 0
	for _, t := range ts.tabs {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Open creates a fresh tab with the next id and selects it.
func (ts *TabSet) Open() *Tab {
	t := ts.Ensure(ts.NextID())
	ts.Select(t.ID)
	return t
}

// Select makes id the active tab and clears its unread count. Unknown ids are
// ignored.
func (ts *TabSet) Select(id int) {
	t := ts.Get(id)
	if t == nil {
		return
	}
	ts.active = id
	t.Unread = 0
}

// Close drops the tab and its buffered messages. When the closed tab was
// active, the nearest following id is selected, wrapping to the first;
// closing the last tab leaves a single empty default tab.
func (ts *TabSet) Close(id int) {
	i := -1
	for j, t := range ts.tabs {
		if t.ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return
	}
	ts.tabs = append(ts.tabs[:i], ts.tabs[i+1:]...)

	if len(ts.tabs) == 0 {
		ts.active = 0
		ts.Ensure(1)
		return
	}
	if ts.active != id {
		return
	}
	if i >= len(ts.tabs) {
		i = 0
	}
	ts.Select(ts.tabs[i].ID)
}

// Append buffers a message on the tab, creating it when unseen. Messages
// landing on a background tab bump its unread count.
func (ts *TabSet) Append(id int, m bridge.Message) *Tab {
	t := ts.Ensure(id)
	t.Messages = append(t.Messages, m)
	if id != ts.active {
		t.Unread++
	}
	return t
}
