package state

import (
	"testing"

	"github.com/wilbur182/trestle/internal/bridge"
)

func TestTabNextID(t *testing.T) {
	t.Parallel()

	var ts TabSet
	if got := ts.NextID(); got != 1 {
		t.Fatalf("empty set NextID = %d, want 1", got)
	}

	ts.Ensure(1)
	ts.Ensure(4)
	if got := ts.NextID(); got != 5 {
		t.Fatalf("NextID = %d, want 5", got)
	}

	// Ids never reuse holes left by closed tabs.
	ts.Close(4)
	if got := ts.NextID(); got != 2 {
		t.Fatalf("NextID after closing max = %d, want 2", got)
	}
}

func TestTabsStaySorted(t *testing.T) {
	t.Parallel()

	var ts TabSet
	for _, id := range []int{3, 1, 2} {
		ts.Ensure(id)
	}
	got := ts.Tabs()
	for i, want := range []int{1, 2, 3} {
		if got[i].ID != want {
			t.Fatalf("tab %d has id %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestFirstTabBecomesActive(t *testing.T) {
	t.Parallel()

	var ts TabSet
	ts.Ensure(2)
	if ts.ActiveID() != 2 {
		t.Fatalf("active = %d, want 2", ts.ActiveID())
	}
	ts.Ensure(5)
	if ts.ActiveID() != 2 {
		t.Fatalf("ensuring a later tab must not steal focus, active = %d", ts.ActiveID())
	}
}

func TestCloseSelectsNearestFollowing(t *testing.T) {
	t.Parallel()

	var ts TabSet
	for _, id := range []int{1, 2, 3} {
		ts.Ensure(id)
	}
	ts.Select(2)

	ts.Close(2)
	if ts.ActiveID() != 3 {
		t.Fatalf("active = %d, want 3", ts.ActiveID())
	}

	ts.Close(3)
	if ts.ActiveID() != 1 {
		t.Fatalf("closing the highest tab should wrap, active = %d", ts.ActiveID())
	}
}

func TestCloseBackgroundTabKeepsSelection(t *testing.T) {
	t.Parallel()

	var ts TabSet
	ts.Ensure(1)
	ts.Ensure(2)
	ts.Select(1)
	ts.Close(2)
	if ts.ActiveID() != 1 {
		t.Fatalf("active = %d, want 1", ts.ActiveID())
	}
}

func TestCloseLastTabRecreatesDefault(t *testing.T) {
	t.Parallel()

	var ts TabSet
	tab := ts.Ensure(7)
	tab.Messages = append(tab.Messages, bridge.Message{Type: bridge.TypeSessionInput, Text: "bye"})
	ts.Select(7)

	ts.Close(7)
	if ts.Len() != 1 {
		t.Fatalf("expected exactly one tab, got %d", ts.Len())
	}
	fresh := ts.Tabs()[0]
	if fresh.ID != 1 {
		t.Fatalf("default tab id = %d, want 1", fresh.ID)
	}
	if len(fresh.Messages) != 0 {
		t.Fatal("closing a tab must evict its buffered messages")
	}
	if ts.ActiveID() != 1 {
		t.Fatalf("active = %d, want 1", ts.ActiveID())
	}
}

func TestUnreadCounts(t *testing.T) {
	t.Parallel()

	var ts TabSet
	ts.Ensure(1)
	ts.Ensure(2)
	ts.Select(1)

	msg := bridge.Message{Type: bridge.TypeSessionInput, Text: "bg"}
	ts.Append(2, msg)
	ts.Append(2, msg)
	ts.Append(1, msg)

	if got := ts.Get(2).Unread; got != 2 {
		t.Fatalf("background unread = %d, want 2", got)
	}
	if got := ts.Get(1).Unread; got != 0 {
		t.Fatalf("active tab unread = %d, want 0", got)
	}

	ts.Select(2)
	if got := ts.Get(2).Unread; got != 0 {
		t.Fatalf("selecting must clear unread, got %d", got)
	}
}
