package workspace

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
)

func regionIDs(p *Plugin) map[string]int {
	counts := make(map[string]int)
	for _, r := range p.mouseHandler.HitMap.Regions() {
		counts[r.ID]++
	}
	return counts
}

func TestViewHeightConstrained(t *testing.T) {
	t.Parallel()

	srv, _ := newBridgeServer(t, initSrcInline, nil, nil)
	p := newTestPlugin(t, srv.URL)
	loadForest(t, p)
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	for _, size := range []struct{ w, h int }{{100, 24}, {40, 16}} {
		out := p.View(size.w, size.h)
		if out == "" {
			t.Fatalf("View(%d,%d) returned empty string", size.w, size.h)
		}
		if lines := strings.Count(out, "\n") + 1; lines > size.h {
			t.Fatalf("View(%d,%d) produced %d lines", size.w, size.h, lines)
		}
	}
}

func TestViewRegistersPaneRegions(t *testing.T) {
	t.Parallel()

	srv, _ := newBridgeServer(t, initSrcInline, nil, nil)
	p := newTestPlugin(t, srv.URL)
	loadForest(t, p)
	p.Update(tea.KeyMsg{Type: tea.KeyEnter}) // expand src

	p.View(100, 24)
	ids := regionIDs(p)
	if ids[regionTree] != 1 || ids[regionPreview] != 1 {
		t.Fatalf("pane regions = %v, want one tree and one preview", ids)
	}
	if ids[regionTreeRow] != 3 {
		t.Fatalf("row regions = %d, want 3 (src, a.go, b.go)", ids[regionTreeRow])
	}
}

func TestViewNarrowShowsActivePaneOnly(t *testing.T) {
	t.Parallel()

	srv, _ := newBridgeServer(t, initSrcInline, nil, nil)
	p := newTestPlugin(t, srv.URL)
	loadForest(t, p)

	p.View(50, 20)
	ids := regionIDs(p)
	if ids[regionTree] != 1 || ids[regionPreview] != 0 {
		t.Fatalf("regions = %v, want the tree pane alone below the width cutoff", ids)
	}

	p.activePane = PanePreview
	p.View(50, 20)
	ids = regionIDs(p)
	if ids[regionPreview] != 1 || ids[regionTree] != 0 {
		t.Fatalf("regions = %v, want the preview pane alone when it has focus", ids)
	}
}

func TestViewShowsTreeStates(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")

	p.ctx.Store.Tree.SetEmpty("nothing shared yet")
	if out := p.View(100, 24); !strings.Contains(out, "nothing shared yet") {
		t.Fatal("empty-state message should render in the tree pane")
	}

	p.ctx.Store.Tree.SetError("walk failed")
	if out := p.View(100, 24); !strings.Contains(out, "walk failed") {
		t.Fatal("error message should render in the tree pane")
	}
}

func TestViewMarksExpandedFolders(t *testing.T) {
	t.Parallel()

	srv, _ := newBridgeServer(t, initSrcInline, nil, nil)
	p := newTestPlugin(t, srv.URL)
	loadForest(t, p)

	if out := p.View(100, 24); !strings.Contains(out, "+ src") {
		t.Fatal("collapsed folder should carry the + marker")
	}
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	out := p.View(100, 24)
	if !strings.Contains(out, "> src") {
		t.Fatal("expanded folder should carry the > marker")
	}
	if !strings.Contains(out, "a.go") {
		t.Fatal("children should render under the expanded folder")
	}
}

func TestClickFolderRowFetches(t *testing.T) {
	t.Parallel()

	srv, _ := newBridgeServer(t, initSrcShallow, map[string]string{
		"src": `{"status":"ok","tree":{"name":"src","path":"src","type":"folder","children":[]}}`,
	}, nil)
	p := newTestPlugin(t, srv.URL)
	loadForest(t, p)
	p.View(100, 24)

	// First row sits below the border and the two header lines.
	_, cmd := p.Update(tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatal("clicking an unfetched folder should fetch its children")
	}
	if !p.expanded["src"] || p.cursor != 0 {
		t.Fatalf("expanded=%v cursor=%d, want the clicked folder selected and open", p.expanded["src"], p.cursor)
	}

	for _, m := range runCmd(t, cmd) {
		p.Update(m)
	}
	rows := p.visibleRows()
	if len(rows) != 2 || !rows[1].Empty {
		t.Fatalf("rows = %+v, want the (empty) marker for a folder with no children", rows)
	}
}

func TestClickPreviewPaneFocusesIt(t *testing.T) {
	t.Parallel()

	srv, _ := newBridgeServer(t, initSrcInline, nil, nil)
	p := newTestPlugin(t, srv.URL)
	loadForest(t, p)
	p.View(100, 24)

	p.Update(tea.MouseMsg{X: 60, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if p.activePane != PanePreview {
		t.Fatal("clicking the preview pane should focus it")
	}
}

func TestWheelScrollsPaneUnderPointer(t *testing.T) {
	t.Parallel()

	srv, _ := newBridgeServer(t, initSrcInline, nil, nil)
	p := newTestPlugin(t, srv.URL)
	loadForest(t, p)
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.preview = preview{Path: "big.txt", Lines: make([]string, 80)}
	p.View(100, 24)

	p.Update(tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if p.cursor != 2 {
		t.Fatalf("cursor = %d, want the wheel to walk the tree (clamped to the last row)", p.cursor)
	}

	p.Update(tea.MouseMsg{X: 60, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if p.preview.Scroll != 3 {
		t.Fatalf("preview scroll = %d, want 3 after one wheel notch", p.preview.Scroll)
	}
}

func TestPreviewRendersLineNumbers(t *testing.T) {
	t.Parallel()

	p := newTestPlugin(t, "http://127.0.0.1:0")
	p.ctx.Store.Tree.SetForest([]bridge.TreeNode{{Name: "f.txt", Path: "f.txt", Type: bridge.NodeFile}})
	p.preview = preview{Path: "f.txt", Lines: []string{"alpha", "beta"}, Highlighted: []string{"alpha", "beta"}}

	out := p.View(100, 24)
	if !strings.Contains(out, "f.txt") {
		t.Fatal("preview header should show the file path")
	}
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "beta") {
		t.Fatal("preview should render the file content")
	}
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Fatal("preview should render line numbers")
	}
}
