// Package workspace is the file tree panel: a lazily loaded directory forest
// on the left and a read-only file preview on the right. The forest itself
// lives in the shared store and is fed by /init_tree, /tree and dir_tree
// frames; this plugin keeps only view state over it.
package workspace

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/mouse"
	"github.com/wilbur182/trestle/internal/plugin"
	"github.com/wilbur182/trestle/internal/state"
	"github.com/wilbur182/trestle/internal/ui"
)

const (
	pluginID   = "workspace"
	pluginName = "Workspace"
	pluginIcon = "W"
)

// Keymap contexts, one per pane. ctrl+r reload in the tree context ships
// with the keymap defaults.
const (
	contextTree    = pluginID
	contextPreview = pluginID + "-preview"
)

// Command ids, namespaced by plugin id so the app can route palette and
// keymap dispatches here.
const (
	cmdReload      = "workspace.reload"
	cmdCollapseAll = "workspace.collapse-all"
	cmdYankPath    = "workspace.yank-path"
)

// FocusPane selects which pane receives navigation keys.
type FocusPane int

const (
	PaneTree FocusPane = iota
	PanePreview
)

// TreeLoadedMsg carries one /init_tree outcome. Gen is the forest generation
// seen when the fetch was issued; a response against an older forest loses.
type TreeLoadedMsg struct {
	Gen    int
	Result bridge.TreeResult
	Err    error
}

// SubtreeLoadedMsg carries the /tree children of a single folder.
type SubtreeLoadedMsg struct {
	Gen      int
	Path     string
	Children []bridge.TreeNode
	Err      error
}

var _ plugin.Plugin = (*Plugin)(nil)

// Plugin implements the workspace panel.
type Plugin struct {
	ctx     *plugin.Context
	focused bool

	width  int
	height int

	activePane FocusPane

	// Tree view state over the store forest.
	cursor      int
	scrollOff   int
	expanded    map[string]bool
	fetched     map[string]bool
	loading     map[string]bool
	lastGen     int
	treeLoading bool

	preview  preview
	skeleton ui.Skeleton

	mouseHandler *mouse.Handler

	// Inner pane heights captured during render for paging and clamps.
	treeHeight    int
	previewHeight int
}

// New creates the workspace plugin.
func New() *Plugin {
	p := &Plugin{
		expanded:     make(map[string]bool),
		fetched:      make(map[string]bool),
		loading:      make(map[string]bool),
		skeleton:     ui.NewSkeleton(8, nil),
		mouseHandler: mouse.NewHandler(),
	}
	p.skeleton.Stop()
	return p
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon character.
func (p *Plugin) Icon() string { return pluginIcon }

// Init wires the shared context and registers per-pane bindings.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	if ctx.Keymap != nil {
		ctx.Keymap.RegisterPluginBinding("y", cmdYankPath, contextTree)
		ctx.Keymap.RegisterPluginBinding("y", cmdYankPath, contextPreview)
		ctx.Keymap.RegisterPluginBinding("ctrl+r", cmdReload, contextPreview)
	}
	return nil
}

// Start kicks off the initial forest fetch.
func (p *Plugin) Start() tea.Cmd {
	return tea.Batch(p.loadTree(), p.skeleton.Start())
}

// Stop releases plugin resources.
func (p *Plugin) Stop() {}

// Update handles messages.
func (p *Plugin) Update(msg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case ui.SkeletonTickMsg:
		return p, p.skeleton.Update(msg)

	case TreeLoadedMsg:
		return p, p.applyTree(msg)

	case SubtreeLoadedMsg:
		return p, p.applySubtree(msg)

	case FileLoadedMsg:
		p.applyFile(msg)
		return p, nil

	case plugin.CommandMsg:
		return p.handleCommand(msg.ID)

	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

// loadTree fetches /init_tree off the update loop.
func (p *Plugin) loadTree() tea.Cmd {
	p.treeLoading = true
	gen := p.ctx.Store.Tree.Gen
	client := p.ctx.Bridge
	return func() tea.Msg {
		result, err := client.InitTree(context.Background())
		return TreeLoadedMsg{Gen: gen, Result: result, Err: err}
	}
}

// loadSubtree fetches the children of one folder off the update loop.
func (p *Plugin) loadSubtree(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	p.loading[path] = true
	gen := p.ctx.Store.Tree.Gen
	client := p.ctx.Bridge
	return func() tea.Msg {
		children, err := client.Subtree(context.Background(), path)
		return SubtreeLoadedMsg{Gen: gen, Path: path, Children: children, Err: err}
	}
}

// applyTree lands an /init_tree response. Stale responses, where the forest
// moved on while the fetch was in flight, are dropped wholesale.
func (p *Plugin) applyTree(msg TreeLoadedMsg) tea.Cmd {
	p.treeLoading = false
	p.settleLoading()

	tree := &p.ctx.Store.Tree
	if msg.Gen != tree.Gen {
		p.ctx.Logger.Debug("stale tree load dropped", "gen", msg.Gen, "current", tree.Gen)
		return nil
	}
	switch {
	case msg.Err != nil:
		tree.SetError(msg.Err.Error())
	case msg.Result.Status == bridge.StatusEmpty:
		tree.SetEmpty(msg.Result.Message)
	case msg.Result.Status == bridge.StatusError:
		tree.SetError(msg.Result.Message)
	default:
		tree.SetForest(msg.Result.Roots)
	}
	p.resetTreeView()
	return nil
}

// applySubtree lands one /tree response. The generation gates forest
// identity; ReplaceChildren additionally drops replies for paths that are
// gone from the current forest.
func (p *Plugin) applySubtree(msg SubtreeLoadedMsg) tea.Cmd {
	delete(p.loading, msg.Path)

	tree := &p.ctx.Store.Tree
	if msg.Gen != tree.Gen {
		p.ctx.Logger.Debug("stale subtree dropped", "path", msg.Path)
		return nil
	}
	if msg.Err != nil {
		delete(p.expanded, msg.Path)
		p.ctx.Logger.Warn("subtree load failed", "path", msg.Path, "error", msg.Err)
		return toastError("Load failed: " + msg.Err.Error())
	}
	p.fetched[msg.Path] = true
	if !tree.ReplaceChildren(msg.Path, msg.Children) {
		delete(p.fetched, msg.Path)
	}
	return nil
}

// applyFile lands one /file response. The path gates staleness; content for
// a file the user has already left is discarded.
func (p *Plugin) applyFile(msg FileLoadedMsg) {
	if msg.Path != p.preview.Path {
		return
	}
	p.preview.Loading = false
	p.settleLoading()

	res := msg.Result
	if res.Err != nil {
		p.preview.Err = res.Err.Error()
		p.ctx.Logger.Warn("file load failed", "path", msg.Path, "error", res.Err)
		return
	}
	p.preview.Lines = res.Lines
	p.preview.Highlighted = res.Highlighted
	p.preview.Binary = res.Binary
	p.preview.Truncated = res.Truncated
}

// handleCommand executes a routed palette/keymap command.
func (p *Plugin) handleCommand(id string) (plugin.Plugin, tea.Cmd) {
	switch id {
	case cmdReload:
		return p, p.reload()
	case cmdCollapseAll:
		clear(p.expanded)
		p.cursor = 0
		p.scrollOff = 0
	case cmdYankPath:
		return p, p.yankPath()
	}
	return p, nil
}

// handleKey routes keys to the pane that currently has focus.
func (p *Plugin) handleKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	p.syncGen()
	if p.activePane == PanePreview {
		p.handlePreviewKey(msg)
		return p, nil
	}
	return p, p.handleTreeKey(msg)
}

// handleTreeKey drives cursor movement and expansion in the tree pane.
// Bare "g" belongs to the global goto sequences, so top is home only.
func (p *Plugin) handleTreeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		p.moveCursor(1)
	case "k", "up":
		p.moveCursor(-1)
	case "home":
		p.cursor = 0
	case "G", "end":
		p.moveCursor(1 << 30)
	case "ctrl+d":
		p.moveCursor(max(p.treeHeight/2, 1))
	case "ctrl+u":
		p.moveCursor(-max(p.treeHeight/2, 1))
	case "pgdown":
		p.moveCursor(max(p.treeHeight, 1))
	case "pgup":
		p.moveCursor(-max(p.treeHeight, 1))
	case "l", "right", "enter":
		return p.activateRow(p.cursor)
	case "h", "left":
		p.collapseOrAscend()
	}
	return nil
}

// handlePreviewKey scrolls the preview pane.
func (p *Plugin) handlePreviewKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		p.scrollPreview(1)
	case "k", "up":
		p.scrollPreview(-1)
	case "ctrl+d":
		p.scrollPreview(max(p.previewHeight/2, 1))
	case "ctrl+u":
		p.scrollPreview(-max(p.previewHeight/2, 1))
	case "pgdown":
		p.scrollPreview(max(p.previewHeight, 1))
	case "pgup":
		p.scrollPreview(-max(p.previewHeight, 1))
	case "home":
		p.preview.Scroll = 0
	case "G", "end":
		p.scrollPreview(1 << 30)
	case "h", "left", "esc":
		p.activePane = PaneTree
	}
}

// activateRow expands or collapses a folder, or opens a file for preview.
func (p *Plugin) activateRow(i int) tea.Cmd {
	rows := p.visibleRows()
	if i < 0 || i >= len(rows) {
		return nil
	}
	row := rows[i]
	switch {
	case row.IsDir:
		return p.toggleFolder(row)
	case row.Path != "":
		return p.openFile(row.Path)
	}
	return nil
}

// toggleFolder flips a folder's expansion, fetching its children the first
// time it opens. Children already delivered inline are never refetched.
func (p *Plugin) toggleFolder(row treeRow) tea.Cmd {
	if p.expanded[row.Path] {
		delete(p.expanded, row.Path)
		return nil
	}
	p.expanded[row.Path] = true
	node := state.FindNode(p.ctx.Store.Tree.Roots, row.Path)
	if node == nil || len(node.Children) > 0 || p.fetched[row.Path] || p.loading[row.Path] {
		return nil
	}
	return p.loadSubtree(row.Path)
}

// collapseOrAscend folds the folder under the cursor, or jumps to the parent
// when the cursor is not on an open folder.
func (p *Plugin) collapseOrAscend() {
	rows := p.visibleRows()
	if p.cursor < 0 || p.cursor >= len(rows) {
		return
	}
	row := rows[p.cursor]
	if row.IsDir && p.expanded[row.Path] {
		delete(p.expanded, row.Path)
		return
	}
	if parent := parentIndex(rows, p.cursor); parent >= 0 {
		p.cursor = parent
	}
}

// openFile starts a preview load and moves focus to the preview pane.
func (p *Plugin) openFile(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	p.activePane = PanePreview
	if path == p.preview.Path && p.preview.Err == "" && !p.preview.Loading {
		return nil
	}
	p.preview = preview{Path: path, Loading: true}
	return tea.Batch(loadFile(p.ctx.Bridge, path), p.startShimmer())
}

// reload refetches the forest and drops the preview, which may describe a
// file that no longer exists.
func (p *Plugin) reload() tea.Cmd {
	p.preview = preview{}
	p.activePane = PaneTree
	return p.loadTree()
}

// yankPath copies the path under the cursor, or the previewed file's path
// when the preview pane has focus.
func (p *Plugin) yankPath() tea.Cmd {
	path := p.preview.Path
	if p.activePane == PaneTree {
		if row := p.cursorRow(); row != nil {
			path = row.Path
		}
	}
	if path == "" {
		return nil
	}
	return copyToClipboard(path, "Path copied")
}

// visibleRows flattens the store forest through the current expansion state.
func (p *Plugin) visibleRows() []treeRow {
	p.syncGen()
	return flattenForest(p.ctx.Store.Tree.Roots, p.expanded, p.fetched, p.loading)
}

func (p *Plugin) cursorRow() *treeRow {
	rows := p.visibleRows()
	if p.cursor < 0 || p.cursor >= len(rows) {
		return nil
	}
	return &rows[p.cursor]
}

// moveCursor moves the tree cursor by delta, clamped to the visible rows.
func (p *Plugin) moveCursor(delta int) {
	n := len(p.visibleRows())
	if n == 0 {
		p.cursor = 0
		return
	}
	p.cursor = min(max(p.cursor+delta, 0), n-1)
}

// syncGen resets view state after the forest was replaced behind our back
// by a dir_tree frame or a reset. Paths from the old forest mean nothing in
// the new one.
func (p *Plugin) syncGen() {
	if p.lastGen == p.ctx.Store.Tree.Gen {
		return
	}
	p.resetTreeView()
}

func (p *Plugin) resetTreeView() {
	clear(p.expanded)
	clear(p.fetched)
	clear(p.loading)
	p.cursor = 0
	p.scrollOff = 0
	p.lastGen = p.ctx.Store.Tree.Gen
}

// scrollPreview moves the preview viewport by delta lines, clamped.
func (p *Plugin) scrollPreview(delta int) {
	maxOff := max(len(p.preview.Lines)-max(p.previewHeight, 1), 0)
	p.preview.Scroll = min(max(p.preview.Scroll+delta, 0), maxOff)
}

func (p *Plugin) startShimmer() tea.Cmd {
	if p.skeleton.IsActive() {
		return nil
	}
	return p.skeleton.Start()
}

// settleLoading stops the shimmer once nothing is in flight.
func (p *Plugin) settleLoading() {
	if !p.treeLoading && !p.preview.Loading {
		p.skeleton.Stop()
	}
}

func toastError(text string) tea.Cmd {
	return func() tea.Msg {
		return plugin.ToastMsg{Message: text, Duration: 3 * time.Second, IsError: true}
	}
}

func copyToClipboard(text, okNote string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return plugin.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: 2 * time.Second, IsError: true}
		}
		return plugin.ToastMsg{Message: okNote, Duration: 2 * time.Second}
	}
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Commands returns the palette commands.
func (p *Plugin) Commands() []plugin.Command {
	return []plugin.Command{
		{ID: cmdReload, Name: "Reload tree", Description: "Refetch the workspace forest", Category: plugin.CategoryActions, Context: contextTree, Priority: 1},
		{ID: cmdCollapseAll, Name: "Collapse all", Description: "Fold every expanded folder", Category: plugin.CategoryView, Context: contextTree, Priority: 2},
		{ID: cmdYankPath, Name: "Yank path", Description: "Copy the selected path", Category: plugin.CategoryActions, Context: contextTree, Priority: 3},
	}
}

// FocusContext returns the keymap context for the focused pane.
func (p *Plugin) FocusContext() string {
	if p.activePane == PanePreview {
		return contextPreview
	}
	return contextTree
}
