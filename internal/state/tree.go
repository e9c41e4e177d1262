package state

import "github.com/wilbur182/trestle/internal/bridge"

// Tree holds the workspace forest plus the tri-state load outcome: a
// populated forest, an explicitly empty workspace, or an error. Gen increases
// on every wholesale replacement so in-flight subtree fetches against an old
// forest can be discarded.
type Tree struct {
	Status  string
	Message string
	Roots   []bridge.TreeNode
	Gen     int
}

// Loaded reports whether any load outcome has been recorded yet.
func (t *Tree) Loaded() bool {
	return t.Status != ""
}

// SetForest replaces the whole forest.
func (t *Tree) SetForest(roots []bridge.TreeNode) {
	t.Status = bridge.StatusOK
	t.Message = ""
	t.Roots = roots
	t.Gen++
}

// SetEmpty records an explicitly empty workspace. Distinct from SetError: the
// view shows an empty-directory leaf, not a failure.
func (t *Tree) SetEmpty(message string) {
	t.Status = bridge.StatusEmpty
	t.Message = message
	t.Roots = nil
	t.Gen++
}

func (t *Tree) SetError(message string) {
	t.Status = bridge.StatusError
	t.Message = message
	t.Roots = nil
	t.Gen++
}

// ReplaceChildren swaps in the children of the node whose path matches,
// leaving every other node untouched. Returns false when no node matches,
// which happens when the forest was replaced while the fetch was in flight.
func (t *Tree) ReplaceChildren(path string, children []bridge.TreeNode) bool {
	return replaceChildren(t.Roots, path, children)
}

func replaceChildren(nodes []bridge.TreeNode, path string, children []bridge.TreeNode) bool {
	for i := range nodes {
		if nodes[i].Path == path {
			nodes[i].Children = children
			return true
		}
		if replaceChildren(nodes[i].Children, path, children) {
			return true
		}
	}
	return false
}

// FindNode returns the node at path, or nil.
func FindNode(nodes []bridge.TreeNode, path string) *bridge.TreeNode {
	for i := range nodes {
		if nodes[i].Path == path {
			return &nodes[i]
		}
		if n := FindNode(nodes[i].Children, path); n != nil {
			return n
		}
	}
	return nil
}
