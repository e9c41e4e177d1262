package workspace

import "github.com/wilbur182/trestle/internal/bridge"

// treeRow is one visible line of the flattened forest. Synthetic rows
// (Loading, Empty) sit under an expanded folder and carry no path.
type treeRow struct {
	Name    string
	Path    string
	Depth   int
	IsDir   bool
	Loading bool
	Empty   bool
}

// flattenForest walks the forest depth-first and emits a row per visible
// node. A folder contributes its children only while expanded; an expanded
// folder whose fetch is in flight gets a loading row, and one whose fetch
// came back empty gets an "(empty)" marker row.
func flattenForest(roots []bridge.TreeNode, expanded, fetched, loading map[string]bool) []treeRow {
	rows := make([]treeRow, 0, len(roots))
	var walk func(nodes []bridge.TreeNode, depth int)
	walk = func(nodes []bridge.TreeNode, depth int) {
		for i := range nodes {
			n := &nodes[i]
			isDir := n.Type == bridge.NodeFolder
			rows = append(rows, treeRow{
				Name:  n.Name,
				Path:  n.Path,
				Depth: depth,
				IsDir: isDir,
			})
			if !isDir || !expanded[n.Path] {
				continue
			}
			switch {
			case len(n.Children) > 0:
				walk(n.Children, depth+1)
			case loading[n.Path]:
				rows = append(rows, treeRow{Name: "…", Depth: depth + 1, Loading: true})
			case fetched[n.Path]:
				rows = append(rows, treeRow{Name: "(empty)", Depth: depth + 1, Empty: true})
			}
		}
	}
	walk(roots, 0)
	return rows
}

// parentIndex returns the index of the nearest preceding row with a smaller
// depth, or -1 when the row is already a root.
func parentIndex(rows []treeRow, i int) int {
	if i < 0 || i >= len(rows) {
		return -1
	}
	depth := rows[i].Depth
	for j := i - 1; j >= 0; j-- {
		if rows[j].Depth < depth {
			return j
		}
	}
	return -1
}
