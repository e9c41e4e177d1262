package workspace

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/styles"
)

const maxPreviewLines = 5000

// preview holds the right pane content.
type preview struct {
	Path        string
	Lines       []string
	Highlighted []string
	Binary      bool
	Truncated   bool
	Loading     bool
	Err         string
	Scroll      int
}

// previewResult is the processed /file payload.
type previewResult struct {
	Lines       []string
	Highlighted []string
	Binary      bool
	Truncated   bool
	Err         error
}

// FileLoadedMsg signals that preview content for Path is ready.
type FileLoadedMsg struct {
	Path   string
	Result previewResult
}

// loadFile fetches one file and prepares it for display. Highlighting runs
// here, off the update loop.
func loadFile(client *bridge.Client, path string) tea.Cmd {
	return func() tea.Msg {
		content, err := client.File(context.Background(), path)
		if err != nil {
			return FileLoadedMsg{Path: path, Result: previewResult{Err: err}}
		}
		return FileLoadedMsg{Path: path, Result: buildPreview(content, path)}
	}
}

// buildPreview splits, highlights and truncates fetched content.
func buildPreview(content, path string) previewResult {
	if isBinary([]byte(content)) {
		return previewResult{Binary: true}
	}
	res := previewResult{Lines: strings.Split(content, "\n")}
	if highlighted, err := highlight(content, filepath.Ext(path)); err == nil {
		res.Highlighted = strings.Split(highlighted, "\n")
	} else {
		res.Highlighted = res.Lines
	}
	if len(res.Lines) > maxPreviewLines {
		res.Lines = res.Lines[:maxPreviewLines]
		res.Truncated = true
	}
	if len(res.Highlighted) > maxPreviewLines {
		res.Highlighted = res.Highlighted[:maxPreviewLines]
	}
	return res
}

// highlight returns content with terminal escape sequences for the syntax
// of the given file extension.
func highlight(content, extension string) (string, error) {
	buf := new(bytes.Buffer)
	if err := quick.Highlight(buf, content, extension, "terminal256", styles.GetSyntaxTheme()); err != nil {
		return "", fmt.Errorf("highlight: %w", err)
	}
	return buf.String(), nil
}

// isBinary checks for null bytes in the first 512 bytes.
func isBinary(data []byte) bool {
	checkLen := min(len(data), 512)
	return bytes.Contains(data[:checkLen], []byte{0})
}
