package markdown

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"

	"github.com/wilbur182/trestle/internal/styles"
)

const (
	// MinWidthForMarkdown is the minimum terminal width for markdown rendering.
	// Below this, falls back to plain text wrapping.
	MinWidthForMarkdown = 30

	// MaxCacheEntries is the maximum number of cached renders before eviction.
	MaxCacheEntries = 100
)

// Renderer wraps Glamour for markdown rendering with caching.
type Renderer struct {
	mu        sync.RWMutex
	renderer  *glamour.TermRenderer
	lastWidth int
	lastTheme string
	cache     map[uint64][]string
}

// NewRenderer creates a new markdown renderer instance.
func NewRenderer() *Renderer {
	return &Renderer{
		cache: make(map[uint64][]string),
	}
}

// RenderContent renders markdown content to styled lines. Renders are
// cached per content, width, and markdown theme.
func (r *Renderer) RenderContent(content string, width int) []string {
	if width < MinWidthForMarkdown {
		return WrapText(content, width)
	}
	if content == "" {
		return []string{}
	}

	key := cacheKey(content, width, styles.GetMarkdownTheme())

	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	renderer, err := r.getOrCreateRenderer(width)
	if err != nil {
		slog.Debug("glamour renderer error", "error", err)
		return WrapText(content, width)
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		slog.Debug("glamour render error", "error", err)
		return WrapText(content, width)
	}

	lines := strings.Split(strings.TrimRight(rendered, "\n\r\t "), "\n")

	if len(r.cache) >= MaxCacheEntries {
		r.cache = make(map[uint64][]string)
	}
	r.cache[key] = lines

	return lines
}

// cacheKey hashes content, width, and theme into one lookup key.
func cacheKey(content string, width int, theme string) uint64 {
	h := xxhash.New()
	h.WriteString(theme)
	h.Write([]byte{0, byte(width >> 8), byte(width)})
	h.WriteString(content)
	return h.Sum64()
}

// getOrCreateRenderer lazily creates or recreates the renderer for the given
// width and markdown theme. Must be called with the write lock held.
func (r *Renderer) getOrCreateRenderer(width int) (*glamour.TermRenderer, error) {
	theme := styles.GetMarkdownTheme()
	if r.renderer != nil && r.lastWidth == width && r.lastTheme == theme {
		return r.renderer, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	r.renderer = renderer
	r.lastWidth = width
	r.lastTheme = theme
	// Renders keyed under the old width or theme will never be asked for
	// again; drop them.
	r.cache = make(map[uint64][]string)

	return renderer, nil
}

// WrapText wraps text to fit within maxWidth.
// Used as fallback when terminal is too narrow for markdown rendering.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	// Replace newlines with spaces for simpler wrapping
	text = strings.ReplaceAll(text, "\n", " ")

	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return lines
	}

	currentLine := words[0]
	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
