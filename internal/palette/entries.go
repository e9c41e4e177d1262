package palette

import (
	"strings"

	"github.com/wilbur182/trestle/internal/keymap"
	"github.com/wilbur182/trestle/internal/plugin"
)

// Layer represents the contextual hierarchy of a command.
type Layer int

const (
	LayerCurrentMode Layer = iota // the focused panel's current mode
	LayerPlugin                   // the focused panel's base context
	LayerGlobal                   // app-wide shortcuts
)

// Name returns a display name for the layer.
func (l Layer) Name() string {
	switch l {
	case LayerCurrentMode:
		return "Current"
	case LayerPlugin:
		return "Plugin"
	case LayerGlobal:
		return "Global"
	default:
		return "Unknown"
	}
}

// PaletteEntry represents a single searchable entry in the command palette.
type PaletteEntry struct {
	Key          string          // Display key(s): "ctrl+t" or "g w"
	CommandID    string          // Command ID
	Name         string          // Short name
	Description  string          // Full description
	Category     plugin.Category // Category for grouping
	Context      string          // Source context
	Layer        Layer           // Which layer: CurrentMode, Plugin, Global
	Score        int             // Fuzzy match score (computed during search)
	MatchRanges  []MatchRange    // For highlighting matches in name
	ContextCount int             // Number of contexts this command appears in (for grouped display)
}

// BuildEntries aggregates commands from keymap bindings and plugin commands.
// activeContext is the current focus context (e.g., "workspace-preview").
// pluginContext is the base plugin context (e.g., "workspace").
func BuildEntries(km *keymap.Registry, plugins []plugin.Plugin, activeContext, pluginContext string) []PaletteEntry {
	// Plugin command metadata keyed by "commandID:context" so the same
	// command ID can carry different metadata in different contexts.
	cmdMeta := make(map[string]plugin.Command)
	for _, p := range plugins {
		for _, cmd := range p.Commands() {
			key := cmd.ID + ":" + cmd.Context
			cmdMeta[key] = cmd
		}
	}

	seen := make(map[string]bool)
	bound := make(map[string]bool)
	var entries []PaletteEntry

	for _, ctx := range km.AllContexts() {
		for _, b := range km.BindingsForContext(ctx) {
			bound[b.Command] = true
			key := b.Command + ":" + b.Context
			if seen[key] {
				continue
			}
			seen[key] = true

			entries = append(entries, bindingToEntry(b, cmdMeta, activeContext, pluginContext))
		}
	}

	// Registered commands with no binding in any context are only reachable
	// here, so list them keyless.
	for _, cmd := range km.Commands() {
		if bound[cmd.ID] {
			continue
		}
		entries = append(entries, commandToEntry(cmd, cmdMeta, activeContext, pluginContext))
	}

	return entries
}

// bindingToEntry converts a keymap binding to a palette entry.
func bindingToEntry(b keymap.Binding, cmdMeta map[string]plugin.Command, activeContext, pluginContext string) PaletteEntry {
	entry := PaletteEntry{
		Key:       b.Key,
		CommandID: b.Command,
		Context:   b.Context,
		Layer:     determineLayer(b.Context, activeContext, pluginContext),
	}

	metaKey := b.Command + ":" + b.Context
	if cmd, ok := cmdMeta[metaKey]; ok {
		entry.Name = cmd.Name
		entry.Description = cmd.Description
		entry.Category = cmd.Category
	}

	if entry.Name == "" {
		entry.Name = formatCommandID(b.Command)
	}
	if entry.Description == "" {
		entry.Description = formatCommandID(b.Command)
	}
	if entry.Category == "" {
		entry.Category = inferCategory(b.Command)
	}

	return entry
}

// commandToEntry converts an unbound registered command to a keyless entry.
func commandToEntry(cmd keymap.Command, cmdMeta map[string]plugin.Command, activeContext, pluginContext string) PaletteEntry {
	entry := PaletteEntry{
		CommandID: cmd.ID,
		Name:      cmd.Name,
		Context:   cmd.Context,
		Layer:     determineLayer(cmd.Context, activeContext, pluginContext),
	}

	metaKey := cmd.ID + ":" + cmd.Context
	if meta, ok := cmdMeta[metaKey]; ok {
		if entry.Name == "" {
			entry.Name = meta.Name
		}
		entry.Description = meta.Description
		entry.Category = meta.Category
	}

	if entry.Name == "" {
		entry.Name = formatCommandID(cmd.ID)
	}
	if entry.Description == "" {
		entry.Description = formatCommandID(cmd.ID)
	}
	if entry.Category == "" {
		entry.Category = inferCategory(cmd.ID)
	}

	return entry
}

// determineLayer determines which layer a binding belongs to.
func determineLayer(bindingContext, activeContext, pluginContext string) Layer {
	if bindingContext == activeContext {
		return LayerCurrentMode
	}
	if bindingContext == pluginContext || strings.HasPrefix(activeContext, bindingContext+"-") {
		return LayerPlugin
	}
	if bindingContext == "global" {
		return LayerGlobal
	}
	// Default to plugin layer for non-global, non-current contexts
	return LayerPlugin
}

// formatCommandID converts a command ID to a readable name, dropping the
// namespace prefix: "conversations.new-tab" -> "New tab".
func formatCommandID(id string) string {
	if id == "" {
		return ""
	}
	if dot := strings.LastIndex(id, "."); dot >= 0 && dot+1 < len(id) {
		id = id[dot+1:]
	}
	words := strings.Split(id, "-")
	if runes := []rune(words[0]); len(runes) > 0 {
		words[0] = strings.ToUpper(string(runes[:1])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}

// inferCategory infers a category from a command ID when the owning plugin
// did not provide one.
func inferCategory(cmdID string) plugin.Category {
	lower := strings.ToLower(cmdID)

	switch {
	// "preview" would otherwise be swallowed by the "prev" check below.
	case strings.Contains(lower, "view") ||
		strings.Contains(lower, "show") ||
		strings.Contains(lower, "toggle") ||
		strings.Contains(lower, "theme"):
		return plugin.CategoryView

	case strings.Contains(lower, "scroll") ||
		strings.Contains(lower, "cursor") ||
		strings.Contains(lower, "next") ||
		strings.Contains(lower, "prev") ||
		strings.Contains(lower, "top") ||
		strings.Contains(lower, "bottom") ||
		strings.Contains(lower, "focus"):
		return plugin.CategoryNavigation

	case strings.Contains(lower, "search") ||
		strings.Contains(lower, "find") ||
		strings.Contains(lower, "filter"):
		return plugin.CategorySearch

	case strings.Contains(lower, "new") ||
		strings.Contains(lower, "close") ||
		strings.Contains(lower, "delete") ||
		strings.Contains(lower, "edit"):
		return plugin.CategoryEdit

	case strings.Contains(lower, "quit") ||
		strings.Contains(lower, "reload") ||
		strings.Contains(lower, "refresh") ||
		strings.Contains(lower, "help"):
		return plugin.CategorySystem

	default:
		return plugin.CategoryActions
	}
}

// GroupEntriesByLayer groups entries by their layer for display.
func GroupEntriesByLayer(entries []PaletteEntry) map[Layer][]PaletteEntry {
	groups := make(map[Layer][]PaletteEntry)
	for _, e := range entries {
		groups[e.Layer] = append(groups[e.Layer], e)
	}
	return groups
}

// FilterEntriesForContext returns entries for a specific context + global only.
// This eliminates duplicates since each command appears at most once per context.
func FilterEntriesForContext(entries []PaletteEntry, activeContext string) []PaletteEntry {
	var result []PaletteEntry
	for _, e := range entries {
		if e.Context == activeContext || e.Context == "global" {
			result = append(result, e)
		}
	}
	return result
}

// GroupEntriesByCommand groups entries by CommandID and marks context count.
// Returns one entry per command with ContextCount set for commands in
// multiple contexts.
func GroupEntriesByCommand(entries []PaletteEntry) []PaletteEntry {
	groups := make(map[string][]PaletteEntry)
	for _, e := range entries {
		groups[e.CommandID] = append(groups[e.CommandID], e)
	}

	// Keep the most relevant entry from each group, set context count.
	var result []PaletteEntry
	for _, group := range groups {
		entry := group[0]
		for _, e := range group[1:] {
			if e.Layer < entry.Layer {
				entry = e
			}
		}
		entry.ContextCount = len(group)
		result = append(result, entry)
	}
	return result
}
