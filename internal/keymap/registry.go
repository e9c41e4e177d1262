package keymap

import (
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const sequenceTimeout = 500 * time.Millisecond

// Command represents a registered command handler.
type Command struct {
	ID      string
	Name    string
	Handler func() tea.Cmd
	Context string
}

// Binding maps a key or key sequence to a command.
type Binding struct {
	Key     string // e.g., "tab", "ctrl+t", "g w"
	Command string // Command ID
	Context string // "global", plugin ID, etc.
}

// Registry manages key bindings and command dispatch.
type Registry struct {
	commands      map[string]Command   // ID -> Command
	bindings      map[string][]Binding // context -> bindings
	userOverrides map[string]string    // key -> command ID
	pendingKey    string
	pendingTime   time.Time
	mu            sync.RWMutex
}

// NewRegistry creates a new keymap registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:      make(map[string]Command),
		bindings:      make(map[string][]Binding),
		userOverrides: make(map[string]string),
	}
}

// RegisterCommand adds a command to the registry.
func (r *Registry) RegisterCommand(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.ID] = cmd
}

// RegisterBinding adds a key binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// RegisterPluginBinding lets plugins register bindings at init time without
// importing this package's types. Satisfies plugin.BindingRegistrar.
func (r *Registry) RegisterPluginBinding(key, command, context string) {
	r.RegisterBinding(Binding{Key: key, Command: command, Context: context})
}

// SetUserOverride sets a user-configured key override.
func (r *Registry) SetUserOverride(key, commandID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userOverrides[key] = commandID
}

// ApplyOverrides installs the key -> command map from the config file.
func (r *Registry) ApplyOverrides(overrides map[string]string) {
	for key, commandID := range overrides {
		r.SetUserOverride(key, commandID)
	}
}

// Handle dispatches a key event to the appropriate command handler.
// Returns nil if no matching binding is found.
func (r *Registry) Handle(key tea.KeyMsg, activeContext string) tea.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	keyStr := keyToString(key)

	// Check for pending key sequence
	if r.pendingKey != "" {
		if time.Since(r.pendingTime) < sequenceTimeout {
			seq := r.pendingKey + " " + keyStr
			r.pendingKey = ""
			if cmd := r.findCommand(seq, activeContext); cmd != nil {
				return cmd
			}
			// Sequence didn't match, try just the new key
		} else {
			r.pendingKey = ""
		}
	}

	// Check if this key starts a sequence
	if r.isSequenceStart(keyStr, activeContext) {
		r.pendingKey = keyStr
		r.pendingTime = time.Now()
		return nil
	}

	return r.findCommand(keyStr, activeContext)
}

// findCommand looks up a command for the given key in order of precedence:
// user overrides, then the active context, then global.
func (r *Registry) findCommand(key, activeContext string) tea.Cmd {
	if cmdID, ok := r.userOverrides[key]; ok {
		if cmd, ok := r.commands[cmdID]; ok && cmd.Handler != nil {
			return cmd.Handler()
		}
	}

	if activeContext != "" && activeContext != "global" {
		if cmd, found := r.findInContext(key, activeContext); found {
			return cmd
		}
	}

	cmd, _ := r.findInContext(key, "global")
	return cmd
}

func (r *Registry) findInContext(key, context string) (tea.Cmd, bool) {
	for _, b := range r.bindings[context] {
		if b.Key == key {
			if cmd, ok := r.commands[b.Command]; ok && cmd.Handler != nil {
				return cmd.Handler(), true
			}
		}
	}
	return nil, false
}

// isSequenceStart checks if this key could start a multi-key sequence.
func (r *Registry) isSequenceStart(key, activeContext string) bool {
	prefix := key + " "

	contexts := []string{"global"}
	if activeContext != "" && activeContext != "global" {
		contexts = append(contexts, activeContext)
	}

	for _, ctx := range contexts {
		for _, b := range r.bindings[ctx] {
			if strings.HasPrefix(b.Key, prefix) {
				return true
			}
		}
	}

	for k := range r.userOverrides {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}

	return false
}

// ResetPending clears any pending key sequence.
func (r *Registry) ResetPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingKey = ""
}

// GetCommand retrieves a command by ID.
func (r *Registry) GetCommand(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// BindingsForContext returns all bindings for a given context.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bindings[context]
}

// AllContexts returns every context with at least one binding, sorted.
func (r *Registry) AllContexts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contexts := make([]string, 0, len(r.bindings))
	for ctx := range r.bindings {
		contexts = append(contexts, ctx)
	}
	sort.Strings(contexts)
	return contexts
}

// Commands returns every registered command, sorted by ID. Commands without
// a binding are still registered; the palette lists them so they stay
// reachable without a key.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].ID < cmds[j].ID })
	return cmds
}

// HasPending returns true if there's a pending key sequence.
func (r *Registry) HasPending() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pendingKey != "" && time.Since(r.pendingTime) < sequenceTimeout
}

// keyToString converts a tea.KeyMsg to the representation bindings use.
// bubbletea's own String() covers the named keys; space and bare runes need
// fixing up so "g w"-style sequences read naturally.
func keyToString(key tea.KeyMsg) string {
	switch key.Type {
	case tea.KeySpace:
		return "space"
	case tea.KeyRunes:
		return string(key.Runes)
	default:
		return key.String()
	}
}
