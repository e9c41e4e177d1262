package plugin

import (
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Registry owns the plugin set: registration, lifecycle fan-out, and lookup.
// Every call into a plugin is panic-isolated so one broken panel cannot take
// the whole dashboard down.
type Registry struct {
	mu          sync.RWMutex
	plugins     []Plugin
	unavailable map[string]string // plugin id -> init failure reason
	ctx         *Context
}

// NewRegistry creates an empty registry sharing ctx with every plugin.
func NewRegistry(ctx *Context) *Registry {
	return &Registry{
		unavailable: make(map[string]string),
		ctx:         ctx,
	}
}

// Register initializes p and adds it to the set. A failing or panicking Init
// marks the plugin unavailable instead of erroring out; the dashboard runs
// with whatever panels survive.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := protect(func() error { return p.Init(r.ctx) }); err != nil {
		r.unavailable[p.ID()] = err.Error()
		r.log().Debug("plugin unavailable", "id", p.ID(), "reason", err)
		return nil
	}

	r.plugins = append(r.plugins, p)
	return nil
}

// Start starts every plugin and collects their initial commands.
func (r *Registry) Start() []tea.Cmd {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cmds []tea.Cmd
	for _, p := range r.plugins {
		var cmd tea.Cmd
		if err := protect(func() error { cmd = p.Start(); return nil }); err != nil {
			r.log().Error("plugin start panic", "id", p.ID(), "error", err)
			continue
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// Stop stops plugins in reverse registration order.
func (r *Registry) Stop() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.plugins) - 1; i >= 0; i-- {
		p := r.plugins[i]
		if err := protect(func() error { p.Stop(); return nil }); err != nil {
			r.log().Error("plugin stop panic", "id", p.ID(), "error", err)
		}
	}
}

// Plugins returns the active plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Plugin(nil), r.plugins...)
}

// Get returns the plugin with the given id, or nil.
func (r *Registry) Get(id string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// Unavailable reports plugins whose Init failed, keyed by id.
func (r *Registry) Unavailable() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.unavailable))
	for id, reason := range r.unavailable {
		out[id] = reason
	}
	return out
}

func (r *Registry) log() *slog.Logger {
	if r.ctx != nil && r.ctx.Logger != nil {
		return r.ctx.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// protect runs fn, converting a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}
