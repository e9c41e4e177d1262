package plugin

import (
	"log/slog"

	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/config"
	"github.com/wilbur182/trestle/internal/history"
	"github.com/wilbur182/trestle/internal/state"
)

// BindingRegistrar allows plugins to register key bindings dynamically.
// This is implemented by keymap.Registry.
type BindingRegistrar interface {
	RegisterPluginBinding(key, command, context string)
}

// Context provides shared resources to plugins during initialization.
//
// Store is owned by the app model and mutated only on the bubbletea update
// goroutine; plugins read it during Update and View and never from their
// own goroutines.
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Keymap BindingRegistrar // for plugins to register dynamic bindings

	Bridge *bridge.Client // HTTP side of the supervisor
	Store  *state.Store   // shared session state fed by the socket
	Cache  *history.Cache // optional on-disk history cache, may be nil
}
