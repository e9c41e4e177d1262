package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/wilbur182/trestle/internal/app"
	"github.com/wilbur182/trestle/internal/bridge"
	"github.com/wilbur182/trestle/internal/config"
	"github.com/wilbur182/trestle/internal/history"
	"github.com/wilbur182/trestle/internal/keymap"
	"github.com/wilbur182/trestle/internal/plugin"
	"github.com/wilbur182/trestle/internal/plugins/activity"
	"github.com/wilbur182/trestle/internal/plugins/conversations"
	"github.com/wilbur182/trestle/internal/plugins/workspace"
	"github.com/wilbur182/trestle/internal/state"
	"github.com/wilbur182/trestle/internal/styles"
)

// Version is set at build time via ldflags.
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	bridgeURL    = flag.String("bridge", "", "bridge base URL (overrides config)")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: trestle [options]\n\n")
		fmt.Fprintf(os.Stderr, "A terminal dashboard for the bridge supervisor.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("trestle version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "trestle needs a terminal; stdout is not a TTY")
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *bridgeURL != "" {
		cfg.Bridge.BaseURL = *bridgeURL
	}

	styles.ApplyThemeWithOverrides(cfg.UI.Theme.Name, cfg.UI.Theme.Overrides)

	client := bridge.New(cfg.Bridge.BaseURL)
	store := state.New(logger)

	// A broken cache disables persistence for the run, never the UI.
	var cache *history.Cache
	if cfg.Cache.Enabled {
		c, err := history.Open(cfg.CachePath())
		if err != nil {
			logger.Warn("history cache unavailable", "path", cfg.CachePath(), "error", err)
		} else {
			if err := c.Trim(cfg.Cache.MaxEntries); err != nil {
				logger.Warn("history cache trim failed", "error", err)
			}
			cache = c
		}
	}

	// Keymap registry first: plugins register bindings during Init.
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)

	pluginCtx := &plugin.Context{
		Config: cfg,
		Logger: logger,
		Keymap: km,
		Bridge: client,
		Store:  store,
		Cache:  cache,
	}
	registry := plugin.NewRegistry(pluginCtx)

	// Registration order is tab order.
	registry.Register(conversations.New())
	registry.Register(workspace.New())
	registry.Register(activity.New())

	for id, reason := range registry.Unavailable() {
		logger.Warn("plugin unavailable", "id", id, "reason", reason)
	}

	// User overrides land last so they beat defaults and plugin bindings.
	km.ApplyOverrides(cfg.Keymap.Overrides)

	model := app.New(registry, km, cfg, store, client, cache, logger, effectiveVersion(Version))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}
