package config

// Config is the root configuration structure.
type Config struct {
	Bridge BridgeConfig `json:"bridge"`
	Cache  CacheConfig  `json:"cache"`
	Keymap KeymapConfig `json:"keymap"`
	UI     UIConfig     `json:"ui"`
}

// BridgeConfig points the client at the supervisor.
type BridgeConfig struct {
	// BaseURL is the supervisor's HTTP origin. The WebSocket endpoint is
	// derived from it.
	BaseURL string `json:"baseUrl"`
	// HistoryLimit caps the initial GET /history fetch.
	HistoryLimit int `json:"historyLimit"`
}

// CacheConfig configures the local message cache.
type CacheConfig struct {
	Enabled bool `json:"enabled"`
	// Path of the SQLite file. Empty means <config dir>/history.db.
	Path string `json:"path,omitempty"`
	// MaxEntries is the trim cap applied on startup.
	MaxEntries int `json:"maxEntries"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter     bool        `json:"showFooter"`
	ShowClock      bool        `json:"showClock"`
	ShowTimestamps bool        `json:"showTimestamps"`
	Theme          ThemeConfig `json:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name"`
	Overrides map[string]string `json:"overrides"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			BaseURL:      "http://localhost:9013",
			HistoryLimit: 200,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 2000,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter:     true,
			ShowClock:      true,
			ShowTimestamps: true,
			Theme: ThemeConfig{
				Name:      "default",
				Overrides: make(map[string]string),
			},
		},
	}
}

// Validate checks the configuration for errors, clamping nonsense values back
// to defaults.
func (c *Config) Validate() error {
	if c.Bridge.BaseURL == "" {
		c.Bridge.BaseURL = "http://localhost:9013"
	}
	if c.Bridge.HistoryLimit <= 0 {
		c.Bridge.HistoryLimit = 200
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 2000
	}
	if c.UI.Theme.Name == "" {
		c.UI.Theme.Name = "default"
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	if c.UI.Theme.Overrides == nil {
		c.UI.Theme.Overrides = make(map[string]string)
	}
	return nil
}
