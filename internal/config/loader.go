package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the configuration directory, ~/.config/trestle.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(home, ".config", "trestle"), nil
}

// ConfigPath returns the path of config.json. Falls back to the working
// directory when the home directory cannot be resolved.
func ConfigPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(dir, "config.json")
}

// CachePath resolves the cache file location, honoring an explicit override.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	dir, err := Dir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(dir, "history.db")
}

// Load reads config.json, layering it over defaults. A missing file is not
// an error; a file that exists but does not parse is.
func Load() (*Config, error) {
	return loadFrom(ConfigPath())
}

// LoadFrom reads an explicit config file instead of the default location.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Unmarshaling over the defaults keeps absent keys at their default
	// values, so a sparse config file stays valid.
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
