package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Save writes cfg to the config path, creating the directory on first use.
func Save(cfg *Config) error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SaveThemeWithOverrides persists the chosen theme and its color overrides,
// leaving the rest of the on-disk config untouched.
func SaveThemeWithOverrides(themeName string, overrides map[string]string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.UI.Theme.Name = themeName
	cfg.UI.Theme.Overrides = overrides
	return Save(cfg)
}
