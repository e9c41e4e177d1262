package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.Bridge.BaseURL != "http://localhost:9013" {
		t.Fatalf("default base URL = %q", cfg.Bridge.BaseURL)
	}
	if cfg.Bridge.HistoryLimit != 200 {
		t.Fatalf("default history limit = %d", cfg.Bridge.HistoryLimit)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("cache should default on")
	}
}

func TestLoadSparseFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"bridge": {"baseUrl": "http://10.0.0.5:9013"}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.Bridge.BaseURL != "http://10.0.0.5:9013" {
		t.Fatalf("override lost: %q", cfg.Bridge.BaseURL)
	}
	if cfg.Bridge.HistoryLimit != 200 {
		t.Fatalf("absent key should keep default, got %d", cfg.Bridge.HistoryLimit)
	}
	if cfg.UI.Theme.Name != "default" {
		t.Fatalf("theme default lost: %q", cfg.UI.Theme.Name)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateClamps(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Bridge.BaseURL == "" || cfg.Bridge.HistoryLimit != 200 || cfg.Cache.MaxEntries != 2000 {
		t.Fatalf("zero config not clamped: %+v", cfg)
	}
	if cfg.Keymap.Overrides == nil || cfg.UI.Theme.Overrides == nil {
		t.Fatal("maps should be allocated")
	}
}

func TestCachePathOverride(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Cache.Path = "/tmp/elsewhere.db"
	if got := cfg.CachePath(); got != "/tmp/elsewhere.db" {
		t.Fatalf("CachePath = %q", got)
	}

	cfg.Cache.Path = ""
	if got := cfg.CachePath(); filepath.Base(got) != "history.db" {
		t.Fatalf("derived CachePath = %q", got)
	}
}
