package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		hex  string
		want bool
	}{
		{"#FFFFFF", true},
		{"#abc123", true},
		{"#00000080", true},
		{"FFFFFF", false},
		{"#FFF", false},
		{"#GGGGGG", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidHexColor(tt.hex); got != tt.want {
			t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestApplyThemeSwitchesColors(t *testing.T) {
	ApplyTheme("dracula")
	if GetCurrentThemeName() != "dracula" {
		t.Fatalf("current theme = %q", GetCurrentThemeName())
	}
	if Primary != lipgloss.Color("#BD93F9") {
		t.Fatalf("primary = %v", Primary)
	}
	if GetSyntaxTheme() != "dracula" {
		t.Fatalf("syntax theme = %q", GetSyntaxTheme())
	}

	ApplyTheme("default")
	if Primary != lipgloss.Color("#7C3AED") {
		t.Fatalf("primary after reset = %v", Primary)
	}
}

func TestApplyUnknownThemeFallsBack(t *testing.T) {
	ApplyTheme("default")
	ApplyTheme("no-such-theme")
	if Primary != lipgloss.Color("#7C3AED") {
		t.Fatalf("unknown theme should fall back to default, primary = %v", Primary)
	}
	ApplyTheme("default")
}

func TestApplyThemeWithOverrides(t *testing.T) {
	ApplyThemeWithOverrides("default", map[string]string{
		"primary":    "#123456",
		"error":      "not-a-color",
		"tabStyle":   "solid",
		"linkBROKEN": "#FFFFFF",
	})
	if Primary != lipgloss.Color("#123456") {
		t.Fatalf("override not applied, primary = %v", Primary)
	}
	if Error != lipgloss.Color("#EF4444") {
		t.Fatalf("invalid hex should be ignored, error = %v", Error)
	}
	if CurrentTabStyle != "solid" {
		t.Fatalf("tabStyle override lost: %q", CurrentTabStyle)
	}
	ApplyTheme("default")
}

func TestListThemesSorted(t *testing.T) {
	names := ListThemes()
	if len(names) < 4 {
		t.Fatalf("expected built-in themes, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	if !IsValidTheme("nord") {
		t.Fatal("nord should be registered")
	}
}

func TestTabColorFor(t *testing.T) {
	ApplyTheme("default") // per-tab style with 4 colors
	a := TabColorFor(0)
	b := TabColorFor(1)
	if a == b {
		t.Fatal("per-tab style should cycle colors")
	}
	if TabColorFor(4) != a {
		t.Fatal("cycling should wrap")
	}

	ApplyTheme("nord") // minimal style
	if TabColorFor(3) != Primary {
		t.Fatal("minimal style should use the primary color")
	}
	ApplyTheme("default")
}
