package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects access to themeRegistry and currentTheme for thread safety
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	// Brand colors
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	// Text colors
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextSubtle    string `json:"textSubtle"`
	TextSelection string `json:"textSelection"` // Text on selection backgrounds (BgTertiary)
	TextHighlight string `json:"textHighlight"` // For subtitle, special text
	TextInverse   string `json:"textInverse"`   // Inverse text (white on dark themes)

	// Background colors
	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`
	BgOverlay   string `json:"bgOverlay"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`
	BorderMuted  string `json:"borderMuted"`

	// Conversation tab bar configuration
	TabStyle  string   `json:"tabStyle"`  // "per-tab", "solid", or "minimal"
	TabColors []string `json:"tabColors"` // accent colors the tab bar cycles through

	// Additional UI colors
	ButtonHover      string `json:"buttonHover"`
	TabTextInactive  string `json:"tabTextInactive"`
	Link             string `json:"link"`
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`

	// Danger button colors (for destructive action buttons)
	DangerLight  string `json:"dangerLight"`
	DangerDark   string `json:"dangerDark"`
	DangerBright string `json:"dangerBright"`
	DangerHover  string `json:"dangerHover"`

	// Third-party theme names
	SyntaxTheme   string `json:"syntaxTheme"`   // Chroma theme name
	MarkdownTheme string `json:"markdownTheme"` // Glamour theme name
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	// DefaultTheme is the stock dark theme
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary:   "#7C3AED", // Purple
			Secondary: "#3B82F6", // Blue
			Accent:    "#F59E0B", // Amber

			Success: "#10B981",
			Warning: "#F59E0B",
			Error:   "#EF4444",
			Info:    "#3B82F6",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			TextSubtle:    "#4B5563",
			TextSelection: "#F9FAFB",
			TextHighlight: "#E5E7EB",
			TextInverse:   "#FFFFFF",

			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",
			BgOverlay:   "#00000080",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",
			BorderMuted:  "#1F2937",

			TabStyle:  "per-tab",
			TabColors: []string{"#7C3AED", "#3B82F6", "#10B981", "#F59E0B"},

			ButtonHover:      "#9D174D",
			TabTextInactive:  "#6B7280",
			Link:             "#60A5FA",
			ToastSuccessText: "#000000",
			ToastErrorText:   "#FFFFFF",

			DangerLight:  "#FCA5A5",
			DangerDark:   "#7F1D1D",
			DangerBright: "#DC2626",
			DangerHover:  "#B91C1C",

			SyntaxTheme:   "monokai",
			MarkdownTheme: "dark",
		},
	}

	// DraculaTheme is a Dracula-inspired dark theme with vibrant colors
	DraculaTheme = Theme{
		Name:        "dracula",
		DisplayName: "Dracula",
		Colors: ColorPalette{
			Primary:   "#BD93F9", // Purple
			Secondary: "#8BE9FD", // Cyan
			Accent:    "#FFB86C", // Orange

			Success: "#50FA7B",
			Warning: "#FFB86C",
			Error:   "#FF5555",
			Info:    "#8BE9FD",

			TextPrimary:   "#F8F8F2",
			TextSecondary: "#BFBFBF",
			TextMuted:     "#6272A4",
			TextSubtle:    "#44475A",
			TextSelection: "#F8F8F2",
			TextHighlight: "#F8F8F2",
			TextInverse:   "#F8F8F2",

			BgPrimary:   "#282A36",
			BgSecondary: "#343746",
			BgTertiary:  "#44475A",
			BgOverlay:   "#00000080",

			BorderNormal: "#44475A",
			BorderActive: "#BD93F9",
			BorderMuted:  "#343746",

			TabStyle:  "per-tab",
			TabColors: []string{"#BD93F9", "#FF79C6", "#8BE9FD", "#50FA7B"},

			ButtonHover:      "#FF79C6",
			TabTextInactive:  "#6272A4",
			Link:             "#8BE9FD",
			ToastSuccessText: "#282A36",
			ToastErrorText:   "#F8F8F2",

			DangerLight:  "#FFADAD",
			DangerDark:   "#3D1F1F",
			DangerBright: "#FF5555",
			DangerHover:  "#E63E3E",

			SyntaxTheme:   "dracula",
			MarkdownTheme: "dark",
		},
	}

	// NordTheme is an arctic, north-bluish color palette
	NordTheme = Theme{
		Name:        "nord",
		DisplayName: "Nord",
		Colors: ColorPalette{
			Primary:   "#88C0D0", // Frost Cyan
			Secondary: "#81A1C1", // Frost Blue
			Accent:    "#EBCB8B", // Aurora Yellow

			Success: "#A3BE8C",
			Warning: "#EBCB8B",
			Error:   "#BF616A",
			Info:    "#88C0D0",

			TextPrimary:   "#D8DEE9",
			TextSecondary: "#E5E9F0",
			TextMuted:     "#4C566A",
			TextSubtle:    "#434C5E",
			TextSelection: "#D8DEE9",
			TextHighlight: "#ECEFF4",
			TextInverse:   "#ECEFF4",

			BgPrimary:   "#2E3440",
			BgSecondary: "#3B4252",
			BgTertiary:  "#434C5E",
			BgOverlay:   "#2E3440CC",

			BorderNormal: "#4C566A",
			BorderActive: "#88C0D0",
			BorderMuted:  "#3B4252",

			TabStyle:  "minimal",
			TabColors: []string{"#88C0D0"},

			ButtonHover:      "#5E81AC",
			TabTextInactive:  "#4C566A",
			Link:             "#88C0D0",
			ToastSuccessText: "#2E3440",
			ToastErrorText:   "#E5E9F0",

			DangerLight:  "#D08770",
			DangerDark:   "#3B2A25",
			DangerBright: "#BF616A",
			DangerHover:  "#A5545C",

			SyntaxTheme:   "nord",
			MarkdownTheme: "dark",
		},
	}

	// TokyoNightTheme is a clean, dark theme that celebrates the lights of Downtown Tokyo
	TokyoNightTheme = Theme{
		Name:        "tokyo-night",
		DisplayName: "Tokyo Night",
		Colors: ColorPalette{
			Primary:   "#7AA2F7", // Blue
			Secondary: "#BB9AF7", // Purple
			Accent:    "#FF9E64", // Orange

			Success: "#9ECE6A",
			Warning: "#E0AF68",
			Error:   "#F7768E",
			Info:    "#7DCFFF",

			TextPrimary:   "#C0CAF5",
			TextSecondary: "#A9B1D6",
			TextMuted:     "#565F89",
			TextSubtle:    "#414868",
			TextSelection: "#C0CAF5",
			TextHighlight: "#C0CAF5",
			TextInverse:   "#C0CAF5",

			BgPrimary:   "#1A1B26",
			BgSecondary: "#24283B",
			BgTertiary:  "#414868",
			BgOverlay:   "#15161ECC",

			BorderNormal: "#565F89",
			BorderActive: "#7AA2F7",
			BorderMuted:  "#24283B",

			TabStyle:  "per-tab",
			TabColors: []string{"#7AA2F7", "#BB9AF7", "#F7768E", "#9ECE6A"},

			ButtonHover:      "#BB9AF7",
			TabTextInactive:  "#565F89",
			Link:             "#73DACA",
			ToastSuccessText: "#15161E",
			ToastErrorText:   "#C0CAF5",

			DangerLight:  "#F7A8B8",
			DangerDark:   "#2D1520",
			DangerBright: "#F7768E",
			DangerHover:  "#E05F77",

			SyntaxTheme:   "tokyo-night",
			MarkdownTheme: "dark",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"default":     DefaultTheme,
	"dracula":     DraculaTheme,
	"nord":        NordTheme,
	"tokyo-night": TokyoNightTheme,
}

// currentTheme tracks the active theme name
var currentTheme = "default"
var currentThemeValue = DefaultTheme

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// GetCurrentTheme returns the currently active theme
func GetCurrentTheme() Theme {
	themeMu.RLock()
	theme := currentThemeValue
	themeMu.RUnlock()
	return theme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns the names of all available themes in sorted order
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterTheme adds a custom theme to the registry
func RegisterTheme(theme Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	themeRegistry[theme.Name] = theme
}

// ApplyTheme applies a theme by name, updating all style variables
func ApplyTheme(name string) {
	theme := GetTheme(name)
	ApplyThemeColors(theme)
	themeMu.Lock()
	currentTheme = name
	themeMu.Unlock()
}

// ApplyThemeWithOverrides applies a theme with color overrides from config
func ApplyThemeWithOverrides(name string, overrides map[string]string) {
	theme := GetTheme(name)
	for key, value := range overrides {
		applyOverride(&theme.Colors, key, value)
	}
	ApplyThemeColors(theme)
	themeMu.Lock()
	currentTheme = name
	themeMu.Unlock()
}

// applyOverride applies a single override. Color values must be valid hex
// colors; invalid colors are silently ignored.
func applyOverride(palette *ColorPalette, key, value string) {
	// syntaxTheme, markdownTheme, and tabStyle are names, not colors
	isThemeName := key == "syntaxTheme" || key == "markdownTheme" || key == "tabStyle"
	if !isThemeName && !IsValidHexColor(value) {
		return
	}

	switch key {
	case "primary":
		palette.Primary = value
	case "secondary":
		palette.Secondary = value
	case "accent":
		palette.Accent = value
	case "success":
		palette.Success = value
	case "warning":
		palette.Warning = value
	case "error":
		palette.Error = value
	case "info":
		palette.Info = value
	case "textPrimary":
		palette.TextPrimary = value
	case "textSecondary":
		palette.TextSecondary = value
	case "textMuted":
		palette.TextMuted = value
	case "textSubtle":
		palette.TextSubtle = value
	case "textSelection":
		palette.TextSelection = value
	case "textHighlight":
		palette.TextHighlight = value
	case "textInverse":
		palette.TextInverse = value
	case "bgPrimary":
		palette.BgPrimary = value
	case "bgSecondary":
		palette.BgSecondary = value
	case "bgTertiary":
		palette.BgTertiary = value
	case "bgOverlay":
		palette.BgOverlay = value
	case "borderNormal":
		palette.BorderNormal = value
	case "borderActive":
		palette.BorderActive = value
	case "borderMuted":
		palette.BorderMuted = value
	case "buttonHover":
		palette.ButtonHover = value
	case "tabTextInactive":
		palette.TabTextInactive = value
	case "link":
		palette.Link = value
	case "toastSuccessText":
		palette.ToastSuccessText = value
	case "toastErrorText":
		palette.ToastErrorText = value
	case "dangerLight":
		palette.DangerLight = value
	case "dangerDark":
		palette.DangerDark = value
	case "dangerBright":
		palette.DangerBright = value
	case "dangerHover":
		palette.DangerHover = value
	case "syntaxTheme":
		palette.SyntaxTheme = value
	case "markdownTheme":
		palette.MarkdownTheme = value
	case "tabStyle":
		palette.TabStyle = value
	}
}

// ApplyThemeColors updates all style package variables from a theme.
//
// IMPORTANT: This function is NOT thread-safe for concurrent reads.
// It must only be called during initialization, before the TUI starts.
// The TUI's single-threaded Bubble Tea model ensures safe access after init.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	Info = lipgloss.Color(c.Info)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)
	TextHighlight = lipgloss.Color(c.TextHighlight)
	if c.TextSelection != "" {
		TextSelectionColor = lipgloss.Color(c.TextSelection)
	} else {
		TextSelectionColor = lipgloss.Color(c.TextPrimary)
	}
	if c.TextInverse != "" {
		TextInverse = lipgloss.Color(c.TextInverse)
	} else {
		TextInverse = lipgloss.Color(c.TextPrimary)
	}

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)
	BgOverlay = lipgloss.Color(c.BgOverlay)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)
	BorderMuted = lipgloss.Color(c.BorderMuted)

	// Scrollbars reuse border tones so every theme gets a sane track/thumb pair.
	ScrollbarTrackColor = lipgloss.Color(c.BorderMuted)
	ScrollbarThumbColor = lipgloss.Color(c.BorderActive)

	ButtonHoverColor = lipgloss.Color(c.ButtonHover)
	TabTextInactiveColor = lipgloss.Color(c.TabTextInactive)
	LinkColor = lipgloss.Color(c.Link)
	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	DangerLight = lipgloss.Color(c.DangerLight)
	DangerDark = lipgloss.Color(c.DangerDark)
	DangerBright = lipgloss.Color(c.DangerBright)
	DangerHover = lipgloss.Color(c.DangerHover)

	// Store syntax/markdown theme names for external use
	CurrentSyntaxTheme = c.SyntaxTheme
	CurrentMarkdownTheme = c.MarkdownTheme

	CurrentTabStyle = c.TabStyle
	CurrentTabColors = parseTabColors(c.TabColors)

	themeMu.Lock()
	currentThemeValue = theme
	themeMu.Unlock()

	rebuildStyles()
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	PanelHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextHighlight)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Subtle = lipgloss.NewStyle().
		Foreground(TextSubtle)

	Code = lipgloss.NewStyle().
		Foreground(Accent)

	Link = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	StatusOnline = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	StatusOffline = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessTextColor).
		Bold(true).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorTextColor).
		Bold(true).
		Padding(0, 1)

	ListItemNormal = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(TextSelectionColor).
		Background(BgTertiary)

	ListCursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	TabTextActive = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	TabTextInactive = lipgloss.NewStyle().
		Foreground(TabTextInactiveColor)

	TabBadge = lipgloss.NewStyle().
		Foreground(ToastSuccessTextColor).
		Background(Warning).
		Padding(0, 1).
		Bold(true)

	MsgSent = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	MsgReceived = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	MsgMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	PromptBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Warning).
		Padding(0, 1)

	PromptTitle = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	TreeDir = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	TreeFile = lipgloss.NewStyle().
		Foreground(TextPrimary)

	TreeError = lipgloss.NewStyle().
		Foreground(Error)

	TreeIcon = lipgloss.NewStyle().
		Foreground(TextMuted)

	TreeLineNumber = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(5).
		AlignHorizontal(lipgloss.Right)

	FuzzyMatchChar = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	PaletteEntry = lipgloss.NewStyle().
		Foreground(TextPrimary)

	PaletteEntrySelected = lipgloss.NewStyle().
		Foreground(TextSelectionColor).
		Background(BgTertiary)

	PaletteKey = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	Header = lipgloss.NewStyle().
		Background(BgSecondary)

	ModalOverlay = lipgloss.NewStyle().
		Background(BgOverlay)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true).
		MarginBottom(1)

	Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgTertiary).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 2).
		Bold(true)

	ButtonHover = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(ButtonHoverColor).
		Padding(0, 2)

	ButtonDanger = lipgloss.NewStyle().
		Foreground(DangerLight).
		Background(DangerDark).
		Padding(0, 2)

	ButtonDangerFocused = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(DangerBright).
		Padding(0, 2).
		Bold(true)

	ButtonDangerHover = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(DangerHover).
		Padding(0, 2)
}

// GetSyntaxTheme returns the current syntax highlighting theme name
func GetSyntaxTheme() string {
	return CurrentSyntaxTheme
}

// GetMarkdownTheme returns the current markdown rendering theme name
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}
