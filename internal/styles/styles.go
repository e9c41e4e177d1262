package styles

import "github.com/charmbracelet/lipgloss"

// Color variables, repopulated by ApplyThemeColors.
var (
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	TextPrimary        lipgloss.Color
	TextSecondary      lipgloss.Color
	TextMuted          lipgloss.Color
	TextSubtle         lipgloss.Color
	TextSelectionColor lipgloss.Color
	TextHighlight      lipgloss.Color
	TextInverse        lipgloss.Color

	BgPrimary   lipgloss.Color
	BgSecondary lipgloss.Color
	BgTertiary  lipgloss.Color
	BgOverlay   lipgloss.Color

	BorderNormal lipgloss.Color
	BorderActive lipgloss.Color
	BorderMuted  lipgloss.Color

	ScrollbarTrackColor lipgloss.Color
	ScrollbarThumbColor lipgloss.Color

	ButtonHoverColor      lipgloss.Color
	TabTextInactiveColor  lipgloss.Color
	LinkColor             lipgloss.Color
	ToastSuccessTextColor lipgloss.Color
	ToastErrorTextColor   lipgloss.Color

	DangerLight  lipgloss.Color
	DangerDark   lipgloss.Color
	DangerBright lipgloss.Color
	DangerHover  lipgloss.Color
)

// Third-party theme names and tab bar coloring for the active theme.
var (
	CurrentSyntaxTheme   string
	CurrentMarkdownTheme string
	CurrentTabStyle      string
	CurrentTabColors     []lipgloss.Color
)

// Style variables, rebuilt whenever a theme is applied.
var (
	PanelActive   lipgloss.Style
	PanelInactive lipgloss.Style
	PanelHeader   lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	KeyHint  lipgloss.Style
	Logo     lipgloss.Style

	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListCursor       lipgloss.Style

	TabTextActive   lipgloss.Style
	TabTextInactive lipgloss.Style
	TabBadge        lipgloss.Style

	MsgSent     lipgloss.Style
	MsgReceived lipgloss.Style
	MsgMeta     lipgloss.Style
	PromptBox   lipgloss.Style
	PromptTitle lipgloss.Style

	TreeDir        lipgloss.Style
	TreeFile       lipgloss.Style
	TreeError      lipgloss.Style
	TreeIcon       lipgloss.Style
	TreeLineNumber lipgloss.Style

	FuzzyMatchChar       lipgloss.Style
	PaletteEntry         lipgloss.Style
	PaletteEntrySelected lipgloss.Style
	PaletteKey           lipgloss.Style

	Footer lipgloss.Style
	Header lipgloss.Style

	ModalOverlay lipgloss.Style
	ModalBox     lipgloss.Style
	ModalTitle   lipgloss.Style

	Button              lipgloss.Style
	ButtonFocused       lipgloss.Style
	ButtonHover         lipgloss.Style
	ButtonDanger        lipgloss.Style
	ButtonDangerFocused lipgloss.Style
	ButtonDangerHover   lipgloss.Style
)

func init() {
	ApplyThemeColors(DefaultTheme)
}

// parseTabColors validates and converts configured tab colors.
func parseTabColors(hexes []string) []lipgloss.Color {
	colors := make([]lipgloss.Color, 0, len(hexes))
	for _, h := range hexes {
		if IsValidHexColor(h) {
			colors = append(colors, lipgloss.Color(h))
		}
	}
	return colors
}

// TabColorFor picks the accent color for tab index i under the active theme's
// tab style. "solid" uses one color for every tab, "minimal" falls back to
// the primary, anything else cycles the palette.
func TabColorFor(i int) lipgloss.Color {
	if CurrentTabStyle == "minimal" || len(CurrentTabColors) == 0 {
		return Primary
	}
	if CurrentTabStyle == "solid" {
		return CurrentTabColors[0]
	}
	if i < 0 {
		i = 0
	}
	return CurrentTabColors[i%len(CurrentTabColors)]
}
