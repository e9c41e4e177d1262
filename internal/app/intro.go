package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wilbur182/trestle/internal/styles"
)

const introFrameInterval = 16 * time.Millisecond

// IntroModel animates the wordmark on startup. Letters slide in from the
// left, overshoot their slot and ease back while their colors converge on
// the theme gradient. Once every letter settles the bridge host fades in.
type IntroModel struct {
	Active    bool
	StartTime time.Time
	Letters   []*IntroLetter
	Done      bool

	HostName      string
	HostOpacity   float64 // 0.0 to 1.0
	HostFadeStart time.Time
}

// IntroLetter is one animated rune of the wordmark.
type IntroLetter struct {
	Char    rune
	Pos     float64
	Target  float64
	Peak    float64 // overshoot position before settling back
	Settled bool    // passed the peak, easing back toward Target

	From    RGB
	To      RGB
	Current RGB

	Delay time.Duration
}

// RGB carries color channels as floats so interpolation stays exact.
type RGB struct {
	R, G, B float64
}

func hexToRGB(hex string) RGB {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return RGB{float64(r), float64(g), float64(b)}
}

func (c RGB) color() lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", int(c.R), int(c.G), int(c.B)))
}

func lerpRGB(a, b RGB, t float64) RGB {
	return RGB{
		R: a.R + t*(b.R-a.R),
		G: a.G + t*(b.G-a.G),
		B: a.B + t*(b.B-a.B),
	}
}

// NewIntroModel builds the animation for the "Trestle" wordmark with the
// bridge host queued up to fade in afterwards.
func NewIntroModel(hostName string) IntroModel {
	const text = "Trestle"
	theme := styles.GetCurrentTheme()

	// Every letter starts on its own theme color and converges on a spot in
	// the accent-to-warning gradient.
	from := []string{
		theme.Colors.Error,
		theme.Colors.Secondary,
		theme.Colors.Success,
		theme.Colors.Primary,
		theme.Colors.ButtonHover,
		theme.Colors.Info,
		theme.Colors.Accent,
	}
	gradStart := hexToRGB(theme.Colors.Accent)
	gradEnd := hexToRGB(theme.Colors.Warning)

	letters := make([]*IntroLetter, 0, len(text))
	for i, ch := range text {
		t := float64(i) / float64(len(text)-1)
		start := hexToRGB(from[i%len(from)])
		letters = append(letters, &IntroLetter{
			Char:    ch,
			Pos:     -15 - float64(i)*8,
			Target:  float64(i),
			Peak:    float64(i) * 2.5,
			From:    start,
			To:      lerpRGB(gradStart, gradEnd, t),
			Current: start,
			Delay:   time.Duration(i) * 80 * time.Millisecond,
		})
	}

	return IntroModel{
		Active:   true,
		Letters:  letters,
		HostName: hostName,
	}
}

// Update advances the animation by dt.
func (m *IntroModel) Update(dt time.Duration) {
	if !m.Active {
		return
	}
	if m.StartTime.IsZero() {
		m.StartTime = time.Now()
	}
	elapsed := time.Since(m.StartTime)

	settled := true
	for _, l := range m.Letters {
		if elapsed < l.Delay {
			settled = false
			continue
		}
		if !l.step(dt) {
			settled = false
		}
	}
	if settled {
		m.Done = true
	}

	if m.Done && m.HostOpacity < 1.0 {
		if m.HostName == "" {
			m.HostOpacity = 1.0
			return
		}
		if m.HostFadeStart.IsZero() {
			m.HostFadeStart = time.Now()
		}
		m.HostOpacity = math.Min(1.0, time.Since(m.HostFadeStart).Seconds()/0.3)
	}
}

// step moves one letter toward its peak, then back to its target, blending
// its color along the way. Reports whether the letter has settled.
func (l *IntroLetter) step(dt time.Duration) bool {
	target := l.Peak
	if !l.Settled && l.Pos >= l.Peak-0.1 {
		l.Settled = true
	}
	if l.Settled {
		target = l.Target
	}

	dist := target - l.Pos
	move := dist * 6 * dt.Seconds()
	if math.Abs(move) > math.Abs(dist) {
		move = dist
	}

	// Distant letters keep a floor speed so the slide reads as motion; the
	// return leg is slower than the approach.
	floor := 30.0
	if l.Settled {
		floor = 5.0
	}
	if min := floor * dt.Seconds(); math.Abs(dist) > 0.1 && math.Abs(move) < min {
		move = math.Copysign(min, dist)
	}
	l.Pos += move

	blend := 3 * dt.Seconds()
	l.Current = lerpRGB(l.Current, l.To, blend)

	return l.Settled &&
		math.Abs(l.Target-l.Pos) < 0.1 &&
		math.Abs(l.To.R-l.Current.R) < 1.0
}

// View renders the wordmark at its current positions.
func (m IntroModel) View() string {
	if !m.Active {
		return ""
	}

	width := len(m.Letters)
	for _, l := range m.Letters {
		if x := int(math.Round(l.Pos)); x >= width {
			width = x + 1
		}
	}

	cells := make([]string, width)
	for i := range cells {
		cells[i] = " "
	}
	for _, l := range m.Letters {
		x := int(math.Round(l.Pos))
		if x >= 0 && x < width {
			style := lipgloss.NewStyle().Foreground(l.Current.color()).Bold(true)
			cells[x] = style.Render(string(l.Char))
		}
	}
	return strings.Join(cells, "")
}

// HostView renders the " / host" suffix with the current fade opacity. The
// fade interpolates from the header background so the name appears to rise
// out of the bar.
func (m IntroModel) HostView() string {
	if m.HostName == "" || m.HostOpacity <= 0 {
		return ""
	}

	theme := styles.GetCurrentTheme()
	bg := hexToRGB(theme.Colors.BgSecondary)
	light := hexToRGB(theme.Colors.TextHighlight)
	dark := hexToRGB(theme.Colors.Primary)

	sep := lerpRGB(bg, hexToRGB(theme.Colors.TextSecondary), m.HostOpacity)
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(sep.color()).Render(" / "))

	runes := []rune(m.HostName)
	for i, r := range runes {
		var t float64
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lerpRGB(bg, lerpRGB(light, dark, t), m.HostOpacity)
		sb.WriteString(lipgloss.NewStyle().Foreground(c.color()).Render(string(r)))
	}
	return sb.String()
}

// IntroTickMsg drives one animation frame.
type IntroTickMsg time.Time

// IntroTick schedules the next animation frame.
func IntroTick() tea.Cmd {
	return tea.Tick(introFrameInterval, func(t time.Time) tea.Msg {
		return IntroTickMsg(t)
	})
}
