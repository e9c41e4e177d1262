package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/trestle/internal/styles"
)

// SkeletonTickMsg advances every shimmer animation one frame.
type SkeletonTickMsg time.Time

// SkeletonTickInterval is the shimmer frame rate.
const SkeletonTickInterval = 80 * time.Millisecond

const (
	shimmerWidth = 6
	dimGlyph     = "░"
	brightGlyph  = "▒"
)

// Skeleton renders placeholder rows with a shimmer band sweeping across them
// while content loads.
type Skeleton struct {
	Rows      int   // number of placeholder rows
	RowWidths []int // per-row width percentages, cycled when shorter than Rows

	frame  int
	active bool
}

// NewSkeleton returns an active skeleton. rowWidths gives each row's width as
// a percentage of the available width; nil picks a varied default pattern.
func NewSkeleton(rows int, rowWidths []int) Skeleton {
	if rowWidths == nil {
		rowWidths = []int{70, 90, 55, 80, 60, 85, 65, 75}
	}
	return Skeleton{
		Rows:      rows,
		RowWidths: rowWidths,
		active:    true,
	}
}

// Start begins the shimmer and schedules its first frame.
func (s *Skeleton) Start() tea.Cmd {
	s.active = true
	return SkeletonTick()
}

// Stop halts the shimmer.
func (s *Skeleton) Stop() {
	s.active = false
}

// IsActive reports whether the shimmer is running.
func (s Skeleton) IsActive() bool {
	return s.active
}

// Update advances one frame on tick and schedules the next while active.
func (s *Skeleton) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(SkeletonTickMsg); !ok {
		return nil
	}
	if !s.active {
		return nil
	}
	s.frame++
	return SkeletonTick()
}

// View renders the placeholder rows at the given content width. The shimmer
// band drifts right one cell per frame, offset two cells per row so it reads
// as a diagonal sweep.
func (s Skeleton) View(width int) string {
	width = max(width, 10)
	cycle := width + shimmerWidth*2

	rows := make([]string, s.Rows)
	for i := range rows {
		pct := s.RowWidths[i%len(s.RowWidths)]
		rowWidth := min(max(width*pct/100, 5), width)
		pos := (s.frame+i*2)%cycle - shimmerWidth
		rows[i] = shimmerRow(rowWidth, pos)
	}
	return strings.Join(rows, "\n")
}

// shimmerRow draws one row of width cells with the bright band starting at
// pos, clipped to the row.
func shimmerRow(width, pos int) string {
	start := min(max(pos, 0), width)
	end := min(max(pos+shimmerWidth, 0), width)

	dim := lipgloss.NewStyle().Foreground(styles.TextSubtle)
	bright := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var sb strings.Builder
	if start > 0 {
		sb.WriteString(dim.Render(strings.Repeat(dimGlyph, start)))
	}
	if end > start {
		sb.WriteString(bright.Render(strings.Repeat(brightGlyph, end-start)))
	}
	if width > end {
		sb.WriteString(dim.Render(strings.Repeat(dimGlyph, width-end)))
	}
	return sb.String()
}

// SkeletonTick schedules the next shimmer frame. The app's update loop fans
// the resulting SkeletonTickMsg out to every animating component.
func SkeletonTick() tea.Cmd {
	return tea.Tick(SkeletonTickInterval, func(t time.Time) tea.Msg {
		return SkeletonTickMsg(t)
	})
}
