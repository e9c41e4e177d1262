package ui

import (
	"strings"
	"testing"
)

func TestRenderScrollbarBlankWhenContentFits(t *testing.T) {
	got := RenderScrollbar(4, 10, 10, 0)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d rows, want 4", len(lines))
	}
	for i, l := range lines {
		if l != " " {
			t.Errorf("row %d = %q, want a blank spacer", i, l)
		}
	}
}

func TestRenderScrollbarThumbTracksOffset(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		thumbRow int
	}{
		{"top", 0, 0},
		{"middle", 15, 1},
		{"bottom", 30, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderScrollbar(4, 40, 10, tt.offset)
			lines := strings.Split(got, "\n")
			if len(lines) != 4 {
				t.Fatalf("got %d rows, want 4", len(lines))
			}
			for i, l := range lines {
				want := trackGlyph
				if i == tt.thumbRow {
					want = thumbGlyph
				}
				if !strings.Contains(l, want) {
					t.Errorf("row %d = %q, want %q", i, l, want)
				}
			}
		})
	}
}

func TestRenderScrollbarDegenerate(t *testing.T) {
	if got := RenderScrollbar(0, 40, 10, 0); got != "" {
		t.Errorf("zero track should render nothing, got %q", got)
	}
	if got := RenderScrollbar(3, 0, 0, 0); !strings.Contains(got, " ") {
		t.Errorf("empty content should render a spacer column, got %q", got)
	}
}
