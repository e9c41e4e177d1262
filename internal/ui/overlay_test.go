package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func canvas(char string, width, height int) string {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(char, width)
	}
	return strings.Join(lines, "\n")
}

func TestOverlayModalCenters(t *testing.T) {
	background := canvas(".", 9, 9)
	modal := "AAA\nBBB\nCCC"

	result := OverlayModal(background, modal, 9, 9)
	lines := strings.Split(ansi.Strip(result), "\n")

	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d", len(lines))
	}
	if lines[3] != "...AAA..." {
		t.Errorf("row 3 = %q, want modal spliced at column 3", lines[3])
	}
	if lines[5] != "...CCC..." {
		t.Errorf("row 5 = %q, want modal spliced at column 3", lines[5])
	}
	if lines[0] != "........." || lines[8] != "........." {
		t.Error("rows outside the modal should keep the background")
	}
}

func TestOverlayModalRaggedModalKeepsStraightEdge(t *testing.T) {
	background := canvas("#", 10, 3)
	modal := "AAAA\nBB"

	result := OverlayModal(background, modal, 10, 3)
	lines := strings.Split(ansi.Strip(result), "\n")

	// Both modal rows occupy the same 4 columns; the short row is padded.
	if lines[0] != "###AAAA###" {
		t.Errorf("row 0 = %q", lines[0])
	}
	if lines[1] != "###BB  ###" {
		t.Errorf("row 1 = %q, want short modal row padded to modal width", lines[1])
	}
}

func TestOverlayModalClipsOversizedModal(t *testing.T) {
	background := canvas(".", 4, 2)
	modal := "AAAAAAAA\nBBBBBBBB\nCCCCCCCC\nDDDDDDDD"

	result := OverlayModal(background, modal, 4, 2)
	lines := strings.Split(ansi.Strip(result), "\n")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 4 {
			t.Errorf("line %d width = %d, want 4", i, w)
		}
	}
	if lines[0] != "AAAA" {
		t.Errorf("row 0 = %q, want modal clipped to canvas width", lines[0])
	}
}

func TestOverlayModalPadsShortBackground(t *testing.T) {
	result := OverlayModal("", "XX", 6, 3)
	lines := strings.Split(ansi.Strip(result), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "  XX" {
		t.Errorf("row 1 = %q, want modal padded to its column", lines[1])
	}
}

func TestOverlayModalEmptyModalReturnsBackground(t *testing.T) {
	background := canvas(".", 5, 5)
	if got := OverlayModal(background, "", 5, 5); got != background {
		t.Error("empty modal should leave the background untouched")
	}
}

func TestOverlayModalPreservesStyledBackground(t *testing.T) {
	styled := "\x1b[31m" + strings.Repeat("r", 8) + "\x1b[0m"
	background := styled + "\n" + styled + "\n" + styled

	result := OverlayModal(background, "MM", 8, 3)
	lines := strings.Split(result, "\n")

	if !strings.Contains(lines[1], "MM") {
		t.Fatal("modal content missing from overlay row")
	}
	stripped := ansi.Strip(lines[1])
	if stripped != "rrrMMrrr" {
		t.Errorf("stripped overlay row = %q, want background visible on both sides", stripped)
	}
}
