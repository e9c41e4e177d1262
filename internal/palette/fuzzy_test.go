package palette

import (
	"testing"

	"github.com/wilbur182/trestle/internal/plugin"
)

func TestFuzzyMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		target    string
		wantMatch bool
		wantRange []MatchRange
	}{
		{name: "empty query", query: "", target: "close-tab", wantMatch: false},
		{name: "empty target", query: "ct", target: "", wantMatch: false},
		{name: "exact", query: "yank", target: "yank", wantMatch: true, wantRange: []MatchRange{{Start: 0, End: 4}}},
		{name: "subsequence", query: "rld", target: "reload", wantMatch: true},
		{name: "miss", query: "xyz", target: "reload", wantMatch: false},
		{name: "query upper", query: "RELOAD", target: "reload", wantMatch: true},
		{name: "target upper", query: "reload", target: "RELOAD", wantMatch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ranges := FuzzyMatch(tt.query, tt.target)
			if tt.wantMatch && score <= 0 {
				t.Fatalf("FuzzyMatch(%q, %q) score = %d, want > 0", tt.query, tt.target, score)
			}
			if !tt.wantMatch {
				if score != 0 {
					t.Errorf("FuzzyMatch(%q, %q) score = %d, want 0", tt.query, tt.target, score)
				}
				if ranges != nil {
					t.Errorf("FuzzyMatch(%q, %q) ranges = %v, want nil", tt.query, tt.target, ranges)
				}
				return
			}
			if len(tt.wantRange) > 0 {
				if len(ranges) != len(tt.wantRange) {
					t.Fatalf("ranges = %v, want %v", ranges, tt.wantRange)
				}
				for i, r := range tt.wantRange {
					if ranges[i] != r {
						t.Errorf("ranges[%d] = %v, want %v", i, ranges[i], r)
					}
				}
			} else if len(ranges) == 0 {
				t.Errorf("FuzzyMatch(%q, %q) returned no ranges for a match", tt.query, tt.target)
			}
		})
	}
}

func TestFuzzyMatchBonuses(t *testing.T) {
	t.Parallel()

	t.Run("word starts beat mid-word hits", func(t *testing.T) {
		// "ct" lands on both word starts of "close-tab"; "lt" lands on one.
		starts, _ := FuzzyMatch("ct", "close-tab")
		mid, _ := FuzzyMatch("lt", "close-tab")
		if starts <= mid {
			t.Errorf("ct = %d, lt = %d; want word-start match to score higher", starts, mid)
		}
	})

	t.Run("consecutive run beats scattered", func(t *testing.T) {
		run, _ := FuzzyMatch("rel", "reload")
		scattered, _ := FuzzyMatch("rla", "reload")
		if run <= scattered {
			t.Errorf("rel = %d, rla = %d; want consecutive match to score higher", run, scattered)
		}
	})
}

func TestScoreEntry(t *testing.T) {
	t.Parallel()

	t.Run("empty query clears score", func(t *testing.T) {
		entry := PaletteEntry{
			Name:        "Reload",
			Description: "Reload the directory tree",
			Key:         "ctrl+r",
			Category:    plugin.CategorySystem,
			Score:       99,
		}
		ScoreEntry(&entry, "")
		if entry.Score != 0 {
			t.Errorf("Score = %d, want 0", entry.Score)
		}
	})

	t.Run("name match fills ranges", func(t *testing.T) {
		entry := PaletteEntry{
			Name:        "Reload",
			Description: "Reload the directory tree",
			Key:         "ctrl+r",
			Category:    plugin.CategorySystem,
		}
		ScoreEntry(&entry, "rel")
		if entry.Score <= 0 {
			t.Fatalf("Score = %d, want > 0", entry.Score)
		}
		if len(entry.MatchRanges) == 0 {
			t.Error("MatchRanges empty after a name match")
		}
	})

	t.Run("key match counts", func(t *testing.T) {
		entry := PaletteEntry{
			Name:        "Quit",
			Description: "Exit the dashboard",
			Key:         "ctrl+q",
			Category:    plugin.CategorySystem,
		}
		ScoreEntry(&entry, "ctrl")
		if entry.Score <= 0 {
			t.Errorf("Score = %d, want > 0 for a key match", entry.Score)
		}
	})

	t.Run("layer boost orders identical names", func(t *testing.T) {
		byLayer := func(l Layer) int {
			entry := PaletteEntry{Name: "Reload", Layer: l}
			ScoreEntry(&entry, "rel")
			return entry.Score
		}
		current := byLayer(LayerCurrentMode)
		plug := byLayer(LayerPlugin)
		global := byLayer(LayerGlobal)
		if current <= plug || plug <= global {
			t.Errorf("scores current=%d plugin=%d global=%d, want strictly descending", current, plug, global)
		}
	})
}

func TestFilterEntries(t *testing.T) {
	t.Parallel()

	t.Run("empty query keeps all, layer ordered", func(t *testing.T) {
		entries := []PaletteEntry{
			{Name: "Yank", Layer: LayerPlugin},
			{Name: "Quit", Layer: LayerGlobal},
			{Name: "Approve", Layer: LayerCurrentMode},
		}
		filtered := FilterEntries(entries, "")
		if len(filtered) != 3 {
			t.Fatalf("got %d entries, want 3", len(filtered))
		}
		if filtered[0].Layer != LayerCurrentMode {
			t.Errorf("first layer = %d, want current mode", filtered[0].Layer)
		}
	})

	t.Run("query drops non-matches", func(t *testing.T) {
		entries := []PaletteEntry{
			{Name: "Reload", Description: "Reload tree"},
			{Name: "Yank", Description: "Copy message"},
			{Name: "Revise", Description: "Request changes"},
		}
		filtered := FilterEntries(entries, "re")
		if len(filtered) < 2 {
			t.Fatalf("got %d entries, want Reload and Revise at least", len(filtered))
		}
		// Equal prefixes tie on score; the name tiebreak is alphabetical.
		if filtered[0].Name != "Reload" {
			t.Errorf("first = %q, want Reload", filtered[0].Name)
		}
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		entries := []PaletteEntry{{Name: "Yank"}, {Name: "Quit"}}
		if got := FilterEntries(entries, "xyz"); len(got) != 0 {
			t.Errorf("got %d entries, want 0", len(got))
		}
	})
}

func TestSortEntries(t *testing.T) {
	t.Parallel()

	t.Run("score descending", func(t *testing.T) {
		entries := []PaletteEntry{
			{Name: "Low", Score: 10},
			{Name: "High", Score: 100},
			{Name: "Medium", Score: 50},
		}
		SortEntries(entries)
		want := []string{"High", "Medium", "Low"}
		for i, name := range want {
			if entries[i].Name != name {
				t.Errorf("entries[%d] = %q, want %q", i, entries[i].Name, name)
			}
		}
	})

	t.Run("layer breaks score ties", func(t *testing.T) {
		entries := []PaletteEntry{
			{Name: "Global", Score: 50, Layer: LayerGlobal},
			{Name: "Current", Score: 50, Layer: LayerCurrentMode},
			{Name: "Plugin", Score: 50, Layer: LayerPlugin},
		}
		SortEntries(entries)
		wantLayers := []Layer{LayerCurrentMode, LayerPlugin, LayerGlobal}
		for i, l := range wantLayers {
			if entries[i].Layer != l {
				t.Errorf("entries[%d].Layer = %d, want %d", i, entries[i].Layer, l)
			}
		}
	})
}
