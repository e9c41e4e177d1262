package palette

import (
	"sort"
	"strings"
	"unicode"
)

// Fuzzy scoring weights. Word starts beat consecutive runs so "nt" prefers
// "new-tab" over "enter".
const (
	charScore        = 10
	consecutiveBonus = 15
	wordStartBonus   = 20
)

// MatchRange marks a matched span in the entry name, in rune indices.
// End is exclusive.
type MatchRange struct {
	Start, End int
}

// FuzzyMatch scores query against target with a case-insensitive subsequence
// match. It returns 0 and nil ranges when the query is empty or does not
// match. Matched characters earn a base score plus bonuses for consecutive
// runs and word starts (after '-', '_', '.', '/', ':' or a space).
func FuzzyMatch(query, target string) (int, []MatchRange) {
	if query == "" || target == "" {
		return 0, nil
	}

	q := []rune(strings.ToLower(query))
	t := []rune(target)
	lower := []rune(strings.ToLower(target))

	score := 0
	prevIdx := -2
	var matched []int

	ti := 0
	for _, qr := range q {
		found := -1
		for ; ti < len(lower); ti++ {
			if lower[ti] == qr {
				found = ti
				break
			}
		}
		if found < 0 {
			return 0, nil
		}

		score += charScore
		if found == prevIdx+1 {
			score += consecutiveBonus
		}
		if isWordStart(t, found) {
			score += wordStartBonus
		}

		matched = append(matched, found)
		prevIdx = found
		ti = found + 1
	}

	return score, mergeRanges(matched)
}

// isWordStart reports whether index i begins a word in target.
func isWordStart(target []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := target[i-1]
	switch {
	case prev == '-' || prev == '_' || prev == '.' || prev == '/' || prev == ':':
		return true
	case unicode.IsSpace(prev):
		return true
	case unicode.IsLower(prev) && unicode.IsUpper(target[i]):
		return true
	}
	return false
}

// mergeRanges collapses sorted matched indices into contiguous ranges.
func mergeRanges(indices []int) []MatchRange {
	if len(indices) == 0 {
		return nil
	}

	ranges := []MatchRange{{Start: indices[0], End: indices[0] + 1}}
	for _, idx := range indices[1:] {
		last := &ranges[len(ranges)-1]
		if idx == last.End {
			last.End = idx + 1
			continue
		}
		ranges = append(ranges, MatchRange{Start: idx, End: idx + 1})
	}
	return ranges
}

// layerBoost favors commands closer to the user's current focus.
func layerBoost(l Layer) int {
	switch l {
	case LayerCurrentMode:
		return 30
	case LayerPlugin:
		return 15
	default:
		return 0
	}
}

// ScoreEntry computes the entry's score for query and stores the match
// ranges for name highlighting. The name is weighted above the description
// and key so direct name hits surface first.
func ScoreEntry(e *PaletteEntry, query string) {
	e.Score = 0
	e.MatchRanges = nil
	if query == "" {
		return
	}

	nameScore, nameRanges := FuzzyMatch(query, e.Name)
	descScore, _ := FuzzyMatch(query, e.Description)
	keyScore, _ := FuzzyMatch(query, e.Key)

	best := nameScore * 2
	if descScore > best {
		best = descScore
	}
	if keyScore > best {
		best = keyScore
	}
	if best <= 0 {
		return
	}

	e.Score = best + layerBoost(e.Layer)
	e.MatchRanges = nameRanges
}

// FilterEntries scores all entries against query, drops non-matches, and
// returns them sorted. An empty query keeps everything, ordered by layer.
func FilterEntries(entries []PaletteEntry, query string) []PaletteEntry {
	result := make([]PaletteEntry, 0, len(entries))
	for _, e := range entries {
		ScoreEntry(&e, query)
		if query != "" && e.Score <= 0 {
			continue
		}
		result = append(result, e)
	}
	SortEntries(result)
	return result
}

// SortEntries orders entries by score (descending), then layer, then name.
func SortEntries(entries []PaletteEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Layer != entries[j].Layer {
			return entries[i].Layer < entries[j].Layer
		}
		return entries[i].Name < entries[j].Name
	})
}
