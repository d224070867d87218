// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package textfmt

import (
	"sort"
	"unicode"
)

// Span is a stored highlight: a rune range of the field text and a colour.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
}

// NormalizeSpans snaps every span outward to whole words and removes
// overlaps. Spans are applied in order, so on overlap the later span wins
// and the earlier one is trimmed or split around it. The result is sorted
// by start offset. Normalising an already normalised list is a no-op.
func NormalizeSpans(text string, spans []Span) []Span {
	rs := []rune(text)
	if len(rs) == 0 || len(spans) == 0 {
		return nil
	}

	owner := make([]int, len(rs))
	for i := range owner {
		owner[i] = -1
	}

	for idx, s := range spans {
		start, end, ok := expand(rs, s.Start, s.End)
		if !ok {
			continue
		}
		for i := start; i < end; i++ {
			owner[i] = idx
		}
	}

	var out []Span
	for i := 0; i < len(rs); {
		if owner[i] < 0 {
			i++
			continue
		}
		j := i
		for j < len(rs) && owner[j] == owner[i] {
			j++
		}
		// A trimmed remainder may start or end on whitespace left over
		// from the span that overwrote its neighbour.
		a, b := i, j
		for a < b && unicode.IsSpace(rs[a]) {
			a++
		}
		for b > a && unicode.IsSpace(rs[b-1]) {
			b--
		}
		if a < b {
			out = append(out, Span{Start: a, End: b, Color: spans[owner[i]].Color})
		}
		i = j
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// expand clamps [start, end) to the text, trims surrounding whitespace and
// grows the range to the enclosing word boundaries.
func expand(rs []rune, start, end int) (int, int, bool) {
	start = clamp(start, 0, len(rs))
	end = clamp(end, 0, len(rs))
	for start < end && unicode.IsSpace(rs[start]) {
		start++
	}
	for end > start && unicode.IsSpace(rs[end-1]) {
		end--
	}
	if start >= end {
		return 0, 0, false
	}
	for start > 0 && !unicode.IsSpace(rs[start-1]) {
		start--
	}
	for end < len(rs) && !unicode.IsSpace(rs[end]) {
		end++
	}
	return start, end, true
}
