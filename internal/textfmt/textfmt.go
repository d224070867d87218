// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package textfmt parses the lightweight inline markup used in slide text
// and turns it, together with stored highlight spans, into typed text runs.
//
// Two markers are recognised:
//
//	**bold**            bold run
//	[#ff3366]text[/]    coloured run (3- or 6-digit hex)
//
// A marker without its closing counterpart is kept as literal text. All
// offsets in this package are rune offsets into the stripped text.
package textfmt

import (
	"strings"
	"unicode"
)

// Style is a styled range produced by the markup parser.
type Style struct {
	Start int
	End   int
	Bold  bool
	Color string
}

// Parsed holds the text with markup removed and the ranges it described.
type Parsed struct {
	Text   string
	Styles []Style
}

// Run is a maximal stretch of text sharing the same presentation.
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Color     string `json:"color,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Parse strips inline markup from s and returns the styled ranges.
func Parse(s string) Parsed {
	src := []rune(s)
	out := make([]rune, 0, len(src))
	var styles []Style

	boldOpen := -1
	colorOpen := -1
	color := ""

	for i := 0; i < len(src); {
		// Bold toggle.
		if hasPrefix(src, i, "**") {
			if boldOpen >= 0 {
				if len(out) > boldOpen {
					styles = append(styles, Style{Start: boldOpen, End: len(out), Bold: true})
				}
				boldOpen = -1
				i += 2
				continue
			}
			if indexFrom(src, i+2, "**") >= 0 {
				boldOpen = len(out)
				i += 2
				continue
			}
		}

		// Colour close.
		if colorOpen >= 0 && hasPrefix(src, i, "[/]") {
			if len(out) > colorOpen {
				styles = append(styles, Style{Start: colorOpen, End: len(out), Color: color})
			}
			colorOpen = -1
			color = ""
			i += 3
			continue
		}

		// Colour open.
		if colorOpen < 0 && src[i] == '[' {
			if hex, n := colorMarker(src, i); n > 0 && indexFrom(src, i+n, "[/]") >= 0 {
				colorOpen = len(out)
				color = hex
				i += n
				continue
			}
		}

		out = append(out, src[i])
		i++
	}

	return Parsed{Text: string(out), Styles: styles}
}

// colorMarker reports the hex colour and marker length of a "[#rgb]" or
// "[#rrggbb]" marker starting at i, or n == 0 when there is none.
func colorMarker(src []rune, i int) (string, int) {
	if i+1 >= len(src) || src[i+1] != '#' {
		return "", 0
	}
	j := i + 2
	for j < len(src) && isHex(src[j]) {
		j++
	}
	digits := j - (i + 2)
	if j >= len(src) || src[j] != ']' || (digits != 3 && digits != 6) {
		return "", 0
	}
	return strings.ToLower(string(src[i+1 : j])), j - i + 1
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hasPrefix(src []rune, i int, p string) bool {
	pr := []rune(p)
	if i+len(pr) > len(src) {
		return false
	}
	for k, r := range pr {
		if src[i+k] != r {
			return false
		}
	}
	return true
}

func indexFrom(src []rune, from int, p string) int {
	for i := from; i < len(src); i++ {
		if hasPrefix(src, i, p) {
			return i
		}
	}
	return -1
}

// Styled is the per-rune presentation of one text field: markup styles
// with highlight spans applied on top.
type Styled struct {
	runes     []rune
	bold      []bool
	color     []string
	highlight []bool
}

// Compose applies normalised highlight spans over the parsed markup.
// Span colours take precedence over markup colours.
func Compose(p Parsed, spans []Span) *Styled {
	rs := []rune(p.Text)
	st := &Styled{
		runes:     rs,
		bold:      make([]bool, len(rs)),
		color:     make([]string, len(rs)),
		highlight: make([]bool, len(rs)),
	}
	for _, s := range p.Styles {
		for i := clamp(s.Start, 0, len(rs)); i < clamp(s.End, 0, len(rs)); i++ {
			if s.Bold {
				st.bold[i] = true
			}
			if s.Color != "" {
				st.color[i] = s.Color
			}
		}
	}
	for _, s := range spans {
		for i := clamp(s.Start, 0, len(rs)); i < clamp(s.End, 0, len(rs)); i++ {
			st.color[i] = s.Color
			st.highlight[i] = true
		}
	}
	return st
}

// Text returns the stripped text.
func (s *Styled) Text() string { return string(s.runes) }

// Len returns the number of runes.
func (s *Styled) Len() int { return len(s.runes) }

// Rune returns the rune at i.
func (s *Styled) Rune(i int) rune { return s.runes[i] }

// Bold reports whether rune i is bold.
func (s *Styled) Bold(i int) bool { return s.bold[i] }

// Runs returns the maximal runs covering runes [start, end).
func (s *Styled) Runs(start, end int) []Run {
	start = clamp(start, 0, len(s.runes))
	end = clamp(end, 0, len(s.runes))
	var runs []Run
	var b strings.Builder
	cur := Run{}
	flush := func() {
		if b.Len() > 0 {
			cur.Text = b.String()
			runs = append(runs, cur)
			b.Reset()
		}
	}
	for i := start; i < end; i++ {
		next := Run{Bold: s.bold[i], Color: s.color[i], Highlight: s.highlight[i]}
		// Whitespace between two runs of one highlight stays inside it.
		if unicode.IsSpace(s.runes[i]) && b.Len() > 0 && i+1 < end && sameAttrs(cur, Run{Bold: s.bold[i+1], Color: s.color[i+1], Highlight: s.highlight[i+1]}) {
			next = cur
		}
		if b.Len() > 0 && !sameAttrs(cur, next) {
			flush()
		}
		if b.Len() == 0 {
			cur = next
		}
		b.WriteRune(s.runes[i])
	}
	flush()
	return runs
}

func sameAttrs(a, b Run) bool {
	return a.Bold == b.Bold && a.Color == b.Color && a.Highlight == b.Highlight
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
