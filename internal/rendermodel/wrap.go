// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

import (
	"unicode"

	"slidecraft/internal/contrast"
	"slidecraft/internal/textfmt"
)

// boldWeight is the zone weight from which the bold face is used.
const boldWeight = 600

type word struct {
	runs  []textfmt.Run
	width float64
}

type wrapper struct {
	measure   Measurer
	size      float64
	bold      bool
	width     float64
	color     string
	highlight HighlightStyle
}

// wrap breaks styled text into lines no wider than w.width. Words are
// never split: a word wider than the line gets a line of its own.
// Explicit newlines always break. When maxLines is positive, lines past
// it are dropped whole and the result reports truncation.
func (w wrapper) wrap(st *textfmt.Styled, maxLines int) ([]Line, bool) {
	var lines []Line
	space := w.measure.Measure(" ", w.size, w.bold)

	for _, para := range w.paragraphs(st) {
		var cur []word
		var curW float64
		for _, wd := range para {
			if len(cur) > 0 && curW+space+wd.width > w.width {
				lines = append(lines, w.line(cur, curW))
				cur, curW = nil, 0
			}
			if len(cur) > 0 {
				curW += space
			}
			cur = append(cur, wd)
			curW += wd.width
		}
		lines = append(lines, w.line(cur, curW))
	}

	if maxLines > 0 && len(lines) > maxLines {
		return lines[:maxLines], true
	}
	return lines, false
}

// paragraphs splits on newlines and then into words.
func (w wrapper) paragraphs(st *textfmt.Styled) [][]word {
	var paras [][]word
	var cur []word
	i := 0
	for i < st.Len() {
		r := st.Rune(i)
		switch {
		case r == '\n':
			paras = append(paras, cur)
			cur = nil
			i++
		case unicode.IsSpace(r):
			i++
		default:
			j := i
			for j < st.Len() && !unicode.IsSpace(st.Rune(j)) {
				j++
			}
			runs := st.Runs(i, j)
			var width float64
			for _, r := range runs {
				width += w.measure.Measure(r.Text, w.size, w.bold || r.Bold)
			}
			cur = append(cur, word{runs: runs, width: width})
			i = j
		}
	}
	return append(paras, cur)
}

// line joins words with single spaces. A space between two words sharing
// the same highlight is painted as part of it.
func (w wrapper) line(words []word, width float64) Line {
	var raw []textfmt.Run
	for i, wd := range words {
		if i > 0 {
			prev := raw[len(raw)-1]
			sp := textfmt.Run{Text: " "}
			if first := wd.runs[0]; prev.Highlight && first.Highlight && prev.Color == first.Color {
				sp = textfmt.Run{Text: " ", Color: prev.Color, Highlight: true}
			}
			raw = append(raw, sp)
		}
		raw = append(raw, wd.runs...)
	}

	runs := make([]Run, 0, len(raw))
	for _, r := range raw {
		out := w.style(r)
		if n := len(runs); n > 0 && runs[n-1].Bold == out.Bold && runs[n-1].Color == out.Color && runs[n-1].Background == out.Background {
			runs[n-1].Text += out.Text
			continue
		}
		runs = append(runs, out)
	}
	return Line{Runs: runs, Width: width}
}

func (w wrapper) style(r textfmt.Run) Run {
	out := Run{Text: r.Text, Bold: w.bold || r.Bold, Color: w.color}
	switch {
	case r.Highlight && w.highlight == HighlightBackground:
		out.Background = r.Color
		out.Color = contrast.Foreground(r.Color)
	case r.Color != "":
		out.Color = r.Color
	}
	return out
}
