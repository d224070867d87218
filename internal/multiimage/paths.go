// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package multiimage

import (
	"strconv"
	"strings"

	"slidecraft/internal/geometry"
)

// Op is a path command.
type Op string

const (
	MoveTo Op = "M"
	LineTo Op = "L"
	QuadTo Op = "Q"
)

// Point is a 2D point. In normalised paths both axes run 0..100.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cmd is one path command with its points (one for M/L, two for Q).
type Cmd struct {
	Op  Op      `json:"op"`
	Pts []Point `json:"pts"`
}

// Path is a sequence of commands.
type Path []Cmd

// Orientation says which way a divider segment runs.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// SVG renders the path as SVG path data.
func (p Path) SVG() string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(c.Op))
		for j, pt := range c.Pts {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(num(pt.X))
			b.WriteByte(' ')
			b.WriteString(num(pt.Y))
		}
	}
	return b.String()
}

// Map stretches a normalised path onto a pixel rectangle. Normalised paths
// are authored running top to bottom; for a horizontal segment the axes
// are swapped so the path runs left to right.
func (p Path) Map(r geometry.Rect, o Orientation) Path {
	out := make(Path, len(p))
	for i, c := range p {
		pts := make([]Point, len(c.Pts))
		for j, pt := range c.Pts {
			across, along := pt.X, pt.Y
			if o == Horizontal {
				pts[j] = Point{X: r.X + along/100*r.W, Y: r.Y + across/100*r.H}
			} else {
				pts[j] = Point{X: r.X + across/100*r.W, Y: r.Y + along/100*r.H}
			}
		}
		out[i] = Cmd{Op: c.Op, Pts: pts}
	}
	return out
}

// Polygon is a closed outline, used for shape-based clips.
type Polygon []Point

// Map stretches a normalised polygon onto a pixel rectangle.
func (pg Polygon) Map(r geometry.Rect) Polygon {
	out := make(Polygon, len(pg))
	for i, pt := range pg {
		out[i] = Point{X: r.X + pt.X/100*r.W, Y: r.Y + pt.Y/100*r.H}
	}
	return out
}

// CSS renders the polygon as a CSS clip-path in percentages.
func (pg Polygon) CSS() string {
	parts := make([]string, len(pg))
	for i, pt := range pg {
		parts[i] = num(pt.X) + "% " + num(pt.Y) + "%"
	}
	return "polygon(" + strings.Join(parts, ", ") + ")"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const (
	// waveCycles, zigzagTeeth and scallops fix how many repeats each
	// stroke style has along a segment regardless of its length.
	waveCycles  = 6
	zigzagTeeth = 10
	scallops    = 8

	// seamTeeth is the number of teeth on the two-image zigzag clip.
	seamTeeth = 8
	// seamDepth is how far the zigzag seam swings either side of centre.
	seamDepth = 4.0
)

// StrokePath returns the normalised stroke path for a divider style.
func StrokePath(style DividerStyle) Path {
	switch style {
	case DividerWave:
		return wavePath()
	case DividerZigzag:
		return zigzagPath()
	case DividerScalloped:
		return scallopPath()
	default:
		return Path{
			{Op: MoveTo, Pts: []Point{{X: 50, Y: 0}}},
			{Op: LineTo, Pts: []Point{{X: 50, Y: 100}}},
		}
	}
}

func wavePath() Path {
	p := Path{{Op: MoveTo, Pts: []Point{{X: 50, Y: 0}}}}
	n := waveCycles * 2
	for i := 0; i < n; i++ {
		ctrl := 100.0
		if i%2 == 1 {
			ctrl = 0
		}
		p = append(p, Cmd{Op: QuadTo, Pts: []Point{
			{X: ctrl, Y: float64(2*i+1) * 100 / float64(2*n)},
			{X: 50, Y: float64(i+1) * 100 / float64(n)},
		}})
	}
	return p
}

func zigzagPath() Path {
	p := Path{{Op: MoveTo, Pts: []Point{{X: 50, Y: 0}}}}
	n := zigzagTeeth * 2
	for i := 0; i < n; i++ {
		x := 100.0
		if i%2 == 1 {
			x = 0
		}
		p = append(p, Cmd{Op: LineTo, Pts: []Point{{X: x, Y: float64(2*i+1) * 100 / float64(2*n)}}})
	}
	return append(p, Cmd{Op: LineTo, Pts: []Point{{X: 50, Y: 100}}})
}

func scallopPath() Path {
	p := Path{{Op: MoveTo, Pts: []Point{{X: 50, Y: 0}}}}
	for i := 0; i < scallops; i++ {
		p = append(p, Cmd{Op: QuadTo, Pts: []Point{
			{X: 100, Y: float64(2*i+1) * 100 / float64(2*scallops)},
			{X: 50, Y: float64(i+1) * 100 / float64(scallops)},
		}})
	}
	return p
}

// seamPoints returns the normalised seam between two side-by-side images.
func seamPoints(style DividerStyle) []Point {
	if style == DividerDiagonal {
		return []Point{{X: 58, Y: 0}, {X: 42, Y: 100}}
	}
	pts := make([]Point, 0, seamTeeth*2+1)
	n := seamTeeth * 2
	for i := 0; i <= n; i++ {
		x := 50 - seamDepth
		if i%2 == 1 {
			x = 50 + seamDepth
		}
		pts = append(pts, Point{X: x, Y: float64(i) * 100 / float64(n)})
	}
	return pts
}

// seamClips returns the left and right clip polygons and the seam stroke.
func seamClips(style DividerStyle) (Polygon, Polygon, Path) {
	seam := seamPoints(style)

	left := Polygon{{X: 0, Y: 0}}
	left = append(left, seam...)
	left = append(left, Point{X: 0, Y: 100})

	right := Polygon{{X: 100, Y: 0}}
	right = append(right, seam...)
	right = append(right, Point{X: 100, Y: 100})

	stroke := Path{{Op: MoveTo, Pts: []Point{seam[0]}}}
	for _, pt := range seam[1:] {
		stroke = append(stroke, Cmd{Op: LineTo, Pts: []Point{pt}})
	}
	return left, right, stroke
}
