// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package multiimage arranges two to four background images into a
// composition: side by side, stacked, a 2x2 grid, or a full-bleed base
// with circular insets. It returns plain geometry (cell rectangles, clip
// polygons, divider stroke paths) so both slide surfaces paint the same
// thing from the same numbers.
package multiimage

import (
	"math"

	"slidecraft/internal/geometry"
)

// Family is a composition layout.
type Family string

const (
	FamilyAuto           Family = "auto"
	FamilySideBySide     Family = "side-by-side"
	FamilyStacked        Family = "stacked"
	FamilyGrid           Family = "grid"
	FamilyOverlayCircles Family = "overlay-circles"
	// FamilySingle is produced when only one image is left to show.
	FamilySingle Family = "single"
)

// DividerStyle is how neighbouring cells are separated.
type DividerStyle string

const (
	DividerGap       DividerStyle = "gap"
	DividerLine      DividerStyle = "line"
	DividerDashed    DividerStyle = "dashed"
	DividerWave      DividerStyle = "wave"
	DividerZigzag    DividerStyle = "zigzag"
	DividerScalloped DividerStyle = "scalloped"
	DividerDiagonal  DividerStyle = "diagonal"
)

// Shape is the outline of a cell.
type Shape string

const (
	ShapeRect    Shape = "rect"
	ShapeRounded Shape = "rounded"
	ShapeCircle  Shape = "circle"
)

// Options are the per-slide display options for a multi-image background.
type Options struct {
	Layout       Family       `json:"layout,omitempty"`
	Gap          float64      `json:"gap,omitempty"`
	Divider      DividerStyle `json:"divider,omitempty"`
	DividerColor string       `json:"divider_color,omitempty"`
	DividerWidth float64      `json:"divider_width,omitempty"`

	// Padding insets the whole composition; the exposed edge is painted
	// in FrameColor.
	Padding    float64 `json:"padding,omitempty"`
	FrameColor string  `json:"frame_color,omitempty"`

	Shape  Shape   `json:"shape,omitempty"`
	Radius float64 `json:"radius,omitempty"`

	// CirclePositions are percentage coordinates (0..100 per axis) for the
	// overlay circles, mapped into the inset range.
	CirclePositions   []Point `json:"circle_positions,omitempty"`
	CircleSize        float64 `json:"circle_size,omitempty"`
	CircleBorderWidth float64 `json:"circle_border_width,omitempty"`
	CircleBorderColor string  `json:"circle_border_color,omitempty"`
}

const (
	defaultDividerColor      = "#ffffff"
	defaultDividerWidth      = 6.0
	defaultCircleSize        = 34.0
	defaultCircleBorderWidth = 8.0
	defaultCircleBorderColor = "#ffffff"

	// circleMargin keeps circles away from the composition edge.
	circleMargin = 48.0
	// circleOffset is the lateral distance between the two overlay
	// circles, as a multiple of the circle diameter.
	circleOffset = 0.8
	// patternBand is how wide a patterned divider's box is relative to its
	// stroke width.
	patternBand = 4.0
)

// defaultCircle is where the first overlay circle sits when no position is
// configured.
var defaultCircle = Point{X: 100, Y: 100}

// Cell is one image placement.
type Cell struct {
	Rect        geometry.Rect `json:"rect"`
	Image       int           `json:"image"`
	Shape       Shape         `json:"shape"`
	Radius      float64       `json:"radius,omitempty"`
	Clip        Polygon       `json:"clip,omitempty"`
	Border      float64       `json:"border,omitempty"`
	BorderColor string        `json:"border_color,omitempty"`
}

// Divider is a stroke drawn centred on a boundary between cells.
type Divider struct {
	Rect        geometry.Rect `json:"rect"`
	Orientation Orientation   `json:"orientation"`
	Style       DividerStyle  `json:"style"`
	Path        Path          `json:"path"`
	Color       string        `json:"color"`
	Width       float64       `json:"width"`
	Dashed      bool          `json:"dashed,omitempty"`
}

// Seam is the stroke along a shape-based clip boundary.
type Seam struct {
	Path  Path    `json:"path"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Composition is the full layout for one background.
type Composition struct {
	Family     Family        `json:"family"`
	Area       geometry.Rect `json:"area"`
	Inner      geometry.Rect `json:"inner"`
	FrameColor string        `json:"frame_color,omitempty"`
	Cells      []Cell        `json:"cells"`
	Dividers   []Divider     `json:"dividers,omitempty"`
	Seam       *Seam         `json:"seam,omitempty"`
}

// Resolve maps the requested family to a concrete one for count images.
func Resolve(f Family, count int) Family {
	switch {
	case count <= 1:
		return FamilySingle
	case f == FamilyOverlayCircles && count <= 3:
		return f
	case f == FamilySideBySide || f == FamilyStacked:
		return f
	case f == FamilyGrid && count == 4:
		return f
	}
	if count == 4 {
		return FamilyGrid
	}
	return FamilySideBySide
}

// Layout arranges count images (clamped to 4) inside area.
func Layout(area geometry.Rect, count int, opts Options) Composition {
	if count > 4 {
		count = 4
	}
	opts = withDefaults(opts)
	family := Resolve(opts.Layout, count)

	c := Composition{Family: family, Area: area, Inner: area}
	if count <= 0 {
		return c
	}

	if family == FamilyOverlayCircles {
		c.Cells = overlayCircles(area, count, opts)
		return c
	}

	if opts.Padding > 0 {
		c.Inner = area.Inset(opts.Padding)
		c.FrameColor = opts.FrameColor
	}
	inner := c.Inner

	if family == FamilySingle {
		c.Cells = []Cell{cell(inner, 0, opts)}
		return c
	}

	if family == FamilySideBySide && count == 2 &&
		(opts.Divider == DividerZigzag || opts.Divider == DividerDiagonal) {
		left, right, stroke := seamClips(opts.Divider)
		a := cell(inner, 0, opts)
		a.Clip = left.Map(inner)
		b := cell(inner, 1, opts)
		b.Clip = right.Map(inner)
		c.Cells = []Cell{a, b}
		c.Seam = &Seam{Path: stroke.Map(inner, Vertical), Color: opts.DividerColor, Width: opts.DividerWidth}
		return c
	}

	gap := opts.Gap
	if usesDivider(opts.Divider) {
		gap = 0
	}

	switch family {
	case FamilyGrid:
		c.Cells, c.Dividers = grid(inner, gap, opts)
	case FamilyStacked:
		c.Cells, c.Dividers = strip(inner, count, gap, Horizontal, opts)
	default:
		c.Cells, c.Dividers = strip(inner, count, gap, Vertical, opts)
	}
	return c
}

func withDefaults(o Options) Options {
	if o.Layout == "" {
		o.Layout = FamilyAuto
	}
	if o.Divider == "" {
		o.Divider = DividerGap
	}
	if o.DividerColor == "" {
		o.DividerColor = defaultDividerColor
	}
	if o.DividerWidth <= 0 {
		o.DividerWidth = defaultDividerWidth
	}
	if o.Shape == "" {
		o.Shape = ShapeRect
	}
	if o.CircleSize <= 0 {
		o.CircleSize = defaultCircleSize
	}
	if o.CircleBorderWidth <= 0 {
		o.CircleBorderWidth = defaultCircleBorderWidth
	}
	if o.CircleBorderColor == "" {
		o.CircleBorderColor = defaultCircleBorderColor
	}
	return o
}

// usesDivider reports whether the style draws a stroke instead of a gap.
func usesDivider(s DividerStyle) bool {
	return s != DividerGap && s != ""
}

func cell(r geometry.Rect, img int, opts Options) Cell {
	c := Cell{Rect: r, Image: img, Shape: opts.Shape}
	if opts.Shape == ShapeRounded {
		c.Radius = opts.Radius
	}
	return c
}

// strip lays count cells in a row (dividers Vertical) or a column
// (dividers Horizontal).
func strip(inner geometry.Rect, count int, gap float64, o Orientation, opts Options) ([]Cell, []Divider) {
	var cells []Cell
	var divs []Divider

	if o == Vertical {
		w := (inner.W - float64(count-1)*gap) / float64(count)
		for i := 0; i < count; i++ {
			x := inner.X + float64(i)*(w+gap)
			cells = append(cells, cell(geometry.Rect{X: x, Y: inner.Y, W: w, H: inner.H}, i, opts))
			if i > 0 && usesDivider(opts.Divider) {
				divs = append(divs, divider(x, inner.Y, inner.H, Vertical, opts))
			}
		}
		return cells, divs
	}

	h := (inner.H - float64(count-1)*gap) / float64(count)
	for i := 0; i < count; i++ {
		y := inner.Y + float64(i)*(h+gap)
		cells = append(cells, cell(geometry.Rect{X: inner.X, Y: y, W: inner.W, H: h}, i, opts))
		if i > 0 && usesDivider(opts.Divider) {
			divs = append(divs, divider(y, inner.X, inner.W, Horizontal, opts))
		}
	}
	return cells, divs
}

func grid(inner geometry.Rect, gap float64, opts Options) ([]Cell, []Divider) {
	w := (inner.W - gap) / 2
	h := (inner.H - gap) / 2
	var cells []Cell
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			r := geometry.Rect{
				X: inner.X + float64(col)*(w+gap),
				Y: inner.Y + float64(row)*(h+gap),
				W: w,
				H: h,
			}
			cells = append(cells, cell(r, row*2+col, opts))
		}
	}
	if !usesDivider(opts.Divider) {
		return cells, nil
	}
	return cells, []Divider{
		divider(inner.X+inner.W/2, inner.Y, inner.H, Vertical, opts),
		divider(inner.Y+inner.H/2, inner.X, inner.W, Horizontal, opts),
	}
}

// divider builds a segment centred on the boundary at pos (x for
// Vertical, y for Horizontal), starting at start and spanning length.
func divider(pos, start, length float64, o Orientation, opts Options) Divider {
	style := opts.Divider
	// The diagonal seam only exists for two images; elsewhere it degrades
	// to a straight line.
	if style == DividerDiagonal {
		style = DividerLine
	}
	band := opts.DividerWidth
	if style == DividerWave || style == DividerZigzag || style == DividerScalloped {
		band = opts.DividerWidth * patternBand
	}

	var r geometry.Rect
	if o == Vertical {
		r = geometry.Rect{X: pos - band/2, Y: start, W: band, H: length}
	} else {
		r = geometry.Rect{X: start, Y: pos - band/2, W: length, H: band}
	}
	return Divider{
		Rect:        r,
		Orientation: o,
		Style:       style,
		Path:        StrokePath(style).Map(r, o),
		Color:       opts.DividerColor,
		Width:       opts.DividerWidth,
		Dashed:      style == DividerDashed,
	}
}

func overlayCircles(area geometry.Rect, count int, opts Options) []Cell {
	cells := []Cell{{Rect: area, Image: 0, Shape: ShapeRect}}

	pos := defaultCircle
	if len(opts.CirclePositions) > 0 {
		pos = opts.CirclePositions[0]
	}
	first := Circle(area, pos, opts.CircleSize, opts.CircleBorderWidth, opts.CircleBorderColor)
	first.Image = 1
	cells = append(cells, first)

	if count == 3 {
		var second Cell
		if len(opts.CirclePositions) > 1 {
			second = Circle(area, opts.CirclePositions[1], opts.CircleSize, opts.CircleBorderWidth, opts.CircleBorderColor)
		} else {
			second = first
			d := first.Rect.W
			lo := area.X + circleMargin
			x := first.Rect.X - d*circleOffset
			if x < lo {
				x = first.Rect.X + d*circleOffset
			}
			second.Rect.X = x
		}
		second.Image = 2
		cells = append(cells, second)
	}
	return cells
}

// Circle places a bordered circular cell whose centre is the percentage
// position pos mapped into the range that keeps the whole circle inside
// area with a margin. size is the diameter as a percentage of the shorter
// side of area.
func Circle(area geometry.Rect, pos Point, size, border float64, borderColor string) Cell {
	d := math.Min(area.W, area.H) * size / 100
	r := d / 2

	minX, maxX := area.X+circleMargin+r, area.Right()-circleMargin-r
	minY, maxY := area.Y+circleMargin+r, area.Bottom()-circleMargin-r
	cx := minX + clamp01(pos.X/100)*(maxX-minX)
	cy := minY + clamp01(pos.Y/100)*(maxY-minY)

	return Cell{
		Rect:        geometry.Rect{X: cx - r, Y: cy - r, W: d, H: d},
		Shape:       ShapeCircle,
		Border:      border,
		BorderColor: borderColor,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
