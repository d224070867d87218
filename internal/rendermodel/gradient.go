// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

import (
	"math"
	"strconv"
	"strings"

	"slidecraft/internal/contrast"
)

const (
	defaultStrength      = 0.85
	defaultExtent        = 60.0
	defaultSolidSize     = 30.0
	defaultGradientColor = "#000000"
)

// GradientStops computes the stops of an overlay that covers the last
// extent percent of the gradient line. Within that range the first
// (100-solidSize) percent ramps from transparent to full colour and the
// rest is solid. Degenerate inputs collapse to a simpler gradient rather
// than emitting zero-length ramps.
func GradientStops(extent, solidSize float64) []Stop {
	extent = math.Min(extent, 100)
	solidSize = math.Max(solidSize, 0)

	if extent <= 0 {
		return []Stop{{Offset: 0, Alpha: 0}, {Offset: 100, Alpha: 0}}
	}
	start := 100 - extent
	if solidSize >= 100 {
		return dedupe([]Stop{
			{Offset: 0, Alpha: 0},
			{Offset: start, Alpha: 0},
			{Offset: start, Alpha: 1},
			{Offset: 100, Alpha: 1},
		})
	}
	if extent >= 100 && solidSize <= 0 {
		return []Stop{{Offset: 0, Alpha: 0}, {Offset: 100, Alpha: 1}}
	}
	mid := start + extent*(100-solidSize)/100
	return dedupe([]Stop{
		{Offset: 0, Alpha: 0},
		{Offset: start, Alpha: 0},
		{Offset: mid, Alpha: 1},
		{Offset: 100, Alpha: 1},
	})
}

func dedupe(stops []Stop) []Stop {
	out := stops[:1]
	for _, s := range stops[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

// GradientCSS renders stops as a CSS linear-gradient running towards the
// dark edge.
func GradientCSS(dir Direction, color string, strength float64, stops []Stop) string {
	var b strings.Builder
	b.WriteString("linear-gradient(to ")
	b.WriteString(string(normDirection(dir)))
	for _, s := range stops {
		b.WriteString(", ")
		b.WriteString(contrast.WithAlpha(color, s.Alpha*strength))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(s.Offset, 'f', -1, 64))
		b.WriteByte('%')
	}
	b.WriteByte(')')
	return b.String()
}

func normDirection(d Direction) Direction {
	switch d {
	case DirectionTop, DirectionLeft, DirectionRight:
		return d
	}
	return DirectionBottom
}

// resolveGradient merges the template overlay with the slide's own
// settings. The gradient is suppressed on image backgrounds whose template
// default is blur or none unless the slide turns it on explicitly.
func resolveGradient(tpl OverlaySpec, style OverlayStyle, hasImage bool, o OverlayOverride) Gradient {
	g := Gradient{
		Active:    tpl.Enabled,
		Direction: tpl.Direction,
		Strength:  tpl.Strength,
		Extent:    tpl.Extent,
		SolidSize: tpl.SolidSize,
		Color:     tpl.Color,
	}
	if hasImage && (style == OverlayBlur || style == OverlayNone) {
		g.Active = false
	}
	if o.GradientOn != nil {
		g.Active = *o.GradientOn
	}
	if o.Direction != nil {
		g.Direction = *o.Direction
	}
	setF(&g.Strength, o.Strength)
	setF(&g.Extent, o.Extent)
	setF(&g.SolidSize, o.SolidSize)
	if o.Color != nil {
		g.Color = *o.Color
	}

	g.Direction = normDirection(g.Direction)
	if g.Strength <= 0 {
		g.Strength = defaultStrength
	}
	g.Strength = math.Min(g.Strength, 1)
	if tpl.Extent == 0 && o.Extent == nil {
		g.Extent = defaultExtent
	}
	if tpl.SolidSize == 0 && o.SolidSize == nil {
		g.SolidSize = defaultSolidSize
	}
	if _, ok := contrast.ParseHex(g.Color); !ok {
		g.Color = defaultGradientColor
	}

	if !g.Active {
		return g
	}
	g.Stops = GradientStops(g.Extent, g.SolidSize)
	g.CSS = GradientCSS(g.Direction, g.Color, g.Strength, g.Stops)
	return g
}
