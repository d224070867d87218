// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

// MergeZone applies override layers to base in order. For each field the
// last layer that sets it wins; unset fields fall through to base.
func MergeZone(base TextZone, layers ...ZoneOverride) TextZone {
	z := base
	for _, l := range layers {
		setF(&z.X, l.X)
		setF(&z.Y, l.Y)
		setF(&z.W, l.W)
		setF(&z.H, l.H)
		setF(&z.FontSize, l.FontSize)
		setF(&z.LineHeight, l.LineHeight)
		if l.FontWeight != nil {
			z.FontWeight = *l.FontWeight
		}
		if l.MaxLines != nil {
			z.MaxLines = *l.MaxLines
		}
		if l.Align != nil {
			z.Align = *l.Align
		}
		if l.Color != nil {
			z.Color = *l.Color
		}
	}
	return z
}

// MergeChrome folds chrome override layers; later layers win per field.
func MergeChrome(layers ...ChromeOverride) ChromeOverride {
	var out ChromeOverride
	for _, l := range layers {
		if l.Position != nil {
			out.Position = l.Position
		}
		if l.X != nil {
			out.X = l.X
		}
		if l.Y != nil {
			out.Y = l.Y
		}
		if l.Size != nil {
			out.Size = l.Size
		}
	}
	return out
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func showFlag(v *bool) bool {
	return v == nil || *v
}

// Safe ranges for numeric overrides. Callers clamp before building.
const (
	minFontSize   = 8.0
	maxFontSize   = 400.0
	maxLinesLimit = 20
	minLineHeight = 0.8
	maxLineHeight = 3.0
	minChromeSize = 8.0
	maxChromeSize = 200.0
)

// Clamp returns a copy of o with every numeric value inside its safe range.
func (o Overrides) Clamp() Overrides {
	out := o
	if o.FontSizes != nil {
		out.FontSizes = make(map[ZoneID]float64, len(o.FontSizes))
		for k, v := range o.FontSizes {
			out.FontSizes[k] = clampF(v, minFontSize, maxFontSize)
		}
	}
	out.Zones = ClampZones(o.Zones)
	out.Chrome = ClampChrome(o.Chrome)
	return out
}

// Clamp returns a copy of z with every set field inside its safe range.
func (z ZoneOverride) Clamp() ZoneOverride {
	z.X = clampP(z.X, 0, 1080)
	z.Y = clampP(z.Y, 0, 1080)
	z.W = clampP(z.W, 1, 1080)
	z.H = clampP(z.H, 1, 1080)
	z.FontSize = clampP(z.FontSize, minFontSize, maxFontSize)
	z.LineHeight = clampP(z.LineHeight, minLineHeight, maxLineHeight)
	if z.MaxLines != nil {
		v := min(max(*z.MaxLines, 1), maxLinesLimit)
		z.MaxLines = &v
	}
	if z.FontWeight != nil {
		v := min(max(*z.FontWeight, 100), 900)
		z.FontWeight = &v
	}
	return z
}

// Clamp returns a copy of c with every set field inside its safe range.
func (c ChromeOverride) Clamp() ChromeOverride {
	c.X = clampP(c.X, 0, 540)
	c.Y = clampP(c.Y, 0, 540)
	c.Size = clampP(c.Size, minChromeSize, maxChromeSize)
	return c
}

// ClampZones returns a clamped copy of an editor zone override map.
func ClampZones(zs map[ZoneID]ZoneOverride) map[ZoneID]ZoneOverride {
	if zs == nil {
		return nil
	}
	out := make(map[ZoneID]ZoneOverride, len(zs))
	for k, v := range zs {
		out[k] = v.Clamp()
	}
	return out
}

// ClampChrome returns a clamped copy of an editor chrome override map.
func ClampChrome(cs map[ChromeElement]ChromeOverride) map[ChromeElement]ChromeOverride {
	if cs == nil {
		return nil
	}
	out := make(map[ChromeElement]ChromeOverride, len(cs))
	for k, v := range cs {
		out[k] = v.Clamp()
	}
	return out
}

// Clamp returns in with the slide's overrides and the editor layer inside
// their safe ranges. Build trusts its input, so every caller clamps first.
func (in Input) Clamp() Input {
	in.Slide.Overrides = in.Slide.Overrides.Clamp()
	in.ZoneOverrides = ClampZones(in.ZoneOverrides)
	in.ChromeOverrides = ClampChrome(in.ChromeOverrides)
	return in
}

func clampF(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func clampP(v *float64, lo, hi float64) *float64 {
	if v == nil {
		return nil
	}
	c := clampF(*v, lo, hi)
	return &c
}
