// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

import (
	"strconv"
	"strings"

	"slidecraft/internal/geometry"
)

// DefaultAttribution is the line shown when no custom text is allowed.
const DefaultAttribution = "Made with Slidecraft"

// Chrome sizes are font sizes (or logo heights) in design pixels.
const (
	counterSize     = 28.0
	watermarkSize   = 26.0
	logoHeight      = 56.0
	logoAspect      = 3.0
	attributionSize = 22.0
	swipeSize       = 32.0
	chromeLineRatio = 1.25
	defaultMargin   = 48.0
)

type chromeInput struct {
	spec        ChromeSpec
	safe        Insets
	index       int
	total       int
	brand       BrandKit
	overrides   Overrides
	ui          map[ChromeElement]ChromeOverride
	attribution AttributionPolicy
	color       string
}

func (b *Builder) chrome(in chromeInput) Chrome {
	var c Chrome

	c.Counter = b.chromeText(in, ChromeCounter, in.spec.Counter.Position, geometry.TopRight, counterSize,
		strconv.Itoa(in.index)+" / "+strconv.Itoa(in.total))
	c.Counter.Visible = in.spec.Counter.Enabled && showFlag(in.overrides.ShowCounter) && in.total > 0

	wmVisible := in.spec.Watermark.Enabled && showFlag(in.overrides.ShowWatermark)
	switch {
	case in.brand.LogoURL != "":
		c.Watermark = b.chromeBox(in, ChromeWatermark, in.spec.Watermark.Position, geometry.BottomLeft, logoHeight)
		c.Watermark.ImageURL = in.brand.LogoURL
	case strings.TrimSpace(in.brand.WatermarkText) != "":
		c.Watermark = b.chromeText(in, ChromeWatermark, in.spec.Watermark.Position, geometry.BottomLeft, watermarkSize,
			strings.TrimSpace(in.brand.WatermarkText))
	default:
		c.Watermark = ChromeItem{Element: ChromeWatermark}
		wmVisible = false
	}
	c.Watermark.Visible = wmVisible

	text := in.attribution.Default
	if text == "" {
		text = DefaultAttribution
	}
	if in.attribution.AllowCustom && strings.TrimSpace(in.attribution.Custom) != "" {
		text = strings.TrimSpace(in.attribution.Custom)
	}
	var attrPos geometry.Anchor
	attrOn := true
	if in.spec.Attribution != nil {
		attrPos = in.spec.Attribution.Position
		attrOn = in.spec.Attribution.Enabled
	}
	c.Attribution = b.chromeText(in, ChromeAttribution, attrPos, geometry.BottomCenter, attributionSize, text)
	c.Attribution.Visible = attrOn && showFlag(in.overrides.ShowAttribution)

	hint := ""
	switch in.spec.SwipeHint.Type {
	case "arrow":
		hint = "→"
	case "text":
		hint = "Swipe →"
	}
	c.SwipeHint = b.chromeText(in, ChromeSwipeHint, in.spec.SwipeHint.Position, geometry.BottomRight, swipeSize, hint)
	c.SwipeHint.Visible = hint != "" && in.index < in.total
	return c
}

func (b *Builder) placement(in chromeInput, el ChromeElement, pos, def geometry.Anchor, size float64) ChromeItem {
	if pos == "" {
		pos = def
	}
	it := ChromeItem{Element: el, Anchor: pos, Size: size, Color: in.color}
	it.MarginX, it.MarginY = margins(in.safe, pos)

	o := MergeChrome(in.overrides.Chrome[el], in.ui[el])
	if o.Position != nil {
		it.Anchor = *o.Position
		it.MarginX, it.MarginY = margins(in.safe, it.Anchor)
	}
	setF(&it.MarginX, o.X)
	setF(&it.MarginY, o.Y)
	if o.Size != nil && *o.Size > 0 {
		it.Size = *o.Size
	}
	return it
}

func (b *Builder) chromeText(in chromeInput, el ChromeElement, pos, def geometry.Anchor, size float64, text string) ChromeItem {
	it := b.placement(in, el, pos, def, size)
	it.Text = text
	it.W = b.measure.Measure(text, it.Size, false)
	it.H = it.Size * chromeLineRatio
	return it
}

func (b *Builder) chromeBox(in chromeInput, el ChromeElement, pos, def geometry.Anchor, size float64) ChromeItem {
	it := b.placement(in, el, pos, def, size)
	it.H = it.Size
	it.W = it.Size * logoAspect
	return it
}

// margins picks the safe-area insets facing the anchored edges. Centred
// anchors have no horizontal margin.
func margins(safe Insets, a geometry.Anchor) (float64, float64) {
	pick := func(v float64) float64 {
		if v <= 0 {
			return defaultMargin
		}
		return v
	}
	var mx, my float64
	switch a {
	case geometry.TopLeft, geometry.BottomLeft:
		mx = pick(safe.Left)
	case geometry.TopRight, geometry.BottomRight:
		mx = pick(safe.Right)
	}
	switch a {
	case geometry.BottomLeft, geometry.BottomCenter, geometry.BottomRight:
		my = pick(safe.Bottom)
	default:
		my = pick(safe.Top)
	}
	return mx, my
}
