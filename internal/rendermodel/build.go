// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

import (
	"strings"

	"slidecraft/internal/contrast"
	"slidecraft/internal/geometry"
	"slidecraft/internal/multiimage"
	"slidecraft/internal/textfmt"
)

const (
	// DefaultBackground is the last fallback for the background colour.
	DefaultBackground = "#0a0a0a"

	// PlaceholderMessage is shown when a slide has no usable template.
	PlaceholderMessage = "No template selected"

	defaultInsetSize  = 28.0
	defaultFontWeight = 400
	defaultLineHeight = 1.2
)

var defaultInsetAt = multiimage.Point{X: 85, Y: 15}

// Builder builds render models. It holds no per-render state; the only
// dependency is the text measurer, which must be deterministic.
type Builder struct {
	measure Measurer
}

// NewBuilder creates a builder that wraps text with m.
func NewBuilder(m Measurer) *Builder {
	return &Builder{measure: m}
}

// Build resolves one slide. A nil template yields a placeholder model.
func (b *Builder) Build(in Input) *Model {
	bgColor := firstColor(in.Slide.Background.Color, templateColor(in.Template), in.Brand.PrimaryColor, DefaultBackground)

	if in.Template == nil || len(in.Template.Zones) == 0 {
		return &Model{
			Placeholder: true,
			Message:     PlaceholderMessage,
			TextColor:   contrast.Foreground(bgColor),
			Background:  BackgroundModel{Color: bgColor},
		}
	}
	tpl := in.Template

	bg := b.background(tpl, in.Slide, bgColor)

	effective := bg.Color
	if bg.Gradient.Active {
		effective = bg.Gradient.Color
	}
	textColor := contrast.Foreground(effective)

	ts := in.TextScale
	if ts <= 0 {
		ts = 1
	}

	m := &Model{
		TextColor:  textColor,
		Background: bg,
	}

	fields := []struct {
		id    ZoneID
		text  string
		spans []textfmt.Span
	}{
		{ZoneHeadline, in.Slide.Headline, in.Slide.HeadlineSpans},
		{ZoneBody, in.Slide.Body, in.Slide.BodySpans},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.text) == "" {
			continue
		}
		zone, ok := tpl.Zone(f.id)
		if !ok {
			continue
		}
		m.Blocks = append(m.Blocks, b.block(zone, f.text, f.spans, in, ts, textColor))
	}

	m.Chrome = b.chrome(chromeInput{
		spec:        tpl.Chrome,
		safe:        tpl.SafeArea,
		index:       in.SlideIndex,
		total:       in.TotalSlides,
		brand:       in.Brand,
		overrides:   in.Slide.Overrides,
		ui:          in.ChromeOverrides,
		attribution: in.Attribution,
		color:       textColor,
	})
	return m
}

func (b *Builder) block(zone TextZone, text string, spans []textfmt.Span, in Input, ts float64, textColor string) TextBlock {
	ov := in.Slide.Overrides
	if fs, ok := ov.FontSizes[zone.ID]; ok && fs > 0 {
		zone.FontSize = fs
	}
	zone = MergeZone(zone, ov.Zones[zone.ID], in.ZoneOverrides[zone.ID])
	zone.FontSize *= ts

	if zone.FontWeight == 0 {
		zone.FontWeight = defaultFontWeight
	}
	if zone.LineHeight <= 0 {
		zone.LineHeight = defaultLineHeight
	}
	if zone.Align == "" {
		zone.Align = AlignLeft
	}
	color := textColor
	if zone.Color != "" {
		color = zone.Color
	}

	parsed := textfmt.Parse(text)
	styled := textfmt.Compose(parsed, textfmt.NormalizeSpans(parsed.Text, spans))

	hl := ov.HighlightStyles[zone.ID]
	if hl == "" {
		hl = HighlightText
	}
	w := wrapper{
		measure:   b.measure,
		size:      zone.FontSize,
		bold:      zone.FontWeight >= boldWeight,
		width:     zone.W * ts,
		color:     color,
		highlight: hl,
	}
	lines, truncated := w.wrap(styled, zone.MaxLines)

	return TextBlock{
		Zone:       zone.ID,
		Rect:       geometry.Rect{X: zone.X, Y: zone.Y, W: zone.W, H: zone.H},
		FontSize:   zone.FontSize,
		FontWeight: zone.FontWeight,
		LineHeight: zone.LineHeight,
		Align:      zone.Align,
		Color:      color,
		Lines:      lines,
		Truncated:  truncated,
	}
}

func (b *Builder) background(tpl *TemplateConfig, slide SlideContent, color string) BackgroundModel {
	src := slide.Background
	bm := BackgroundModel{Color: color, Display: src.Display}

	if src.Kind != KindColor && tpl.Background.AllowImage {
		for _, img := range src.Images {
			if img.URL != "" {
				bm.Images = append(bm.Images, img.URL)
			}
		}
	}
	hasImage := bm.HasImage()

	if hasImage && slide.Type == SlideHook && src.Secondary != nil && src.Secondary.URL != "" {
		at := defaultInsetAt
		if src.InsetAt != nil {
			at = *src.InsetAt
		}
		size := src.InsetSize
		if size <= 0 {
			size = defaultInsetSize
		}
		bm.Inset = &Inset{URL: src.Secondary.URL, Position: at, Size: size}
	}

	bm.Blur = hasImage && tpl.Background.DefaultStyle == OverlayBlur
	bm.Gradient = resolveGradient(tpl.Overlay, tpl.Background.DefaultStyle, hasImage, src.Overlay)
	return bm
}

func templateColor(t *TemplateConfig) string {
	if t == nil {
		return ""
	}
	return t.Background.Color
}

func firstColor(candidates ...string) string {
	for _, c := range candidates {
		if _, ok := contrast.ParseHex(c); ok {
			return c
		}
	}
	return DefaultBackground
}
