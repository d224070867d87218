// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package rendermodel resolves a template, one slide's content, the brand
// kit and any overrides into a Model: a renderer-agnostic description of
// everything a slide shows. Build is a pure function of its inputs; both
// the interactive preview and the static document generator paint from
// the same Model.
package rendermodel

import (
	"encoding/json"
	"fmt"

	"slidecraft/internal/geometry"
	"slidecraft/internal/multiimage"
	"slidecraft/internal/textfmt"
)

// ZoneID names a text zone.
type ZoneID string

const (
	ZoneHeadline ZoneID = "headline"
	ZoneBody     ZoneID = "body"
)

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// OverlayStyle is a template's default treatment of image backgrounds.
type OverlayStyle string

const (
	OverlayGradient OverlayStyle = "gradient"
	OverlayBlur     OverlayStyle = "blur"
	OverlayNone     OverlayStyle = "none"
)

// Direction is the edge a gradient overlay is darkest at.
type Direction string

const (
	DirectionBottom Direction = "bottom"
	DirectionTop    Direction = "top"
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
)

// HighlightStyle controls how highlight spans are painted.
type HighlightStyle string

const (
	HighlightText       HighlightStyle = "text"
	HighlightBackground HighlightStyle = "background"
)

// SlideType is the role of a slide in the carousel.
type SlideType string

const (
	SlideHook  SlideType = "hook"
	SlidePoint SlideType = "point"
	SlideCTA   SlideType = "cta"
)

// TextZone is a template text region in design-space pixels.
type TextZone struct {
	ID         ZoneID  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	FontSize   float64 `json:"font_size"`
	FontWeight int     `json:"font_weight"`
	LineHeight float64 `json:"line_height"`
	MaxLines   int     `json:"max_lines"`
	Align      Align   `json:"align"`
	Color      string  `json:"color,omitempty"`
}

// Insets are safe-area distances from each frame edge in design pixels.
type Insets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// BackgroundRules are the template's background defaults.
type BackgroundRules struct {
	AllowImage   bool         `json:"allow_image"`
	DefaultStyle OverlayStyle `json:"default_style"`
	Color        string       `json:"color,omitempty"`
}

// OverlaySpec is the template's gradient overlay.
type OverlaySpec struct {
	Enabled   bool      `json:"enabled"`
	Direction Direction `json:"direction,omitempty"`
	Strength  float64   `json:"strength,omitempty"`
	Extent    float64   `json:"extent,omitempty"`
	SolidSize float64   `json:"solid_size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

// ChromePlacement is an on/off chrome element with a position.
type ChromePlacement struct {
	Enabled  bool            `json:"enabled"`
	Position geometry.Anchor `json:"position,omitempty"`
}

// SwipeHintSpec describes the "swipe for more" marker.
type SwipeHintSpec struct {
	Type     string          `json:"type"` // "arrow", "text" or "none"
	Position geometry.Anchor `json:"position,omitempty"`
}

// ChromeSpec is the template's chrome configuration. Attribution is
// optional; a template that does not mention it shows it.
type ChromeSpec struct {
	SwipeHint   SwipeHintSpec    `json:"swipe_hint"`
	Counter     ChromePlacement  `json:"counter"`
	Watermark   ChromePlacement  `json:"watermark"`
	Attribution *ChromePlacement `json:"attribution,omitempty"`
}

// TemplateConfig is the immutable layout skin a slide is rendered with.
type TemplateConfig struct {
	Layout     string          `json:"layout"`
	SafeArea   Insets          `json:"safe_area"`
	Zones      []TextZone      `json:"zones"`
	Background BackgroundRules `json:"background"`
	Overlay    OverlaySpec     `json:"overlay"`
	Chrome     ChromeSpec      `json:"chrome"`
}

// Zone returns the template zone with the given id.
func (t *TemplateConfig) Zone(id ZoneID) (TextZone, bool) {
	for _, z := range t.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return TextZone{}, false
}

// ParseTemplateConfig decodes and sanity-checks a stored template config.
func ParseTemplateConfig(raw []byte) (*TemplateConfig, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("template config is empty")
	}
	var cfg TemplateConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode template config: %w", err)
	}
	if len(cfg.Zones) == 0 {
		return nil, fmt.Errorf("template config has no text zones")
	}
	for _, z := range cfg.Zones {
		if z.ID != ZoneHeadline && z.ID != ZoneBody {
			return nil, fmt.Errorf("template config: unknown zone %q", z.ID)
		}
		if z.W <= 0 || z.H <= 0 || z.FontSize <= 0 {
			return nil, fmt.Errorf("template config: zone %q has no size", z.ID)
		}
	}
	return &cfg, nil
}

// BrandKit is the project's brand assets.
type BrandKit struct {
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
	WatermarkText  string `json:"watermark_text,omitempty"`
}

// ZoneOverride changes individual fields of a text zone. Nil fields keep
// the value from the layer below.
type ZoneOverride struct {
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	W          *float64 `json:"w,omitempty"`
	H          *float64 `json:"h,omitempty"`
	FontSize   *float64 `json:"font_size,omitempty"`
	FontWeight *int     `json:"font_weight,omitempty"`
	LineHeight *float64 `json:"line_height,omitempty"`
	MaxLines   *int     `json:"max_lines,omitempty"`
	Align      *Align   `json:"align,omitempty"`
	Color      *string  `json:"color,omitempty"`
}

// ChromeElement names a chrome item that accepts overrides.
type ChromeElement string

const (
	ChromeCounter     ChromeElement = "counter"
	ChromeWatermark   ChromeElement = "watermark"
	ChromeAttribution ChromeElement = "attribution"
	ChromeSwipeHint   ChromeElement = "swipe_hint"
)

// ChromeOverride moves or resizes a chrome item. X and Y are margins in
// design pixels from the anchored edges.
type ChromeOverride struct {
	Position *geometry.Anchor `json:"position,omitempty"`
	X        *float64         `json:"x,omitempty"`
	Y        *float64         `json:"y,omitempty"`
	Size     *float64         `json:"size,omitempty"`
}

// Overrides is the per-slide override bag stored with the slide.
type Overrides struct {
	FontSizes       map[ZoneID]float64               `json:"font_sizes,omitempty"`
	Zones           map[ZoneID]ZoneOverride          `json:"zones,omitempty"`
	Chrome          map[ChromeElement]ChromeOverride `json:"chrome,omitempty"`
	ShowCounter     *bool                            `json:"show_counter,omitempty"`
	ShowWatermark   *bool                            `json:"show_watermark,omitempty"`
	ShowAttribution *bool                            `json:"show_attribution,omitempty"`
	HighlightStyles map[ZoneID]HighlightStyle        `json:"highlight_styles,omitempty"`
}

// ParseOverrides decodes a stored override bag; empty input is no overrides.
func ParseOverrides(raw []byte) (Overrides, error) {
	var o Overrides
	if len(raw) == 0 || string(raw) == "null" {
		return o, nil
	}
	if err := json.Unmarshal(raw, &o); err != nil {
		return o, fmt.Errorf("decode overrides: %w", err)
	}
	return o, nil
}

// SlideContent is everything about one slide the builder reads.
type SlideContent struct {
	Type          SlideType      `json:"type"`
	Headline      string         `json:"headline"`
	Body          string         `json:"body,omitempty"`
	HeadlineSpans []textfmt.Span `json:"headline_spans,omitempty"`
	BodySpans     []textfmt.Span `json:"body_spans,omitempty"`
	Background    Background     `json:"background"`
	Overrides     Overrides      `json:"overrides"`
}

// AttributionPolicy decides the "made with" line.
type AttributionPolicy struct {
	Default     string `json:"default"`
	Custom      string `json:"custom,omitempty"`
	AllowCustom bool   `json:"allow_custom"`
}

// Input is everything Build depends on.
type Input struct {
	Template    *TemplateConfig
	Slide       SlideContent
	Brand       BrandKit
	SlideIndex  int // 1-based
	TotalSlides int

	// ZoneOverrides and ChromeOverrides are the explicit editor layer,
	// applied after the slide's own overrides.
	ZoneOverrides   map[ZoneID]ZoneOverride
	ChromeOverrides map[ChromeElement]ChromeOverride

	// TextScale shrinks fonts for taller frames; 0 means 1.
	TextScale float64

	Attribution AttributionPolicy
}

// Stop is one gradient colour stop. Offset is a percentage along the
// gradient line; Alpha is the fraction of the overlay strength.
type Stop struct {
	Offset float64 `json:"offset"`
	Alpha  float64 `json:"alpha"`
}

// Gradient is the resolved overlay.
type Gradient struct {
	Active    bool      `json:"active"`
	Direction Direction `json:"direction"`
	Strength  float64   `json:"strength"`
	Extent    float64   `json:"extent"`
	SolidSize float64   `json:"solid_size"`
	Color     string    `json:"color"`
	Stops     []Stop    `json:"stops"`
	CSS       string    `json:"css"`
}

// Inset is the circular secondary image on hook slides.
type Inset struct {
	URL      string           `json:"url"`
	Position multiimage.Point `json:"position"`
	Size     float64          `json:"size"`
}

// BackgroundModel is the resolved background.
type BackgroundModel struct {
	Color    string             `json:"color"`
	Images   []string           `json:"images,omitempty"`
	Display  multiimage.Options `json:"display"`
	Inset    *Inset             `json:"inset,omitempty"`
	Blur     bool               `json:"blur,omitempty"`
	Gradient Gradient           `json:"gradient"`
}

// HasImage reports whether at least one image is shown.
func (b BackgroundModel) HasImage() bool { return len(b.Images) > 0 }

// Run is a styled piece of a wrapped line.
type Run struct {
	Text       string `json:"text"`
	Bold       bool   `json:"bold,omitempty"`
	Color      string `json:"color"`
	Background string `json:"background,omitempty"`
}

// Line is one wrapped line; Width is in design pixels at the block's font size.
type Line struct {
	Runs  []Run   `json:"runs"`
	Width float64 `json:"width"`
}

// Text returns the line's plain text.
func (l Line) Text() string {
	var s string
	for _, r := range l.Runs {
		s += r.Text
	}
	return s
}

// TextBlock is a resolved zone with its wrapped content.
type TextBlock struct {
	Zone       ZoneID        `json:"zone"`
	Rect       geometry.Rect `json:"rect"`
	FontSize   float64       `json:"font_size"`
	FontWeight int           `json:"font_weight"`
	LineHeight float64       `json:"line_height"`
	Align      Align         `json:"align"`
	Color      string        `json:"color"`
	Lines      []Line        `json:"lines"`
	Truncated  bool          `json:"truncated,omitempty"`
}

// ChromeItem is one resolved chrome element. Margins and sizes are in
// design pixels; surfaces place it with geometry.Frame.ChromeRect.
type ChromeItem struct {
	Element  ChromeElement   `json:"element"`
	Visible  bool            `json:"visible"`
	Text     string          `json:"text,omitempty"`
	ImageURL string          `json:"image_url,omitempty"`
	Anchor   geometry.Anchor `json:"anchor"`
	MarginX  float64         `json:"margin_x"`
	MarginY  float64         `json:"margin_y"`
	Size     float64         `json:"size"`
	W        float64         `json:"w"`
	H        float64         `json:"h"`
	Color    string          `json:"color"`
}

// Chrome is every chrome element of a slide.
type Chrome struct {
	Counter     ChromeItem `json:"counter"`
	Watermark   ChromeItem `json:"watermark"`
	Attribution ChromeItem `json:"attribution"`
	SwipeHint   ChromeItem `json:"swipe_hint"`
}

// Items returns the visible chrome items in paint order.
func (c Chrome) Items() []ChromeItem {
	var out []ChromeItem
	for _, it := range []ChromeItem{c.Counter, c.Watermark, c.Attribution, c.SwipeHint} {
		if it.Visible {
			out = append(out, it)
		}
	}
	return out
}

// Model is the fully resolved description of one slide.
type Model struct {
	Placeholder bool            `json:"placeholder,omitempty"`
	Message     string          `json:"message,omitempty"`
	TextColor   string          `json:"text_color"`
	Background  BackgroundModel `json:"background"`
	Blocks      []TextBlock     `json:"blocks"`
	Chrome      Chrome          `json:"chrome"`
}
