// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"slidecraft/internal/geometry"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/textfmt"
)

// Caption is the post text that accompanies a carousel.
type Caption struct {
	Short    string   `json:"short,omitempty"`
	Medium   string   `json:"medium,omitempty"`
	Long     string   `json:"long,omitempty"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Empty reports whether there is nothing to write to caption.txt.
func (c Caption) Empty() bool {
	return strings.TrimSpace(c.Short) == "" && strings.TrimSpace(c.Medium) == "" &&
		strings.TrimSpace(c.Long) == "" && len(c.Hashtags) == 0
}

// Text renders the caption file: one labelled section per non-empty
// variant, then the hashtags on one line.
func (c Caption) Text() string {
	var sections []string
	for _, v := range []struct{ label, text string }{
		{"Short", c.Short},
		{"Medium", c.Medium},
		{"Long", c.Long},
	} {
		if t := strings.TrimSpace(v.text); t != "" {
			sections = append(sections, v.label+":\n"+t)
		}
	}
	var tags []string
	for _, h := range c.Hashtags {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "#") {
			h = "#" + h
		}
		tags = append(tags, h)
	}
	if len(tags) > 0 {
		sections = append(sections, strings.Join(tags, " "))
	}
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}

// Carousel is an ordered set of slides rendered with one aspect ratio.
type Carousel struct {
	ID         uuid.UUID      `json:"id"`
	OwnerID    uuid.UUID      `json:"owner_id"`
	Title      string         `json:"title"`
	TemplateID *uuid.UUID     `json:"template_id,omitempty"`
	BrandKitID *uuid.UUID     `json:"brand_kit_id,omitempty"`
	Ratio      geometry.Ratio `json:"ratio"`
	Caption    Caption        `json:"caption"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Slide is one page of a carousel. Position is 1-based. The JSON columns
// are kept raw and decoded through Content.
type Slide struct {
	ID            uuid.UUID             `json:"id"`
	CarouselID    uuid.UUID             `json:"carousel_id"`
	Position      int                   `json:"position"`
	TemplateID    *uuid.UUID            `json:"template_id,omitempty"`
	Type          rendermodel.SlideType `json:"type"`
	Headline      string                `json:"headline"`
	Body          string                `json:"body"`
	HeadlineSpans json.RawMessage       `json:"headline_spans,omitempty"`
	BodySpans     json.RawMessage       `json:"body_spans,omitempty"`
	Background    json.RawMessage       `json:"background,omitempty"`
	Overrides     json.RawMessage       `json:"overrides,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// Content decodes the slide into render input.
func (s *Slide) Content() (rendermodel.SlideContent, error) {
	c := rendermodel.SlideContent{
		Type:     s.Type,
		Headline: s.Headline,
		Body:     s.Body,
	}
	var err error
	if c.HeadlineSpans, err = spans(s.HeadlineSpans); err != nil {
		return c, fmt.Errorf("slide %d headline spans: %w", s.Position, err)
	}
	if c.BodySpans, err = spans(s.BodySpans); err != nil {
		return c, fmt.Errorf("slide %d body spans: %w", s.Position, err)
	}
	if c.Background, err = rendermodel.ParseBackground(s.Background); err != nil {
		return c, fmt.Errorf("slide %d: %w", s.Position, err)
	}
	if c.Overrides, err = rendermodel.ParseOverrides(s.Overrides); err != nil {
		return c, fmt.Errorf("slide %d: %w", s.Position, err)
	}
	return c, nil
}

func spans(raw json.RawMessage) ([]textfmt.Span, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []textfmt.Span
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
