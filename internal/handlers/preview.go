// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"slidecraft/internal/deck"
	"slidecraft/internal/geometry"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/scene"
	"slidecraft/internal/textfmt"
)

// Preview recomputes the interactive preview for unsaved editor state.
type Preview struct {
	builder            *rendermodel.Builder
	accounts           deck.AccountReader
	defaultAttribution string
}

// NewPreview creates a new Preview handler group. The attribution policy
// comes from the caller's account, never from the request.
func NewPreview(builder *rendermodel.Builder, accounts deck.AccountReader, defaultAttribution string) *Preview {
	return &Preview{builder: builder, accounts: accounts, defaultAttribution: defaultAttribution}
}

type previewSlide struct {
	Type          rendermodel.SlideType `json:"type"`
	Headline      string                `json:"headline"`
	Body          string                `json:"body"`
	HeadlineSpans []textfmt.Span        `json:"headline_spans"`
	BodySpans     []textfmt.Span        `json:"body_spans"`
	Background    json.RawMessage       `json:"background"`
	Overrides     rendermodel.Overrides `json:"overrides"`
}

type previewRequest struct {
	Template        json.RawMessage                                          `json:"template"`
	Slide           previewSlide                                             `json:"slide"`
	Brand           rendermodel.BrandKit                                     `json:"brand"`
	SlideIndex      int                                                      `json:"slide_index"`
	TotalSlides     int                                                      `json:"total_slides"`
	Ratio           string                                                   `json:"ratio"`
	Width           float64                                                  `json:"width"`
	Height          float64                                                  `json:"height"`
	ZoneOverrides   map[rendermodel.ZoneID]rendermodel.ZoneOverride          `json:"zone_overrides"`
	ChromeOverrides map[rendermodel.ChromeElement]rendermodel.ChromeOverride `json:"chrome_overrides"`
}

// Render builds the model for the posted slide and returns the painted
// layer tree scaled to the requested display box. A missing template
// yields the placeholder tree.
func (h *Preview) Render(w http.ResponseWriter, r *http.Request) {
	owner, ok := requestOwner(w, r)
	if !ok {
		return
	}

	var req previewRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxPreviewBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validatePreview(&req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	var tpl *rendermodel.TemplateConfig
	if len(req.Template) > 0 && string(req.Template) != "null" {
		var err error
		if tpl, err = rendermodel.ParseTemplateConfig(req.Template); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	bg, err := rendermodel.ParseBackground(req.Slide.Background)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	acct, err := h.accounts.FindByID(owner)
	if err != nil {
		writeFailure(w, r, fmt.Errorf("load account: %w", err))
		return
	}
	policy := rendermodel.AttributionPolicy{Default: h.defaultAttribution}
	if acct != nil {
		policy.Custom = acct.AttributionText
		policy.AllowCustom = acct.IsPro()
	}

	ratio, _ := geometry.ParseRatio(req.Ratio)
	frame := geometry.FrameFor(ratio)
	index, total := req.SlideIndex, req.TotalSlides
	if index == 0 {
		index = 1
	}
	if total < index {
		total = index
	}

	m := h.builder.Build(rendermodel.Input{
		Template: tpl,
		Slide: rendermodel.SlideContent{
			Type:          req.Slide.Type,
			Headline:      req.Slide.Headline,
			Body:          req.Slide.Body,
			HeadlineSpans: req.Slide.HeadlineSpans,
			BodySpans:     req.Slide.BodySpans,
			Background:    bg,
			Overrides:     req.Slide.Overrides,
		},
		Brand:           req.Brand,
		SlideIndex:      index,
		TotalSlides:     total,
		ZoneOverrides:   req.ZoneOverrides,
		ChromeOverrides: req.ChromeOverrides,
		TextScale:       frame.TextScale(),
		Attribution:     policy,
	}.Clamp())

	dw, dh := req.Width, req.Height
	if dw == 0 && dh == 0 {
		dw, dh = frame.Width, frame.Height
	} else if dh == 0 {
		dh = dw * frame.Height / frame.Width
	} else if dw == 0 {
		dw = dh * frame.Width / frame.Height
	}

	writeJSON(w, http.StatusOK, scene.Paint(m, frame, dw, dh))
}
