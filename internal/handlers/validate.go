// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"slidecraft/internal/geometry"
	"slidecraft/internal/rendermodel"
)

// Validation limits for request parameters and preview bodies.
const (
	defaultPreviewWidth = 320
	minPreviewWidth     = 64
	maxPreviewWidth     = 1080
	maxDisplaySize      = 4096
	maxSlides           = 20
	maxHeadlineLen      = 500
	maxSlideBodyLen     = 5_000
	maxPreviewBodyBytes = 256 << 10
	maxExportBodyBytes  = 4 << 10
)

// parseSlideIndex reads a 1-based slide number.
func parseSlideIndex(s string) (int, string) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxSlides {
		return 0, "Slide index must be a number from 1 to 20."
	}
	return n, ""
}

// parseRatio reads the ratio query parameter; empty keeps fallback.
func parseRatio(s string, fallback geometry.Ratio) (geometry.Ratio, string) {
	if s == "" {
		return fallback, ""
	}
	r, ok := geometry.ParseRatio(s)
	if !ok {
		return "", "Ratio must be 1:1, 4:5 or 9:16."
	}
	return r, ""
}

// parsePreviewWidth reads the thumbnail width in pixels.
func parsePreviewWidth(s string) (int, string) {
	if s == "" {
		return defaultPreviewWidth, ""
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minPreviewWidth || n > maxPreviewWidth {
		return 0, "Width must be between 64 and 1080 pixels."
	}
	return n, ""
}

// validatePreview checks a live preview request and returns the first
// error found.
func validatePreview(req *previewRequest) string {
	if req.TotalSlides < 0 || req.TotalSlides > maxSlides {
		return "A carousel has at most 20 slides."
	}
	if req.SlideIndex < 0 || (req.TotalSlides > 0 && req.SlideIndex > req.TotalSlides) {
		return "Slide index is out of range."
	}
	if utf8.RuneCountInString(req.Slide.Headline) > maxHeadlineLen {
		return "Headline is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(req.Slide.Body) > maxSlideBodyLen {
		return "Body is too long (max 5,000 characters)."
	}
	if req.Width < 0 || req.Height < 0 || req.Width > maxDisplaySize || req.Height > maxDisplaySize {
		return "Display size must be between 0 and 4096 pixels."
	}
	switch req.Slide.Type {
	case "", rendermodel.SlideHook, rendermodel.SlidePoint, rendermodel.SlideCTA:
	default:
		return "Slide type must be hook, point or cta."
	}
	if strings.TrimSpace(req.Ratio) != "" {
		if _, ok := geometry.ParseRatio(req.Ratio); !ok {
			return "Ratio must be 1:1, 4:5 or 9:16."
		}
	}
	return ""
}
