// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer returns the advance width of text at a font size, in the same
// units as size.
type Measurer interface {
	Measure(text string, size float64, bold bool) float64
}

// FontFamily is the CSS family name the embedded fonts are registered
// under in generated documents.
const FontFamily = "Slidecraft Go"

// RegularTTF and BoldTTF are the fonts every surface renders with, so that
// wrapping decisions made here hold in the browser and the rasteriser.
var (
	RegularTTF = goregular.TTF
	BoldTTF    = gobold.TTF
)

// maxFaces bounds the face cache. Sizes come from client overrides, so the
// cache is cleared when full rather than left to grow.
const maxFaces = 128

// faceKey holds the size in 26.6 fixed point, the precision faces work at.
type faceKey struct {
	size int
	bold bool
}

// FontMeasurer measures with the embedded Go fonts. Faces are created
// lazily per size and cached; font.Face is not safe for concurrent use so
// all access goes through mu.
type FontMeasurer struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// NewFontMeasurer parses the embedded fonts.
func NewFontMeasurer() (*FontMeasurer, error) {
	regular, err := opentype.Parse(RegularTTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(BoldTTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &FontMeasurer{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(text string, size float64, bold bool) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.face(size, bold)
	if err != nil {
		// Fall back to an average advance so wrapping still terminates.
		return float64(len([]rune(text))) * size * 0.55
	}
	return float64(font.MeasureString(face, text)) / 64
}

func (m *FontMeasurer) face(size float64, bold bool) (font.Face, error) {
	k := faceKey{size: int(math.Round(size * 64)), bold: bold}
	if f, ok := m.faces[k]; ok {
		return f, nil
	}
	if len(m.faces) >= maxFaces {
		clear(m.faces)
	}
	src := m.regular
	if bold {
		src = m.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(k.size) / 64,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	m.faces[k] = f
	return f, nil
}
