// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contrast picks legible foreground colours and formats colours
// with alpha for the slide renderers.
package contrast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Black and White are the two foreground colours Foreground can return.
	Black = "#000000"
	White = "#ffffff"

	// threshold is the relative luminance at which black and white text
	// have equal contrast ratio against the background.
	threshold = 0.179
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading # is optional).
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Hex formats the colour as lowercase "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns the WCAG relative luminance of a hex colour, or 0 for
// unparseable input.
func Luminance(hex string) float64 {
	c, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

func channel(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Foreground returns black or white, whichever reads better on bg.
// Unparseable backgrounds are treated as dark.
func Foreground(bg string) string {
	if _, ok := ParseHex(bg); !ok {
		return White
	}
	if Luminance(bg) > threshold {
		return Black
	}
	return White
}

// WithAlpha returns "rgba(r, g, b, a)" for a hex colour. Alpha is clamped
// to [0, 1]; unparseable colours fall back to black.
func WithAlpha(hex string, alpha float64) string {
	c, ok := ParseHex(hex)
	if !ok {
		c = RGB{}
	}
	alpha = math.Max(0, math.Min(1, alpha))
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// Blend composites fg at the given alpha over bg and returns the hex result.
func Blend(fg string, alpha float64, bg string) string {
	f, ok := ParseHex(fg)
	if !ok {
		return bg
	}
	b, ok := ParseHex(bg)
	if !ok {
		return f.Hex()
	}
	alpha = math.Max(0, math.Min(1, alpha))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x)*alpha + float64(y)*(1-alpha)))
	}
	return RGB{R: mix(f.R, b.R), G: mix(f.G, b.G), B: mix(f.B, b.B)}.Hex()
}
