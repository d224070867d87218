// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package geometry holds the coordinate maths shared by both slide
// surfaces: the fixed design space, export frames per aspect ratio,
// cover-scaling, the text-zone remap into the uncropped band, and chrome
// placement. Surfaces must not re-derive any of this on their own.
package geometry

import "math"

// DesignSize is the edge length of the square design space every template
// is authored in.
const DesignSize = 1080.0

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns X+W.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns Y+H.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Scale multiplies every component by k.
func (r Rect) Scale(k float64) Rect {
	return Rect{X: r.X * k, Y: r.Y * k, W: r.W * k, H: r.H * k}
}

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: math.Max(0, r.W-2*d), H: math.Max(0, r.H-2*d)}
}

// Ratio is a supported export aspect ratio.
type Ratio string

const (
	RatioSquare   Ratio = "1:1"
	RatioPortrait Ratio = "4:5"
	RatioStory    Ratio = "9:16"
)

// ParseRatio accepts "1:1", "4:5" or "9:16". Empty input means square.
func ParseRatio(s string) (Ratio, bool) {
	switch Ratio(s) {
	case "", RatioSquare:
		return RatioSquare, true
	case RatioPortrait, RatioStory:
		return Ratio(s), true
	}
	return "", false
}

// Frame is an export canvas in pixels.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FrameFor returns the export frame for a ratio. Every frame is 1080 wide.
func FrameFor(r Ratio) Frame {
	switch r {
	case RatioPortrait:
		return Frame{Width: 1080, Height: 1350}
	case RatioStory:
		return Frame{Width: 1080, Height: 1920}
	default:
		return Frame{Width: 1080, Height: 1080}
	}
}

// Pixels returns the frame size rounded to whole pixels.
func (f Frame) Pixels() (int, int) {
	return int(math.Round(f.Width)), int(math.Round(f.Height))
}

// CoverScale is the uniform factor that makes the square design cover
// the whole frame.
func (f Frame) CoverScale() float64 {
	return math.Max(f.Width/DesignSize, f.Height/DesignSize)
}

// Crop returns how many frame pixels of the scaled design fall outside the
// frame on the left and on the top.
func (f Frame) Crop() (float64, float64) {
	s := f.CoverScale()
	return (DesignSize*s - f.Width) / 2, (DesignSize*s - f.Height) / 2
}

// VisibleBand returns the [x0, x1) range of design x coordinates that
// survive the horizontal crop.
func (f Frame) VisibleBand() (float64, float64) {
	s := f.CoverScale()
	cx, _ := f.Crop()
	return cx / s, (cx + f.Width) / s
}

// TextScale is the factor by which text shrinks so that a zone remapped
// into the visible band keeps its authored proportions.
func (f Frame) TextScale() float64 {
	x0, x1 := f.VisibleBand()
	return (x1 - x0) / DesignSize
}

// DesignToFrame applies the cover transform: scale by CoverScale, then
// shift by the crop. The result may extend past the frame edges.
func (f Frame) DesignToFrame(r Rect) Rect {
	s := f.CoverScale()
	cx, cy := f.Crop()
	return Rect{X: r.X*s - cx, Y: r.Y*s - cy, W: r.W * s, H: r.H * s}
}

// TextRect maps a design-space text zone into frame pixels. Horizontally
// the zone is remapped into the visible band, which reduces to a plain
// Width/DesignSize scale; vertically it follows the cover transform.
func (f Frame) TextRect(r Rect) Rect {
	kx := f.Width / DesignSize
	s := f.CoverScale()
	_, cy := f.Crop()
	return Rect{X: r.X * kx, Y: r.Y*s - cy, W: r.W * kx, H: r.H * s}
}

// FontPx converts a resolved design font size (text scale already
// applied) to frame pixels.
func (f Frame) FontPx(size float64) float64 {
	return size * f.CoverScale()
}

// ChromeScale is the factor chrome is drawn at: frame height over the
// design size, independent of the crop.
func (f Frame) ChromeScale() float64 {
	return f.Height / DesignSize
}

// Anchor is a frame corner or edge midpoint chrome is positioned from.
type Anchor string

const (
	TopLeft      Anchor = "top-left"
	TopCenter    Anchor = "top-center"
	TopRight     Anchor = "top-right"
	BottomLeft   Anchor = "bottom-left"
	BottomCenter Anchor = "bottom-center"
	BottomRight  Anchor = "bottom-right"
)

// ChromeRect places a chrome box of design size (w, h) at the anchor with
// design-space margins (mx, my) from the anchored edges. All inputs are
// scaled by ChromeScale so chrome keeps its proportions on every frame.
func (f Frame) ChromeRect(a Anchor, mx, my, w, h float64) Rect {
	k := f.ChromeScale()
	bw, bh := w*k, h*k

	var x, y float64
	switch a {
	case TopRight, BottomRight:
		x = f.Width - mx*k - bw
	case TopCenter, BottomCenter:
		x = (f.Width-bw)/2 + mx*k
	default:
		x = mx * k
	}
	switch a {
	case BottomLeft, BottomCenter, BottomRight:
		y = f.Height - my*k - bh
	default:
		y = my * k
	}
	return Rect{X: x, Y: y, W: bw, H: bh}
}

// Fit returns the factor that scales the frame into a display box while
// preserving its aspect ratio.
func (f Frame) Fit(displayW, displayH float64) float64 {
	if f.Width == 0 || f.Height == 0 {
		return 1
	}
	return math.Min(displayW/f.Width, displayH/f.Height)
}
