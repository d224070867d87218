// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview is the interactive surface. It rasterises a scene into
// a PNG thumbnail with the same embedded fonts the render model measures
// with; images that are not loaded yet are skipped.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"slidecraft/internal/contrast"
	"slidecraft/internal/multiimage"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/scene"
)

// ImageSource resolves image URLs to decoded images. Missing images are
// skipped so a preview can be drawn while images are still loading.
type ImageSource interface {
	Image(ctx context.Context, url string) (image.Image, error)
}

// Rasterizer draws trees with the same embedded fonts the render model
// measures with. It is safe for concurrent use; font faces are not, so
// each Rasterize call builds its own.
type Rasterizer struct {
	images  ImageSource
	regular *truetype.Font
	bold    *truetype.Font
}

type faceKey struct {
	px   float64
	bold bool
}

// NewRasterizer parses the embedded fonts. images may be nil, in which
// case image layers are skipped.
func NewRasterizer(images ImageSource) (*Rasterizer, error) {
	regular, err := truetype.Parse(rendermodel.RegularTTF)
	if err != nil {
		return nil, fmt.Errorf("preview: parse regular font: %w", err)
	}
	bold, err := truetype.Parse(rendermodel.BoldTTF)
	if err != nil {
		return nil, fmt.Errorf("preview: parse bold font: %w", err)
	}
	return &Rasterizer{images: images, regular: regular, bold: bold}, nil
}

// Rasterize draws t into an image of t.Width×t.Height pixels.
func (r *Rasterizer) Rasterize(ctx context.Context, t *scene.Tree) image.Image {
	w := int(math.Round(t.Width))
	h := int(math.Round(t.Height))
	dc := gg.NewContext(max(w, 1), max(h, 1))
	faces := faceCache{r: r, faces: make(map[faceKey]font.Face)}

	for _, l := range t.Layers {
		switch l.Kind {
		case scene.LayerFill:
			dc.SetColor(parseColor(l.Color, 1))
			dc.DrawRectangle(l.Rect.X, l.Rect.Y, l.Rect.W, l.Rect.H)
			dc.Fill()
		case scene.LayerImage:
			r.drawImage(ctx, dc, l)
		case scene.LayerGradient:
			drawGradient(dc, l)
		case scene.LayerStroke:
			drawStroke(dc, l)
		case scene.LayerText:
			faces.drawText(dc, l)
		}
	}
	return dc.Image()
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("preview: encode png: %w", err)
	}
	return nil
}

func (r *Rasterizer) drawImage(ctx context.Context, dc *gg.Context, l scene.Layer) {
	if r.images == nil || l.Rect.W < 1 || l.Rect.H < 1 {
		return
	}
	src, err := r.images.Image(ctx, l.Image)
	if err != nil {
		slog.Debug("preview image unavailable", "url", l.Image, "error", err)
		return
	}

	bw, bh := int(math.Round(l.Rect.W)), int(math.Round(l.Rect.H))
	var img image.Image
	x, y := l.Rect.X, l.Rect.Y
	if l.Fit == scene.FitContain {
		img = imaging.Fit(src, bw, bh, imaging.Lanczos)
		x += (l.Rect.W - float64(img.Bounds().Dx())) / 2
		y += (l.Rect.H - float64(img.Bounds().Dy())) / 2
	} else {
		img = imaging.Fill(src, bw, bh, imaging.Center, imaging.Lanczos)
	}
	if l.Blur > 0 {
		img = imaging.Blur(img, l.Blur/2)
	}

	dc.Push()
	switch {
	case len(l.Clip) > 2:
		dc.MoveTo(l.Clip[0].X, l.Clip[0].Y)
		for _, pt := range l.Clip[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.ClosePath()
		dc.Clip()
	case l.Shape == multiimage.ShapeCircle:
		dc.DrawCircle(l.Rect.X+l.Rect.W/2, l.Rect.Y+l.Rect.H/2, l.Rect.W/2)
		dc.Clip()
	case l.Shape == multiimage.ShapeRounded && l.Radius > 0:
		dc.DrawRoundedRectangle(l.Rect.X, l.Rect.Y, l.Rect.W, l.Rect.H, l.Radius)
		dc.Clip()
	}
	dc.DrawImage(img, int(math.Round(x)), int(math.Round(y)))
	dc.Pop()

	if l.Border > 0 {
		dc.SetColor(parseColor(l.BorderColor, 1))
		dc.SetLineWidth(l.Border)
		if l.Shape == multiimage.ShapeCircle {
			dc.DrawCircle(l.Rect.X+l.Rect.W/2, l.Rect.Y+l.Rect.H/2, l.Rect.W/2-l.Border/2)
		} else {
			dc.DrawRectangle(l.Rect.X, l.Rect.Y, l.Rect.W, l.Rect.H)
		}
		dc.Stroke()
	}
}

// gradientLine returns the start and end of the gradient axis; the end
// is the dark edge.
func gradientLine(l scene.Layer) (x0, y0, x1, y1 float64) {
	r := l.Rect
	switch l.Direction {
	case rendermodel.DirectionTop:
		return r.X, r.Bottom(), r.X, r.Y
	case rendermodel.DirectionLeft:
		return r.Right(), r.Y, r.X, r.Y
	case rendermodel.DirectionRight:
		return r.X, r.Y, r.Right(), r.Y
	default:
		return r.X, r.Y, r.X, r.Bottom()
	}
}

func drawGradient(dc *gg.Context, l scene.Layer) {
	x0, y0, x1, y1 := gradientLine(l)
	g := gg.NewLinearGradient(x0, y0, x1, y1)
	for _, s := range l.Stops {
		g.AddColorStop(s.Offset, parseColor(s.Color, s.Alpha))
	}
	dc.SetFillStyle(g)
	dc.DrawRectangle(l.Rect.X, l.Rect.Y, l.Rect.W, l.Rect.H)
	dc.Fill()
}

func drawStroke(dc *gg.Context, l scene.Layer) {
	dc.Push()
	defer dc.Pop()
	for _, c := range l.Path {
		switch c.Op {
		case multiimage.MoveTo:
			dc.MoveTo(c.Pts[0].X, c.Pts[0].Y)
		case multiimage.LineTo:
			dc.LineTo(c.Pts[0].X, c.Pts[0].Y)
		case multiimage.QuadTo:
			dc.QuadraticTo(c.Pts[0].X, c.Pts[0].Y, c.Pts[1].X, c.Pts[1].Y)
		}
	}
	dc.SetColor(parseColor(l.Color, 1))
	dc.SetLineWidth(l.Width)
	if l.Dashed {
		dc.SetDash(l.Width*3, l.Width*2)
	}
	dc.Stroke()
}

type faceCache struct {
	r     *Rasterizer
	faces map[faceKey]font.Face
}

func (fc faceCache) drawText(dc *gg.Context, l scene.Layer) {
	if l.FontPx <= 0 {
		return
	}
	regular := fc.face(l.FontPx, false)
	m := regular.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	// Half-leading: the glyph box is centred in the line box.
	baseline := l.Rect.Y + (l.Rect.H-(ascent+descent))/2 + ascent

	x := l.TextX
	if l.Align == rendermodel.AlignCenter {
		var total float64
		for _, run := range l.Runs {
			total += float64(font.MeasureString(fc.face(l.FontPx, run.Bold), run.Text)) / 64
		}
		x = l.Rect.X + (l.Rect.W-total)/2
	}

	for _, run := range l.Runs {
		face := fc.face(l.FontPx, run.Bold)
		dc.SetFontFace(face)
		w, _ := dc.MeasureString(run.Text)
		if run.Background != "" {
			dc.SetColor(parseColor(run.Background, 1))
			dc.DrawRectangle(x, l.Rect.Y, w, l.Rect.H)
			dc.Fill()
		}
		c := run.Color
		if c == "" {
			c = l.Color
		}
		dc.SetColor(parseColor(c, 1))
		dc.DrawString(run.Text, x, baseline)
		x += w
	}
}

func (fc faceCache) face(px float64, bold bool) font.Face {
	k := faceKey{px: px, bold: bold}
	if f, ok := fc.faces[k]; ok {
		return f
	}
	src := fc.r.regular
	if bold {
		src = fc.r.bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: px, DPI: 72, Hinting: font.HintingNone})
	fc.faces[k] = f
	return f
}

func parseColor(hex string, alpha float64) color.Color {
	c, ok := contrast.ParseHex(hex)
	if !ok {
		c = contrast.RGB{}
	}
	a := math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a * 255))}
}
