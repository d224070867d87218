// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scene turns a render model into a flat list of positioned
// layers for one frame and display box. Both surfaces draw from the same
// scene: the preview rasterises it and the document generator emits it as
// absolutely positioned HTML. Painting is a full recompute on every call.
package scene

import (
	"slidecraft/internal/geometry"
	"slidecraft/internal/multiimage"
	"slidecraft/internal/rendermodel"
)

// LayerKind says how a layer is drawn.
type LayerKind string

const (
	LayerFill     LayerKind = "fill"
	LayerImage    LayerKind = "image"
	LayerGradient LayerKind = "gradient"
	LayerStroke   LayerKind = "stroke"
	LayerText     LayerKind = "text"
)

// Group separates the cover-scaled design layer from the chrome layer
// drawn on top of it.
type Group string

const (
	GroupDesign Group = "design"
	GroupChrome Group = "chrome"
)

// Role says which part of the slide a layer belongs to, so that a surface
// can draw only the background or only the foreground.
type Role string

const (
	RoleBackground Role = "background"
	RoleOverlay    Role = "overlay"
	RoleText       Role = "text"
	RoleChrome     Role = "chrome"
)

// Fit is how an image fills its box.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
)

// GradientStop is a resolved colour stop; Offset is 0..1.
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
	Alpha  float64 `json:"alpha"`
}

// Layer is one drawable. All coordinates are display pixels.
type Layer struct {
	Kind  LayerKind     `json:"kind"`
	Group Group         `json:"group"`
	Role  Role          `json:"role"`
	Rect  geometry.Rect `json:"rect"`

	Color string `json:"color,omitempty"`

	Image       string             `json:"image,omitempty"`
	Fit         Fit                `json:"fit,omitempty"`
	Shape       multiimage.Shape   `json:"shape,omitempty"`
	Radius      float64            `json:"radius,omitempty"`
	Clip        multiimage.Polygon `json:"clip,omitempty"`
	Border      float64            `json:"border,omitempty"`
	BorderColor string             `json:"border_color,omitempty"`
	Blur        float64            `json:"blur,omitempty"`

	Direction rendermodel.Direction `json:"direction,omitempty"`
	Stops     []GradientStop        `json:"stops,omitempty"`

	Path   multiimage.Path `json:"path,omitempty"`
	Width  float64         `json:"width,omitempty"`
	Dashed bool            `json:"dashed,omitempty"`

	Runs   []rendermodel.Run `json:"runs,omitempty"`
	FontPx float64           `json:"font_px,omitempty"`
	Align  rendermodel.Align `json:"align,omitempty"`
	// TextX is where the first run starts; Rect is the line box.
	TextX float64 `json:"text_x,omitempty"`
}

// Tree is a painted slide.
type Tree struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Frame  geometry.Frame `json:"frame"`
	Scale  float64        `json:"scale"`
	Layers []Layer        `json:"layers"`
}

// blurRadius is the design-space blur for "blur" style backgrounds.
const blurRadius = 24.0

// Paint lays out m on frame f, scaled to fit a display box of dw×dh.
func Paint(m *rendermodel.Model, f geometry.Frame, dw, dh float64) *Tree {
	k := f.Fit(dw, dh)
	p := painter{frame: f}

	p.fill(geometry.Rect{W: f.Width, H: f.Height}, m.Background.Color)
	if m.Placeholder {
		p.placeholder(m)
	} else {
		p.background(m.Background)
		p.gradient(m.Background.Gradient)
		for _, b := range m.Blocks {
			p.block(b)
		}
		p.chrome(m.Chrome)
	}

	t := &Tree{Width: f.Width * k, Height: f.Height * k, Frame: f, Scale: k}
	t.Layers = make([]Layer, len(p.layers))
	for i, l := range p.layers {
		t.Layers[i] = scaleLayer(l, k)
	}
	return t
}

// Only returns the layers with one of the given roles, in paint order.
func (t *Tree) Only(roles ...Role) []Layer {
	var out []Layer
	for _, l := range t.Layers {
		for _, r := range roles {
			if l.Role == r {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// painter accumulates layers in frame pixels.
type painter struct {
	frame  geometry.Frame
	layers []Layer
}

func (p *painter) add(l Layer) {
	if l.Group == "" {
		l.Group = GroupDesign
	}
	if l.Role == "" {
		switch {
		case l.Group == GroupChrome:
			l.Role = RoleChrome
		case l.Kind == LayerGradient:
			l.Role = RoleOverlay
		case l.Kind == LayerText:
			l.Role = RoleText
		default:
			l.Role = RoleBackground
		}
	}
	p.layers = append(p.layers, l)
}

func (p *painter) fill(r geometry.Rect, color string) {
	p.add(Layer{Kind: LayerFill, Rect: r, Color: color})
}

// point maps a design-space point through the cover transform.
func (p *painter) point(pt multiimage.Point) multiimage.Point {
	s := p.frame.CoverScale()
	cx, cy := p.frame.Crop()
	return multiimage.Point{X: pt.X*s - cx, Y: pt.Y*s - cy}
}

func (p *painter) path(path multiimage.Path) multiimage.Path {
	out := make(multiimage.Path, len(path))
	for i, c := range path {
		pts := make([]multiimage.Point, len(c.Pts))
		for j, pt := range c.Pts {
			pts[j] = p.point(pt)
		}
		out[i] = multiimage.Cmd{Op: c.Op, Pts: pts}
	}
	return out
}

func (p *painter) background(bg rendermodel.BackgroundModel) {
	if !bg.HasImage() {
		return
	}
	s := p.frame.CoverScale()
	design := geometry.Rect{W: geometry.DesignSize, H: geometry.DesignSize}
	var blur float64
	if bg.Blur {
		blur = blurRadius * s
	}

	if len(bg.Images) == 1 {
		p.add(Layer{Kind: LayerImage, Rect: p.frame.DesignToFrame(design), Image: bg.Images[0], Fit: FitCover, Blur: blur})
	} else {
		c := multiimage.Layout(design, len(bg.Images), bg.Display)
		if c.Inner != c.Area && c.FrameColor != "" {
			p.fill(p.frame.DesignToFrame(c.Area), c.FrameColor)
		}
		for _, cell := range c.Cells {
			l := Layer{
				Kind:        LayerImage,
				Rect:        p.frame.DesignToFrame(cell.Rect),
				Image:       bg.Images[cell.Image],
				Fit:         FitCover,
				Shape:       cell.Shape,
				Radius:      cell.Radius * s,
				Border:      cell.Border * s,
				BorderColor: cell.BorderColor,
				Blur:        blur,
			}
			for _, pt := range cell.Clip {
				l.Clip = append(l.Clip, p.point(pt))
			}
			p.add(l)
		}
		for _, d := range c.Dividers {
			p.add(Layer{Kind: LayerStroke, Path: p.path(d.Path), Color: d.Color, Width: d.Width * s, Dashed: d.Dashed})
		}
		if c.Seam != nil {
			p.add(Layer{Kind: LayerStroke, Path: p.path(c.Seam.Path), Color: c.Seam.Color, Width: c.Seam.Width * s})
		}
	}

	if in := bg.Inset; in != nil {
		cell := multiimage.Circle(design, in.Position, in.Size, insetBorder, insetBorderColor)
		p.add(Layer{
			Kind:        LayerImage,
			Rect:        p.frame.DesignToFrame(cell.Rect),
			Image:       in.URL,
			Fit:         FitCover,
			Shape:       multiimage.ShapeCircle,
			Border:      cell.Border * s,
			BorderColor: cell.BorderColor,
		})
	}
}

const (
	insetBorder      = 8.0
	insetBorderColor = "#ffffff"
)

func (p *painter) gradient(g rendermodel.Gradient) {
	if !g.Active {
		return
	}
	stops := make([]GradientStop, len(g.Stops))
	for i, s := range g.Stops {
		stops[i] = GradientStop{Offset: s.Offset / 100, Color: g.Color, Alpha: s.Alpha * g.Strength}
	}
	p.add(Layer{
		Kind:      LayerGradient,
		Rect:      geometry.Rect{W: p.frame.Width, H: p.frame.Height},
		Direction: g.Direction,
		Stops:     stops,
	})
}

func (p *painter) block(b rendermodel.TextBlock) {
	r := p.frame.TextRect(b.Rect)
	fontPx := p.frame.FontPx(b.FontSize)
	linePx := fontPx * b.LineHeight
	s := p.frame.CoverScale()

	for i, line := range b.Lines {
		box := geometry.Rect{X: r.X, Y: r.Y + float64(i)*linePx, W: r.W, H: linePx}
		x := box.X
		if b.Align == rendermodel.AlignCenter {
			x += (box.W - line.Width*s) / 2
		}
		p.add(Layer{Kind: LayerText, Rect: box, Runs: line.Runs, FontPx: fontPx, Align: b.Align, TextX: x, Color: b.Color})
	}
}

func (p *painter) chrome(c rendermodel.Chrome) {
	k := p.frame.ChromeScale()
	for _, it := range c.Items() {
		r := p.frame.ChromeRect(it.Anchor, it.MarginX, it.MarginY, it.W, it.H)
		if it.ImageURL != "" {
			p.add(Layer{Kind: LayerImage, Group: GroupChrome, Rect: r, Image: it.ImageURL, Fit: FitContain})
			continue
		}
		p.add(Layer{
			Kind:   LayerText,
			Group:  GroupChrome,
			Rect:   r,
			Runs:   []rendermodel.Run{{Text: it.Text, Color: it.Color}},
			FontPx: it.Size * k,
			Align:  rendermodel.AlignLeft,
			TextX:  r.X,
			Color:  it.Color,
		})
	}
}

// placeholderSize is the design font size of the "no template" message.
const placeholderSize = 40.0

func (p *painter) placeholder(m *rendermodel.Model) {
	k := p.frame.ChromeScale()
	h := placeholderSize * k * 1.2
	box := geometry.Rect{Y: (p.frame.Height - h) / 2, W: p.frame.Width, H: h}
	p.add(Layer{
		Kind:   LayerText,
		Rect:   box,
		Runs:   []rendermodel.Run{{Text: m.Message, Color: m.TextColor}},
		FontPx: placeholderSize * k,
		Align:  rendermodel.AlignCenter,
		Color:  m.TextColor,
	})
}

func scaleLayer(l Layer, k float64) Layer {
	l.Rect = l.Rect.Scale(k)
	l.Radius *= k
	l.Border *= k
	l.Blur *= k
	l.Width *= k
	l.FontPx *= k
	l.TextX *= k
	if l.Clip != nil {
		clip := make(multiimage.Polygon, len(l.Clip))
		for i, pt := range l.Clip {
			clip[i] = multiimage.Point{X: pt.X * k, Y: pt.Y * k}
		}
		l.Clip = clip
	}
	if l.Path != nil {
		path := make(multiimage.Path, len(l.Path))
		for i, c := range l.Path {
			pts := make([]multiimage.Point, len(c.Pts))
			for j, pt := range c.Pts {
				pts[j] = multiimage.Point{X: pt.X * k, Y: pt.Y * k}
			}
			path[i] = multiimage.Cmd{Op: c.Op, Pts: pts}
		}
		l.Path = path
	}
	return l
}
