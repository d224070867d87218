// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package document generates the standalone HTML page a headless browser
// screenshots for export. A document is sized exactly to the export frame,
// embeds its fonts, inlines every style and escapes every text value. It
// is drawn from the same scene as the interactive preview, so geometry is
// shared rather than re-derived.
package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"slidecraft/internal/contrast"
	"slidecraft/internal/geometry"
	"slidecraft/internal/multiimage"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/scene"
)

// Mode selects which layers a document contains.
type Mode string

const (
	// ModeFull is background, gradient, text and chrome.
	ModeFull Mode = "full"
	// ModeOverlay keeps gradient, text and chrome over a transparent page.
	ModeOverlay Mode = "overlay"
	// ModeBackground is the background alone.
	ModeBackground Mode = "background"
)

// ParseMode accepts "full", "overlay" or "background"; empty means full.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "", ModeFull:
		return ModeFull, true
	case ModeOverlay, ModeBackground:
		return Mode(s), true
	}
	return "", false
}

func (m Mode) roles() []scene.Role {
	switch m {
	case ModeOverlay:
		return []scene.Role{scene.RoleOverlay, scene.RoleText, scene.RoleChrome}
	case ModeBackground:
		return []scene.Role{scene.RoleBackground}
	default:
		return []scene.Role{scene.RoleBackground, scene.RoleOverlay, scene.RoleText, scene.RoleChrome}
	}
}

// Transparent reports whether the page background must stay transparent.
func (m Mode) Transparent() bool { return m == ModeOverlay }

// element is one positioned node handed to the page template.
type element struct {
	Kind  string // "box", "image", "stroke" or "text"
	Style template.CSS

	Src       string
	ImgStyle  template.CSS
	Ring      bool
	RingStyle template.CSS

	D           string
	Stroke      string
	StrokeWidth string
	Dash        string

	Spans []span
}

type span struct {
	Style template.CSS
	Text  string
}

type page struct {
	Width, Height int
	Background    template.CSS
	Fonts         template.CSS
	Elements      []element
}

// Generator renders documents. It is safe for concurrent use.
type Generator struct {
	tmpl  *template.Template
	fonts template.CSS
}

// New parses the page template and encodes the embedded fonts once.
func New() (*Generator, error) {
	tmpl, err := template.New("slide").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("document: parse template: %w", err)
	}
	return &Generator{tmpl: tmpl, fonts: fontFaces()}, nil
}

// fontFaces registers the embedded fonts under rendermodel.FontFamily.
func fontFaces() template.CSS {
	face := func(ttf []byte, weight string) string {
		return `@font-face{font-family:"` + rendermodel.FontFamily + `";font-weight:` + weight +
			`;src:url(data:font/ttf;base64,` + base64.StdEncoding.EncodeToString(ttf) + `) format("truetype")}`
	}
	return template.CSS(face(rendermodel.RegularTTF, "400") + "\n" + face(rendermodel.BoldTTF, "700") +
		"\n.t{white-space:pre;font-family:\"" + rendermodel.FontFamily + "\"}")
}

// Plan returns the layers a document for m on frame f is built from, in
// frame pixels. Callers compare it with the preview scene to check that
// both surfaces resolve identical rectangles.
func Plan(m *rendermodel.Model, f geometry.Frame) *scene.Tree {
	return scene.Paint(m, f, f.Width, f.Height)
}

// Generate produces the document for m on frame f in the given mode.
func (g *Generator) Generate(m *rendermodel.Model, f geometry.Frame, mode Mode) ([]byte, error) {
	sc := Plan(m, f)
	w, h := f.Pixels()

	p := page{
		Width:      w,
		Height:     h,
		Fonts:      g.fonts,
		Background: "transparent",
	}
	if !mode.Transparent() {
		p.Background = template.CSS(color(m.Background.Color))
	}
	for _, l := range sc.Only(mode.roles()...) {
		if el, ok := toElement(l); ok {
			p.Elements = append(p.Elements, el)
		}
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("document: render: %w", err)
	}
	return buf.Bytes(), nil
}

func toElement(l scene.Layer) (element, bool) {
	box := position(l.Rect)
	switch l.Kind {
	case scene.LayerFill:
		return element{Kind: "box", Style: css(box, "background:"+color(l.Color))}, true

	case scene.LayerGradient:
		return element{Kind: "box", Style: css(box, "background:"+gradient(l))}, true

	case scene.LayerImage:
		if l.Image == "" {
			return element{}, false
		}
		outer := []string{box, "overflow:hidden"}
		switch {
		case len(l.Clip) > 2:
			outer = append(outer, "clip-path:"+clipPath(l))
		case l.Shape == multiimage.ShapeCircle:
			outer = append(outer, "border-radius:50%")
		case l.Shape == multiimage.ShapeRounded && l.Radius > 0:
			outer = append(outer, "border-radius:"+px(l.Radius))
		}
		fit := "cover"
		if l.Fit == scene.FitContain {
			fit = "contain"
		}
		img := []string{"display:block", "width:100%", "height:100%", "object-fit:" + fit}
		if l.Blur > 0 {
			img = append(img, "filter:blur("+px(l.Blur/2)+")")
		}
		el := element{Kind: "image", Style: css(outer...), Src: l.Image, ImgStyle: css(img...)}
		if l.Border > 0 {
			radius := "0"
			if l.Shape == multiimage.ShapeCircle {
				radius = "50%"
			}
			el.Ring = true
			el.RingStyle = css(box, "border-radius:"+radius, "box-shadow:inset 0 0 0 "+px(l.Border)+" "+color(l.BorderColor))
		}
		return el, true

	case scene.LayerStroke:
		el := element{
			Kind:        "stroke",
			D:           l.Path.SVG(),
			Stroke:      color(l.Color),
			StrokeWidth: num(l.Width),
		}
		if l.Dashed {
			el.Dash = num(l.Width*3) + " " + num(l.Width*2)
		}
		return el, true

	case scene.LayerText:
		style := []string{
			"top:" + px(l.Rect.Y),
			"height:" + px(l.Rect.H),
			"line-height:" + px(l.Rect.H),
			"font-size:" + px(l.FontPx),
			"color:" + color(l.Color),
		}
		if l.Align == rendermodel.AlignCenter {
			style = append(style, "left:"+px(l.Rect.X), "width:"+px(l.Rect.W), "text-align:center")
		} else {
			style = append(style, "left:"+px(l.TextX))
		}
		el := element{Kind: "text", Style: css(style...)}
		for _, r := range l.Runs {
			s := []string{"font-weight:" + weight(r.Bold)}
			if r.Color != "" {
				s = append(s, "color:"+color(r.Color))
			}
			if r.Background != "" {
				s = append(s, "background:"+color(r.Background))
			}
			el.Spans = append(el.Spans, span{Style: css(s...), Text: r.Text})
		}
		return el, true
	}
	return element{}, false
}

func position(r geometry.Rect) string {
	return "left:" + px(r.X) + ";top:" + px(r.Y) + ";width:" + px(r.W) + ";height:" + px(r.H)
}

func gradient(l scene.Layer) string {
	var b strings.Builder
	dir := l.Direction
	if dir == "" {
		dir = rendermodel.DirectionBottom
	}
	b.WriteString("linear-gradient(to " + string(dir))
	for _, s := range l.Stops {
		b.WriteString(", " + contrast.WithAlpha(s.Color, s.Alpha) + " " + num(s.Offset*100) + "%")
	}
	b.WriteString(")")
	return b.String()
}

// clipPath converts an absolute clip polygon into one relative to the
// layer's own box.
func clipPath(l scene.Layer) string {
	parts := make([]string, len(l.Clip))
	for i, pt := range l.Clip {
		parts[i] = px(pt.X-l.Rect.X) + " " + px(pt.Y-l.Rect.Y)
	}
	return "polygon(" + strings.Join(parts, ", ") + ")"
}

func weight(bold bool) string {
	if bold {
		return "700"
	}
	return "400"
}

// color returns a normalised hex colour; anything unparseable becomes
// black, so no caller-controlled text reaches a style attribute.
func color(s string) string {
	c, ok := contrast.ParseHex(s)
	if !ok {
		return contrast.Black
	}
	return c.Hex()
}

func css(decls ...string) template.CSS {
	return template.CSS(strings.Join(decls, ";"))
}

func px(v float64) string { return num(v) + "px" }

// num rounds to thousandths so documents are byte-stable across runs.
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // normalise -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
