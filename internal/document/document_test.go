// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"slidecraft/internal/geometry"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/scene"
)

func testModel(headline string) *rendermodel.Model {
	return &rendermodel.Model{
		TextColor: "#ffffff",
		Background: rendermodel.BackgroundModel{
			Color:  "#102030",
			Images: []string{"https://cdn.example.com/a.jpg"},
			Gradient: rendermodel.Gradient{
				Active:    true,
				Direction: rendermodel.DirectionBottom,
				Strength:  0.85,
				Color:     "#000000",
				Stops:     []rendermodel.Stop{{Offset: 40, Alpha: 0}, {Offset: 100, Alpha: 1}},
			},
		},
		Blocks: []rendermodel.TextBlock{{
			Zone:       rendermodel.ZoneHeadline,
			Rect:       geometry.Rect{X: 80, Y: 600, W: 920, H: 200},
			FontSize:   60,
			LineHeight: 1.2,
			Align:      rendermodel.AlignLeft,
			Color:      "#ffffff",
			Lines: []rendermodel.Line{
				{Runs: []rendermodel.Run{{Text: headline, Color: "#ffffff"}}, Width: 400},
				{Runs: []rendermodel.Run{{Text: "second", Color: "#ffcc00", Bold: true, Background: "#222222"}}, Width: 200},
			},
		}},
		Chrome: rendermodel.Chrome{
			Counter: rendermodel.ChromeItem{
				Element: rendermodel.ChromeCounter, Visible: true, Text: "2 / 5",
				Anchor: geometry.TopRight, MarginX: 48, MarginY: 48, Size: 28, W: 70, H: 35, Color: "#ffffff",
			},
		},
	}
}

func render(t *testing.T, m *rendermodel.Model, r geometry.Ratio, mode Mode) string {
	t.Helper()
	g, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := g.Generate(m, geometry.FrameFor(r), mode)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return string(out)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"", ModeFull, true},
		{"full", ModeFull, true},
		{"overlay", ModeOverlay, true},
		{"background", ModeBackground, true},
		{"video", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGenerate_FullDocument(t *testing.T) {
	doc := render(t, testModel("Hello"), geometry.RatioStory, ModeFull)

	for _, want := range []string{
		"width:1080px;height:1920px",
		"background:#102030",
		"@font-face",
		`font-family:"` + rendermodel.FontFamily + `"`,
		`<img src="https://cdn.example.com/a.jpg"`,
		"linear-gradient(to bottom",
		">Hello</span>",
		">2 / 5</span>",
		"font-weight:700",
		"background:#222222",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc, "<script") {
		t.Error("document must not contain scripts")
	}
}

func TestGenerate_EscapesText(t *testing.T) {
	doc := render(t, testModel(`<script>alert("x")</script>`), geometry.RatioSquare, ModeFull)
	if strings.Contains(doc, "<script>") {
		t.Fatal("slide text reached the document unescaped")
	}
	if !strings.Contains(doc, "&lt;script&gt;") {
		t.Error("escaped text missing")
	}
}

func TestGenerate_SanitizesColorsAndURLs(t *testing.T) {
	m := testModel("x")
	m.Blocks[0].Lines[0].Runs[0].Color = "red;position:fixed"
	m.Background.Images = []string{"javascript:alert(1)"}
	doc := render(t, m, geometry.RatioSquare, ModeFull)

	if strings.Contains(doc, "position:fixed") {
		t.Error("invalid colour leaked into a style")
	}
	if strings.Contains(doc, "javascript:") {
		t.Error("unsafe image URL leaked into the document")
	}
}

func TestGenerate_Modes(t *testing.T) {
	m := testModel("Hello")

	overlay := render(t, m, geometry.RatioPortrait, ModeOverlay)
	if !strings.Contains(overlay, "background:transparent") {
		t.Error("overlay page must be transparent")
	}
	if strings.Contains(overlay, "<img") {
		t.Error("overlay must not contain background images")
	}
	if !strings.Contains(overlay, ">Hello</span>") || !strings.Contains(overlay, "linear-gradient") {
		t.Error("overlay must keep text and gradient")
	}

	bg := render(t, m, geometry.RatioPortrait, ModeBackground)
	if !strings.Contains(bg, "<img") {
		t.Error("background mode must contain the image")
	}
	if strings.Contains(bg, "Hello") || strings.Contains(bg, "2 / 5") || strings.Contains(bg, "linear-gradient") {
		t.Error("background mode must not contain text, chrome or gradient")
	}
}

func TestGenerate_MatchesScene(t *testing.T) {
	m := testModel("Hello")
	f := geometry.FrameFor(geometry.RatioStory)
	doc := render(t, m, geometry.RatioStory, ModeFull)

	tree := Plan(m, f)
	for _, l := range tree.Only(scene.RoleText) {
		want := "top:" + px(l.Rect.Y) + ";height:" + px(l.Rect.H)
		if !strings.Contains(doc, want) {
			t.Errorf("text line at %q not found in document", want)
		}
		if !strings.Contains(doc, "left:"+px(l.TextX)) {
			t.Errorf("text x %s not found", px(l.TextX))
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := render(t, testModel("Same"), geometry.RatioPortrait, ModeFull)
	b := render(t, testModel("Same"), geometry.RatioPortrait, ModeFull)
	if a != b {
		t.Error("identical inputs produced different documents")
	}
}

func TestGenerate_Placeholder(t *testing.T) {
	m := &rendermodel.Model{
		Placeholder: true,
		Message:     rendermodel.PlaceholderMessage,
		TextColor:   "#ffffff",
		Background:  rendermodel.BackgroundModel{Color: rendermodel.DefaultBackground},
	}
	doc := render(t, m, geometry.RatioSquare, ModeFull)
	if !strings.Contains(doc, rendermodel.PlaceholderMessage) || !strings.Contains(doc, "text-align:center") {
		t.Error("placeholder message missing or not centred")
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.0000001, "0"},
		{1.23456, "1.235"},
		{85.00000000001, "85"},
		{1080, "1080"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCache(t *testing.T) {
	c := NewCache(3, time.Minute)
	c.Put("car-1", "a", []byte("A"))
	c.Put("car-1", "b", []byte("B"))
	c.Put("car-2", "a", []byte("C"))

	if got := c.Get("car-1", "a"); !bytes.Equal(got, []byte("A")) {
		t.Errorf("Get = %q", got)
	}
	if got := c.Get("car-3", "a"); got != nil {
		t.Errorf("miss returned %q", got)
	}

	c.Invalidate("car-1")
	if c.Get("car-1", "b") != nil || c.Len() != 1 {
		t.Errorf("invalidate left %d entries", c.Len())
	}

	c.Put("car-3", "a", []byte("D"))
	c.Put("car-4", "a", []byte("E"))
	// Full at three entries: the next put clears first.
	c.Put("car-5", "a", []byte("F"))
	if c.Len() != 1 || c.Get("car-5", "a") == nil {
		t.Errorf("len = %d after overflow", c.Len())
	}
}

func TestCache_Expires(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(8, time.Minute)
	c.now = func() time.Time { return now }

	c.Put("car-1", "a", []byte("A"))
	now = now.Add(59 * time.Second)
	if c.Get("car-1", "a") == nil {
		t.Fatal("entry expired early")
	}
	now = now.Add(time.Second)
	if c.Get("car-1", "a") != nil {
		t.Error("entry served after its ttl")
	}
}
