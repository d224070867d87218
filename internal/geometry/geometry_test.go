// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in   string
		want Ratio
		ok   bool
	}{
		{"", RatioSquare, true},
		{"1:1", RatioSquare, true},
		{"4:5", RatioPortrait, true},
		{"9:16", RatioStory, true},
		{"16:9", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRatio(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRatio(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFrameFor(t *testing.T) {
	tests := []struct {
		r    Ratio
		w, h int
	}{
		{RatioSquare, 1080, 1080},
		{RatioPortrait, 1080, 1350},
		{RatioStory, 1080, 1920},
	}
	for _, tt := range tests {
		w, h := FrameFor(tt.r).Pixels()
		if w != tt.w || h != tt.h {
			t.Errorf("FrameFor(%s) = %dx%d, want %dx%d", tt.r, w, h, tt.w, tt.h)
		}
	}
}

func TestCoverTransform(t *testing.T) {
	f := FrameFor(RatioStory)
	s := f.CoverScale()
	if !near(s, 1920.0/1080) {
		t.Fatalf("CoverScale = %v", s)
	}
	cx, cy := f.Crop()
	if !near(cy, 0) || !near(cx, (1920-1080)/2.0) {
		t.Errorf("Crop = %v, %v", cx, cy)
	}

	// The square design fully covers the frame.
	full := f.DesignToFrame(Rect{W: DesignSize, H: DesignSize})
	if full.X > 0 || full.Y > 0 || full.Right() < f.Width || full.Bottom() < f.Height {
		t.Errorf("design does not cover frame: %+v", full)
	}

	sq := FrameFor(RatioSquare)
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	if got := sq.DesignToFrame(r); got != r {
		t.Errorf("square DesignToFrame = %+v, want identity", got)
	}
}

func TestTextRect_StaysInsideVisibleBand(t *testing.T) {
	f := FrameFor(RatioStory)
	got := f.TextRect(Rect{X: 100, Y: 700, W: 300, H: 200})
	if !near(got.X, 100) || !near(got.W, 300) {
		t.Errorf("TextRect x/w = %v/%v, want 100/300", got.X, got.W)
	}
	if !near(got.Y, 700*1920.0/1080) || !near(got.H, 200*1920.0/1080) {
		t.Errorf("TextRect y/h = %v/%v", got.Y, got.H)
	}

	// Every zone that fits the design fits the frame horizontally.
	for _, ratio := range []Ratio{RatioSquare, RatioPortrait, RatioStory} {
		f := FrameFor(ratio)
		r := f.TextRect(Rect{X: 0, Y: 0, W: DesignSize, H: 10})
		if r.X < -eps || r.Right() > f.Width+eps {
			t.Errorf("%s: full-width zone %+v leaves the frame", ratio, r)
		}
	}
}

func TestTextScaleKeepsProportions(t *testing.T) {
	for _, ratio := range []Ratio{RatioSquare, RatioPortrait, RatioStory} {
		f := FrameFor(ratio)
		ts := f.TextScale()
		// A font resolved at size*ts renders at size*Width/1080 px,
		// the same factor the zone width got.
		if got, want := f.FontPx(50*ts), 50*f.Width/DesignSize; !near(got, want) {
			t.Errorf("%s: FontPx = %v, want %v", ratio, got, want)
		}
		x0, x1 := f.VisibleBand()
		if !near((x1-x0)*f.CoverScale(), f.Width) {
			t.Errorf("%s: band %v..%v does not span the frame", ratio, x0, x1)
		}
	}
	if ts := FrameFor(RatioSquare).TextScale(); !near(ts, 1) {
		t.Errorf("square TextScale = %v", ts)
	}
}

func TestChromeRect(t *testing.T) {
	f := FrameFor(RatioPortrait)
	k := 1350.0 / 1080

	tests := []struct {
		a    Anchor
		x, y float64
	}{
		{TopLeft, 40 * k, 30 * k},
		{TopRight, 1080 - 40*k - 100*k, 30 * k},
		{BottomLeft, 40 * k, 1350 - 30*k - 20*k},
		{BottomCenter, (1080-100*k)/2 + 40*k, 1350 - 30*k - 20*k},
	}
	for _, tt := range tests {
		r := f.ChromeRect(tt.a, 40, 30, 100, 20)
		if !near(r.X, tt.x) || !near(r.Y, tt.y) {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tt.a, r.X, r.Y, tt.x, tt.y)
		}
		if !near(r.W, 100*k) || !near(r.H, 20*k) {
			t.Errorf("%s: size %vx%v", tt.a, r.W, r.H)
		}
	}
}

func TestFit(t *testing.T) {
	f := FrameFor(RatioStory)
	if got := f.Fit(540, 540); !near(got, 540.0/1920) {
		t.Errorf("Fit = %v", got)
	}
	if got := (Frame{}).Fit(100, 100); got != 1 {
		t.Errorf("zero frame Fit = %v", got)
	}
}
