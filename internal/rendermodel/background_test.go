// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseBackground(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		kind   BackgroundKind
		images int
		color  string
	}{
		{"empty", ``, KindColor, 0, ""},
		{"null", `null`, KindColor, 0, ""},
		{"colour mode", `{"mode":"color","color":"#123456"}`, KindColor, 0, "#123456"},
		{"colour mode ignores images", `{"mode":"color","image_url":"https://a"}`, KindColor, 0, ""},
		{"legacy single url", `{"mode":"image","image_url":"https://a"}`, KindSingle, 1, ""},
		{"image object", `{"mode":"image","image":{"url":"https://a"}}`, KindSingle, 1, ""},
		{"image list", `{"mode":"image","images":[{"url":"https://a"},{"path":"u/1.jpg","url":"x"}]}`, KindMulti, 2, ""},
		{"legacy flat list", `{"mode":"image","image_urls":["https://a"," ","https://b","https://c"]}`, KindMulti, 3, ""},
		{"bare array", `["https://a","https://b"]`, KindMulti, 2, ""},
		{"too many images", `["1","2","3","4","5"]`, KindMulti, MaxImages, ""},
		{"image mode without images", `{"mode":"image","color":"#fff"}`, KindColor, 0, "#fff"},
		{"tagged", `{"kind":"single","images":[{"url":"https://a"}]}`, KindSingle, 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg, err := ParseBackground([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseBackground: %v", err)
			}
			if bg.Kind != tt.kind || len(bg.Images) != tt.images || bg.Color != tt.color {
				t.Errorf("got kind=%s images=%d color=%q", bg.Kind, len(bg.Images), bg.Color)
			}
		})
	}

	if _, err := ParseBackground([]byte(`{"mode":`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestBackground_CanonicalRoundTrip(t *testing.T) {
	bg, err := ParseBackground([]byte(`{"mode":"image","image_urls":["https://a","https://b"]}`))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(bg)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseBackground(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(bg, again) {
		t.Errorf("canonical form changed on reparse:\n%+v\n%+v", bg, again)
	}
}

func TestBackground_Variants(t *testing.T) {
	bg := Background{
		Kind: KindMulti,
		Images: []ImageRef{
			{URL: "a0", Alternates: []ImageRef{{URL: "a1"}, {URL: "a2"}}},
			{URL: "b0", Alternates: []ImageRef{{URL: "b1"}}},
		},
	}
	if n := bg.VariantCount(); n != 3 {
		t.Fatalf("VariantCount = %d", n)
	}
	urls := func(b Background) []string {
		var out []string
		for _, i := range b.Images {
			out = append(out, i.URL)
		}
		return out
	}
	want := [][]string{{"a0", "b0"}, {"a1", "b1"}, {"a2", "b0"}}
	for v, w := range want {
		if got := urls(bg.Variant(v)); !reflect.DeepEqual(got, w) {
			t.Errorf("variant %d = %v, want %v", v, got, w)
		}
	}
}

func TestBackground_RewriteDropsFailures(t *testing.T) {
	bg := Background{
		Kind: KindMulti,
		Images: []ImageRef{
			{Path: "u/1.jpg", Alternates: []ImageRef{{Path: "u/bad.jpg"}}},
			{URL: "https://gone"},
		},
		Secondary: &ImageRef{Path: "u/face.jpg"},
	}
	out := bg.Rewrite(func(r ImageRef) ImageRef {
		switch {
		case r.Path == "u/bad.jpg", r.URL == "https://gone":
			r.URL = ""
		case r.Path != "":
			r.URL = "signed:" + r.Path
		}
		return r
	})
	if out.Kind != KindSingle || len(out.Images) != 1 || out.Images[0].URL != "signed:u/1.jpg" {
		t.Fatalf("images = %+v", out.Images)
	}
	if len(out.Images[0].Alternates) != 0 {
		t.Errorf("failed alternate kept: %+v", out.Images[0].Alternates)
	}
	if out.Secondary == nil || out.Secondary.URL != "signed:u/face.jpg" {
		t.Errorf("secondary = %+v", out.Secondary)
	}
}

func TestBackground_Credits(t *testing.T) {
	c := &Credit{Source: "unsplash", ID: "abc"}
	bg := Background{
		Kind:      KindSingle,
		Images:    []ImageRef{{URL: "a", Credit: c, Alternates: []ImageRef{{URL: "b", Credit: &Credit{Source: "pexels", ID: "1"}}}}},
		Secondary: &ImageRef{URL: "s"},
	}
	if got := bg.Credits(); len(got) != 2 || got[0] != *c {
		t.Errorf("credits = %+v", got)
	}
}
