// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package rendermodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"slidecraft/internal/multiimage"
)

// BackgroundKind tags the Background variant.
type BackgroundKind string

const (
	KindColor  BackgroundKind = "color"
	KindSingle BackgroundKind = "single"
	KindMulti  BackgroundKind = "multi"
)

// MaxImages is the most images a multi-image background holds.
const MaxImages = 4

// Credit is the attribution a stock photo provider requires.
type Credit struct {
	Source    string `json:"source"`
	ID        string `json:"id"`
	Author    string `json:"author,omitempty"`
	AuthorURL string `json:"author_url,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// ImageRef points at one background image. Path is a key in the storage
// bucket and is signed before rendering; URL is either a signed URL or an
// external link. Alternates is the shuffle pool used for video
// background variants.
type ImageRef struct {
	URL        string     `json:"url,omitempty"`
	Path       string     `json:"path,omitempty"`
	Credit     *Credit    `json:"credit,omitempty"`
	Alternates []ImageRef `json:"alternates,omitempty"`
}

// Stored reports whether the image lives in our bucket.
func (r ImageRef) Stored() bool { return r.Path != "" }

// OverlayOverride is the slide's own gradient settings.
type OverlayOverride struct {
	GradientOn *bool      `json:"gradient_on,omitempty"`
	Direction  *Direction `json:"direction,omitempty"`
	Strength   *float64   `json:"strength,omitempty"`
	Extent     *float64   `json:"extent,omitempty"`
	SolidSize  *float64   `json:"solid_size,omitempty"`
	Color      *string    `json:"color,omitempty"`
}

// Background is the canonical slide background: exactly one of a colour,
// a single image or a multi-image composition.
type Background struct {
	Kind      BackgroundKind     `json:"kind"`
	Color     string             `json:"color,omitempty"`
	Images    []ImageRef         `json:"images,omitempty"`
	Secondary *ImageRef          `json:"secondary,omitempty"`
	InsetAt   *multiimage.Point  `json:"inset_at,omitempty"`
	InsetSize float64            `json:"inset_size,omitempty"`
	Display   multiimage.Options `json:"display"`
	Overlay   OverlayOverride    `json:"overlay"`
}

// rawBackground accepts every stored shape: the tagged form, the older
// "mode" form with either an image object, an image list or a flat list
// of URLs, and a bare JSON array of URLs.
type rawBackground struct {
	Kind      BackgroundKind     `json:"kind"`
	Mode      string             `json:"mode"`
	Color     string             `json:"color"`
	Image     *ImageRef          `json:"image"`
	ImageURL  string             `json:"image_url"`
	Images    []ImageRef         `json:"images"`
	ImageURLs []string           `json:"image_urls"`
	Secondary *ImageRef          `json:"secondary"`
	InsetAt   *multiimage.Point  `json:"inset_at"`
	InsetSize float64            `json:"inset_size"`
	Display   multiimage.Options `json:"display"`
	Overlay   OverlayOverride    `json:"overlay"`
}

// ParseBackground normalises a stored background. Empty input is a colour
// background with no colour, which later falls back to the template.
func ParseBackground(raw []byte) (Background, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return Background{Kind: KindColor}, nil
	}

	if raw[0] == '[' {
		var urls []string
		if err := json.Unmarshal(raw, &urls); err != nil {
			return Background{}, fmt.Errorf("decode background list: %w", err)
		}
		return fromImages(Background{}, refsFromURLs(urls)), nil
	}

	var rb rawBackground
	if err := json.Unmarshal(raw, &rb); err != nil {
		return Background{}, fmt.Errorf("decode background: %w", err)
	}

	bg := Background{
		Color:     rb.Color,
		Secondary: rb.Secondary,
		InsetAt:   rb.InsetAt,
		InsetSize: rb.InsetSize,
		Display:   rb.Display,
		Overlay:   rb.Overlay,
	}

	var images []ImageRef
	switch {
	case len(rb.Images) > 0:
		images = rb.Images
	case len(rb.ImageURLs) > 0:
		images = refsFromURLs(rb.ImageURLs)
	case rb.Image != nil:
		images = []ImageRef{*rb.Image}
	case rb.ImageURL != "":
		images = []ImageRef{{URL: rb.ImageURL}}
	}

	kind := rb.Kind
	if kind == "" {
		switch strings.ToLower(rb.Mode) {
		case "color", "colour", "solid":
			kind = KindColor
		default:
			if len(images) > 0 {
				kind = KindSingle
			} else {
				kind = KindColor
			}
		}
	}
	if kind == KindColor {
		bg.Kind = KindColor
		bg.Secondary = nil
		return bg, nil
	}
	if len(images) == 0 {
		bg.Kind = KindColor
		return bg, nil
	}
	return fromImages(bg, images), nil
}

func refsFromURLs(urls []string) []ImageRef {
	out := make([]ImageRef, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, ImageRef{URL: u})
		}
	}
	return out
}

func fromImages(bg Background, images []ImageRef) Background {
	if len(images) > MaxImages {
		images = images[:MaxImages]
	}
	bg.Images = images
	switch len(images) {
	case 0:
		bg.Kind = KindColor
	case 1:
		bg.Kind = KindSingle
	default:
		bg.Kind = KindMulti
	}
	return bg
}

// Refs returns every image the background can show, including the
// secondary inset and all alternates.
func (b Background) Refs() []ImageRef {
	var out []ImageRef
	for _, img := range b.Images {
		out = append(out, img)
		out = append(out, img.Alternates...)
	}
	if b.Secondary != nil {
		out = append(out, *b.Secondary)
	}
	return out
}

// Credits returns the credits of every image the background can show.
func (b Background) Credits() []Credit {
	var out []Credit
	for _, r := range b.Refs() {
		if r.Credit != nil {
			out = append(out, *r.Credit)
		}
	}
	return out
}

// VariantCount is 1 plus the longest alternate pool of any slot.
func (b Background) VariantCount() int {
	n := 1
	for _, img := range b.Images {
		if len(img.Alternates)+1 > n {
			n = len(img.Alternates) + 1
		}
	}
	return n
}

// Variant returns the background with every slot swapped to its v-th
// alternate. Variant 0 is the primary selection; slots whose pool is
// shorter keep their primary image.
func (b Background) Variant(v int) Background {
	if v <= 0 {
		return b
	}
	out := b
	out.Images = make([]ImageRef, len(b.Images))
	for i, img := range b.Images {
		if v-1 < len(img.Alternates) {
			out.Images[i] = img.Alternates[v-1]
		} else {
			out.Images[i] = img
		}
	}
	return out
}

// Rewrite returns a copy with every image reference passed through fn.
// Refs fn returns with an empty URL are dropped.
func (b Background) Rewrite(fn func(ImageRef) ImageRef) Background {
	out := b
	var images []ImageRef
	for _, img := range b.Images {
		alts := img.Alternates
		r := fn(img)
		var keep []ImageRef
		for _, a := range alts {
			if ra := fn(a); ra.URL != "" {
				ra.Alternates = nil
				keep = append(keep, ra)
			}
		}
		r.Alternates = keep
		if r.URL != "" {
			images = append(images, r)
		}
	}
	out = fromImages(out, images)
	if b.Kind == KindColor {
		out.Kind = KindColor
		out.Images = nil
	}
	if b.Secondary != nil {
		if r := fn(*b.Secondary); r.URL != "" {
			out.Secondary = &r
		} else {
			out.Secondary = nil
		}
	}
	return out
}
