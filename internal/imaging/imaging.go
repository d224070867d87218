// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging fetches and normalises background images. External
// images are decoded, auto-rotated from EXIF, shrunk to a maximum edge and
// re-encoded as JPEG so the headless browser only ever loads small,
// same-origin, decodable files.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Profile describes one normalisation target.
type Profile struct {
	Name    string // e.g., "materialized"
	MaxEdge int    // Longest edge in pixels
	Quality int    // JPEG quality 1-100
}

// Materialized is the profile for external images re-hosted before export.
// 2160 covers the 9:16 frame height with room for cover-scaling.
var Materialized = Profile{Name: "materialized", MaxEdge: 2160, Quality: 85}

// ProcessedImage holds one normalised image ready for upload.
type ProcessedImage struct {
	Width       int
	Height      int
	Data        []byte
	ContentType string // Always "image/jpeg"
}

// Decode decodes any supported format and applies EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	return img, nil
}

// Normalize decodes the original, fits it inside MaxEdge without
// upscaling and re-encodes it as JPEG.
func Normalize(original []byte, p Profile) (*ProcessedImage, error) {
	img, err := Decode(original)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if p.MaxEdge > 0 && (b.Dx() > p.MaxEdge || b.Dy() > p.MaxEdge) {
		img = imaging.Fit(img, p.MaxEdge, p.MaxEdge, imaging.Lanczos)
	}

	quality := p.Quality
	if quality <= 0 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("imaging: encode %s: %w", p.Name, err)
	}

	out := img.Bounds()
	return &ProcessedImage{
		Width:       out.Dx(),
		Height:      out.Dy(),
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}

// ErrNotImage is returned when a URL does not serve an image.
var ErrNotImage = errors.New("imaging: response is not an image")

// Fetcher downloads images over HTTP with a size cap.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewFetcher creates a fetcher. maxBytes <= 0 means 20 MB.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads url and returns its body.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("imaging: build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imaging: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imaging: fetch %s: status %d", url, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") && ct != "application/octet-stream" {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imaging: read %s: %w", url, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("imaging: %s exceeds %d bytes", url, f.maxBytes)
	}
	return data, nil
}

// Loader fetches and decodes images for the preview rasteriser and keeps
// a bounded in-memory cache of decoded images by URL.
type Loader struct {
	fetch *Fetcher
	max   int

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLoader creates a loader that keeps at most max decoded images.
func NewLoader(f *Fetcher, max int) *Loader {
	if max <= 0 {
		max = 64
	}
	return &Loader{fetch: f, max: max, cache: make(map[string]image.Image)}
}

// Image returns the decoded image at url.
func (l *Loader) Image(ctx context.Context, url string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[url]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	data, err := l.fetch.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err = Decode(data)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if len(l.cache) >= l.max {
		clear(l.cache)
	}
	l.cache[url] = img
	l.mu.Unlock()
	return img, nil
}
