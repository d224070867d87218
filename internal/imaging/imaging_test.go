// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxEdge int
		wantW   int
		wantH   int
	}{
		{"shrinks landscape", 400, 200, 100, 100, 50},
		{"shrinks portrait", 100, 300, 150, 50, 150},
		{"never upscales", 60, 40, 100, 60, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(pngBytes(t, tt.w, tt.h), Profile{Name: "test", MaxEdge: tt.maxEdge, Quality: 80})
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if out.Width != tt.wantW || out.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", out.Width, out.Height, tt.wantW, tt.wantH)
			}
			if out.ContentType != "image/jpeg" || !bytes.HasPrefix(out.Data, []byte{0xFF, 0xD8}) {
				t.Errorf("output is not a JPEG (%s)", out.ContentType)
			}
		})
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("not an image"), Materialized); err == nil {
		t.Error("expected decode error")
	}
}

func TestFetcher(t *testing.T) {
	img := pngBytes(t, 8, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(img)
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		case "/big":
			w.Header().Set("Content-Type", "image/png")
			w.Write(make([]byte, 2048))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 1024)
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL+"/ok.png")
	if err != nil || !bytes.Equal(data, img) {
		t.Fatalf("Fetch ok: %v", err)
	}
	if _, err := f.Fetch(ctx, srv.URL+"/page"); !errors.Is(err, ErrNotImage) {
		t.Errorf("html page: err = %v, want ErrNotImage", err)
	}
	if _, err := f.Fetch(ctx, srv.URL+"/big"); err == nil {
		t.Error("oversized body accepted")
	}
	if _, err := f.Fetch(ctx, srv.URL+"/missing"); err == nil {
		t.Error("404 accepted")
	}
}

func TestLoaderCaches(t *testing.T) {
	var hits atomic.Int32
	img := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.Write(img)
	}))
	defer srv.Close()

	l := NewLoader(NewFetcher(5*time.Second, 0), 4)
	for i := 0; i < 3; i++ {
		got, err := l.Image(context.Background(), srv.URL+"/a.png")
		if err != nil {
			t.Fatalf("Image: %v", err)
		}
		if got.Bounds().Dx() != 4 {
			t.Errorf("width = %d", got.Bounds().Dx())
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}
