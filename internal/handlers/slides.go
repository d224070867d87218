// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slidecraft/internal/cache"
	"slidecraft/internal/deck"
	"slidecraft/internal/document"
	"slidecraft/internal/export"
	"slidecraft/internal/geometry"
	"slidecraft/internal/preview"
	"slidecraft/internal/rendermodel"
	"slidecraft/internal/scene"
	"slidecraft/internal/slug"
	"slidecraft/internal/storage"
)

// DeckLoader loads a carousel owned by the caller.
type DeckLoader interface {
	Load(owner, carouselID uuid.UUID) (*deck.Deck, error)
}

// DocumentStore is the shared (L2) document cache.
type DocumentStore interface {
	Get(ctx context.Context, carousel, key string) ([]byte, bool)
	Set(ctx context.Context, carousel, key string, doc []byte)
	InvalidateCarousel(ctx context.Context, carousel string)
}

// Slides groups the per-slide render endpoints: the static document and
// the raster thumbnail. Documents are served from the in-process cache,
// then the shared Valkey cache, and rendered on a miss.
type Slides struct {
	decks   DeckLoader
	signer  deck.Signer
	signTTL time.Duration
	builder *rendermodel.Builder
	docs    *document.Generator
	local   *document.Cache
	shared  DocumentStore
	raster  *preview.Rasterizer
}

// NewSlides creates a new Slides handler group. signer and shared may be
// nil when object storage or Valkey are not configured.
func NewSlides(decks DeckLoader, signer deck.Signer, signTTL time.Duration, builder *rendermodel.Builder, docs *document.Generator, local *document.Cache, shared DocumentStore, raster *preview.Rasterizer) *Slides {
	return &Slides{
		decks:   decks,
		signer:  signer,
		signTTL: signTTL,
		builder: builder,
		docs:    docs,
		local:   local,
		shared:  shared,
		raster:  raster,
	}
}

// slideRequest is a resolved /slides/{index} request.
type slideRequest struct {
	deck  *deck.Deck
	index int // 0-based
	frame geometry.Frame
	ratio geometry.Ratio
}

// load resolves the carousel, slide index and ratio shared by the slide
// endpoints, writing the error response itself when it fails.
func (h *Slides) load(w http.ResponseWriter, r *http.Request) (*slideRequest, bool) {
	owner, ok := requestOwner(w, r)
	if !ok {
		return nil, false
	}
	carouselID, ok := carouselParam(w, r)
	if !ok {
		return nil, false
	}

	n, msg := parseSlideIndex(chi.URLParam(r, "index"))
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return nil, false
	}

	d, err := h.decks.Load(owner, carouselID)
	if err != nil {
		writeFailure(w, r, err)
		return nil, false
	}
	if n > len(d.Slides) {
		writeError(w, http.StatusNotFound, "slide not found")
		return nil, false
	}
	if err := d.Slides[n-1].Err; err != nil && !errors.Is(err, deck.ErrNoTemplate) {
		writeFailure(w, r, fmt.Errorf("%w: %w", export.ErrInvalidConfig, err))
		return nil, false
	}

	ratio, msg := parseRatio(r.URL.Query().Get("ratio"), d.Ratio())
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return nil, false
	}

	return &slideRequest{deck: d, index: n - 1, frame: geometry.FrameFor(ratio), ratio: ratio}, true
}

// model signs the deck's images and builds the slide's render model.
func (h *Slides) model(ctx context.Context, req *slideRequest) *rendermodel.Model {
	req.deck.ResolveImages(ctx, h.signer, h.signTTL)
	s := req.deck.Slides[req.index]
	return h.builder.Build(req.deck.Input(req.index, req.frame, s.Content.Background))
}

// Document serves the self-contained HTML document of one slide. A slide
// without a usable template renders the placeholder.
func (h *Slides) Document(w http.ResponseWriter, r *http.Request) {
	mode, ok := document.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "mode must be full, overlay or background")
		return
	}
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	carousel := req.deck.Carousel.ID.String()
	key := documentKey(req, mode)
	filename := slug.Filename(req.deck.Carousel.Title+" "+storage.Seq(req.index+1), "html")

	if doc := h.local.Get(carousel, key); doc != nil {
		writeDocument(w, doc, filename, "hit-local")
		return
	}
	if h.shared != nil {
		if doc, ok := h.shared.Get(ctx, carousel, key); ok {
			h.local.Put(carousel, key, doc)
			writeDocument(w, doc, filename, "hit")
			return
		}
	}

	doc, err := h.docs.Generate(h.model(ctx, req), req.frame, mode)
	if err != nil {
		writeFailure(w, r, fmt.Errorf("generate document: %w", err))
		return
	}
	h.local.Put(carousel, key, doc)
	if h.shared != nil {
		h.shared.Set(ctx, carousel, key, doc)
	}
	writeDocument(w, doc, filename, "miss")
}

func writeDocument(w http.ResponseWriter, doc []byte, filename, cacheStatus string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Cache", cacheStatus)
	w.Write(doc)
}

// PreviewPNG rasterizes a slide thumbnail at the requested width.
func (h *Slides) PreviewPNG(w http.ResponseWriter, r *http.Request) {
	width, msg := parsePreviewWidth(r.URL.Query().Get("width"))
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	req, ok := h.load(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	dw := float64(width)
	dh := dw * req.frame.Height / req.frame.Width
	tree := scene.Paint(h.model(ctx, req), req.frame, dw, dh)

	var buf bytes.Buffer
	if err := preview.EncodePNG(&buf, h.raster.Rasterize(ctx, tree)); err != nil {
		writeFailure(w, r, fmt.Errorf("encode preview: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// Invalidate drops the cached documents of a carousel. The editor calls
// it after saving so the memory is freed before the entries expire.
func (h *Slides) Invalidate(w http.ResponseWriter, r *http.Request) {
	owner, ok := requestOwner(w, r)
	if !ok {
		return
	}
	carouselID, ok := carouselParam(w, r)
	if !ok {
		return
	}
	if _, err := h.decks.Load(owner, carouselID); err != nil {
		writeFailure(w, r, err)
		return
	}

	carousel := carouselID.String()
	h.local.Invalidate(carousel)
	if h.shared != nil {
		h.shared.InvalidateCarousel(r.Context(), carousel)
	}
	slog.Info("document cache invalidated", "carousel_id", carousel, "owner", owner)
	w.WriteHeader(http.StatusNoContent)
}

// documentKey fingerprints everything a document depends on. It is taken
// before images are signed so that signed URLs do not change the key.
func documentKey(req *slideRequest, mode document.Mode) string {
	d := req.deck
	s := d.Slides[req.index]
	content, _ := json.Marshal(s.Content)
	brand, _ := json.Marshal(d.Brand)
	attribution, _ := json.Marshal(d.Attribution)
	var logo string
	if d.BrandRow != nil {
		logo = d.BrandRow.LogoPath
	}
	return cache.Key(
		[]byte(s.TemplateKey),
		content,
		brand,
		[]byte(logo),
		attribution,
		[]byte(req.ratio),
		[]byte(mode),
		[]byte(strconv.Itoa(req.index+1)),
		[]byte(strconv.Itoa(len(d.Slides))),
	)
}
