// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory decks, caches and signers, and request builders that carry
// the chi URL parameters and the caller identity.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slidecraft/internal/deck"
	"slidecraft/internal/document"
	"slidecraft/internal/geometry"
	"slidecraft/internal/middleware"
	"slidecraft/internal/models"
	"slidecraft/internal/preview"
	"slidecraft/internal/rendermodel"
)

const testTemplate = `{"zones":[{"id":"headline","x":80,"y":600,"w":920,"h":200,"font_size":64,"max_lines":3},` +
	`{"id":"body","x":80,"y":820,"w":920,"h":160,"font_size":32,"max_lines":4}]}`

// fakeDecks serves decks from memory. Every load returns a fresh copy so
// that image signing on one request does not leak into the next.
type fakeDecks struct {
	mu    sync.Mutex
	decks map[uuid.UUID]*deck.Deck
	loads int
}

func (f *fakeDecks) add(d *deck.Deck) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.decks == nil {
		f.decks = map[uuid.UUID]*deck.Deck{}
	}
	f.decks[d.Carousel.ID] = d
}

func (f *fakeDecks) Load(owner, carouselID uuid.UUID) (*deck.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	d := f.decks[carouselID]
	if d == nil || d.Carousel.OwnerID != owner {
		return nil, deck.ErrNotFound
	}
	cp := *d
	cp.Slides = append([]deck.Slide(nil), d.Slides...)
	return &cp, nil
}

// memDocs is an in-memory DocumentStore.
type memDocs struct {
	mu          sync.Mutex
	docs        map[string][]byte
	invalidated []string
}

func newMemDocs() *memDocs { return &memDocs{docs: map[string][]byte{}} }

func (m *memDocs) Get(_ context.Context, carousel, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[carousel+":"+key]
	return doc, ok
}

func (m *memDocs) Set(_ context.Context, carousel, key string, doc []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[carousel+":"+key] = doc
}

func (m *memDocs) InvalidateCarousel(_ context.Context, carousel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.docs {
		if strings.HasPrefix(k, carousel+":") {
			delete(m.docs, k)
		}
	}
	m.invalidated = append(m.invalidated, carousel)
}

// fakeSigner signs keys onto a fixed host and records them.
type fakeSigner struct {
	mu   sync.Mutex
	keys []string
}

func (s *fakeSigner) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return "https://signed.test/" + key, nil
}

type fakeAccounts map[uuid.UUID]*models.Account

func (f fakeAccounts) FindByID(id uuid.UUID) (*models.Account, error) { return f[id], nil }

func testBuilder(t *testing.T) *rendermodel.Builder {
	t.Helper()
	m, err := rendermodel.NewFontMeasurer()
	if err != nil {
		t.Fatalf("NewFontMeasurer: %v", err)
	}
	return rendermodel.NewBuilder(m)
}

func testTemplateConfig(t *testing.T) *rendermodel.TemplateConfig {
	t.Helper()
	cfg, err := rendermodel.ParseTemplateConfig([]byte(testTemplate))
	if err != nil {
		t.Fatalf("ParseTemplateConfig: %v", err)
	}
	return cfg
}

// testDeck builds a two-slide portrait deck owned by owner.
func testDeck(t *testing.T, owner uuid.UUID) *deck.Deck {
	t.Helper()
	tpl := testTemplateConfig(t)
	c := &models.Carousel{ID: uuid.New(), OwnerID: owner, Title: "Five Habits", Ratio: geometry.RatioPortrait}
	d := &deck.Deck{
		Account:     &models.Account{ID: owner, Plan: models.PlanFree},
		Carousel:    c,
		Attribution: rendermodel.AttributionPolicy{Default: "Made with Slidecraft"},
	}
	for i, headline := range []string{"First slide", "Second slide"} {
		d.Slides = append(d.Slides, deck.Slide{
			Row: models.Slide{ID: uuid.New(), CarouselID: c.ID, Position: i + 1},
			Content: rendermodel.SlideContent{
				Type:       rendermodel.SlidePoint,
				Headline:   headline,
				Background: rendermodel.Background{Kind: rendermodel.KindColor, Color: "#112233"},
			},
			Template:    tpl,
			TemplateKey: "tpl@1",
		})
	}
	return d
}

// slidesEnv wires a Slides handler group to in-memory collaborators.
type slidesEnv struct {
	decks  *fakeDecks
	signer *fakeSigner
	local  *document.Cache
	shared *memDocs
	slides *Slides
}

func newSlidesEnv(t *testing.T) *slidesEnv {
	t.Helper()
	docs, err := document.New()
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	raster, err := preview.NewRasterizer(nil)
	if err != nil {
		t.Fatalf("NewRasterizer: %v", err)
	}
	env := &slidesEnv{
		decks:  &fakeDecks{},
		signer: &fakeSigner{},
		local:  document.NewCache(16, time.Minute),
		shared: newMemDocs(),
	}
	env.slides = NewSlides(env.decks, env.signer, time.Hour, testBuilder(t), docs, env.local, env.shared, raster)
	return env
}

// newRequest builds a request carrying chi URL parameters and, when owner
// is not uuid.Nil, the caller identity.
func newRequest(method, target, body string, owner uuid.UUID, params map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if owner != uuid.Nil {
		ctx = context.WithValue(ctx, middleware.OwnerKey, owner)
	}
	return req.WithContext(ctx)
}

// errorBody decodes a {"error": "..."} response.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}
