// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"slidecraft/internal/export"
	"slidecraft/internal/handlers"
	"slidecraft/internal/middleware"
	"slidecraft/internal/models"
	"slidecraft/internal/rendermodel"
)

type stubRunner struct{ runs int }

func (s *stubRunner) Run(_ context.Context, req export.Request) (*export.Result, error) {
	s.runs++
	return &export.Result{ExportID: uuid.New(), Status: "ready"}, nil
}

type noAccounts struct{}

func (noAccounts) FindByID(uuid.UUID) (*models.Account, error) { return nil, nil }

func testRouter(t *testing.T, limiter *middleware.RateLimiter) (http.Handler, *stubRunner) {
	t.Helper()
	m, err := rendermodel.NewFontMeasurer()
	if err != nil {
		t.Fatalf("NewFontMeasurer: %v", err)
	}
	runner := &stubRunner{}
	exports := handlers.NewExports(runner)
	preview := handlers.NewPreview(rendermodel.NewBuilder(m), noAccounts{}, "Made with Slidecraft")
	// Slide routes are only checked for identity here; they never reach the group.
	return New(exports, nil, preview, limiter), runner
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutesRequireOwner(t *testing.T) {
	h, runner := testRouter(t, nil)
	id := uuid.New().String()

	tests := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/preview"},
		{http.MethodPost, "/api/carousels/" + id + "/exports"},
		{http.MethodGet, "/api/carousels/" + id + "/slides/1/document"},
		{http.MethodGet, "/api/carousels/" + id + "/slides/1/preview.png"},
		{http.MethodDelete, "/api/carousels/" + id + "/documents"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
	if runner.runs != 0 {
		t.Error("export ran without an owner")
	}
}

func TestRoutesHealthIsPublic(t *testing.T) {
	h, _ := testRouter(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers not applied")
	}
}

func TestRoutesExportRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	h, runner := testRouter(t, limiter)

	owner := uuid.New().String()
	path := "/api/carousels/" + uuid.New().String() + "/exports"
	var codes []int
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(middleware.OwnerHeader, owner)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [201 201 429]", codes)
	}
	if runner.runs != 2 {
		t.Errorf("runs = %d, want 2", runner.runs)
	}

	// Preview is not limited.
	req := httptest.NewRequest(http.MethodPost, "/api/preview", nil)
	req.Header.Set(middleware.OwnerHeader, owner)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code == http.StatusTooManyRequests {
		t.Error("preview shares the export limit")
	}
}
