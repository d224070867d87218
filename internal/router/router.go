// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Slidecraft render service. Every /api route requires the caller identity
// supplied by the upstream gateway.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"slidecraft/internal/handlers"
	"slidecraft/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. exportLimiter may be nil to disable export
// rate limiting.
func New(exports *handlers.Exports, slides *handlers.Slides, preview *handlers.Preview, exportLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no identity required.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireOwner)

		r.Post("/preview", preview.Render)

		r.Route("/carousels/{id}", func(r chi.Router) {
			r.Delete("/documents", slides.Invalidate)
			r.With(middleware.DocumentPolicy).Get("/slides/{index}/document", slides.Document)
			r.Get("/slides/{index}/preview.png", slides.PreviewPNG)

			// Exports launch a browser; limit them per owner.
			r.Group(func(r chi.Router) {
				if exportLimiter != nil {
					r.Use(exportLimiter.Middleware)
				}
				r.Post("/exports", exports.Create)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
