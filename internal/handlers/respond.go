// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP surface: export requests, static
// slide documents and live previews.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slidecraft/internal/export"
	"slidecraft/internal/middleware"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFailure maps a domain error to its status. Internal failures are
// logged and reported without detail.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, export.ErrNotFound):
		writeError(w, http.StatusNotFound, "carousel not found")
	case errors.Is(err, export.ErrQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, export.ErrInvalidConfig),
		errors.Is(err, export.ErrNoSlides),
		errors.Is(err, export.ErrNoTemplate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, export.ErrBudgetExceeded):
		writeError(w, http.StatusServiceUnavailable, export.ErrBudgetExceeded.Error())
	case errors.Is(err, export.ErrRendererCrashed):
		writeError(w, http.StatusServiceUnavailable, export.ErrRendererCrashed.Error())
	case errors.Is(err, export.ErrNoStorage):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requestOwner returns the caller set by middleware.RequireOwner, writing
// a 401 when it is missing.
func requestOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	owner, ok := middleware.OwnerFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing "+middleware.OwnerHeader+" header")
	}
	return owner, ok
}

// carouselParam parses the {id} URL parameter, writing a 400 when it is
// not a uuid.
func carouselParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid carousel id")
		return uuid.Nil, false
	}
	return id, true
}
