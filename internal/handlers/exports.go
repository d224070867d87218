// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"slidecraft/internal/browser"
	"slidecraft/internal/export"
)

// ExportRunner runs one export to completion.
type ExportRunner interface {
	Run(ctx context.Context, req export.Request) (*export.Result, error)
}

// Exports groups the export endpoints.
type Exports struct {
	runner ExportRunner
}

// NewExports creates a new Exports handler group.
func NewExports(runner ExportRunner) *Exports {
	return &Exports{runner: runner}
}

type exportRequest struct {
	Format string `json:"format"`
}

// Create exports a carousel synchronously and responds with signed URLs
// for the archive and every slide image. An empty body exports PNG.
func (h *Exports) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := requestOwner(w, r)
	if !ok {
		return
	}
	carouselID, ok := carouselParam(w, r)
	if !ok {
		return
	}

	var body exportRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxExportBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	format, ok := browser.ParseFormat(body.Format)
	if !ok {
		writeError(w, http.StatusBadRequest, "format must be png or jpeg")
		return
	}

	res, err := h.runner.Run(r.Context(), export.Request{
		Owner:    owner,
		Carousel: carouselID,
		Format:   format,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
