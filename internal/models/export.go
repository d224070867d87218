// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ExportStatus is the lifecycle state of an export.
type ExportStatus string

const (
	ExportPending ExportStatus = "pending"
	ExportReady   ExportStatus = "ready"
	ExportFailed  ExportStatus = "failed"
)

// Export is one export run. The row is created pending and written once
// more when the run ends.
type Export struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	CarouselID  uuid.UUID    `json:"carousel_id"`
	Status      ExportStatus `json:"status"`
	Format      string       `json:"format"`
	ArchivePath string       `json:"archive_path,omitempty"`
	SlideCount  int          `json:"slide_count"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Done reports whether the export reached a terminal state.
func (e *Export) Done() bool {
	return e.Status == ExportReady || e.Status == ExportFailed
}
