// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"slidecraft/internal/models"
)

// ExportStore handles export records. A record is written when it is
// created and once more when the export ends.
type ExportStore struct {
	db *sql.DB
}

// NewExportStore creates a new ExportStore with the given database connection.
func NewExportStore(db *sql.DB) *ExportStore {
	return &ExportStore{db: db}
}

const exportColumns = `id, owner_id, carousel_id, status, format, archive_path, slide_count, error,
	created_at, completed_at`

func scanExport(r rowScanner) (*models.Export, error) {
	e := &models.Export{}
	var completed sql.NullTime
	if err := r.Scan(
		&e.ID, &e.OwnerID, &e.CarouselID, &e.Status, &e.Format, &e.ArchivePath, &e.SlideCount,
		&e.Error, &e.CreatedAt, &completed,
	); err != nil {
		return nil, err
	}
	if completed.Valid {
		t := completed.Time
		e.CompletedAt = &t
	}
	return e, nil
}

// Create inserts a pending export.
func (s *ExportStore) Create(e *models.Export) (*models.Export, error) {
	result, err := scanExport(s.db.QueryRow(`
		INSERT INTO exports (owner_id, carousel_id, status, format)
		VALUES ($1, $2, 'pending', $3)
		RETURNING `+exportColumns,
		e.OwnerID, e.CarouselID, e.Format,
	))
	if err != nil {
		return nil, fmt.Errorf("create export: %w", err)
	}
	return result, nil
}

// FindByID retrieves an export by its UUID. Returns nil if not found.
func (s *ExportStore) FindByID(id uuid.UUID) (*models.Export, error) {
	e, err := scanExport(s.db.QueryRow(`SELECT `+exportColumns+` FROM exports WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find export by id: %w", err)
	}
	return e, nil
}

// MarkReady records a finished export.
func (s *ExportStore) MarkReady(id uuid.UUID, archivePath string, slides int) error {
	_, err := s.db.Exec(`
		UPDATE exports SET
			status = 'ready', archive_path = $1, slide_count = $2, completed_at = NOW()
		WHERE id = $3
	`, archivePath, slides, id)
	if err != nil {
		return fmt.Errorf("mark export ready: %w", err)
	}
	return nil
}

// MarkFailed records a failed export with a human-readable reason.
func (s *ExportStore) MarkFailed(id uuid.UUID, reason string) error {
	_, err := s.db.Exec(`
		UPDATE exports SET status = 'failed', error = $1, completed_at = NOW()
		WHERE id = $2
	`, reason, id)
	if err != nil {
		return fmt.Errorf("mark export failed: %w", err)
	}
	return nil
}

// CountSince counts the owner's exports created at or after since, failed
// ones included.
func (s *ExportStore) CountSince(owner uuid.UUID, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM exports WHERE owner_id = $1 AND created_at >= $2
	`, owner, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count exports: %w", err)
	}
	return n, nil
}
