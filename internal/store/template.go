// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"slidecraft/internal/models"
)

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(r rowScanner) (*models.Template, error) {
	t := &models.Template{}
	var owner uuid.NullUUID
	var config []byte
	if err := r.Scan(&t.ID, &owner, &t.Name, &config, &t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.OwnerID = uuidPtr(owner)
	t.Config = config
	return t, nil
}

// ListFor returns the system templates and the owner's own, by name.
func (s *TemplateStore) ListFor(owner uuid.UUID) ([]models.Template, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, name, config, version, created_at, updated_at
		FROM templates
		WHERE owner_id IS NULL OR owner_id = $1
		ORDER BY name
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(`
		SELECT id, owner_id, name, config, version, created_at, updated_at
		FROM templates WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// Create inserts a new template at version 1.
func (s *TemplateStore) Create(t *models.Template) (*models.Template, error) {
	result, err := scanTemplate(s.db.QueryRow(`
		INSERT INTO templates (owner_id, name, config, version)
		VALUES ($1, $2, $3, 1)
		RETURNING id, owner_id, name, config, version, created_at, updated_at
	`, nullUUID(t.OwnerID), t.Name, jsonArg(t.Config)))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return result, nil
}

// Update modifies a template and increments its version.
func (s *TemplateStore) Update(t *models.Template) error {
	_, err := s.db.Exec(`
		UPDATE templates SET
			name = $1, config = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3
	`, t.Name, jsonArg(t.Config), t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template. Slides and carousels that used it fall back
// to the next template in their chain.
func (s *TemplateStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
