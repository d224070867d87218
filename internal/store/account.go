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

// AccountStore handles account lookups.
type AccountStore struct {
	db *sql.DB
}

// NewAccountStore creates a new AccountStore with the given database connection.
func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

// FindByID retrieves an account by its UUID. Returns nil if not found.
func (s *AccountStore) FindByID(id uuid.UUID) (*models.Account, error) {
	a := &models.Account{}
	var def uuid.NullUUID
	err := s.db.QueryRow(`
		SELECT id, email, plan, attribution_text, default_template_id, created_at, updated_at
		FROM accounts WHERE id = $1
	`, id).Scan(
		&a.ID, &a.Email, &a.Plan, &a.AttributionText, &def, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	a.DefaultTemplateID = uuidPtr(def)
	return a, nil
}

// Create inserts an account.
func (s *AccountStore) Create(a *models.Account) (*models.Account, error) {
	plan := a.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	result := &models.Account{}
	var def uuid.NullUUID
	err := s.db.QueryRow(`
		INSERT INTO accounts (email, plan, attribution_text, default_template_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, plan, attribution_text, default_template_id, created_at, updated_at
	`, a.Email, plan, a.AttributionText, nullUUID(a.DefaultTemplateID)).Scan(
		&result.ID, &result.Email, &result.Plan, &result.AttributionText, &def,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	result.DefaultTemplateID = uuidPtr(def)
	return result, nil
}

// Delete removes an account and, by cascade, everything it owns.
func (s *AccountStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
