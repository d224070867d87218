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

// BrandKitStore handles brand kit rows.
type BrandKitStore struct {
	db *sql.DB
}

// NewBrandKitStore creates a new BrandKitStore with the given database connection.
func NewBrandKitStore(db *sql.DB) *BrandKitStore {
	return &BrandKitStore{db: db}
}

// FindByID retrieves a brand kit by its UUID. Returns nil if not found.
func (s *BrandKitStore) FindByID(id uuid.UUID) (*models.BrandKit, error) {
	b := &models.BrandKit{}
	err := s.db.QueryRow(`
		SELECT id, owner_id, name, primary_color, secondary_color, logo_path, watermark_text,
		       created_at, updated_at
		FROM brand_kits WHERE id = $1
	`, id).Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.PrimaryColor, &b.SecondaryColor, &b.LogoPath,
		&b.WatermarkText, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand kit by id: %w", err)
	}
	return b, nil
}

// Create inserts a brand kit.
func (s *BrandKitStore) Create(b *models.BrandKit) (*models.BrandKit, error) {
	result := &models.BrandKit{}
	err := s.db.QueryRow(`
		INSERT INTO brand_kits (owner_id, name, primary_color, secondary_color, logo_path, watermark_text)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, name, primary_color, secondary_color, logo_path, watermark_text,
		          created_at, updated_at
	`, b.OwnerID, b.Name, b.PrimaryColor, b.SecondaryColor, b.LogoPath, b.WatermarkText).Scan(
		&result.ID, &result.OwnerID, &result.Name, &result.PrimaryColor, &result.SecondaryColor,
		&result.LogoPath, &result.WatermarkText, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create brand kit: %w", err)
	}
	return result, nil
}
