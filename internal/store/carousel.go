// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"slidecraft/internal/models"
)

// CarouselStore handles carousels and their slides.
type CarouselStore struct {
	db *sql.DB
}

// NewCarouselStore creates a new CarouselStore with the given database connection.
func NewCarouselStore(db *sql.DB) *CarouselStore {
	return &CarouselStore{db: db}
}

func scanCarousel(r rowScanner) (*models.Carousel, error) {
	c := &models.Carousel{}
	var tmpl, kit uuid.NullUUID
	var caption []byte
	if err := r.Scan(
		&c.ID, &c.OwnerID, &c.Title, &tmpl, &kit, &c.Ratio, &caption, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.TemplateID = uuidPtr(tmpl)
	c.BrandKitID = uuidPtr(kit)
	if len(caption) > 0 {
		if err := json.Unmarshal(caption, &c.Caption); err != nil {
			return nil, fmt.Errorf("decode caption: %w", err)
		}
	}
	return c, nil
}

// FindByID retrieves a carousel by its UUID. Returns nil if not found.
func (s *CarouselStore) FindByID(id uuid.UUID) (*models.Carousel, error) {
	c, err := scanCarousel(s.db.QueryRow(`
		SELECT id, owner_id, title, template_id, brand_kit_id, ratio, caption, created_at, updated_at
		FROM carousels WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find carousel by id: %w", err)
	}
	return c, nil
}

// Create inserts a carousel.
func (s *CarouselStore) Create(c *models.Carousel) (*models.Carousel, error) {
	caption, err := json.Marshal(c.Caption)
	if err != nil {
		return nil, fmt.Errorf("encode caption: %w", err)
	}
	ratio := c.Ratio
	if ratio == "" {
		ratio = "1:1"
	}
	result, err := scanCarousel(s.db.QueryRow(`
		INSERT INTO carousels (owner_id, title, template_id, brand_kit_id, ratio, caption)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, title, template_id, brand_kit_id, ratio, caption, created_at, updated_at
	`, c.OwnerID, c.Title, nullUUID(c.TemplateID), nullUUID(c.BrandKitID), ratio, string(caption)))
	if err != nil {
		return nil, fmt.Errorf("create carousel: %w", err)
	}
	return result, nil
}

const slideColumns = `id, carousel_id, position, template_id, slide_type, headline, body,
	headline_spans, body_spans, background, overrides, created_at, updated_at`

func scanSlide(r rowScanner) (*models.Slide, error) {
	sl := &models.Slide{}
	var tmpl uuid.NullUUID
	var hs, bs, bg, ov []byte
	if err := r.Scan(
		&sl.ID, &sl.CarouselID, &sl.Position, &tmpl, &sl.Type, &sl.Headline, &sl.Body,
		&hs, &bs, &bg, &ov, &sl.CreatedAt, &sl.UpdatedAt,
	); err != nil {
		return nil, err
	}
	sl.TemplateID = uuidPtr(tmpl)
	sl.HeadlineSpans, sl.BodySpans, sl.Background, sl.Overrides = hs, bs, bg, ov
	return sl, nil
}

// Slides returns a carousel's slides in position order.
func (s *CarouselStore) Slides(carouselID uuid.UUID) ([]models.Slide, error) {
	rows, err := s.db.Query(`SELECT `+slideColumns+`
		FROM slides WHERE carousel_id = $1
		ORDER BY position
	`, carouselID)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	defer rows.Close()

	var slides []models.Slide
	for rows.Next() {
		sl, err := scanSlide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slide: %w", err)
		}
		slides = append(slides, *sl)
	}
	return slides, rows.Err()
}

// AddSlide inserts a slide at its position.
func (s *CarouselStore) AddSlide(sl *models.Slide) (*models.Slide, error) {
	typ := sl.Type
	if typ == "" {
		typ = "point"
	}
	result, err := scanSlide(s.db.QueryRow(`
		INSERT INTO slides (carousel_id, position, template_id, slide_type, headline, body,
		                    headline_spans, body_spans, background, overrides)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+slideColumns,
		sl.CarouselID, sl.Position, nullUUID(sl.TemplateID), typ, sl.Headline, sl.Body,
		jsonArg(sl.HeadlineSpans), jsonArg(sl.BodySpans), jsonArg(sl.Background), jsonArg(sl.Overrides),
	))
	if err != nil {
		return nil, fmt.Errorf("add slide: %w", err)
	}
	return result, nil
}

// Delete removes a carousel and its slides.
func (s *CarouselStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM carousels WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete carousel: %w", err)
	}
	return nil
}
