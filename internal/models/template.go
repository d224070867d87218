// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"slidecraft/internal/rendermodel"
)

// Template is a named layout skin. Config holds the JSON layout (zones,
// overlay and chrome rules); Version is bumped on every update so caches
// keyed by it miss automatically. System templates have no owner.
type Template struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   *uuid.UUID      `json:"owner_id,omitempty"`
	Name      string          `json:"name"`
	Config    json.RawMessage `json:"config"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsSystem reports whether the template ships with the service.
func (t *Template) IsSystem() bool {
	return t.OwnerID == nil
}

// UsableBy reports whether owner may render with the template.
func (t *Template) UsableBy(owner uuid.UUID) bool {
	return t.IsSystem() || *t.OwnerID == owner
}

// Parse decodes and validates the layout config.
func (t *Template) Parse() (*rendermodel.TemplateConfig, error) {
	return rendermodel.ParseTemplateConfig(t.Config)
}
