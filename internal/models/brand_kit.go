// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"

	"slidecraft/internal/rendermodel"
)

// BrandKit is an owner's colours, logo and watermark. LogoPath is a key in
// the storage bucket; it is signed before rendering.
type BrandKit struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	LogoPath       string    `json:"logo_path,omitempty"`
	WatermarkText  string    `json:"watermark_text,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Kit converts the row into render input. logoURL is the signed logo URL,
// or empty when the kit has no logo.
func (b *BrandKit) Kit(logoURL string) rendermodel.BrandKit {
	if b == nil {
		return rendermodel.BrandKit{}
	}
	return rendermodel.BrandKit{
		PrimaryColor:   b.PrimaryColor,
		SecondaryColor: b.SecondaryColor,
		LogoURL:        logoURL,
		WatermarkText:  b.WatermarkText,
	}
}
