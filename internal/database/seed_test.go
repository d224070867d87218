// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"testing"

	"slidecraft/internal/rendermodel"
)

// TestSystemTemplatesParse keeps the seeded configs valid without a database.
func TestSystemTemplatesParse(t *testing.T) {
	for _, tt := range systemTemplates {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := rendermodel.ParseTemplateConfig([]byte(tt.config))
			if err != nil {
				t.Fatalf("ParseTemplateConfig: %v", err)
			}
			if _, ok := cfg.Zone(rendermodel.ZoneHeadline); !ok {
				t.Error("template has no headline zone")
			}
		})
	}
}

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if _, err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed should be callable safely; it creates data only when no system
	// templates exist. We call it twice to verify idempotency.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates WHERE owner_id IS NULL").Scan(&count); err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if count != len(systemTemplates) {
		t.Errorf("system templates = %d, want %d", count, len(systemTemplates))
	}
}
