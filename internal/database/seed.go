// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// systemTemplates ship with the service. Coordinates are in the
// 1080×1080 design space.
var systemTemplates = []struct {
	name   string
	config string
}{
	{
		name: "Bold Bottom",
		config: `{
  "layout": "bottom",
  "safe_area": {"top": 64, "right": 64, "bottom": 64, "left": 64},
  "zones": [
    {"id": "headline", "x": 80, "y": 600, "w": 920, "h": 220, "font_size": 72, "font_weight": 700, "line_height": 1.1, "max_lines": 3, "align": "left"},
    {"id": "body", "x": 80, "y": 830, "w": 920, "h": 170, "font_size": 36, "font_weight": 400, "line_height": 1.3, "max_lines": 4, "align": "left"}
  ],
  "background": {"allow_image": true, "default_style": "gradient", "color": "#111827"},
  "overlay": {"enabled": true, "direction": "bottom", "strength": 0.85, "extent": 60, "solid_size": 30, "color": "#000000"},
  "chrome": {
    "swipe_hint": {"type": "arrow", "position": "bottom-right"},
    "counter": {"enabled": true, "position": "top-right"},
    "watermark": {"enabled": true, "position": "top-left"}
  }
}`,
	},
	{
		name: "Centered Statement",
		config: `{
  "layout": "center",
  "safe_area": {"top": 80, "right": 80, "bottom": 80, "left": 80},
  "zones": [
    {"id": "headline", "x": 120, "y": 360, "w": 840, "h": 240, "font_size": 64, "font_weight": 700, "line_height": 1.15, "max_lines": 3, "align": "center"},
    {"id": "body", "x": 160, "y": 620, "w": 760, "h": 160, "font_size": 32, "font_weight": 400, "line_height": 1.35, "max_lines": 4, "align": "center"}
  ],
  "background": {"allow_image": true, "default_style": "blur", "color": "#0f172a"},
  "overlay": {"enabled": false},
  "chrome": {
    "swipe_hint": {"type": "text", "position": "bottom-center"},
    "counter": {"enabled": true, "position": "top-center"},
    "watermark": {"enabled": false},
    "attribution": {"enabled": true, "position": "bottom-left"}
  }
}`,
	},
	{
		name: "Plain Color",
		config: `{
  "layout": "top",
  "safe_area": {"top": 64, "right": 64, "bottom": 64, "left": 64},
  "zones": [
    {"id": "headline", "x": 80, "y": 120, "w": 920, "h": 260, "font_size": 68, "font_weight": 700, "line_height": 1.1, "max_lines": 3, "align": "left"},
    {"id": "body", "x": 80, "y": 420, "w": 920, "h": 420, "font_size": 38, "font_weight": 400, "line_height": 1.4, "max_lines": 8, "align": "left"}
  ],
  "background": {"allow_image": false, "default_style": "none", "color": "#f8fafc"},
  "overlay": {"enabled": false},
  "chrome": {
    "swipe_hint": {"type": "arrow", "position": "bottom-right"},
    "counter": {"enabled": true, "position": "bottom-left"},
    "watermark": {"enabled": true, "position": "top-right"}
  }
}`,
	},
}

// Seed installs the system templates when none exist yet.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates WHERE owner_id IS NULL").Scan(&count); err != nil {
		return fmt.Errorf("seed check templates: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, t := range systemTemplates {
		if _, err := db.Exec(`
			INSERT INTO templates (owner_id, name, config)
			VALUES (NULL, $1, $2)
		`, t.name, t.config); err != nil {
			return fmt.Errorf("seed template %q: %w", t.name, err)
		}
	}

	slog.Info("database seeded with system templates", "count", len(systemTemplates))
	return nil
}
