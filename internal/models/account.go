// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is an account's subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Account is the owner of carousels and exports. Authentication happens
// upstream; this service only sees the account id.
type Account struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Plan              Plan       `json:"plan"`
	AttributionText   string     `json:"attribution_text,omitempty"`
	DefaultTemplateID *uuid.UUID `json:"default_template_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsPro returns true for paying accounts.
func (a *Account) IsPro() bool {
	return a.Plan == PlanPro
}

// ExportLimit returns the monthly export allowance for the account's plan.
func (a *Account) ExportLimit(free, pro int) int {
	if a.IsPro() {
		return pro
	}
	return free
}

// MonthStart returns the first instant of t's calendar month in UTC. The
// export quota counts exports created at or after this instant.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
