// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// OwnerKey is the context key for the authenticated owner id.
	OwnerKey contextKey = "owner"

	// OwnerHeader carries the owner id set by the upstream gateway after
	// it has authenticated the caller.
	OwnerHeader = "X-Owner-ID"
)

// RequireOwner rejects requests without a valid owner header with 401 and
// stores the owner id in the request context otherwise.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(OwnerHeader))
		if err != nil || id == uuid.Nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid "+OwnerHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), OwnerKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromCtx extracts the owner id from the request context.
// Returns false if RequireOwner has not run.
func OwnerFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(OwnerKey).(uuid.UUID)
	return id, ok
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
