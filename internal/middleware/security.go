// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

const (
	// apiPolicy locks JSON and image responses down completely.
	apiPolicy = "default-src 'none'; frame-ancestors 'none'"

	// documentPolicy lets a slide document paint itself: inline styles,
	// embedded fonts, signed image URLs. No script ever runs in it.
	documentPolicy = "default-src 'none'; style-src 'unsafe-inline'; img-src https: http: data:; font-src data:; frame-ancestors 'self'"
)

// SecureHeaders sets the baseline headers for every API response.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", apiPolicy)
		next.ServeHTTP(w, r)
	})
}

// DocumentPolicy relaxes SecureHeaders for routes serving slide documents,
// which the editor embeds in a same-origin iframe.
func DocumentPolicy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Content-Security-Policy", documentPolicy)
		next.ServeHTTP(w, r)
	})
}
