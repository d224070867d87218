// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecureHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecureHeaders(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/preview", nil))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
		{"Content-Security-Policy", apiPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := rr.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s: got %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestDocumentPolicy(t *testing.T) {
	rr := httptest.NewRecorder()
	h := SecureHeaders(DocumentPolicy(okHandler))
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/carousels/x/slides/1/document", nil))

	if got := rr.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options: got %q, want SAMEORIGIN", got)
	}
	csp := rr.Header().Get("Content-Security-Policy")
	for _, want := range []string{"style-src 'unsafe-inline'", "font-src data:", "frame-ancestors 'self'"} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP %q missing %q", csp, want)
		}
	}
	if strings.Contains(csp, "script-src") {
		t.Errorf("CSP %q allows scripts", csp)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("baseline headers dropped")
	}
}
