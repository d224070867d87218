// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testLimiter(t *testing.T, limit int, per time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(limit, per)
	t.Cleanup(rl.Stop)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiterTake(t *testing.T) {
	rl, clock := testLimiter(t, 3, time.Minute)

	for i := range 3 {
		if ok, _ := rl.take("owner:a"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
		clock.advance(10 * time.Second)
	}

	ok, wait := rl.take("owner:a")
	if ok {
		t.Fatal("4th request should be limited")
	}
	// The first request leaves the window 60s after it was made; 30s have passed.
	if wait != 30*time.Second {
		t.Errorf("wait: got %v, want 30s", wait)
	}
	if ok, _ := rl.take("owner:b"); !ok {
		t.Error("another caller should be allowed")
	}

	clock.advance(30 * time.Second)
	if ok, _ := rl.take("owner:a"); !ok {
		t.Error("should be allowed once the oldest request left the window")
	}
	if ok, _ := rl.take("owner:a"); ok {
		t.Error("only one slot should have freed up")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl, _ := testLimiter(t, 2, time.Second)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// First 2 requests should succeed.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/preview", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i+1, rr.Code)
		}
	}

	// 3rd request should be rate-limited.
	req := httptest.NewRequest(http.MethodPost, "/api/preview", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("got status %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After: got %q, want 1", rr.Header().Get("Retry-After"))
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "x-forwarded-for single",
			xff:        "10.0.0.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-forwarded-for multiple",
			xff:        "10.0.0.1, 172.16.0.1, 192.168.1.1",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "x-real-ip",
			xri:        "10.0.0.2",
			remoteAddr: "192.168.1.1:1234",
			want:       "10.0.0.2",
		},
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:1234",
			want:       "192.168.1.1",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "remote addr no port",
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			got := clientIP(req)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := testLimiter(t, 10, time.Minute)

	rl.take("ip:old")
	rl.take("ip:fresh")
	clock.advance(50 * time.Second)
	rl.take("ip:fresh")
	clock.advance(15 * time.Second)

	rl.cleanup()

	rl.mu.Lock()
	_, oldExists := rl.callers["ip:old"]
	fresh, freshExists := rl.callers["ip:fresh"]
	count := len(rl.callers)
	rl.mu.Unlock()

	if oldExists {
		t.Error("ip:old should have been removed")
	}
	if !freshExists || len(fresh.times) != 1 {
		t.Error("ip:fresh should keep its one recent request")
	}
	if count != 1 {
		t.Errorf("expected 1 remaining caller, got %d", count)
	}
}

// TestRateLimiterKeysByOwner verifies that identified requests are limited
// per owner, whatever address they come from.
func TestRateLimiterKeysByOwner(t *testing.T) {
	rl, clock := testLimiter(t, 1, time.Minute)

	handler := RequireOwner(rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	owner := uuid.New().String()
	do := func(owner, addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/carousels/x/exports", nil)
		req.Header.Set(OwnerHeader, owner)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := do(owner, "10.0.0.1:1"); rr.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rr.Code)
	}
	clock.advance(15 * time.Second)
	rr := do(owner, "10.0.0.2:1")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("same owner from another IP: got %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "45" {
		t.Errorf("Retry-After: got %q, want 45", rr.Header().Get("Retry-After"))
	}
	if rr := do(uuid.New().String(), "10.0.0.1:1"); rr.Code != http.StatusOK {
		t.Errorf("other owner from the same IP: got %d, want 200", rr.Code)
	}
}
