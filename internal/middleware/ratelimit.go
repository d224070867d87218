// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// window holds the request times of one caller, oldest first.
type window struct {
	mu    sync.Mutex
	times []time.Time
}

// prune drops times at or before cutoff.
func (w *window) prune(cutoff time.Time) {
	i := 0
	for i < len(w.times) && !w.times[i].After(cutoff) {
		i++
	}
	w.times = w.times[i:]
}

// RateLimiter allows at most limit requests per caller in any sliding
// window of the given length. Exports launch a browser each, so the
// limit protects the render host rather than the database.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	callers map[string]*window
	stopCh  chan struct{}
}

// NewRateLimiter creates a limiter and starts its idle-entry sweeper.
func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  per,
		now:     time.Now,
		callers: make(map[string]*window),
		stopCh:  make(chan struct{}),
	}
	go rl.sweep(5 * time.Minute)
	return rl
}

// Stop ends the sweeper.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// take records a request for key. When the caller is over the limit it
// returns false and how long until the oldest request leaves the window.
func (rl *RateLimiter) take(key string) (bool, time.Duration) {
	rl.mu.Lock()
	w, ok := rl.callers[key]
	if !ok {
		w = &window{}
		rl.callers[key] = w
	}
	rl.mu.Unlock()

	now := rl.now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(now.Add(-rl.window))
	if len(w.times) >= rl.limit {
		return false, w.times[0].Add(rl.window).Sub(now)
	}
	w.times = append(w.times, now)
	return true, 0
}

// cleanup forgets callers with nothing left in their window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, w := range rl.callers {
		w.mu.Lock()
		w.prune(cutoff)
		idle := len(w.times) == 0
		w.mu.Unlock()
		if idle {
			delete(rl.callers, key)
		}
	}
}

// Middleware limits by owner, or by client IP when RequireOwner has not
// run. Rejections carry Retry-After in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + clientIP(r)
		if owner, ok := OwnerFromCtx(r.Context()); ok {
			key = "owner:" + owner.String()
		}
		if ok, wait := rl.take(key); !ok {
			secs := max(1, int(math.Ceil(wait.Seconds())))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "export rate limit reached, retry later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the original client address, preferring the leftmost
// X-Forwarded-For entry, then X-Real-IP, then the connection peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
