// ABOUTME: Per-client request limits for the API, counted in fixed windows
// ABOUTME: Calculation routes get a tighter budget than catalog and analysis routes

package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// sweepEvery is how many new windows are opened between expiry sweeps.
const sweepEvery = 100

type window struct {
	used  int
	until time.Time
}

// RateLimiter admits at most limit requests per key in each window.
type RateLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
	opened  int
}

// NewRateLimiter creates a limiter admitting limit requests per period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow records a request for key. When the key is over its limit it
// returns false and the time left until its window closes.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	ok, _, retry := rl.take(key)
	return ok, retry
}

// take is Allow plus the number of requests still available to key.
func (rl *RateLimiter) take(key string) (ok bool, remaining int, retry time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w := rl.windows[key]
	if w == nil || !now.Before(w.until) {
		w = &window{until: now.Add(rl.period)}
		rl.windows[key] = w
		if rl.opened++; rl.opened >= sweepEvery {
			rl.sweep(now)
			rl.opened = 0
		}
	}

	if w.used >= rl.limit {
		return false, 0, w.until.Sub(now)
	}
	w.used++
	return true, rl.limit - w.used, 0
}

// sweep drops closed windows. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.windows {
		if !now.Before(w.until) {
			delete(rl.windows, k)
		}
	}
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

// ClientIP keys requests by the leftmost X-Forwarded-For address, falling
// back to the connection's remote address. The header is trusted, so the
// backend must sit behind a proxy that sets it.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return "ip:" + ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return "ip:" + host
}

type rateLimitResponse struct {
	Error      string `json:"error"`
	Code       int    `json:"code"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimit enforces limiter per key. A nil limiter disables limiting and
// an empty key lets the request through unmetered.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil || keyFunc == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next(w, r)
				return
			}

			ok, remaining, retry := limiter.take(key)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if ok {
				next(w, r)
				return
			}

			seconds := int(math.Ceil(retry.Seconds()))
			slog.Warn("Rate limit exceeded", "key", key, "path", r.URL.Path, "retry_after", seconds)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(rateLimitResponse{
				Error:      "Rate limit exceeded",
				Code:       http.StatusTooManyRequests,
				RetryAfter: seconds,
			})
		}
	}
}
