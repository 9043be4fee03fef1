// Package middleware provides the HTTP middleware chain of the storefront API.
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sadekstore/storefront/pkg/response"
)

// bucket tracks a fixed-window request count for one IP.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

func (b *bucket) expired(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.After(b.resetAt)
}

type limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

func (l *limiter) get(ip string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[ip]; ok {
		return b
	}

	b := &bucket{resetAt: now.Add(l.window)}
	l.buckets[ip] = b
	return b
}

// sweep evicts buckets whose window has expired.
func (l *limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, b := range l.buckets {
		if b.expired(now) {
			delete(l.buckets, ip)
		}
	}
}

// RateLimit returns a middleware that limits each IP to max requests per
// window. A non-positive max disables limiting.
//
//	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute))
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	l := &limiter{max: max, window: window, buckets: map[string]*bucket{}}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for now := range ticker.C {
			l.sweep(now)
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			if !l.get(clientIP(r), now).allow(l.max, l.window, now) {
				response.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
