// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit throttles the unauthenticated token endpoints. Tokens
// are issued on email alone, so the only brake on enumeration and credential
// stuffing is rate limiting: a sliding window per client IP plus a tighter
// one per target email.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by string. Safe for concurrent
// use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a Limiter allowing limit requests per duration per key.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.sweep(duration * 2)
	return l
}

// Allow records one request for key and reports whether it fits the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

func (l *Limiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP, preferring the proxy headers the app
// tier sits behind in deployment.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// TokenLimiter guards token issuance on two axes: per source IP against
// broad scraping, per target email against attempts focused on one account.
type TokenLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewTokenLimiter builds a TokenLimiter with the default budget: 20
// requests per IP per minute, 5 per email per 5 minutes.
func NewTokenLimiter() *TokenLimiter {
	return &TokenLimiter{
		ip:    New(20, time.Minute),
		email: New(5, 5*time.Minute),
	}
}

// Check records the attempt and reports whether it may proceed.
func (tl *TokenLimiter) Check(r *http.Request, email string) bool {
	if !tl.ip.Allow(ClientIP(r)) {
		return false
	}
	if email != "" {
		return tl.email.Allow(strings.ToLower(strings.TrimSpace(email)))
	}
	return true
}
