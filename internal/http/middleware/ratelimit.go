package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"recruitportal/internal/common"
	"recruitportal/internal/http/response"
)

type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*rateBucket), now: time.Now}
}

func (r *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	bucket, ok := r.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		r.sweep(now)
		r.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// sweep drops expired buckets so one-off clients do not accumulate.
func (r *RateLimiter) sweep(now time.Time) {
	for key, bucket := range r.buckets {
		if now.After(bucket.windowEnd) {
			delete(r.buckets, key)
		}
	}
}

// RateLimit rejects requests over limit per window for the key keyFn derives.
func RateLimit(limiter Limiter, keyFn func(*http.Request) string, limit int, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" || limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow(key, limit, window) {
				response.Error(w, common.NewError(common.CodeRateLimited, "Too many requests, please try again later", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// KeyByIP prefixes the client address so different routes keep separate buckets.
func KeyByIP(prefix string) func(*http.Request) string {
	return func(r *http.Request) string {
		return prefix + ":" + ClientIP(r)
	}
}

func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
