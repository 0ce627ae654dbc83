package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitportal/internal/observability"
	"recruitportal/internal/security"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	Chain(okHandler(), mark("a"), mark("b"), mark("c")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRecoverRendersInternalError(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

type observerSpy struct {
	method string
	status int
}

func (o *observerSpy) ObserveRequest(method string, status int, _ time.Duration) {
	o.method, o.status = method, status
}

func TestMetricsObservesStatus(t *testing.T) {
	spy := &observerSpy{}
	Chain(okHandler(), Metrics(spy)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.MethodPost, spy.method)
	assert.Equal(t, http.StatusNoContent, spy.status)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var deadline bool
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, deadline)
}

func TestBodyLimitCapsReads(t *testing.T) {
	var readErr error
	handler := BodyLimit(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var v any
		readErr = json.NewDecoder(r.Body).Decode(&v)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"long value"}`)))
	require.Error(t, readErr)
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	limiter := NewRateLimiter()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	handler := RateLimit(limiter, KeyByIP("submit"), 2, time.Minute)(okHandler())

	send := func(ip string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		handler.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusNoContent, send("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, send("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, send("2.2.2.2"))

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, http.StatusNoContent, send("1.1.1.1"))
	assert.Len(t, limiter.buckets, 1)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req))
	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 192.0.2.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	var nilLimiter *RedisLimiter
	assert.True(t, nilLimiter.Allow("k", 1, time.Minute))

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	limiter := NewRedisLimiter(client, nil)
	assert.True(t, limiter.Allow("k", 1, time.Minute))
	assert.True(t, limiter.Allow("k", 1, time.Minute))
}

func signAdmin(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, security.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestRequireAdmin(t *testing.T) {
	auth := NewAuthMiddleware(security.NewTokenVerifier("secret"))
	var subject string
	handler := auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminFromContext(r.Context())
		require.True(t, ok)
		subject = claims.Subject
		w.WriteHeader(http.StatusOK)
	}))

	send := func(header string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		handler.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusUnauthorized, send(""))
	assert.Equal(t, http.StatusUnauthorized, send("Token abc"))
	assert.Equal(t, http.StatusUnauthorized, send("Bearer garbage"))
	assert.Equal(t, http.StatusForbidden, send("Bearer "+signAdmin(t, "student")))
	assert.Equal(t, http.StatusOK, send("bearer "+signAdmin(t, "super_admin")))
	assert.Equal(t, "admin-1", subject)
}
