package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newTestLimiter(t *testing.T, cfg RateLimiterConfig) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, zerolog.Nop(), cfg), mr
}

func TestWhitelist(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{
		Whitelist: []string{"203.0.113.7", "10.0.0.0/8", "not-a-cidr/99"},
	})

	tests := []struct {
		ip   string
		want bool
	}{
		{"203.0.113.7", true},
		{"203.0.113.8", false},
		{"10.1.2.3", true},
		{"11.1.2.3", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rl.isWhitelisted(tt.ip), tt.ip)
	}
}

func TestFindLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{})

	limit := rl.findLimit(httptest.NewRequest(http.MethodPost, "/chat?message=x", nil))
	require.NotNil(t, limit)
	assert.Equal(t, 30, limit.Requests)

	limit = rl.findLimit(httptest.NewRequest(http.MethodGet, "/search?query=x", nil))
	require.NotNil(t, limit)
	assert.Equal(t, 60, limit.Requests)

	assert.Nil(t, rl.findLimit(httptest.NewRequest(http.MethodGet, "/health", nil)))
	assert.Nil(t, rl.findLimit(httptest.NewRequest(http.MethodGet, "/chat", nil)))
}

func TestRateLimiterWhitelistedBypass(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{Whitelist: []string{"192.0.2.0/24"}})
	h := rl.Middleware(okHandler)

	for i := 0; i < 40; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestBlockedIP(t *testing.T) {
	rl, mr := newTestLimiter(t, RateLimiterConfig{})
	h := rl.Middleware(okHandler)

	rl.blocker.Block(context.Background(), "192.0.2.1", time.Hour, "test")
	assert.True(t, mr.Exists("chat:blocked:ip:192.0.2.1"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rl.blocker.Unblock(context.Background(), "192.0.2.1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAutoBlock(t *testing.T) {
	rl, mr := newTestLimiter(t, RateLimiterConfig{AutoBlockEnabled: true})
	h := rl.Middleware(okHandler)

	// 30 allowed, then 10 violations trigger the block.
	for i := 0; i < 40; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/chat", nil))
	}
	assert.True(t, mr.Exists("chat:blocked:ip:192.0.2.1"))
}

func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "192.0.2.1", RealIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", RealIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", RealIP(req))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/chat", normalizePath("/chat"))
	assert.Equal(t, "/search", normalizePath("/search/"))
	assert.Equal(t, "/", normalizePath("/"))
	assert.Equal(t, "other", normalizePath("/wp-admin/login.php"))
}

func TestValidateRequest(t *testing.T) {
	h := ValidateRequest(okHandler)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		ctype  string
		status int
	}{
		{"plain get", http.MethodGet, "/search?query=hello", "", "", http.StatusOK},
		{"dots in query", http.MethodPost, "/chat?message=wait...%20ok", "", "", http.StatusOK},
		{"traversal in path", http.MethodGet, "/static/../etc/passwd", "", "", http.StatusBadRequest},
		{"script text in query", http.MethodGet, "/search?query=%3Cscript%3E", "", "", http.StatusOK},
		{"javascript text in message", http.MethodPost, "/chat?message=how%20do%20I%20use%20javascript%3A%20urls", "", "", http.StatusOK},
		{"script in path", http.MethodGet, "/%3Cscript%3E", "", "", http.StatusBadRequest},
		{"json body", http.MethodPost, "/chat", `{"message":"x"}`, "application/json", http.StatusOK},
		{"form body", http.MethodPost, "/chat", "message=x", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	h := MaxBodySize(16)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(strings.Repeat("x", 32))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, rec.Code)
}
