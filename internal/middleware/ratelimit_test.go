package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhausts(t *testing.T) {
	tb := NewTokenBucket(2, 0)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestRateLimitPerKey(t *testing.T) {
	rl := NewRateLimiter(1, 0)
	h := rl.RateLimit(func(r *http.Request) string { return r.Header.Get("X-Key") })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusOK, send("b"))
}

func TestPruneDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Allow("x")
	assert.Equal(t, 0, rl.Prune(time.Now(), time.Hour))
	assert.Equal(t, 1, rl.Prune(time.Now().Add(2*time.Hour), time.Hour))
}

func TestWorkspaceKeyFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "ip:10.0.0.1:1234", WorkspaceKey(req))
}

func TestWorkspaceKeyUsesOperatorBehindAuth(t *testing.T) {
	var key string
	h := AccessKeyAuth(map[string]string{"procurement": "k-123"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { key = WorkspaceKey(r) }))

	req := httptest.NewRequest(http.MethodPost, "/v1/workspaces", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("Authorization", "Bearer k-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "op:procurement", key)
}
