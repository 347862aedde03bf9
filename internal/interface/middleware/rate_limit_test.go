package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newLimitedRouter(rdb *redis.Client, max int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(rdb, max, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":4321"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitCountsPerWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	r := newLimitedRouter(rdb, 2)

	for i, wantRemaining := range []string{"1", "0"} {
		w := hit(r, "203.0.113.7")
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Limit"); got != "2" {
			t.Fatalf("limit header = %q", got)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: remaining = %q, want %q", i, got, wantRemaining)
		}
	}

	w := hit(r, "203.0.113.7")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("retry-after = %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Reset"); got != "60" {
		t.Fatalf("reset = %q", got)
	}

	// another client has its own counter
	if w := hit(r, "203.0.113.8"); w.Code != http.StatusNoContent {
		t.Fatalf("other ip: status %d", w.Code)
	}

	// a new window starts once the key expires
	mr.FastForward(61 * time.Second)
	if w := hit(r, "203.0.113.7"); w.Code != http.StatusNoContent {
		t.Fatalf("after window: status %d", w.Code)
	}
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()
	r := newLimitedRouter(rdb, 1)

	for i := 0; i < 3; i++ {
		w := hit(r, "203.0.113.7")
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Limit"); got != "" {
			t.Fatalf("headers set without a counter: %q", got)
		}
	}
}

func TestRateLimitSkipsAllowedRequests(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	allowAll := func(*gin.Context) bool { return true }
	r.POST("/login", RateLimit(rdb, 1, time.Minute, KeyByIP(), allowAll), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		if w := hit(r, "203.0.113.7"); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("allowed requests were counted: %v", keys)
	}
}
