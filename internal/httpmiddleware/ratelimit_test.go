package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterExhaustsCapacity(t *testing.T) {
	l := NewRateLimiter(3, 3)
	for i := 0; i < 3; i++ {
		if !l.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.allow("10.0.0.1") {
		t.Fatal("request past capacity should be rejected")
	}
	if !l.allow("10.0.0.2") {
		t.Fatal("a different client must not share the exhausted bucket")
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	clock := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	l := NewRateLimiter(2, 2)
	l.now = func() time.Time { return clock }

	l.allow("c")
	l.allow("c")
	if l.allow("c") {
		t.Fatal("bucket should be empty")
	}

	clock = clock.Add(30 * time.Second) // half a minute at 2/min refills one token
	if !l.allow("c") {
		t.Fatal("expected one refilled token")
	}
	if l.allow("c") {
		t.Fatal("only one token should have refilled")
	}

	clock = clock.Add(time.Hour)
	if !l.allow("c") || !l.allow("c") {
		t.Fatal("long idle should refill to capacity, no further")
	}
	if l.allow("c") {
		t.Fatal("refill must cap at capacity")
	}
}

func TestRateLimiterMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(1, 1).Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}
	if got := get(); got != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", got)
	}
	if got := get(); got != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", got)
	}
}
