package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/braikhq/braik/pkg/response"
	"github.com/gin-gonic/gin"
)

func setupRateLimitRouter(rps float64, burst int) *gin.Engine {
	r := gin.New()
	r.GET("/ping", RateLimit(rps, burst), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func doPing(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	r := setupRateLimitRouter(1, 3)

	for i := 0; i < 3; i++ {
		if w := doPing(r, "10.0.0.1"); w.Code != http.StatusOK {
			t.Errorf("request %d: expected status %d, got %d", i+1, http.StatusOK, w.Code)
		}
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	r := setupRateLimitRouter(0.1, 2)

	doPing(r, "10.0.0.2")
	doPing(r, "10.0.0.2")

	w := doPing(r, "10.0.0.2")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d after burst exhausted, got %d", http.StatusTooManyRequests, w.Code)
	}

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse throttle response: %v", err)
	}
	if resp.Code != http.StatusTooManyRequests {
		t.Errorf("envelope code = %d, want %d", resp.Code, http.StatusTooManyRequests)
	}
	if resp.Message == "" {
		t.Error("throttle response carries no message")
	}
}

func TestRateLimiter_PerIP(t *testing.T) {
	r := setupRateLimitRouter(0.1, 1)

	if w := doPing(r, "10.0.0.3"); w.Code != http.StatusOK {
		t.Fatalf("first IP first request: got %d", w.Code)
	}
	if w := doPing(r, "10.0.0.3"); w.Code != http.StatusTooManyRequests {
		t.Errorf("first IP second request: expected 429, got %d", w.Code)
	}

	// A different IP has its own bucket.
	if w := doPing(r, "10.0.0.4"); w.Code != http.StatusOK {
		t.Errorf("second IP should not be throttled, got %d", w.Code)
	}
}
