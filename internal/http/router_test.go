package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthz_OKWhenProbePasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(func(ctx context.Context) error { return nil })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d; want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestHealthz_DegradedWhenProbeFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(func(ctx context.Context) error { return errors.New("redis down") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /healthz = %d; want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "redis down") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestMetricsEndpoint_Serves(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d; want 200", w.Code)
	}
}

func TestRequestID_PropagatesIncomingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q; want abc-123", got)
	}
}
