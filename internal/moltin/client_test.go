package moltin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

// newTestClient spins up an httptest server with a working token endpoint
// plus the given API routes, and returns a Client pointed at it.
func newTestClient(t *testing.T, routes map[string]http.HandlerFunc) (*Client, *tokenCounter) {
	t.Helper()

	counter := &tokenCounter{}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		counter.n++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","expires_in":3600}`))
	})
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(Config{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		Logger:       zerolog.Nop(),
	})
	return c, counter
}

// tokenCounter tracks how many times the token endpoint was hit.
type tokenCounter struct{ n int }

// requireBearer fails the test when the request does not carry the token the
// test endpoint issues.
func requireBearer(t *testing.T, r *http.Request) {
	t.Helper()
	if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Fatalf("Authorization = %q; want bearer test-token", got)
	}
}

func jsonResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}
