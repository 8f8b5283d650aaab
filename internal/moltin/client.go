// Package moltin is a read/write client for the Moltin (Elastic Path)
// e-commerce API consumed by the storefront bot. It covers the catalog,
// cart, and customer endpoints the bot needs and transparently maintains a
// cached client-credentials bearer token for every call.
//
// The client is deliberately thin: responses are JSON envelopes of shape
// {"data": ...}, non-2xx statuses become *APIError carrying status and body,
// and nothing is retried.
package moltin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"tg-store-bot/internal/domain"
)

const (
	// DefaultBaseURL is the production Moltin API host.
	DefaultBaseURL = "https://api.moltin.com"

	defaultTimeout = 30 * time.Second
)

// Config holds the settings required to construct a Client.
type Config struct {
	// BaseURL of the backend API; DefaultBaseURL when empty.
	BaseURL string
	// ClientID / ClientSecret are the client-credentials pair exchanged for
	// bearer tokens.
	ClientID     string
	ClientSecret string
	// Timeout bounds every HTTP call (token exchanges included).
	Timeout time.Duration
	// RPS / Burst configure the client-side rate limiter. RPS <= 0 disables
	// limiting.
	RPS   float64
	Burst int
	// Logger is used for request-level debug logging.
	Logger zerolog.Logger
}

// Client talks to the backend API. All methods require a valid bearer token,
// which is obtained and refreshed through the embedded TokenSource. A Client
// is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     *TokenSource
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// New constructs a Client from cfg.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     NewTokenSource(httpClient, baseURL, cfg.ClientID, cfg.ClientSecret),
		limiter:    rate.NewLimiter(limit, burst),
		log:        cfg.Logger,
	}
}

// APIError is a non-success HTTP response from the backend. Status and the
// raw response body are propagated so the caller (and the logs) see exactly
// what the backend reported.
type APIError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

// Unwrap maps 404 responses onto domain.ErrNotFound so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

// do performs one authenticated request against path. A non-nil body is JSON
// encoded; a non-nil out receives the decoded 2xx response. The HTTP status
// is returned alongside err so callers that distinguish between success codes
// (cart item creation) can branch on it.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, err
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return 0, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend call")
	backendCalls.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// maxErrorBodyBytes caps how much of an error response body is captured.
const maxErrorBodyBytes = 4 << 10
