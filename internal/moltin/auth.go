package moltin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrAuth indicates that the client-credentials token exchange failed. It is
// never retried automatically; the next call attempts a fresh exchange.
var ErrAuth = errors.New("token exchange failed")

// refreshMargin is subtracted from the lifetime the token endpoint reports,
// so a token is refreshed shortly before the backend would reject it.
const refreshMargin = 100 * time.Second

// TokenSource obtains and caches a single process-wide bearer token for the
// backend API. The cached token is shared by every session; callers get a
// token whose expiry is in the future at the moment of the call, at the cost
// of one exchange per expiry window.
//
// The mutex guarantees token and expiry are never observed half-updated.
// Concurrent callers hitting an expired cache serialize on the exchange, so
// at most one redundant exchange can happen around process start.
type TokenSource struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string

	// now is injectable for tests; time.Now otherwise.
	now func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource constructs a TokenSource with an empty (expired) cache.
func NewTokenSource(httpClient *http.Client, baseURL, clientID, clientSecret string) *TokenSource {
	return &TokenSource{
		httpClient:   httpClient,
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// Token returns a bearer token valid at the time of the call, performing a
// client-credentials exchange when the cached one is absent or expired.
// A reported lifetime of refreshMargin or less yields an expiry that is
// already in the past, forcing a fresh exchange on the next call.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.token != "" && now.Before(t.expiry) {
		return t.token, nil
	}

	token, lifetime, err := t.exchange(ctx)
	if err != nil {
		return "", err
	}
	t.token = token
	t.expiry = now.Add(lifetime - refreshMargin)
	tokenRefreshes.Inc()
	return t.token, nil
}

// exchange posts the client credentials to the token endpoint and returns the
// issued token together with its reported lifetime.
func (t *TokenSource) exchange(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"client_id":     {t.clientID},
		"client_secret": {t.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.baseURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", 0, fmt.Errorf("%w: token endpoint returned %d: %s", ErrAuth, resp.StatusCode, raw)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("%w: decoding token response: %v", ErrAuth, err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", ErrAuth)
	}
	return payload.AccessToken, time.Duration(payload.ExpiresIn) * time.Second, nil
}
