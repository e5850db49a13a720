// internal/adapter/amadeus/token.go

package amadeus

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

	"golang.org/x/sync/singleflight"

	"flightscout/internal/domain/flight"
)

const tokenPath = "/v1/security/oauth2/token"

// TokenCache holds the bearer token for the upstream API and refreshes it
// on expiry. Concurrent callers that find the token missing or expired share
// a single exchange.
type TokenCache struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time

	group singleflight.Group

	mu     sync.Mutex
	value  string
	expiry time.Time
}

// NewTokenCache creates a token cache for the given credentials
func NewTokenCache(baseURL, clientID, clientSecret string, httpClient *http.Client) *TokenCache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenCache{
		endpoint:     strings.TrimRight(baseURL, "/") + tokenPath,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		now:          time.Now,
	}
}

// SetClock replaces the time source used for expiry checks
func (tc *TokenCache) SetClock(now func() time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.now = now
}

// Token returns the cached token while it is valid, otherwise exchanges the
// client credentials for a new one. Failures are returned as *flight.AuthError.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	if token, ok := tc.cached(); ok {
		return token, nil
	}

	// The shared exchange must not die with whichever caller started it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := tc.group.Do("token", func() (any, error) {
		if token, ok := tc.cached(); ok {
			return token, nil
		}
		return tc.exchange(shared)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token so the next call re-authenticates
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.value = ""
	tc.expiry = time.Time{}
}

func (tc *TokenCache) cached() (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.value != "" && tc.now().Before(tc.expiry) {
		return tc.value, true
	}
	return "", false
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (tc *TokenCache) exchange(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {tc.clientID},
		"client_secret": {tc.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &flight.AuthError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return "", &flight.AuthError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &flight.AuthError{Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", &flight.AuthError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", &flight.AuthError{Err: errors.New("response carried no access token")}
	}

	tc.mu.Lock()
	tc.value = tr.AccessToken
	tc.expiry = tc.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	tc.mu.Unlock()

	return tr.AccessToken, nil
}
