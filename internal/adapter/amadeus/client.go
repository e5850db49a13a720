// internal/adapter/amadeus/client.go

package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightscout/internal/domain/flight"
)

// DefaultBaseURL is the self-service test environment
const DefaultBaseURL = "https://test.api.amadeus.com"

// Config contains configuration for the Amadeus client
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration

	// Fixed offer-search parameters
	Adults     int
	MaxResults int
	Currency   string
}

// DefaultConfig returns the defaults used by the web client
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    10 * time.Second,
		Adults:     1,
		MaxResults: 20,
		Currency:   "USD",
	}
}

// Client talks to the Amadeus self-service API
type Client struct {
	baseURL    string
	cfg        Config
	httpClient *http.Client
	cache      *TokenCache
	tokens     flight.TokenSource
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for all requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock sets the time source of the token cache
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.cache.SetClock(now) }
}

// WithTokenSource replaces the built-in token cache
func WithTokenSource(ts flight.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// NewClient creates a new Amadeus client
func NewClient(cfg Config, opts ...Option) *Client {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Adults <= 0 {
		cfg.Adults = defaults.Adults
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaults.MaxResults
	}
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default(),
	}
	c.cache = NewTokenCache(c.baseURL, cfg.APIKey, cfg.APISecret, c.httpClient)
	c.tokens = c.cache

	for _, opt := range opts {
		opt(c)
	}
	c.cache.httpClient = c.httpClient

	return c
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, dest any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("amadeus: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amadeus: request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("amadeus request",
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("amadeus: HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("amadeus: decoding response: %w", err)
	}
	return nil
}
