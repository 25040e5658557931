// Package googlebooks provides a client for the Google Books volumes API.
// It serves as the secondary catalog: cover lookups for single books, plus
// genre and author searches for recommendation candidates.
package googlebooks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"

	lookupTimeout = 5 * time.Second
	scanTimeout   = 10 * time.Second
)

// Client provides access to the Google Books volumes API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	apiKey      string
}

// NewClient creates a new Google Books client. An empty API key is valid;
// unauthenticated requests just get a lower quota.
func NewClient(logger *slog.Logger, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		// Stay well under the default unauthenticated quota.
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 5),
		logger:      logger,
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
	}
}

// NewClientWithBaseURL creates a client pointed at a custom base URL.
// Used by tests with httptest servers.
func NewClientWithBaseURL(logger *slog.Logger, baseURL string) *Client {
	c := NewClient(logger, "")
	c.baseURL = baseURL
	c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

// Name identifies the catalog in logs and fallback chains.
func (c *Client) Name() string { return "googlebooks" }

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
