// Package openlibrary provides a client for the OpenLibrary search, subject,
// and edition APIs. It is the primary catalog: the only one that supplies
// subjects, awards, and external ratings in addition to covers.
package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"

	// Per-call deadlines: short for single-book lookups, longer for the
	// bulk subject/author scans used by recommendations.
	lookupTimeout = 5 * time.Second
	scanTimeout   = 10 * time.Second
)

// Client provides access to the OpenLibrary APIs.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	coversURL   string
}

// NewClient creates a new OpenLibrary client.
// Rate limited to roughly one request per second as OpenLibrary asks of
// unauthenticated clients, with a small burst for fallback sub-requests.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		baseURL:     defaultBaseURL,
		coversURL:   defaultCoversURL,
	}
}

// NewClientWithBaseURL creates a client pointed at a custom base URL.
// Used by tests with httptest servers.
func NewClientWithBaseURL(logger *slog.Logger, baseURL, coversURL string) *Client {
	c := NewClient(logger)
	c.baseURL = baseURL
	c.coversURL = coversURL
	c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

// Name identifies the catalog in logs and fallback chains.
func (c *Client) Name() string { return "openlibrary" }

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
