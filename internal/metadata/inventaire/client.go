// Package inventaire provides a client for the Inventaire entities API.
// It is the tertiary catalog: a last-resort source of covers plus subject
// and author searches over its Wikidata-backed entities.
package inventaire

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://inventaire.io"

	searchTimeout = 8 * time.Second
)

// Client provides access to the Inventaire entities API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// NewClient creates a new Inventaire client.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:      logger,
		baseURL:     defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client pointed at a custom base URL.
// Used by tests with httptest servers.
func NewClientWithBaseURL(logger *slog.Logger, baseURL string) *Client {
	c := NewClient(logger)
	c.baseURL = baseURL
	c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

// Name identifies the catalog in logs and fallback chains.
func (c *Client) Name() string { return "inventaire" }

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

// imageURL converts a relative Inventaire image path to an absolute URL.
func (c *Client) imageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "/") {
		return c.baseURL + raw
	}
	return raw
}
