package inventaire

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	"github.com/shelfgraph/shelfgraph/internal/normalize"
)

// searchResponse is the raw entities search response.
type searchResponse struct {
	Results []entity `json:"results"`
}

// entity is a single work entity from a search.
type entity struct {
	URI         string `json:"uri"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Image       struct {
		URL string `json:"url"`
	} `json:"image"`
}

// SearchCover looks for a cover image. A combined title+author search is
// tried first, then title-only. Returns "", nil when no entity has an image.
func (c *Client) SearchCover(ctx context.Context, title, author string) (string, error) {
	cleanTitle := normalize.Title(title)

	results, err := c.search(ctx, cleanTitle+" "+author, 3)
	if err != nil {
		return "", err
	}
	if coverOf(results) == "" {
		results, err = c.search(ctx, cleanTitle, 3)
		if err != nil {
			return "", err
		}
	}

	if raw := coverOf(results); raw != "" {
		return normalize.CoverURL(c.imageURL(raw)), nil
	}
	return "", nil
}

// coverOf returns the first non-empty image path in results.
func coverOf(results []entity) string {
	for _, e := range results {
		if e.Image.URL != "" {
			return e.Image.URL
		}
	}
	return ""
}

// BooksBySubject lists work entities matching a subject term. Inventaire
// search results do not always include the author; entries that cannot be
// attributed are dropped so downstream code has consistent data.
func (c *Client) BooksBySubject(ctx context.Context, subject string, limit int) ([]domain.CandidateBook, error) {
	results, err := c.search(ctx, subject, limit+5)
	if err != nil {
		return nil, err
	}

	books := make([]domain.CandidateBook, 0, limit)
	for _, e := range results {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			continue
		}

		// Descriptions often read "novel by Author Name"; extract the
		// author best-effort and skip entries we cannot attribute.
		author := authorFromDescription(e.Description)
		if author == "" {
			continue
		}

		books = append(books, domain.CandidateBook{
			Title:         label,
			Author:        author,
			CoverURL:      normalize.CoverURL(c.imageURL(e.Image.URL)),
			InventaireURI: e.URI,
		})
		if len(books) >= limit {
			break
		}
	}
	return books, nil
}

// BooksByAuthor lists work entities surfaced by an author-name search.
// The caller is responsible for filtering out already-read titles.
func (c *Client) BooksByAuthor(ctx context.Context, author string, limit int) ([]domain.CandidateBook, error) {
	results, err := c.search(ctx, author, limit+5)
	if err != nil {
		return nil, err
	}

	books := make([]domain.CandidateBook, 0, limit)
	for _, e := range results {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			continue
		}
		books = append(books, domain.CandidateBook{
			Title:         label,
			Author:        author,
			CoverURL:      normalize.CoverURL(c.imageURL(e.Image.URL)),
			InventaireURI: e.URI,
		})
		if len(books) >= limit {
			break
		}
	}
	return books, nil
}

// authorFromDescription extracts an author name from descriptions of the
// form "novel by Author Name". Returns "" when no attribution is present.
func authorFromDescription(description string) string {
	if _, after, ok := strings.Cut(description, " by "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// search performs a rate-limited entities search restricted to works.
func (c *Client) search(ctx context.Context, query string, limit int) ([]entity, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("action", "search")
	params.Set("search", query)
	params.Set("types", "works")
	params.Set("lang", "en")
	params.Set("limit", strconv.Itoa(limit))

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	requestURL := c.baseURL + "/api/entities?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.UnmarshalRead(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return parsed.Results, nil
}
