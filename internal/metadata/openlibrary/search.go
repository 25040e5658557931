package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	"github.com/shelfgraph/shelfgraph/internal/normalize"
)

// SearchWork looks up rich work metadata for a single book. The title is
// normalized (series annotation and subtitle stripped) before searching for
// a better hit rate. Returns nil, nil when nothing matches.
func (c *Client) SearchWork(ctx context.Context, title, author string) (*domain.PartialMetadata, error) {
	params := url.Values{}
	params.Set("title", normalize.Title(title))
	params.Set("author", author)
	params.Set("limit", "1")

	var resp searchResponse
	if err := c.getJSON(ctx, lookupTimeout, c.baseURL+"/search.json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Docs) == 0 {
		c.logger.Debug("no OpenLibrary work found",
			"title", title,
			"author", author,
		)
		return nil, nil
	}

	doc := resp.Docs[0]
	meta := &domain.PartialMetadata{
		OpenLibraryID:    doc.Key,
		Subjects:         normalize.Categories(doc.Subjects),
		CoverURL:         normalize.CoverURL(c.coverURL(doc.CoverID)),
		FirstPublishYear: doc.FirstPublishYear,
		PageCount:        doc.NumberOfPagesMedian,
		ExternalRating:   doc.RatingsAverage,
	}

	// Subjects double as award markers ("Hugo Award Winner" etc.).
	seen := make(map[string]bool)
	for _, subject := range doc.Subjects {
		if slug := normalize.AwardSlug(subject); slug != "" && !seen[slug] {
			seen[slug] = true
			meta.AwardSlugs = append(meta.AwardSlugs, slug)
		}
	}

	return meta, nil
}

// SearchCover looks for a cover image, first in the search results and then
// through the edition API of the top docs. Returns "", nil when no cover is
// found.
func (c *Client) SearchCover(ctx context.Context, title, author string) (string, error) {
	params := url.Values{}
	params.Set("title", normalize.Title(title))
	params.Set("author", author)
	params.Set("limit", "5")

	var resp searchResponse
	if err := c.getJSON(ctx, scanTimeout, c.baseURL+"/search.json?"+params.Encode(), &resp); err != nil {
		return "", err
	}

	for _, doc := range resp.Docs {
		if doc.CoverID != 0 {
			return normalize.CoverURL(c.coverURL(doc.CoverID)), nil
		}

		// No cover id on the doc itself; try its first edition.
		if len(doc.EditionKeys) == 0 {
			continue
		}
		var edition editionResponse
		editionURL := fmt.Sprintf("%s/books/%s.json", c.baseURL, doc.EditionKeys[0])
		if err := c.getJSON(ctx, lookupTimeout, editionURL, &edition); err != nil {
			c.logger.Debug("edition lookup failed",
				"edition", doc.EditionKeys[0],
				"error", err,
			)
			continue
		}
		if len(edition.Covers) > 0 {
			return normalize.CoverURL(c.coverURL(edition.Covers[0])), nil
		}
	}

	return "", nil
}

// BooksBySubject lists works tagged with a subject via the subjects API.
// The subject is slugified for the endpoint ("Science Fiction" ->
// "science_fiction").
func (c *Client) BooksBySubject(ctx context.Context, subject string, limit int) ([]domain.CandidateBook, error) {
	slug := normalize.Slug(subject)
	if slug == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/subjects/%s.json?limit=%d", c.baseURL, slug, limit)

	var resp subjectResponse
	if err := c.getJSON(ctx, scanTimeout, endpoint, &resp); err != nil {
		return nil, err
	}

	books := make([]domain.CandidateBook, 0, len(resp.Works))
	for _, work := range resp.Works {
		if work.Title == "" || len(work.Authors) == 0 {
			continue
		}
		books = append(books, domain.CandidateBook{
			Title:         work.Title,
			Author:        work.Authors[0].Name,
			CoverURL:      normalize.CoverURL(c.coverURL(work.CoverID)),
			OpenLibraryID: work.Key,
		})
		if len(books) >= limit {
			break
		}
	}
	return books, nil
}

// BooksByAuthor lists works by an author via the search API. The caller is
// responsible for filtering out already-read titles.
func (c *Client) BooksByAuthor(ctx context.Context, author string, limit int) ([]domain.CandidateBook, error) {
	params := url.Values{}
	params.Set("author", author)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp searchResponse
	if err := c.getJSON(ctx, scanTimeout, c.baseURL+"/search.json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	books := make([]domain.CandidateBook, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		if doc.Title == "" {
			continue
		}
		books = append(books, domain.CandidateBook{
			Title:         doc.Title,
			Author:        author,
			CoverURL:      normalize.CoverURL(c.coverURL(doc.CoverID)),
			OpenLibraryID: doc.Key,
		})
	}
	return books, nil
}

// getJSON performs a rate-limited GET with a per-call deadline and decodes
// the JSON body into out.
func (c *Client) getJSON(ctx context.Context, timeout time.Duration, requestURL string, out any) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
