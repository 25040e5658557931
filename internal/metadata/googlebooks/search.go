package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	"github.com/shelfgraph/shelfgraph/internal/normalize"
)

// SearchCover looks up a cover image for a single book. An exact-phrase
// query is tried first, then a looser one. Returns "", nil when no volume
// matches or the top match has no cover.
func (c *Client) SearchCover(ctx context.Context, title, author string) (string, error) {
	cleanTitle := normalize.Title(title)

	items, err := c.volumes(ctx, lookupTimeout, url.Values{
		"q":          []string{fmt.Sprintf("intitle:%q inauthor:%q", cleanTitle, author)},
		"maxResults": []string{"3"},
	})
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		items, err = c.volumes(ctx, lookupTimeout, url.Values{
			"q":          []string{fmt.Sprintf("intitle:%s inauthor:%s", cleanTitle, author)},
			"maxResults": []string{"3"},
		})
		if err != nil {
			return "", err
		}
	}
	if len(items) == 0 {
		c.logger.Debug("no Google Books volume found",
			"title", title,
			"author", author,
		)
		return "", nil
	}

	return normalize.CoverURL(items[0].VolumeInfo.ImageLinks.bestCover()), nil
}

// BooksBySubject lists English-language volumes in a genre. Only volumes
// with an explicitly non-English language tag are skipped; untagged volumes
// are kept.
func (c *Client) BooksBySubject(ctx context.Context, subject string, limit int) ([]domain.CandidateBook, error) {
	items, err := c.volumes(ctx, scanTimeout, url.Values{
		"q": []string{"subject:" + subject},
		// Small buffer so language filtering still fills the limit.
		"maxResults":   []string{strconv.Itoa(limit + 5)},
		"orderBy":      []string{"relevance"},
		"langRestrict": []string{"en"},
	})
	if err != nil {
		return nil, err
	}

	books := make([]domain.CandidateBook, 0, limit)
	for _, item := range items {
		info := item.VolumeInfo
		if info.isNonEnglish() || info.Title == "" || len(info.Authors) == 0 {
			continue
		}
		books = append(books, domain.CandidateBook{
			Title:    info.Title,
			Author:   info.Authors[0],
			CoverURL: normalize.CoverURL(info.ImageLinks.bestCover()),
			GoogleID: item.ID,
		})
		if len(books) >= limit {
			break
		}
	}
	return books, nil
}

// BooksByAuthor lists English-language volumes by an author. The caller is
// responsible for filtering out already-read titles.
func (c *Client) BooksByAuthor(ctx context.Context, author string, limit int) ([]domain.CandidateBook, error) {
	items, err := c.volumes(ctx, scanTimeout, url.Values{
		"q":            []string{fmt.Sprintf("inauthor:%q", author)},
		"maxResults":   []string{strconv.Itoa(limit + 5)},
		"langRestrict": []string{"en"},
	})
	if err != nil {
		return nil, err
	}

	books := make([]domain.CandidateBook, 0, limit)
	for _, item := range items {
		info := item.VolumeInfo
		if info.isNonEnglish() || info.Title == "" {
			continue
		}
		books = append(books, domain.CandidateBook{
			Title:    info.Title,
			Author:   author,
			CoverURL: normalize.CoverURL(info.ImageLinks.bestCover()),
			GoogleID: item.ID,
		})
		if len(books) >= limit {
			break
		}
	}
	return books, nil
}

// volumes performs a rate-limited volumes query and returns the items.
func (c *Client) volumes(ctx context.Context, timeout time.Duration, params url.Values) ([]volume, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestURL := c.baseURL + "/volumes?" + params.Encode()
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

	var parsed volumesResponse
	if err := json.UnmarshalRead(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return parsed.Items, nil
}
