package openlibrary

import "fmt"

// searchResponse is the raw /search.json response.
type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

// searchDoc is a single work from the search API.
type searchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	CoverID             int64    `json:"cover_i"`
	EditionKeys         []string `json:"edition_key"`
	Subjects            []string `json:"subject"`
	FirstPublishYear    int      `json:"first_publish_year"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	RatingsAverage      float64  `json:"ratings_average"`
}

// editionResponse is the raw /books/{id}.json response, used as a cover
// fallback when search results carry no cover id.
type editionResponse struct {
	Covers []int64 `json:"covers"`
}

// subjectResponse is the raw /subjects/{slug}.json response.
type subjectResponse struct {
	Works []subjectWork `json:"works"`
}

// subjectWork is a single work from the subject API.
type subjectWork struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	CoverID int64  `json:"cover_id"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// coverURL builds a covers.openlibrary.org URL for a cover id, medium size.
func (c *Client) coverURL(coverID int64) string {
	if coverID == 0 {
		return ""
	}
	return fmt.Sprintf("%s/b/id/%d-M.jpg", c.coversURL, coverID)
}
