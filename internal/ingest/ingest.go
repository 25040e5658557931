// Package ingest reads Goodreads library export CSVs into book records
// and computes the descriptive stats shown after an upload.
package ingest

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shelfgraph/shelfgraph/internal/domain"
	domainerrors "github.com/shelfgraph/shelfgraph/internal/errors"
)

// Column headers of the Goodreads export this reader consumes.
const (
	colTitle    = "Title"
	colAuthor   = "Author"
	colRating   = "My Rating"
	colDateRead = "Date Read"
	colPages    = "Number of Pages"
	colPubYear  = "Original Publication Year"
)

// Goodreads writes dates as 2006/01/02; tolerate ISO too.
var dateLayouts = []string{"2006/01/02", "2006-01-02"}

// Options controls ingestion.
type Options struct {
	// YearRead keeps only books whose Date Read falls in this year.
	// Zero keeps everything. Rows without a parseable date are dropped
	// when a filter is set.
	YearRead int
}

// Stats summarizes an ingested history.
type Stats struct {
	TotalBooks    int     `json:"total_books"`
	TotalPages    int     `json:"total_pages"`
	AverageRating float64 `json:"avg_rating"`
	TopAuthor     string  `json:"top_author,omitempty"`
}

// Result is the outcome of reading one export file.
type Result struct {
	Records []*domain.BookRecord
	Stats   Stats
}

// Read parses a Goodreads CSV export. Rows without both a title and an
// author are skipped; a rating of 0 is the export's "unrated" sentinel.
func Read(r io.Reader, opts Options) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "reading CSV header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colTitle, colAuthor, colDateRead} {
		if _, ok := cols[required]; !ok {
			return nil, domainerrors.Validationf("CSV missing %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := &Result{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "reading CSV row")
		}

		title := field(row, colTitle)
		author := field(row, colAuthor)
		if title == "" || author == "" {
			continue
		}

		if opts.YearRead > 0 {
			year, ok := parseYearRead(field(row, colDateRead))
			if !ok || year != opts.YearRead {
				continue
			}
		}

		rating, _ := strconv.Atoi(field(row, colRating))
		rec := domain.NewBookRecord(title, author, rating)
		if pages, err := strconv.Atoi(field(row, colPages)); err == nil && pages > 0 {
			rec.PageCount = pages
		}
		if year, err := strconv.Atoi(field(row, colPubYear)); err == nil && year > 0 {
			rec.FirstPublishYear = year
		}
		result.Records = append(result.Records, rec)
	}

	result.Stats = computeStats(result.Records)
	return result, nil
}

func parseYearRead(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

// computeStats derives the upload summary. The average covers rated
// books only, since 0 means "unrated" rather than a zero-star review.
func computeStats(records []*domain.BookRecord) Stats {
	s := Stats{TotalBooks: len(records)}

	ratingSum, rated := 0, 0
	byAuthor := make(map[string]int)
	for _, rec := range records {
		s.TotalPages += rec.PageCount
		if rec.Rating != nil {
			ratingSum += *rec.Rating
			rated++
		}
		byAuthor[rec.Author]++
	}
	if rated > 0 {
		s.AverageRating = math.Round(float64(ratingSum)/float64(rated)*100) / 100
	}

	authors := make([]string, 0, len(byAuthor))
	for a := range byAuthor {
		authors = append(authors, a)
	}
	sort.Slice(authors, func(i, j int) bool {
		if byAuthor[authors[i]] != byAuthor[authors[j]] {
			return byAuthor[authors[i]] > byAuthor[authors[j]]
		}
		return authors[i] < authors[j]
	})
	if len(authors) > 0 {
		s.TopAuthor = authors[0]
	}
	return s
}
