package ingest

import (
	"strings"
	"testing"

	domainerrors "github.com/shelfgraph/shelfgraph/internal/errors"
)

const sampleCSV = `Title,Author,My Rating,Date Read,Number of Pages,Original Publication Year
Dune,Frank Herbert,5,2025/01/15,412,1965
"Dune Messiah",Frank Herbert,4,2025/03/02,256,1969
Hyperion,Dan Simmons,0,2024/11/20,482,1989
Solaris,Stanislaw Lem,3,,204,1961
,Unknown Author,2,2025/02/01,100,2000
Untitled Draft,,1,2025/02/02,90,2001
`

func TestRead_All(t *testing.T) {
	res, err := Read(strings.NewReader(sampleCSV), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Rows missing title or author are skipped.
	if len(res.Records) != 4 {
		t.Fatalf("records = %d, want 4", len(res.Records))
	}

	dune := res.Records[0]
	if dune.ID != "Dune::Frank Herbert" {
		t.Errorf("ID = %q", dune.ID)
	}
	if dune.Rating == nil || *dune.Rating != 5 {
		t.Errorf("Rating = %v", dune.Rating)
	}
	if dune.PageCount != 412 || dune.FirstPublishYear != 1965 {
		t.Errorf("pages/year = %d/%d", dune.PageCount, dune.FirstPublishYear)
	}

	// The 0 rating maps to unrated.
	hyperion := res.Records[2]
	if hyperion.Rating != nil {
		t.Errorf("sentinel rating not mapped to nil: %v", *hyperion.Rating)
	}

	stats := res.Stats
	if stats.TotalBooks != 4 {
		t.Errorf("TotalBooks = %d", stats.TotalBooks)
	}
	if stats.TotalPages != 412+256+482+204 {
		t.Errorf("TotalPages = %d", stats.TotalPages)
	}
	// Average over rated books only: (5+4+3)/3.
	if stats.AverageRating != 4.0 {
		t.Errorf("AverageRating = %v", stats.AverageRating)
	}
	if stats.TopAuthor != "Frank Herbert" {
		t.Errorf("TopAuthor = %q", stats.TopAuthor)
	}
}

func TestRead_YearFilter(t *testing.T) {
	res, err := Read(strings.NewReader(sampleCSV), Options{YearRead: 2025})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Hyperion was read in 2024; Solaris has no Date Read.
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	for _, rec := range res.Records {
		if rec.Author != "Frank Herbert" {
			t.Errorf("unexpected record %q", rec.ID)
		}
	}
}

func TestRead_MissingColumns(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"no date read", "Title,Author,My Rating\nDune,Frank Herbert,5\n"},
		{"no title", "Author,Date Read\nFrank Herbert,2025/01/01\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv), Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			var derr *domainerrors.Error
			if !domainerrors.As(err, &derr) || derr.Code != domainerrors.CodeValidation {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestRead_Empty(t *testing.T) {
	const headerOnly = "Title,Author,My Rating,Date Read\n"
	res, err := Read(strings.NewReader(headerOnly), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.Records) != 0 {
		t.Errorf("records = %d", len(res.Records))
	}
	if res.Stats.TotalBooks != 0 || res.Stats.AverageRating != 0 || res.Stats.TopAuthor != "" {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRead_ISODates(t *testing.T) {
	const csv = "Title,Author,My Rating,Date Read\nDune,Frank Herbert,5,2025-06-30\n"
	res, err := Read(strings.NewReader(csv), Options{YearRead: 2025})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.Records) != 1 {
		t.Errorf("records = %d, want 1", len(res.Records))
	}
}
