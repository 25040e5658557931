package inventaire

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSearchCover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/entities" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("types"); got != "works" {
			t.Errorf("types = %q", got)
		}
		w.Write([]byte(`{
			"results": [
				{"uri": "wd:Q1", "label": "Dune", "image": {"url": "/img/entities/abc123"}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testLogger(), srv.URL)
	cover, err := c.SearchCover(context.Background(), "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("SearchCover: %v", err)
	}

	// Relative path absolutized against the base URL.
	want := srv.URL + "/img/entities/abc123"
	if cover != want {
		t.Errorf("cover = %q, want %q", cover, want)
	}
}

func TestSearchCover_TitleOnlyFallback(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"results": []}`))
			return
		}
		w.Write([]byte(`{"results": [{"uri": "wd:Q2", "label": "Dune", "image": {"url": "https://x/cover.jpg"}}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testLogger(), srv.URL)
	cover, err := c.SearchCover(context.Background(), "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("SearchCover: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want combined then title-only", calls)
	}
	if cover != "https://x/cover.jpg" {
		t.Errorf("cover = %q", cover)
	}
}

func TestBooksBySubject_DropsUnattributed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"results": [
				{"uri": "wd:Q1", "label": "Hyperion", "description": "novel by Dan Simmons"},
				{"uri": "wd:Q2", "label": "Mystery Work", "description": "a 1970 novel"},
				{"uri": "wd:Q3", "label": "", "description": "novel by Someone"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testLogger(), srv.URL)
	books, err := c.BooksBySubject(context.Background(), "science fiction", 8)
	if err != nil {
		t.Fatalf("BooksBySubject: %v", err)
	}

	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}
	if books[0].Title != "Hyperion" || books[0].Author != "Dan Simmons" {
		t.Errorf("book = %+v", books[0])
	}
	if books[0].InventaireURI != "wd:Q1" {
		t.Errorf("InventaireURI = %q", books[0].InventaireURI)
	}
}

func TestBooksByAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"results": [
				{"uri": "wd:Q1", "label": "Dune Messiah"},
				{"uri": "wd:Q2", "label": "Children of Dune"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(testLogger(), srv.URL)
	books, err := c.BooksByAuthor(context.Background(), "Frank Herbert", 10)
	if err != nil {
		t.Fatalf("BooksByAuthor: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("got %d books, want 2", len(books))
	}
	for _, b := range books {
		if b.Author != "Frank Herbert" {
			t.Errorf("Author = %q", b.Author)
		}
	}
}

func TestAuthorFromDescription(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"novel by Frank Herbert", "Frank Herbert"},
		{"1965 science fiction novel by Frank Herbert", "Frank Herbert"},
		{"a 1970 novel", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := authorFromDescription(tt.input); got != tt.expected {
				t.Errorf("authorFromDescription(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
