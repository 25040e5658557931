package googlebooks

// volumesResponse is the raw volumes search response.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// volume is a single item from a volumes search.
type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

// volumeInfo carries the book fields we care about.
type volumeInfo struct {
	Title      string     `json:"title"`
	Authors    []string   `json:"authors"`
	Categories []string   `json:"categories"`
	Language   string     `json:"language"`
	PageCount  int        `json:"pageCount"`
	ImageLinks imageLinks `json:"imageLinks"`
}

// imageLinks holds the cover variants Google Books offers.
type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// bestCover picks the preferred cover variant, largest first.
func (l imageLinks) bestCover() string {
	if l.Thumbnail != "" {
		return l.Thumbnail
	}
	return l.SmallThumbnail
}

// isNonEnglish reports whether the volume is explicitly tagged with a
// non-English language. Volumes without a language tag are kept.
func (v volumeInfo) isNonEnglish() bool {
	return v.Language != "" && v.Language != "en"
}
