// Package normalize provides utilities for normalizing titles, categories,
// cover URLs, and slugs so data from different catalogs lines up.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches parenthetical series annotations like "(Dune, #1)".
	parenthetical = regexp.MustCompile(`\(.*?\)`)

	// Matches any non-alphanumeric run (for slugs).
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// Matches multiple underscores.
	multipleUnderscore = regexp.MustCompile(`_+`)

	// Matches a Google Books zoom parameter.
	zoomParam = regexp.MustCompile(`zoom=\d`)

	// Matches an OpenLibrary cover size suffix ("-S.jpg", "-L.jpg").
	coverSizeSuffix = regexp.MustCompile(`-[SML]\.jpg$`)
)

// Title strips series annotations and subtitles from a book title so it can
// be used as a stable search key.
// "Dune (Dune, #1): The Beginning" -> "Dune".
// Idempotent: applying it twice yields the same result.
func Title(title string) string {
	title = parenthetical.ReplaceAllString(title, "")
	if idx := strings.Index(title, ":"); idx >= 0 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

// TitleKey returns the lowercased normalized title, used for read-set
// membership and candidate de-duplication.
func TitleKey(title string) string {
	return strings.ToLower(Title(title))
}

// genericTerms are umbrella category segments too vague to be useful as
// subject nodes.
var genericTerms = map[string]bool{
	"general":             true,
	"fiction":             true,
	"nonfiction":          true,
	"juvenile fiction":    true,
	"juvenile nonfiction": true,
}

// maxCategories caps how many flattened category terms we keep per book.
const maxCategories = 8

// Categories flattens hierarchical catalog categories into individual terms.
// "Fiction / Science Fiction / General" -> ["Science Fiction"].
// Boilerplate umbrella terms are discarded; results are deduplicated and
// capped at 8, preserving first-seen order.
func Categories(raw []string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, cat := range raw {
		for part := range strings.SplitSeq(cat, "/") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if genericTerms[key] || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, part)
			if len(out) >= maxCategories {
				return out
			}
		}
	}
	return out
}

// CoverURL cleans a cover image URL so downstream consumers see consistent
// values regardless of which catalog supplied it: https enforced, medium
// flat variant requested, page-curl effect stripped.
func CoverURL(raw string) string {
	if raw == "" {
		return ""
	}
	u := strings.Replace(raw, "http://", "https://", 1)

	// Google Books: medium zoom, no page-curl edge.
	u = zoomParam.ReplaceAllString(u, "zoom=2")
	u = strings.ReplaceAll(u, "&edge=curl", "")
	u = strings.ReplaceAll(u, "?edge=curl&", "?")
	u = strings.TrimSuffix(u, "?edge=curl")

	// OpenLibrary: force the medium size variant.
	if strings.Contains(u, "covers.openlibrary.org") {
		u = coverSizeSuffix.ReplaceAllString(u, "-M.jpg")
	}

	return u
}

// Slug converts a string to a lowercase underscore slug for catalog subject
// endpoints and award identifiers.
// "Science Fiction" -> "science_fiction".
// "Hugo Award" -> "hugo_award".
func Slug(s string) string {
	// Decompose accented characters, then drop non-ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "_")
	s = multipleUnderscore.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// awardMarkers identify subject strings that name a literary award.
var awardMarkers = []string{"award", "prize", "medal"}

// AwardSlug maps a subject string that names a literary award to a normalized
// identifier ("Hugo Award Winner" -> "hugo_award"). Returns "" when the
// subject does not look like an award.
func AwardSlug(subject string) string {
	lower := strings.ToLower(subject)

	marker := ""
	for _, m := range awardMarkers {
		if strings.Contains(lower, m) {
			marker = m
			break
		}
	}
	if marker == "" {
		return ""
	}

	// Keep everything through the marker word, dropping qualifiers like
	// "winner" or "nominee" that follow it.
	idx := strings.Index(lower, marker) + len(marker)
	return Slug(subject[:idx])
}
