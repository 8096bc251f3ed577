package main

import (
	"fmt"
	"strings"
)

// MaxYear is the latest publication year accepted by the api.
const MaxYear = 2025

// Book represents a single catalog record. The title is the de facto
// key and is always compared case-insensitively. Duplicates are allowed.
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Genre  string `json:"genre"`
	Read   bool   `json:"read"`
}

// String renders the book as a single display line.
func (b Book) String() string {
	status := "Unread"
	if b.Read {
		status = "Read"
	}
	return fmt.Sprintf("%s by %s (%d) - %s - %s", b.Title, b.Author, b.Year, b.Genre, status)
}

// HasTitle reports whether the book title equals t, ignoring case.
func (b Book) HasTitle(t string) bool {
	return strings.EqualFold(b.Title, t)
}

// SearchField names the book attribute a search query applies to.
type SearchField string

const (
	SearchByTitle  SearchField = "title"
	SearchByAuthor SearchField = "author"
)

// ParseSearchField validates a raw field name.
func ParseSearchField(s string) (SearchField, error) {
	switch f := SearchField(strings.ToLower(strings.TrimSpace(s))); f {
	case SearchByTitle, SearchByAuthor:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSearchField, s)
}

// Matches reports whether the given field of b contains query as a
// case-insensitive substring.
func (f SearchField) Matches(b Book, query string) bool {
	var value string
	switch f {
	case SearchByTitle:
		value = b.Title
	case SearchByAuthor:
		value = b.Author
	default:
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

// CatalogStats holds the catalog summary. Percentage is kept unrounded,
// String rounds it to two decimals.
type CatalogStats struct {
	Total      int     `json:"total"`
	Read       int     `json:"read"`
	Percentage float64 `json:"percentage"`
}

// ComputeStats counts the books and the share flagged as read.
// An empty catalog yields zero percent.
func ComputeStats(books []Book) CatalogStats {
	stats := CatalogStats{Total: len(books)}
	for _, b := range books {
		if b.Read {
			stats.Read++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = float64(stats.Read) / float64(stats.Total) * 100
	}
	return stats
}

func (s CatalogStats) String() string {
	return fmt.Sprintf("Total books: %d\nPercentage read: %.2f%%", s.Total, s.Percentage)
}

// FormatCatalog renders the books as numbered display lines starting at 1.
func FormatCatalog(books []Book) []string {
	lines := make([]string, 0, len(books))
	for i, b := range books {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, b))
	}
	return lines
}
