// Package domain contains core business entities and rules.
package domain

import "strings"

const (
	// ServerCategory is reserved for quotes that originate from the remote source.
	// User input that happens to use it is still treated as server-owned on merge.
	ServerCategory = "Server"

	// FilterAll selects every quote regardless of category.
	FilterAll = "all"
)

// Quote is a short text tagged with a category.
// Quotes are compared structurally; duplicates are allowed.
type Quote struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuote trims text and category and rejects empty values.
func NewQuote(text, category string) (Quote, error) {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)

	if text == "" {
		return Quote{}, NewValidationError("text", "must not be empty")
	}

	if category == "" {
		return Quote{}, NewValidationError("category", "must not be empty")
	}

	return Quote{Text: text, Category: category}, nil
}

// IsServer reports whether the quote belongs to the remote source.
func (q Quote) IsServer() bool {
	return q.Category == ServerCategory
}

// Valid reports whether both fields are non-empty after trimming.
func (q Quote) Valid() bool {
	return strings.TrimSpace(q.Text) != "" && strings.TrimSpace(q.Category) != ""
}

// MatchesFilter reports whether the quote is selected by filter.
func (q Quote) MatchesFilter(filter string) bool {
	return filter == FilterAll || q.Category == filter
}

// SeedQuotes returns the built-in collection used when nothing valid is stored.
func SeedQuotes() []Quote {
	return []Quote{
		{Text: "The best way to get started is to quit talking and begin doing.", Category: "Motivation"},
		{Text: "Don't let yesterday take up too much of today.", Category: "Inspiration"},
		{Text: "It's not whether you get knocked down, it's whether you get up.", Category: "Perseverance"},
	}
}
