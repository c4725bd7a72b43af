package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

const (
	// DefaultLimit is the page size when the client sends none.
	DefaultLimit = 20

	// MaxLimit caps the page size.
	MaxLimit = 100
)

// ErrInvalidCursor rejects a cursor that does not decode or that was issued
// for another category.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the paging part of a list query.
type PaginationRequest struct {
	// Cursor is the NextCursor of the previous page.
	Cursor string `form:"cursor"`

	// Limit is the page size, 1 to MaxLimit.
	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// PageSize returns Limit clamped to [1, MaxLimit], DefaultLimit when unset.
func (p PaginationRequest) PageSize() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// After returns the collection position the requested page starts after,
// or -1 for the first page. The cursor must have been issued for category.
func (p PaginationRequest) After(category string) (int, error) {
	if p.Cursor == "" {
		return -1, nil
	}

	c, err := ParseCursor(p.Cursor)
	if err != nil {
		return 0, err
	}

	if c.Category != category {
		return 0, ErrInvalidCursor
	}

	return c.Position, nil
}

// Cursor marks where a page ended. Quotes have no identity beyond their
// place in the collection, so it records that place and the category the
// listing was filtered by.
type Cursor struct {
	Position int    `json:"p"`
	Category string `json:"c,omitempty"`
}

// Encode returns the opaque form sent to clients.
func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c) //nolint:errchkjson // an int and a string always marshal
	return base64.RawURLEncoding.EncodeToString(raw)
}

// ParseCursor reverses Encode.
func ParseCursor(s string) (Cursor, error) {
	var c Cursor

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || json.Unmarshal(raw, &c) != nil || c.Position < 0 {
		return Cursor{}, ErrInvalidCursor
	}

	return c, nil
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPage builds a page from up to limit+1 items; the extra item only
// signals that another page exists. cursorAt gives the cursor for the last
// item kept.
func NewPage[T any](items []T, limit int, cursorAt func(T) Cursor) Page[T] {
	page := Page[T]{Items: items}

	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
	}

	if page.HasMore && limit > 0 {
		page.NextCursor = cursorAt(page.Items[limit-1]).Encode()
	}

	if page.Items == nil {
		page.Items = []T{}
	}

	return page
}
