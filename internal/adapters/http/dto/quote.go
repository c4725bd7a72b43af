package dto

import (
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
)

// AddQuoteRequest is the body of POST /quotes.
type AddQuoteRequest struct {
	Text     string `json:"text" validate:"notempty"`
	Category string `json:"category" validate:"notempty"`
}

// RandomQuoteQuery selects the category for GET /quotes/random.
// An empty category means the stored filter.
type RandomQuoteQuery struct {
	Category string `form:"category"`
}

// ListQuotesQuery is the query of GET /quotes.
type ListQuotesQuery struct {
	PaginationRequest

	Category string `form:"category"`
}

// FilterRequest is the body of PUT /filter.
type FilterRequest struct {
	Category string `json:"category" validate:"notempty"`
}

// QuoteResponse is a quote as returned by the API.
type QuoteResponse struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// ListedQuote is a quote together with its position in the collection.
type ListedQuote struct {
	QuoteResponse

	Position int `json:"position"`
}

// FilterResponse carries the current category filter.
type FilterResponse struct {
	Category string `json:"category"`
}

// CategoriesResponse lists the distinct categories in first-seen order.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// StatusResponse is the transient sync status.
type StatusResponse struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

// SyncResponse reports the outcome of POST /sync.
type SyncResponse struct {
	Skipped bool           `json:"skipped"`
	Fetched int            `json:"fetched"`
	Total   int            `json:"total"`
	Status  StatusResponse `json:"status"`
}

// StateResponse is everything a client needs to render its first screen.
type StateResponse struct {
	Filter        string         `json:"filter"`
	Categories    []string       `json:"categories"`
	LastDisplayed *QuoteResponse `json:"lastDisplayed,omitempty"`
	Status        StatusResponse `json:"status"`
	Total         int            `json:"total"`
}

// ImportResponse reports how many quotes an import added.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{Text: q.Text, Category: q.Category}
}

// NewStatusResponse converts a sync status.
func NewStatusResponse(s domain.SyncStatus) StatusResponse {
	return StatusResponse{State: s.State.String(), Message: s.Message}
}

// NewSyncResponse converts a sync report.
func NewSyncResponse(r app.SyncReport) SyncResponse {
	return SyncResponse{
		Skipped: r.Skipped,
		Fetched: r.Fetched,
		Total:   r.Total,
		Status:  NewStatusResponse(r.Status),
	}
}

// NewStateResponse converts the bootstrap state.
func NewStateResponse(s app.State) StateResponse {
	resp := StateResponse{
		Filter:     s.Filter,
		Categories: s.Categories,
		Status:     NewStatusResponse(s.Status),
		Total:      s.Total,
	}

	if resp.Categories == nil {
		resp.Categories = []string{}
	}

	if s.LastDisplayed != nil {
		q := NewQuoteResponse(*s.LastDisplayed)
		resp.LastDisplayed = &q
	}

	return resp
}
