// Package app contains application services that orchestrate use cases.
//
// The Collection owns quote state and writes it through to the persistent
// store. The SyncEngine reconciles that state with the remote source.
// QuoteService is the surface the HTTP API and the CLI talk to.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jsamuelsen/quotesync/internal/adapters/codec"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

// QuoteService orchestrates the user-facing quote use cases.
type QuoteService struct {
	collection   *Collection
	engine       *SyncEngine
	publishOnAdd bool
	logger       *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Collection *Collection
	Engine     *SyncEngine

	// PublishOnAdd pushes every added quote to the remote source.
	PublishOnAdd bool

	Logger *slog.Logger
}

// State is everything a UI needs to render its first screen.
type State struct {
	Filter        string
	Categories    []string
	LastDisplayed *domain.Quote
	Status        domain.SyncStatus
	Total         int
}

// NewQuoteService creates a new quote service with the provided dependencies.
// It panics if Collection or Engine is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Collection == nil {
		panic("app: quote service requires a collection")
	}

	if cfg.Engine == nil {
		panic("app: quote service requires a sync engine")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		collection:   cfg.Collection,
		engine:       cfg.Engine,
		publishOnAdd: cfg.PublishOnAdd,
		logger:       logger.With(slog.String("component", "app.QuoteService")),
	}
}

// AddQuote stores a new quote and, when enabled, publishes it in the
// background. The publish outcome is logged and shown in the sync status
// only; it never delays or fails the add.
func (s *QuoteService) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	quote, err := s.collection.Add(ctx, text, category)
	if err != nil {
		return domain.Quote{}, err
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quote added",
		slog.String("category", quote.Category),
	)

	if s.publishOnAdd {
		s.engine.PublishInBackground(ctx, quote)
	}

	return quote, nil
}

// PickRandom returns a random quote from category, or from the stored filter
// when category is empty.
func (s *QuoteService) PickRandom(ctx context.Context, category string) (domain.Quote, error) {
	return s.collection.PickRandom(ctx, category)
}

// SetFilter persists the selected category.
func (s *QuoteService) SetFilter(ctx context.Context, category string) (string, error) {
	return s.collection.SetFilter(ctx, category)
}

// TriggerSync runs one sync now. A sync already in flight is not repeated.
func (s *QuoteService) TriggerSync(ctx context.Context) (SyncReport, error) {
	return s.engine.Sync(ctx)
}

// ExportNow renders the whole collection as an export document.
func (s *QuoteService) ExportNow(_ context.Context) ([]byte, error) {
	doc, err := codec.Export(s.collection.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("exporting quotes: %w", err)
	}

	return doc, nil
}

// ImportNow appends the valid quotes of doc and returns how many were added.
func (s *QuoteService) ImportNow(ctx context.Context, doc []byte) (int, error) {
	return s.ImportDocuments(ctx, [][]byte{doc})
}

// ImportDocuments decodes every document, then appends all survivors in one
// transaction. Any unreadable document aborts the whole import.
func (s *QuoteService) ImportDocuments(ctx context.Context, docs [][]byte) (int, error) {
	quotes, err := decodeDocuments(ctx, docs)
	if err != nil {
		return 0, err
	}

	added, err := s.collection.Import(ctx, quotes)
	if err != nil {
		return 0, err
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quotes imported",
		slog.Int("documents", len(docs)),
		slog.Int("added", added),
	)

	return added, nil
}

// ListQuotes returns the quotes selected by filter in collection order.
// An empty filter selects everything.
func (s *QuoteService) ListQuotes(filter string) domain.Quotes {
	if filter == "" {
		filter = domain.FilterAll
	}

	return s.collection.Snapshot().Filter(filter)
}

// Categories returns the distinct categories in first-seen order.
func (s *QuoteService) Categories() []string {
	return slices.Collect(s.collection.Categories())
}

// Filter returns the stored filter.
func (s *QuoteService) Filter() string {
	return s.collection.Filter()
}

// SyncStatus returns the sync status on display.
func (s *QuoteService) SyncStatus() domain.SyncStatus {
	return s.engine.Status()
}

// State gathers the UI bootstrap state.
func (s *QuoteService) State(_ context.Context) (State, error) {
	snapshot := s.collection.Snapshot()

	state := State{
		Filter:     s.collection.Filter(),
		Categories: slices.Collect(snapshot.Categories()),
		Status:     s.engine.Status(),
		Total:      len(snapshot),
	}

	if q, ok := s.collection.LastDisplayed(); ok {
		state.LastDisplayed = &q
	}

	return state, nil
}
