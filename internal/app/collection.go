package app

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/jsamuelsen/quotesync/internal/adapters/codec"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

// Storage keys.
const (
	KeyQuotes     = "quotes"
	KeyLastFilter = "lastFilter"
	KeyLastQuote  = "lastQuote"
)

// Collection owns the in-memory quote list and keeps it written through to
// the persistent store. All mutations serialize on one lock.
type Collection struct {
	store   ports.KeyValueStore
	session ports.SessionCache
	exec    *Executor
	logger  *slog.Logger
	intn    func(n int) int

	mu          sync.RWMutex
	quotes      domain.Quotes
	filter      string
	initialized bool
}

// CollectionConfig contains the dependencies of a Collection.
type CollectionConfig struct {
	Store   ports.KeyValueStore
	Session ports.SessionCache
	Logger  *slog.Logger

	// Intn picks the index for PickRandom. Defaults to math/rand/v2.IntN.
	Intn func(n int) int
}

// NewCollection creates an empty, uninitialized collection.
// It panics if Store or Session is nil.
func NewCollection(cfg CollectionConfig) *Collection {
	if cfg.Store == nil {
		panic("app: collection requires a store")
	}

	if cfg.Session == nil {
		panic("app: collection requires a session cache")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.Collection"))

	intn := cfg.Intn
	if intn == nil {
		intn = rand.IntN
	}

	return &Collection{
		store:   cfg.Store,
		session: cfg.Session,
		exec:    NewExecutor(logger),
		logger:  logger,
		intn:    intn,
		quotes:  domain.Quotes{},
		filter:  domain.FilterAll,
	}
}

// Initialize loads the stored collection and filter. Missing or malformed
// quotes are replaced by the seed set, which is persisted right away.
// Calling it again is a no-op.
//
// A failure to persist the seed is returned, but the seed stays loaded so
// the collection is usable.
func (c *Collection) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	logger := logging.FromContextOr(ctx, c.logger)

	c.filter = c.loadFilter(ctx, logger)

	quotes, ok := c.loadQuotes(ctx, logger)
	c.initialized = true

	if ok {
		c.quotes = quotes
		logger.InfoContext(ctx, "collection loaded", slog.Int("count", len(quotes)))

		return nil
	}

	c.quotes = domain.SeedQuotes()
	logger.InfoContext(ctx, "collection seeded", slog.Int("count", len(c.quotes)))

	if err := c.persist(ctx, c.quotes); err != nil {
		return fmt.Errorf("persisting seed collection: %w", err)
	}

	return nil
}

func (c *Collection) loadQuotes(ctx context.Context, logger *slog.Logger) (domain.Quotes, bool) {
	raw, found, err := c.store.Load(ctx, KeyQuotes)
	if err != nil {
		logger.WarnContext(ctx, "loading stored quotes failed, using seed", slog.Any("error", err))

		return nil, false
	}

	if !found {
		return nil, false
	}

	quotes, err := codec.DecodeStrict(raw)
	if err != nil {
		logger.WarnContext(ctx, "stored quotes are malformed, using seed", slog.Any("error", err))

		return nil, false
	}

	return quotes, true
}

func (c *Collection) loadFilter(ctx context.Context, logger *slog.Logger) string {
	raw, found, err := c.store.Load(ctx, KeyLastFilter)
	if err != nil {
		logger.WarnContext(ctx, "loading stored filter failed", slog.Any("error", err))

		return domain.FilterAll
	}

	filter := strings.TrimSpace(string(raw))
	if !found || filter == "" {
		return domain.FilterAll
	}

	return filter
}

// persist writes quotes under KeyQuotes. Callers hold c.mu.
func (c *Collection) persist(ctx context.Context, quotes domain.Quotes) error {
	doc, err := codec.Encode(quotes)
	if err != nil {
		return domain.NewStorageError(KeyQuotes, err)
	}

	return c.save(ctx, KeyQuotes, doc)
}

func (c *Collection) save(ctx context.Context, key string, value []byte) error {
	err := c.store.Save(ctx, key, value)
	if err == nil {
		return nil
	}

	if domain.IsStorage(err) {
		return err
	}

	return domain.NewStorageError(key, err)
}

// mutate runs a mutate-then-persist transaction over the quote list.
// compute receives a private copy of the current quotes.
func mutate[I any](
	ctx context.Context,
	c *Collection,
	name string,
	input I,
	validate func(context.Context, I) error,
	compute func(current domain.Quotes, input I) domain.Quotes,
) (domain.Quotes, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := Operation[I, domain.Quotes, domain.Quotes]{
		Name:     name,
		Validate: validate,
		Perform: func(_ context.Context, in I) (domain.Quotes, error) {
			return compute(c.quotes.Clone(), in), nil
		},
		Verify: func(_ context.Context, _ I, candidate domain.Quotes) error {
			for i, q := range candidate {
				if !q.Valid() {
					return domain.NewValidationError("quotes", fmt.Sprintf("element %d is empty", i))
				}
			}

			return nil
		},
		Archive: func(ctx context.Context, _ I, candidate domain.Quotes) error {
			return c.persist(ctx, candidate)
		},
		Commit: func(_ context.Context, _ I, candidate domain.Quotes) (domain.Quotes, error) {
			c.quotes = candidate

			return candidate.Clone(), nil
		},
	}

	return Execute(ctx, c.exec, op, input)
}

// Add validates and appends a quote, then persists the collection.
func (c *Collection) Add(ctx context.Context, text, category string) (domain.Quote, error) {
	quote, invalid := domain.NewQuote(text, category)

	_, err := mutate(ctx, c, "add quote", quote,
		func(context.Context, domain.Quote) error { return invalid },
		func(current domain.Quotes, in domain.Quote) domain.Quotes {
			return current.Append(in)
		},
	)
	if err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

// Import appends already validated quotes and persists the collection.
// It returns how many quotes were added.
func (c *Collection) Import(ctx context.Context, quotes []domain.Quote) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}

	_, err := mutate(ctx, c, "import quotes", quotes, nil,
		func(current domain.Quotes, in []domain.Quote) domain.Quotes {
			return current.Append(in...)
		},
	)
	if err != nil {
		return 0, err
	}

	return len(quotes), nil
}

// ReplaceServerDerived drops every server-tagged quote and appends fetched.
// Only the sync engine calls it.
func (c *Collection) ReplaceServerDerived(ctx context.Context, fetched []domain.Quote) (domain.Quotes, error) {
	return mutate(ctx, c, "merge server quotes", fetched, nil,
		func(current domain.Quotes, in []domain.Quote) domain.Quotes {
			return current.ReplaceServer(in)
		},
	)
}

// PickRandom returns a uniformly chosen quote matching filter and records it
// as the last displayed quote. An empty filter uses the stored one.
func (c *Collection) PickRandom(ctx context.Context, filter string) (domain.Quote, error) {
	c.mu.RLock()
	if strings.TrimSpace(filter) == "" {
		filter = c.filter
	}

	candidates := c.quotes.Filter(filter)
	c.mu.RUnlock()

	if len(candidates) == 0 {
		return domain.Quote{}, fmt.Errorf("category %q: %w", filter, domain.ErrNoneAvailable)
	}

	picked := candidates[c.intn(len(candidates))]

	doc, err := codec.EncodeQuote(picked)
	if err == nil {
		c.session.Set(KeyLastQuote, doc)
	}

	logging.FromContextOr(ctx, c.logger).Log(ctx, logging.LevelTrace, "picked quote",
		slog.String("filter", filter),
		slog.Int("candidates", len(candidates)),
	)

	return picked, nil
}

// LastDisplayed returns the quote most recently returned by PickRandom in
// this session, if any.
func (c *Collection) LastDisplayed() (domain.Quote, bool) {
	doc, ok := c.session.Get(KeyLastQuote)
	if !ok {
		return domain.Quote{}, false
	}

	q, err := codec.DecodeQuote(doc)
	if err != nil {
		return domain.Quote{}, false
	}

	return q, true
}

// Filter returns the selected category or domain.FilterAll.
func (c *Collection) Filter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.filter
}

// SetFilter persists and selects a category.
func (c *Collection) SetFilter(ctx context.Context, category string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := Operation[string, string, string]{
		Name: "set filter",
		Validate: func(_ context.Context, in string) error {
			if strings.TrimSpace(in) == "" {
				return domain.NewValidationError("category", "must not be empty")
			}

			return nil
		},
		Perform: func(_ context.Context, in string) (string, error) {
			return strings.TrimSpace(in), nil
		},
		Archive: func(ctx context.Context, _ string, filter string) error {
			return c.save(ctx, KeyLastFilter, []byte(filter))
		},
		Commit: func(_ context.Context, _ string, filter string) (string, error) {
			c.filter = filter

			return filter, nil
		},
	}

	return Execute(ctx, c.exec, op, category)
}

// Snapshot returns a copy of the quotes in order.
func (c *Collection) Snapshot() domain.Quotes {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.quotes.Clone()
}

// Len returns the number of quotes.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.quotes)
}

// Categories yields distinct categories in first-seen order over the
// collection as it was when Categories was called.
func (c *Collection) Categories() iter.Seq[string] {
	return c.Snapshot().Categories()
}
