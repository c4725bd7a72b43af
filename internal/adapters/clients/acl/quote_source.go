package acl

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quotesync/internal/adapters/clients"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

const defaultBatchSize = 3

// QuoteSourceConfig contains configuration for the quote source adapter.
type QuoteSourceConfig struct {
	// Client is the HTTP client; its BaseURL points at the remote service.
	Client *clients.Client

	// FetchPath is the GET endpoint returning an array of records.
	FetchPath string

	// PublishPath is the POST endpoint accepting a single quote.
	PublishPath string

	// BatchSize is how many leading records one fetch keeps.
	BatchSize int

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteSource implements ports.QuoteSource over a JSON REST endpoint.
type QuoteSource struct {
	BaseAdapter

	fetchPath   string
	publishPath string
	batchSize   int
	logger      *slog.Logger
}

// NewQuoteSource creates a new quote source adapter.
// Panics if Client is nil.
func NewQuoteSource(cfg QuoteSourceConfig) *QuoteSource {
	if cfg.Client == nil {
		panic("QuoteSource: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}

	return &QuoteSource{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		fetchPath:   cfg.FetchPath,
		publishPath: cfg.PublishPath,
		batchSize:   batch,
		logger:      logger,
	}
}

// remoteRecord is the external DTO returned by the fetch endpoint.
// Only title is used.
type remoteRecord struct {
	Title string `json:"title"`
}

// publishRequest is the external DTO sent to the publish endpoint.
type publishRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// FetchCandidates fetches the leading batch of remote records as server quotes.
// Implements ports.QuoteSource.
func (s *QuoteSource) FetchCandidates(ctx context.Context) ([]domain.Quote, error) {
	s.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", s.fetchPath))

	body, err := s.Get(ctx, s.fetchPath, "fetch quotes")
	if err != nil {
		return nil, err
	}

	records, err := DecodeResponse[[]remoteRecord](body)
	if err != nil {
		return nil, domain.NewNetworkError(s.ServiceName(), err.Error())
	}

	quotes := TranslateSlice(*records, s.batchSize, translateRecord)

	s.logger.DebugContext(ctx, "fetched server quotes",
		slog.Int("received", len(*records)),
		slog.Int("kept", len(quotes)),
	)

	return quotes, nil
}

// Publish pushes a single quote. The response body is ignored.
// Implements ports.QuoteSource.
func (s *QuoteSource) Publish(ctx context.Context, quote domain.Quote) error {
	body, err := s.PostJSON(ctx, s.publishPath, publishRequest{
		Text:     quote.Text,
		Category: quote.Category,
	}, "publish quote")
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()

	s.logger.Log(ctx, logging.LevelTrace, "published quote",
		slog.String("category", quote.Category))

	return nil
}

// translateRecord maps a remote record to a server quote, dropping blank titles.
func translateRecord(rec *remoteRecord) (domain.Quote, bool) {
	text := strings.TrimSpace(rec.Title)
	if text == "" {
		return domain.Quote{}, false
	}

	return domain.Quote{Text: text, Category: domain.ServerCategory}, true
}

// Name implements ports.HealthChecker.
func (s *QuoteSource) Name() string {
	return s.ServiceName()
}

// Check reports whether the fetch endpoint answers with a 2xx.
// Implements ports.HealthChecker.
func (s *QuoteSource) Check(ctx context.Context) error {
	body, err := s.Get(ctx, s.fetchPath, "health check")
	if err != nil {
		return err
	}

	return body.Close()
}

// Optional reports that an unreachable remote only degrades readiness.
// Implements ports.Optional.
func (s *QuoteSource) Optional() bool {
	return true
}
