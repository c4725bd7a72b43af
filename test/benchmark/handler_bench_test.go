package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apihttp "github.com/jsamuelsen/quotesync/internal/adapters/http"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesync/internal/adapters/session"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// staticSource serves a fixed batch and accepts every publish.
type staticSource struct{}

func (staticSource) FetchCandidates(context.Context) ([]domain.Quote, error) {
	return []domain.Quote{
		{Text: "S1", Category: domain.ServerCategory},
		{Text: "S2", Category: domain.ServerCategory},
		{Text: "S3", Category: domain.ServerCategory},
	}, nil
}

func (staticSource) Publish(context.Context, domain.Quote) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupService builds a service over an in-memory store holding size quotes.
func setupService(b *testing.B, size int) (*app.QuoteService, *sqlite.Store) {
	b.Helper()

	ctx := context.Background()

	store, err := sqlite.Open(ctx, sqlite.InMemory)
	if err != nil {
		b.Fatal(err)
	}

	b.Cleanup(func() { _ = store.Close() })

	logger := discardLogger()

	collection := app.NewCollection(app.CollectionConfig{
		Store:   store,
		Session: session.New(16, 0),
		Logger:  logger,
	})

	if err := collection.Initialize(ctx); err != nil {
		b.Fatal(err)
	}

	if size > 0 {
		quotes := make([]domain.Quote, size)
		for i := range quotes {
			quotes[i] = domain.Quote{Text: fmt.Sprintf("quote %d", i), Category: fmt.Sprintf("cat-%d", i%10)}
		}

		if _, err := collection.Import(ctx, quotes); err != nil {
			b.Fatal(err)
		}
	}

	engine := app.NewSyncEngine(app.SyncEngineConfig{
		Source:     staticSource{},
		Collection: collection,
		Logger:     logger,
	})

	return app.NewQuoteService(app.QuoteServiceConfig{
		Collection: collection,
		Engine:     engine,
		Logger:     logger,
	}), store
}

func setupRouter(b *testing.B, size int) *gin.Engine {
	b.Helper()

	service, store := setupService(b, size)

	registry := ports.NewHealthRegistry()
	_ = registry.Register(store)

	router := gin.New()
	apihttp.SetupRouter(router, apihttp.NewDefaultRouterConfig(
		discardLogger(),
		"quotesync-bench",
		service,
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z"), nil),
	))

	return router
}

func serve(b *testing.B, router http.Handler, method, path, body string) {
	b.Helper()

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		var r io.Reader = http.NoBody
		if body != "" {
			r = strings.NewReader(body)
		}

		req := httptest.NewRequest(method, path, r)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code >= http.StatusBadRequest {
			b.Fatalf("%s %s: status %d: %s", method, path, w.Code, w.Body.String())
		}
	}
}

// BenchmarkLivenessHandler measures the liveness probe through the full chain.
func BenchmarkLivenessHandler(b *testing.B) {
	serve(b, setupRouter(b, 0), http.MethodGet, "/-/live", "")
}

// BenchmarkReadinessHandler measures readiness including the storage check.
func BenchmarkReadinessHandler(b *testing.B) {
	serve(b, setupRouter(b, 0), http.MethodGet, "/-/ready", "")
}

// BenchmarkRandomQuote measures a filtered random pick, which also writes
// the session cache.
func BenchmarkRandomQuote(b *testing.B) {
	serve(b, setupRouter(b, 1000), http.MethodGet, "/api/v1/quotes/random?category=cat-3", "")
}

// BenchmarkListQuotes measures one page of a filtered listing.
func BenchmarkListQuotes(b *testing.B) {
	serve(b, setupRouter(b, 1000), http.MethodGet, "/api/v1/quotes?category=cat-3&limit=50", "")
}

// BenchmarkCategories measures distinct-category collection.
func BenchmarkCategories(b *testing.B) {
	serve(b, setupRouter(b, 1000), http.MethodGet, "/api/v1/categories", "")
}

// BenchmarkAddQuote measures an add, which re-encodes and saves the whole
// collection.
func BenchmarkAddQuote(b *testing.B) {
	serve(b, setupRouter(b, 100), http.MethodPost, "/api/v1/quotes", `{"text":"bench","category":"Bench"}`)
}

// BenchmarkSync measures a full sync merge against an instant source.
func BenchmarkSync(b *testing.B) {
	serve(b, setupRouter(b, 100), http.MethodPost, "/api/v1/sync", "")
}

// BenchmarkExport measures rendering the export document.
func BenchmarkExport(b *testing.B) {
	serve(b, setupRouter(b, 1000), http.MethodGet, "/api/v1/export", "")
}

// BenchmarkMiddlewareChain measures the overhead of the middleware chain.
func BenchmarkMiddlewareChain(b *testing.B) {
	router := setupRouter(b, 0)
	router.GET("/api/v1/bench", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	serve(b, router, http.MethodGet, "/api/v1/bench", "")
}
