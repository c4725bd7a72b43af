package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/adapters/session"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/mocks"
)

// testAPI is a quote service wired over an in-memory SQLite store and a
// mocked quote source, with every API route registered.
type testAPI struct {
	router  *gin.Engine
	source  *mocks.MockQuoteSource
	store   *sqlite.Store
	service *app.QuoteService
}

// newTestAPI builds the API over a store that holds doc under the quotes key.
// An empty doc leaves the store empty so the seed quotes load.
func newTestAPI(t *testing.T, doc string) *testAPI {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.Open(ctx, sqlite.InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	if doc != "" {
		require.NoError(t, store.Save(ctx, app.KeyQuotes, []byte(doc)))
	}

	collection := app.NewCollection(app.CollectionConfig{
		Store:   store,
		Session: session.New(0, 0),
		Logger:  logger,
		Intn:    func(int) int { return 0 },
	})
	require.NoError(t, collection.Initialize(ctx))

	source := mocks.NewMockQuoteSource(t)
	engine := app.NewSyncEngine(app.SyncEngineConfig{
		Source:     source,
		Collection: collection,
		Clock:      clockwork.NewFakeClock(),
		Logger:     logger,
	})
	t.Cleanup(engine.Stop)

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Collection: collection,
		Engine:     engine,
		Logger:     logger,
	})

	router := gin.New()
	api := router.Group("/api/v1")
	NewQuoteHandler(service).RegisterQuoteRoutes(api)
	NewSyncHandler(service).RegisterSyncRoutes(api)
	NewTransferHandler(service).RegisterTransferRoutes(api)

	return &testAPI{router: router, source: source, store: store, service: service}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

func (a *testAPI) stored(t *testing.T, key string) string {
	t.Helper()

	v, _, err := a.store.Load(context.Background(), key)
	require.NoError(t, err)

	return string(v)
}
