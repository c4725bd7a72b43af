//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/clients"
	"github.com/jsamuelsen/quotesync/internal/adapters/clients/acl"
	apihttp "github.com/jsamuelsen/quotesync/internal/adapters/http"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesync/internal/adapters/session"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

const remoteName = "quote-source"

// fakeRemote stands in for the remote quote source. GET /posts serves the
// configured titles, POST /posts records what was published.
type fakeRemote struct {
	server *httptest.Server

	mu        sync.Mutex
	titles    []string
	published []domain.Quote
	headers   []http.Header

	failFetch   atomic.Bool
	failPublish atomic.Bool
	fetches     atomic.Int32
}

func newFakeRemote() *fakeRemote {
	r := &fakeRemote{}
	r.server = httptest.NewServer(http.HandlerFunc(r.handle))

	return r
}

func (r *fakeRemote) handle(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.headers = append(r.headers, req.Header.Clone())
	r.mu.Unlock()

	if req.URL.Path != "/posts" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch req.Method {
	case http.MethodGet:
		r.fetches.Add(1)

		if r.failFetch.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		r.mu.Lock()
		records := make([]map[string]string, 0, len(r.titles))
		for _, title := range r.titles {
			records = append(records, map[string]string{"title": title})
		}
		r.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)

	case http.MethodPost:
		if r.failPublish.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		var q domain.Quote
		if err := json.NewDecoder(req.Body).Decode(&q); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		r.mu.Lock()
		r.published = append(r.published, q)
		r.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":101}`)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (r *fakeRemote) serve(titles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.titles = titles
}

func (r *fakeRemote) publishedQuotes() []domain.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.Quote(nil), r.published...)
}

func (r *fakeRemote) lastHeader() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.headers) == 0 {
		return nil
	}

	return r.headers[len(r.headers)-1]
}

func (r *fakeRemote) close() {
	r.server.Close()
}

// clientConfig keeps retries short so failure paths finish quickly.
func clientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: remoteName,
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   50,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
		Logger: discardLogger(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newQuoteSource(cfg *clients.Config) (*acl.QuoteSource, error) {
	client, err := clients.New(cfg)
	if err != nil {
		return nil, err
	}

	return acl.NewQuoteSource(acl.QuoteSourceConfig{
		Client:      client,
		FetchPath:   "/posts",
		PublishPath: "/posts",
		BatchSize:   config.DefaultRemoteBatchSize,
		Logger:      cfg.Logger,
	}), nil
}

// harness is one running quotesync process: file-backed storage, the real
// remote client and the HTTP API on a test server.
type harness struct {
	dir     string
	remote  *fakeRemote
	store   *sqlite.Store
	engine  *app.SyncEngine
	service *app.QuoteService
	api     *httptest.Server
}

// startHarness boots a process whose database lives in dir. Starting a
// second harness on the same dir after closing the first is a restart.
func startHarness(dir string, remote *fakeRemote) (*harness, error) {
	ctx := context.Background()
	logger := discardLogger()

	store, err := sqlite.Open(ctx, filepath.Join(dir, "quotes.db"))
	if err != nil {
		return nil, err
	}

	source, err := newQuoteSource(clientConfig(remote.server.URL))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	collection := app.NewCollection(app.CollectionConfig{
		Store:   store,
		Session: session.New(config.DefaultSessionSize, time.Hour),
		Logger:  logger,
	})

	if err := collection.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initializing collection: %w", err)
	}

	engine := app.NewSyncEngine(app.SyncEngineConfig{
		Source:        source,
		Collection:    collection,
		Interval:      time.Hour,
		StatusDisplay: time.Minute,
		Logger:        logger,
	})

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Collection:   collection,
		Engine:       engine,
		PublishOnAdd: true,
		Logger:       logger,
	})

	registry := ports.NewHealthRegistry()
	_ = registry.Register(store)
	_ = registry.Register(source)

	gin.SetMode(gin.TestMode)

	router := gin.New()
	apihttp.SetupRouter(router, apihttp.NewDefaultRouterConfig(
		logger,
		"quotesync-integration",
		service,
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "test", "test"), nil),
	))

	return &harness{
		dir:     dir,
		remote:  remote,
		store:   store,
		engine:  engine,
		service: service,
		api:     httptest.NewServer(router),
	}, nil
}

// settle waits for background publishes started by earlier adds.
func (h *harness) settle() {
	h.engine.Stop()
}

func (h *harness) close() {
	h.api.Close()
	h.engine.Stop()
	_ = h.store.Close()
}

// restart closes the process and boots a new one on the same database.
func (h *harness) restart() (*harness, error) {
	h.close()
	return startHarness(h.dir, h.remote)
}
