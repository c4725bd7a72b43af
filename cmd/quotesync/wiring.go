package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/quotesync/internal/adapters/clients"
	"github.com/jsamuelsen/quotesync/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotesync/internal/adapters/session"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
	"github.com/jsamuelsen/quotesync/internal/platform/telemetry"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

// application is the composition root shared by every command.
type application struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	store     *sqlite.Store
	source    *acl.QuoteSource
	engine    *app.SyncEngine
	service   *app.QuoteService
	metrics   *prometheus.Registry
	health    *ports.DefaultHealthRegistry
}

// newApplication loads configuration for opts and wires every component.
// Logs go to logOut so one-shot commands keep stdout for their output.
// The stored collection is loaded before it returns.
func newApplication(ctx context.Context, opts *rootOptions, logOut io.Writer) (*application, error) {
	cfg, err := config.LoadFrom(opts.configDir, opts.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, logOut)
	logging.SetDefault(logger)

	a := &application{cfg: cfg, logger: logger}

	ok := false
	defer func() {
		if !ok {
			a.close(ctx)
		}
	}()

	// Telemetry is a noop when disabled
	a.telemetry, err = telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	ctx = logging.WithContext(ctx, logger)

	a.store, err = sqlite.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	remote := cfg.Services.Remote

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     remote.BaseURL,
		ServiceName: remote.Name,
		UserAgent:   "quotesync/" + Version,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	a.source = acl.NewQuoteSource(acl.QuoteSourceConfig{
		Client:      httpClient,
		FetchPath:   remote.FetchPath,
		PublishPath: remote.PublishPath,
		BatchSize:   remote.BatchSize,
		Logger:      logger,
	})

	collection := app.NewCollection(app.CollectionConfig{
		Store:   a.store,
		Session: session.New(cfg.Session.Size, cfg.Session.TTL),
		Logger:  logger,
	})

	if err := collection.Initialize(ctx); err != nil {
		// The seed stays in memory; the next successful write persists it.
		logger.Warn("collection initialized without persisting", slog.Any("error", err))
	}

	a.metrics = prometheus.NewRegistry()
	a.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	syncMetrics, err := telemetry.NewSyncMetrics(a.metrics)
	if err != nil {
		return nil, fmt.Errorf("registering sync metrics: %w", err)
	}

	a.engine = app.NewSyncEngine(app.SyncEngineConfig{
		Source:         a.source,
		Collection:     collection,
		Observer:       syncMetrics,
		Interval:       cfg.Sync.Interval,
		StatusDisplay:  cfg.Sync.StatusDisplay,
		PublishTimeout: cfg.Sync.PublishTimeout,
		SyncOnStart:    cfg.Sync.SyncOnStart,
		Logger:         logger,
	})

	a.service = app.NewQuoteService(app.QuoteServiceConfig{
		Collection:   collection,
		Engine:       a.engine,
		PublishOnAdd: cfg.Sync.PublishOnAdd,
		Logger:       logger,
	})

	a.health = ports.NewHealthRegistry()

	for _, checker := range []ports.HealthChecker{a.store, a.source} {
		if err := a.health.Register(checker); err != nil {
			return nil, fmt.Errorf("registering health check: %w", err)
		}
	}

	ok = true

	return a, nil
}

// close releases everything newApplication acquired. It is safe on a
// partially built application.
func (a *application) close(ctx context.Context) {
	if a.engine != nil {
		a.engine.Stop()
	}

	var errs []error

	if a.store != nil {
		errs = append(errs, a.store.Close())
	}

	if a.telemetry != nil {
		errs = append(errs, a.telemetry.Shutdown(ctx))
	}

	if err := errors.Join(errs...); err != nil {
		a.logger.Error("shutdown error", slog.Any("error", err))
	}
}
