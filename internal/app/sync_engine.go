package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

// Sync engine defaults.
const (
	DefaultSyncInterval   = 30 * time.Second
	DefaultStatusDisplay  = 3 * time.Second
	DefaultPublishTimeout = 30 * time.Second
)

// ErrSchedulerRunning is returned by Start when the scheduler is already running.
var ErrSchedulerRunning = errors.New("sync scheduler already running")

// SyncReport describes the outcome of one Sync call.
type SyncReport struct {
	// Skipped is true when another sync was already in flight.
	Skipped bool

	// Fetched is the number of server quotes merged.
	Fetched int

	// Total is the collection size after the merge.
	Total int

	Status domain.SyncStatus
}

// SyncEngine reconciles the collection with the remote quote source.
//
// At most one fetch is in flight at any time. Results stay on display for
// StatusDisplay and then fall back to idle.
type SyncEngine struct {
	source     ports.QuoteSource
	collection *Collection
	observer   ports.SyncObserver
	clock      clockwork.Clock
	logger     *slog.Logger

	interval       time.Duration
	statusDisplay  time.Duration
	publishTimeout time.Duration
	syncOnStart    bool

	inFlight  atomic.Bool
	publishes sync.WaitGroup

	statusMu   sync.Mutex
	status     domain.SyncStatus
	revert     clockwork.Timer
	generation uint64

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// SyncEngineConfig contains the dependencies and timings of a SyncEngine.
type SyncEngineConfig struct {
	Source     ports.QuoteSource
	Collection *Collection

	// Observer receives sync outcomes. Defaults to ports.NopSyncObserver.
	Observer ports.SyncObserver

	// Clock drives the scheduler and the status revert. Defaults to the real clock.
	Clock clockwork.Clock

	Interval      time.Duration
	StatusDisplay time.Duration

	// PublishTimeout bounds one background publish, retries included.
	PublishTimeout time.Duration

	// SyncOnStart runs one sync as soon as Start is called instead of
	// waiting for the first interval.
	SyncOnStart bool

	Logger *slog.Logger
}

// NewSyncEngine creates an idle engine. It panics if Source or Collection is nil.
func NewSyncEngine(cfg SyncEngineConfig) *SyncEngine {
	if cfg.Source == nil {
		panic("app: sync engine requires a quote source")
	}

	if cfg.Collection == nil {
		panic("app: sync engine requires a collection")
	}

	observer := cfg.Observer
	if observer == nil {
		observer = ports.NopSyncObserver{}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	display := cfg.StatusDisplay
	if display <= 0 {
		display = DefaultStatusDisplay
	}

	publishTimeout := cfg.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SyncEngine{
		source:         cfg.Source,
		collection:     cfg.Collection,
		observer:       observer,
		clock:          clock,
		logger:         logger.With(slog.String("component", "app.SyncEngine")),
		interval:       interval,
		statusDisplay:  display,
		publishTimeout: publishTimeout,
		syncOnStart:    cfg.SyncOnStart,
		status:         domain.IdleStatus(),
	}
}

// Status returns the status currently on display.
func (e *SyncEngine) Status() domain.SyncStatus {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	return e.status
}

// InFlight reports whether a sync is running.
func (e *SyncEngine) InFlight() bool {
	return e.inFlight.Load()
}

// Sync runs one reconciliation. If a sync is already running it returns a
// skipped report immediately and does not fetch.
//
// On failure the collection is left untouched and the error is returned.
func (e *SyncEngine) Sync(ctx context.Context) (SyncReport, error) {
	logger := logging.FromContextOr(ctx, e.logger)

	if !e.inFlight.CompareAndSwap(false, true) {
		e.observer.SyncSkipped()
		logger.DebugContext(ctx, "sync skipped, another sync is in flight")

		return SyncReport{Skipped: true, Status: e.Status()}, nil
	}
	defer e.inFlight.Store(false)

	e.observer.SyncStarted()
	e.setStatus(domain.InProgressStatus(), false)

	start := e.clock.Now()

	fetched, err := e.source.FetchCandidates(ctx)
	if err != nil {
		return e.fail(ctx, logger, start, "fetching server quotes failed", err)
	}

	merged, err := e.collection.ReplaceServerDerived(ctx, fetched)
	if err != nil {
		return e.fail(ctx, logger, start, "merging server quotes failed", err)
	}

	elapsed := e.clock.Since(start)
	e.observer.SyncFinished(nil, len(fetched), elapsed)

	status := domain.SucceededStatus(domain.MessageSynced)
	e.setStatus(status, true)

	logger.InfoContext(ctx, "sync completed",
		slog.Int("fetched", len(fetched)),
		slog.Int("total", len(merged)),
		slog.Duration("duration", elapsed),
	)

	return SyncReport{Fetched: len(fetched), Total: len(merged), Status: status}, nil
}

func (e *SyncEngine) fail(
	ctx context.Context,
	logger *slog.Logger,
	start time.Time,
	msg string,
	err error,
) (SyncReport, error) {
	e.observer.SyncFinished(err, 0, e.clock.Since(start))

	status := domain.FailedStatus(domain.MessageSyncFailed)
	e.setStatus(status, true)

	logger.WarnContext(ctx, msg, slog.Any("error", err))

	return SyncReport{Status: status}, err
}

// Publish pushes a newly added quote to the remote source. Failure is
// reported through the status and the returned error but never undoes the
// local add. While a sync is in flight the sync owns the status.
func (e *SyncEngine) Publish(ctx context.Context, quote domain.Quote) error {
	err := e.source.Publish(ctx, quote)
	e.observer.Published(err)

	status := domain.SucceededStatus(domain.MessagePublished)
	if err != nil {
		status = domain.FailedStatus(domain.MessagePublishFailed)

		logging.FromContextOr(ctx, e.logger).WarnContext(ctx, "publishing quote failed",
			slog.String("category", quote.Category),
			slog.Any("error", err),
		)
	}

	e.updateStatus(status, true, true)

	return err
}

// PublishInBackground runs Publish without holding up the caller. The publish
// survives the cancellation of ctx but not PublishTimeout. Stop waits for
// publishes still running.
func (e *SyncEngine) PublishInBackground(ctx context.Context, quote domain.Quote) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.publishTimeout)

	e.publishes.Go(func() {
		defer cancel()

		// The outcome is logged and shown in the status.
		_ = e.Publish(ctx, quote)
	})
}

// setStatus replaces the displayed status. When revert is true the status
// falls back to idle after the display delay unless replaced before then.
func (e *SyncEngine) setStatus(status domain.SyncStatus, revert bool) {
	e.updateStatus(status, revert, false)
}

// updateStatus is setStatus; with yieldToSync it leaves the status alone
// while a sync is in flight or its progress is on display.
func (e *SyncEngine) updateStatus(status domain.SyncStatus, revert, yieldToSync bool) {
	e.statusMu.Lock()

	if yieldToSync && (e.inFlight.Load() || e.status.State == domain.SyncInProgress) {
		e.statusMu.Unlock()
		return
	}

	e.status = status
	e.generation++

	stale := e.revert
	e.revert = nil

	if revert {
		gen := e.generation
		e.revert = e.clock.AfterFunc(e.statusDisplay, func() {
			e.statusMu.Lock()
			defer e.statusMu.Unlock()

			if e.generation == gen {
				e.status = domain.IdleStatus()
				e.revert = nil
			}
		})
	}

	e.statusMu.Unlock()

	// A stale timer that fires anyway sees a newer generation and does nothing.
	if stale != nil {
		stale.Stop()
	}
}

// Start launches the scheduler, which syncs once per interval until ctx is
// done or Stop is called.
func (e *SyncEngine) Start(ctx context.Context) error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.done != nil {
		return ErrSchedulerRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := e.clock.NewTicker(e.interval)

	e.cancel = cancel
	e.done = done

	e.logger.InfoContext(ctx, "sync scheduler started",
		slog.Duration("interval", e.interval),
		slog.Bool("sync_on_start", e.syncOnStart),
	)

	go e.loop(ctx, ticker, done)

	return nil
}

func (e *SyncEngine) loop(ctx context.Context, ticker clockwork.Ticker, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	if e.syncOnStart {
		e.tick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			e.tick(ctx)
		}
	}
}

func (e *SyncEngine) tick(ctx context.Context) {
	ctx = logging.WithSyncRun(logging.WithContext(ctx, e.logger), uuid.NewString())

	// Errors are already logged and reflected in the status.
	_, _ = e.Sync(ctx)
}

// Stop halts the scheduler, waits for the loop to exit and then for
// background publishes to finish. It is safe to call when the scheduler is
// not running.
func (e *SyncEngine) Stop() {
	e.stopScheduler()
	e.publishes.Wait()
}

func (e *SyncEngine) stopScheduler() {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.done == nil {
		return
	}

	e.cancel()
	<-e.done

	e.cancel = nil
	e.done = nil

	e.logger.Info("sync scheduler stopped")
}

// Running reports whether the scheduler loop is active.
func (e *SyncEngine) Running() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	return e.done != nil
}
