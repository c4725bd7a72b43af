// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter on anything that may block
//   - Return domain types, never wire DTOs or driver types
//   - Error returns use domain error types (ErrNetwork, ErrStorage, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

// KeyValueStore is durable key/value persistence that survives restarts.
//
// Example usage in application layer:
//
//	raw, ok, err := store.Load(ctx, "quotes")
//	if err != nil || !ok {
//	    // fall back to seed data
//	}
type KeyValueStore interface {
	// Load returns the stored document for key.
	// An absent key reports ok=false with a nil error.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Save durably writes value under key, replacing any previous value.
	// A successful Save is visible to every later Load, including after restart.
	Save(ctx context.Context, key string, value []byte) error
}

// SessionCache is ephemeral key/value storage scoped to one running process.
// Values are lost on restart and may expire earlier.
type SessionCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// QuoteSource is the remote source of truth for server-owned quotes.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map transport failures to domain.NetworkError
//   - Every fetched quote carries domain.ServerCategory
type QuoteSource interface {
	// FetchCandidates retrieves a bounded batch of server quotes.
	FetchCandidates(ctx context.Context) ([]domain.Quote, error)

	// Publish pushes a single newly added quote. Best-effort.
	Publish(ctx context.Context, quote domain.Quote) error
}

// SyncObserver receives sync and publish outcomes for metrics.
type SyncObserver interface {
	// SyncStarted is called when a sync is admitted past the in-flight guard.
	SyncStarted()

	// SyncSkipped is called when a sync was rejected because one is running.
	SyncSkipped()

	// SyncFinished reports the outcome, the number of fetched quotes and the duration.
	SyncFinished(err error, fetched int, elapsed time.Duration)

	// Published reports the outcome of a best-effort publish.
	Published(err error)
}

// NopSyncObserver discards every observation.
type NopSyncObserver struct{}

func (NopSyncObserver) SyncStarted() {}
func (NopSyncObserver) SyncSkipped() {}
func (NopSyncObserver) SyncFinished(error, int, time.Duration) {}
func (NopSyncObserver) Published(error) {}
