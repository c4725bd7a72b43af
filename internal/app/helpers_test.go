package app

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sync"

	"github.com/jsamuelsen/quotesync/internal/adapters/session"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory ports.KeyValueStore for happy-path tests.
type memStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

func newMemStore(seed map[string]string) *memStore {
	s := &memStore{data: map[string][]byte{}}
	for k, v := range seed {
		s.data[k] = []byte(v)
	}

	return s
}

func (s *memStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]

	return v, ok, nil
}

func (s *memStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	s.saves++

	return nil
}

func (s *memStore) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return string(s.data[key])
}

func (s *memStore) snapshot() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return maps.Clone(s.data)
}

func newTestCollection(store *memStore) *Collection {
	return NewCollection(CollectionConfig{
		Store:   store,
		Session: session.New(0, 0),
		Logger:  discardLogger(),
	})
}

// initializedCollection returns a collection loaded from a store holding doc.
func initializedCollection(doc string) (*Collection, *memStore) {
	store := newMemStore(map[string]string{KeyQuotes: doc})
	c := newTestCollection(store)

	if err := c.Initialize(context.Background()); err != nil {
		panic(err)
	}

	return c, store
}
