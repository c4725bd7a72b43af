// Package session implements ports.SessionCache as a bounded, expiring
// in-process LRU. Nothing survives a restart.
package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultSize = 64
	defaultTTL  = 12 * time.Hour
)

// Cache is a process-scoped key/value cache.
type Cache struct {
	lru *expirable.LRU[string, []byte]
}

// New creates a cache holding at most size entries, each living for ttl.
// Non-positive arguments fall back to defaults.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultSize
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Cache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns the value for key if it is present and not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

// Set stores a copy of value under key.
func (c *Cache) Set(key string, value []byte) {
	c.lru.Add(key, append([]byte(nil), value...))
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
