package cache

import (
	"sync"
	"time"
)

// staleGraceFactor controls how long past expiry a local entry is retained
// for stale-fallback before the janitor sweeps it.
const staleGraceFactor = 4

// LocalStore is the in-process short-TTL tier: one mutable map guarded by a
// single mutex. The lock covers only map access, never a recompute, so
// unrelated keys are never serialized. Writes replace-or-insert, which gives
// last-write-wins semantics per key.
type LocalStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewLocalStore creates an empty local cache tier.
func NewLocalStore() *LocalStore {
	return &LocalStore{entries: make(map[string]*Entry)}
}

// Get returns the entry for a key, fresh or stale, or nil. Expiry is checked
// by the caller via Entry.Fresh so a stale entry stays reachable for
// fallback.
func (s *LocalStore) Get(key string) *Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key]
}

// Set replaces or inserts the entry for its key.
func (s *LocalStore) Set(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
}

// Invalidate removes the given keys.
func (s *LocalStore) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
}

// Len reports the current entry count.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes entries expired past the stale grace window and returns how
// many were dropped. Runs from the cache janitor, never from a request.
func (s *LocalStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for key, entry := range s.entries {
		ttl := entry.ExpiresAt.Sub(entry.ComputedAt)
		if now.After(entry.ComputedAt.Add(ttl * staleGraceFactor)) {
			delete(s.entries, key)
			swept++
		}
	}
	return swept
}
