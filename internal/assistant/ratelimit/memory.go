package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	stamps  []time.Time
	expires time.Time
}

// MemoryStore is an in-process window store with per-key TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type StoreOption func(*MemoryStore)

func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{entries: make(map[string]entry), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.live(key)...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, window []time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{stamps: append([]time.Time(nil), window...), expires: s.now().Add(ttl)}
	return nil
}

// CheckAndRecord runs prune, count and append under one lock.
func (s *MemoryStore) CheckAndRecord(_ context.Context, key string, now time.Time, max int, window time.Duration) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := Prune(s.live(key), now, window)
	if len(pruned) >= max {
		return false, len(pruned), nil
	}
	pruned = append(pruned, now)
	s.entries[key] = entry{stamps: pruned, expires: now.Add(window)}
	return true, len(pruned), nil
}

// Sweep drops expired keys. Call it periodically from long-running servers.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) live(key string) []time.Time {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, key)
		return nil
	}
	return e.stamps
}
