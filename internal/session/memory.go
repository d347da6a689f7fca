package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	ctx       Context
	expiresAt time.Time
}

// MemoryStore is a concurrency-safe in-memory session store with TTL-based
// eviction. Expired entries are dropped lazily on access and in bulk by the
// janitor's periodic Sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration

	now func() time.Time // overridable in tests
}

// NewMemoryStore creates a MemoryStore with the given idle expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get implements Store. A missing or expired session is replaced with the
// default context, which is persisted immediately.
func (s *MemoryStore) Get(_ context.Context, id string) (Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id).ctx, nil
}

// Update implements Store. The merge happens under the store lock, giving
// at-most-one-writer-at-a-time semantics per key.
func (s *MemoryStore) Update(_ context.Context, id string, partial Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.getOrCreateLocked(id)
	entry.ctx.apply(partial)
	entry.ctx.UpdatedAt = s.now()
	entry.expiresAt = s.now().Add(s.ttl)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*memoryEntry)
	return nil
}

// Sweep removes all expired sessions and reports how many were dropped.
// Called periodically by the janitor.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if entry.expiresAt.Before(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions. Used by tests and the janitor log.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) getOrCreateLocked(id string) *memoryEntry {
	now := s.now()
	entry, ok := s.sessions[id]
	if !ok || entry.expiresAt.Before(now) {
		entry = &memoryEntry{
			ctx:       defaultContext(now),
			expiresAt: now.Add(s.ttl),
		}
		s.sessions[id] = entry
	}
	return entry
}
