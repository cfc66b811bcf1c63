package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ecofinds/recommendation-service/internal/domain"
)

type entry struct {
	recs       []domain.ScoredRecommendation
	computedAt time.Time
}

// MemoryStore is a process-wide map with TTL-based staleness. Two concurrent
// misses for the same user may both recompute; last writer wins, which is fine
// because results are deterministic for the same underlying data.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[int64]entry
	ttl        time.Duration
	maxEntries int

	now func() time.Time
}

// NewMemoryStore creates a memory cache. maxEntries bounds the map size;
// zero means unbounded.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[int64]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) ([]domain.ScoredRecommendation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[userID]
	if !ok {
		return nil, false, nil
	}
	if s.now().Sub(e.computedAt) >= s.ttl {
		return nil, false, nil
	}
	return e.recs, true, nil
}

func (s *MemoryStore) Set(_ context.Context, userID int64, recs []domain.ScoredRecommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[userID]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.evictOldest()
	}
	s.entries[userID] = entry{recs: recs, computedAt: s.now()}
	return nil
}

// Caller holds the write lock.
func (s *MemoryStore) evictOldest() {
	var oldestID int64
	var oldestAt time.Time
	first := true
	for id, e := range s.entries {
		if first || e.computedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.computedAt
			first = false
		}
	}
	if !first {
		delete(s.entries, oldestID)
	}
}
