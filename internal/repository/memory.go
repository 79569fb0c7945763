package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"prospector/internal/model"
)

const defaultMemoryCapacity = 100

// MemoryStore is the in-memory fallback used when no durable store is
// reachable. Constructed once at startup; bounded so it cannot grow without
// limit over a long process life.
type MemoryStore struct {
	mu       sync.Mutex
	searches []model.SavedSearch
	capacity int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{capacity: defaultMemoryCapacity}
}

func (s *MemoryStore) Save(search *model.SavedSearch) error {
	if search.ID == "" {
		search.ID = uuid.NewString()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// newest first
	s.searches = append([]model.SavedSearch{*search}, s.searches...)
	if len(s.searches) > s.capacity {
		s.searches = s.searches[:s.capacity]
	}
	return nil
}

func (s *MemoryStore) List(limit int) ([]model.SavedSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.searches) {
		limit = len(s.searches)
	}
	out := make([]model.SavedSearch, limit)
	copy(out, s.searches[:limit])
	return out, nil
}

func (s *MemoryStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, search := range s.searches {
		if search.ID == id {
			s.searches = append(s.searches[:i], s.searches[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
