package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ebill/internal/errors"
)

// MemoryStore is an in-memory storage backend (for testing)
type MemoryStore struct {
	records []*BillRecord
	closed  int
	mu      sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, record *BillRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	stored.ID = uuid.New().String()
	s.records = append(s.records, &stored)
	return stored.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*BillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, errors.NotFound("bill", id)
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*BillRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*BillRecord
	for _, r := range s.records {
		if filter.matches(r) {
			out := *r
			results = append(results, &out)
		}
	}
	return filter.limit(results), nil
}

// Close counts releases; the records survive so a shared instance can be
// reopened.
func (s *MemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed++
	return nil
}

// Closed returns how many times the store was released
func (s *MemoryStore) Closed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.closed
}

// Len returns the number of stored records
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
