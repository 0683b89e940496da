package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

var (
	// ErrNotFound is returned when no dataset matches the request.
	ErrNotFound = errors.New("no dataset loaded")
)

// MemoryStore is a concurrency-safe in-memory history of loaded datasets.
// The last saved dataset is the active one.
type MemoryStore struct {
	mu sync.RWMutex

	// ordered by save time, oldest first
	datasets []market.Dataset

	// retention configuration
	maxHistory int           // max number of datasets kept
	maxAge     time.Duration // optional max age for datasets other than the active one

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a dataset, makes it active and enforces retention.
func (s *MemoryStore) Save(ds market.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets = append(s.datasets, ds)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.datasets) > s.maxHistory {
		over := len(s.datasets) - s.maxHistory
		s.datasets = append([]market.Dataset(nil), s.datasets[over:]...)
	}

	// Enforce retention by age, never dropping the active dataset.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.datasets)-1; i++ {
			if !s.datasets[i].LoadedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.datasets = append([]market.Dataset(nil), s.datasets[i:]...)
		}
	}
}

// Latest returns the active dataset.
func (s *MemoryStore) Latest() (market.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.datasets) == 0 {
		return market.Dataset{}, ErrNotFound
	}
	return s.datasets[len(s.datasets)-1], nil
}

// Get returns a retained dataset by id.
func (s *MemoryStore) Get(id string) (market.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ds := range s.datasets {
		if ds.ID == id {
			return ds, nil
		}
	}
	return market.Dataset{}, ErrNotFound
}

// List returns all retained datasets, oldest first.
func (s *MemoryStore) List() []market.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]market.Dataset, len(s.datasets))
	copy(out, s.datasets)
	return out
}
