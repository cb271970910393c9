package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/rosterscan/internal/domain/model"
	"github.com/okian/rosterscan/pkg/metrics"
)

// MemStore is an in-memory Store keyed by metric category. Rosters are
// replaced wholesale at the end of a scan run and read many times after,
// so a simple RWMutex over copied slices is enough.
type MemStore struct {
	mu      sync.RWMutex
	rosters map[model.Metric][]Entry

	recordMetrics bool
}

// NewMemStore creates an empty MemStore.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		rosters:       make(map[model.Metric][]Entry),
		recordMetrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutRoster replaces the roster for a metric category.
func (s *MemStore) PutRoster(ctx context.Context, metric model.Metric, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	cp := make([]Entry, len(entries))
	for i, entry := range entries {
		cp[i] = entry.Clone()
	}

	s.mu.Lock()
	s.rosters[metric] = cp
	s.mu.Unlock()

	s.observe(metric, len(cp), start)
	return nil
}

// TopN returns the first n roster entries for a metric category.
func (s *MemStore) TopN(ctx context.Context, metric model.Metric, n int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	roster, ok := s.rosters[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
	if n > len(roster) {
		n = len(roster)
	}
	out := make([]Entry, n)
	for i, entry := range roster[:n] {
		out[i] = entry.Clone()
	}
	return out, nil
}

// Get returns the roster entry for a member by exact name.
func (s *MemStore) Get(ctx context.Context, metric model.Metric, name string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	roster, ok := s.rosters[metric]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
	for _, e := range roster {
		if e.Name == name {
			return e.Clone(), nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Count returns the number of roster entries for a metric category.
func (s *MemStore) Count(_ context.Context, metric model.Metric) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rosters[metric])
}

func (s *MemStore) observe(metric model.Metric, size int, start time.Time) {
	if !s.recordMetrics {
		return
	}
	metrics.UpdateRosterSize(string(metric), size)
	metrics.RecordStoreLatency(float64(time.Since(start).Milliseconds()))
}
