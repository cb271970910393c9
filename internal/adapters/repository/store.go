// Package repository defines the roster store interface and errors.
package repository

import (
	"context"

	"github.com/okian/rosterscan/internal/domain/model"
)

// Entry represents one ranked roster row. A member carries every metric
// value confirmed for it across the run's category scans; absent metrics
// are simply missing from Values.
type Entry struct {
	Rank         int
	Name         string
	Values       map[model.Metric]int64
	ReadRank     int
	RankMismatch bool
	RawLine      string
}

// Value returns the entry's reading for a metric, 0 when absent.
func (e Entry) Value(metric model.Metric) int64 {
	return e.Values[metric]
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	if e.Values != nil {
		out.Values = make(map[model.Metric]int64, len(e.Values))
		for m, v := range e.Values {
			out.Values[m] = v
		}
	}
	return out
}

// Store provides read/write access to the reconciled rosters.
type Store interface {
	// PutRoster replaces the roster ranked on a metric. Entries must
	// already be ranked; rank order is preserved as given.
	PutRoster(ctx context.Context, metric model.Metric, entries []Entry) error

	// TopN returns the first n roster entries for a ranking metric.
	// Returns ErrUnknownMetric if no roster was stored for it.
	TopN(ctx context.Context, metric model.Metric, n int) ([]Entry, error)

	// Get returns the roster entry for a member by exact name.
	// Returns ErrNotFound if the member is not on the roster.
	Get(ctx context.Context, metric model.Metric, name string) (Entry, error)

	// Count returns the number of roster entries for a ranking metric.
	Count(ctx context.Context, metric model.Metric) int
}

// FromEntity converts a ranked entity into a roster entry, carrying every
// metric value the entity accumulated.
func FromEntity(e model.Entity) Entry {
	values := make(map[model.Metric]int64, len(e.Values))
	for m, v := range e.Values {
		values[m] = v
	}
	return Entry{
		Rank:         e.AssignedRank,
		Name:         e.Name,
		Values:       values,
		ReadRank:     e.ReadRank,
		RankMismatch: e.RankMismatch,
		RawLine:      e.RawLine,
	}
}
