package model

// Entity is the merged, canonical record believed to represent one real
// leaderboard member. It accumulates every metric ever confirmed for the
// member across captures and categories.
type Entity struct {
	// Name is the best available name across merged observations.
	Name string

	// ReadRank is the best available on-screen rank, 0 when never read.
	ReadRank int

	// AssignedRank is the 1-based rank derived by sorting on the primary
	// metric. Zero until rank assignment runs.
	AssignedRank int

	// RankMismatch is set when ReadRank is present and disagrees with
	// AssignedRank.
	RankMismatch bool

	// Values holds one entry per metric category confirmed for the member.
	Values map[Metric]int64

	// RawLine is the diagnostic line of the observation that contributed
	// the primary ranking metric.
	RawLine string
}

// NewEntity seeds an entity from a single observation.
func NewEntity(o Observation) Entity {
	e := Entity{
		Name:     o.Name,
		ReadRank: o.ReadRank,
		Values:   map[Metric]int64{},
		RawLine:  o.RawLine,
	}
	if o.HasValue() {
		e.Values[o.Metric] = o.Value
	}
	return e
}

// Value returns the stored reading for a metric, 0 when absent.
func (e Entity) Value(m Metric) int64 { return e.Values[m] }

// HasMetric reports whether the entity has a positive reading for m.
func (e Entity) HasMetric(m Metric) bool { return e.Values[m] > 0 }

// Clone returns a deep copy so callers can hand entities out read-only.
func (e Entity) Clone() Entity {
	out := e
	out.Values = make(map[Metric]int64, len(e.Values))
	for m, v := range e.Values {
		out.Values[m] = v
	}
	return out
}
