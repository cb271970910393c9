package model

// Observation is one attempted read of one member from one screenshot
// region for one metric category.
//
// Integers use zero as "absent": ranks are 1-based and metric values must
// be positive to count, so zero never collides with a legitimate reading.
type Observation struct {
	// ReadRank is the rank as printed on screen, 0 when unreadable.
	ReadRank int

	// Name is the normalized member name, empty when unreadable.
	Name string

	// Metric names the category this observation was scanned from.
	Metric Metric

	// Value is the metric reading for Metric, 0 when unreadable.
	Value int64

	// RawLine preserves the raw field texts for diagnostics. Populated
	// whether or not the observation is valid.
	RawLine string

	// Valid reports whether the observation passed the builder's
	// plausibility checks. Invalid observations are dropped by callers.
	Valid bool
}

// HasValue reports whether the observation carries a metric reading.
func (o Observation) HasValue() bool { return o.Value > 0 }

// HasReadRank reports whether the observation carries an on-screen rank.
func (o Observation) HasReadRank() bool { return o.ReadRank > 0 }

// CheckValid re-derives the validity invariant: a valid observation has a
// non-empty name and at least one of read rank or metric value.
func (o Observation) CheckValid() bool {
	return o.Name != "" && (o.HasReadRank() || o.HasValue())
}
