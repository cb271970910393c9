// Package reconcile fuzzy-matches observations that plausibly describe the
// same member across overlapping captures and independently scanned
// categories, and merges them into canonical entities.
package reconcile

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/okian/rosterscan/internal/domain/model"
	"github.com/okian/rosterscan/pkg/metrics"
)

// Default matching thresholds. Empirically tuned against real scans and
// expected to need recalibration per visual theme or resolution.
const (
	defaultStrictNameSim  = 0.85
	defaultRelaxedNameSim = 0.70
	defaultLooseNameSim   = 0.60
	defaultLastNameSim    = 0.50

	defaultValueTolerance      = 0.01  // within 1% counts as the same reading
	defaultValueNearIdentical  = 0.001 // within 0.1% is near-certain identity
	defaultImplausibleMultiple = 5.0   // readings this far apart hide a misread
	defaultTopRankExempt       = 3     // top spots can have legitimately huge gaps
	defaultShortNameLen        = 3     // names below this are likely truncated
)

// Reconciler merges observations into an arena of canonical entities.
// Entities are addressed by index, and a merge replaces the slot's value
// rather than mutating through shared pointers.
type Reconciler struct {
	primary model.Metric
	params  *levenshtein.Params

	strictNameSim  float64
	relaxedNameSim float64
	looseNameSim   float64
	lastNameSim    float64

	valueTolerance      float64
	valueNearIdentical  float64
	implausibleMultiple float64
	topRankExempt       int
	shortNameLen        int
}

// New creates a Reconciler ranking on the given primary metric.
func New(primary model.Metric, opts ...Option) *Reconciler {
	r := &Reconciler{
		primary:             primary,
		params:              levenshtein.NewParams(),
		strictNameSim:       defaultStrictNameSim,
		relaxedNameSim:      defaultRelaxedNameSim,
		looseNameSim:        defaultLooseNameSim,
		lastNameSim:         defaultLastNameSim,
		valueTolerance:      defaultValueTolerance,
		valueNearIdentical:  defaultValueNearIdentical,
		implausibleMultiple: defaultImplausibleMultiple,
		topRankExempt:       defaultTopRankExempt,
		shortNameLen:        defaultShortNameLen,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile consumes the full observation set of one run and returns the
// merged entities in no particular order. Invalid observations are
// skipped. The same input always produces the same entities.
func (r *Reconciler) Reconcile(observations []model.Observation) []model.Entity {
	ordered := r.order(observations)

	var arena []model.Entity
	for _, o := range ordered {
		if idx, rule, ok := r.bestMatch(arena, o); ok {
			arena[idx] = r.merge(arena[idx], o)
			metrics.RecordMerge(rule)
			continue
		}
		arena = append(arena, model.NewEntity(o))
		metrics.RecordEntityCreated()
	}
	return arena
}

// order sorts a copy of the observations so that well-evidenced ones seed
// entities first: primary-metric bearers ahead of the rest, longer names
// ahead of shorter. The sort is stable so reruns are deterministic.
func (r *Reconciler) order(observations []model.Observation) []model.Observation {
	ordered := make([]model.Observation, 0, len(observations))
	for _, o := range observations {
		if o.Valid {
			ordered = append(ordered, o)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		aHasPrimary := a.Metric == r.primary && a.HasValue()
		bHasPrimary := b.Metric == r.primary && b.HasValue()
		if aHasPrimary != bHasPrimary {
			return aHasPrimary
		}
		return len([]rune(a.Name)) > len([]rune(b.Name))
	})
	return ordered
}

// bestMatch scans the arena with the layered decision rules in precedence
// order; the entity matched by the earliest rule wins, ties going to the
// lowest index. The rule list grew out of specific observed OCR failures
// and the ordering encodes which heuristic wins when several apply.
func (r *Reconciler) bestMatch(arena []model.Entity, o model.Observation) (int, string, bool) {
	rules := []struct {
		name  string
		match func(model.Entity, model.Observation) bool
	}{
		{"exact_name", r.matchExactName},
		{"name_and_value", r.matchNameAndValue},
		{"near_identical_value", r.matchNearIdenticalValue},
		{"same_read_rank", r.matchSameReadRank},
		{"name_partial_evidence", r.matchNamePartialEvidence},
		{"value_relaxed_name", r.matchValueRelaxedName},
		{"last_resort_name", r.matchLastResortName},
	}
	for _, rule := range rules {
		for i, e := range arena {
			if rule.match(e, o) {
				return i, rule.name, true
			}
		}
	}
	return 0, "", false
}

// Rule 1: case-insensitive exact name.
func (r *Reconciler) matchExactName(e model.Entity, o model.Observation) bool {
	return strings.EqualFold(e.Name, o.Name)
}

// Rule 2: strong fuzzy name and primary values within tolerance.
func (r *Reconciler) matchNameAndValue(e model.Entity, o model.Observation) bool {
	return r.similarity(e.Name, o.Name) >= r.strictNameSim &&
		r.valuesWithin(e, o, r.valueTolerance)
}

// Rule 3: near-identical primary values and a relaxed fuzzy name.
func (r *Reconciler) matchNearIdenticalValue(e model.Entity, o model.Observation) bool {
	return r.valuesWithin(e, o, r.valueNearIdentical) &&
		r.similarity(e.Name, o.Name) >= r.relaxedNameSim
}

// Rule 4: identical read rank is a strong independent signal; any of a
// fuzzy name, a value match, a loose name, or a truncated name confirms.
func (r *Reconciler) matchSameReadRank(e model.Entity, o model.Observation) bool {
	if !o.HasReadRank() || e.ReadRank != o.ReadRank {
		return false
	}
	sim := r.similarity(e.Name, o.Name)
	return sim >= r.strictNameSim ||
		r.valuesWithin(e, o, r.valueTolerance) ||
		sim >= r.looseNameSim ||
		len([]rune(e.Name)) < r.shortNameLen ||
		len([]rune(o.Name)) < r.shortNameLen
}

// Rule 5: strong fuzzy name where at least one side lacks the primary
// metric; partial evidence is carried forward.
func (r *Reconciler) matchNamePartialEvidence(e model.Entity, o model.Observation) bool {
	if r.similarity(e.Name, o.Name) < r.strictNameSim {
		return false
	}
	return !e.HasMetric(r.primary) || !r.obsHasPrimary(o)
}

// Rule 6: value within tolerance and a relaxed fuzzy name.
func (r *Reconciler) matchValueRelaxedName(e model.Entity, o model.Observation) bool {
	return r.valuesWithin(e, o, r.valueTolerance) &&
		r.similarity(e.Name, o.Name) >= r.relaxedNameSim
}

// Rule 7: very loose name where at least one side carries neither the
// primary metric nor a read rank.
func (r *Reconciler) matchLastResortName(e model.Entity, o model.Observation) bool {
	if r.similarity(e.Name, o.Name) < r.lastNameSim {
		return false
	}
	eBare := !e.HasMetric(r.primary) && e.ReadRank == 0
	oBare := !r.obsHasPrimary(o) && !o.HasReadRank()
	return eBare || oBare
}

// merge folds an observation into an entity and returns the updated copy.
func (r *Reconciler) merge(e model.Entity, o model.Observation) model.Entity {
	out := e.Clone()

	if o.HasValue() {
		existing, has := out.Values[o.Metric]
		switch {
		case !has || existing <= 0:
			out.Values[o.Metric] = o.Value
			if o.Metric == r.primary {
				out.RawLine = o.RawLine
			}
		case o.Metric == r.primary:
			merged, fromObs := r.mergePrimary(out, existing, o)
			out.Values[o.Metric] = merged
			if fromObs {
				out.RawLine = o.RawLine
			}
		case o.Value > existing:
			// Counters only ever grow; undercounting is the dominant
			// OCR failure mode, so the larger reading is more complete.
			out.Values[o.Metric] = o.Value
		}
	}

	if out.ReadRank == 0 {
		out.ReadRank = o.ReadRank
	}

	out.Name = r.pickName(out, o)
	return out
}

// mergePrimary resolves two conflicting primary-metric readings. Readings
// an implausible multiple apart hide a misread digit: prefer the smaller
// one, unless either side sits in the exempt top ranks where huge gaps are
// legitimate. Comparable readings keep the larger, assumed more complete.
// The second return reports whether the observation's reading won.
func (r *Reconciler) mergePrimary(e model.Entity, existing int64, o model.Observation) (int64, bool) {
	lo, hi := existing, o.Value
	if lo > hi {
		lo, hi = hi, lo
	}
	bestRank := e.ReadRank
	if o.HasReadRank() && (bestRank == 0 || o.ReadRank < bestRank) {
		bestRank = o.ReadRank
	}
	topExempt := bestRank > 0 && bestRank <= r.topRankExempt

	if !topExempt && float64(hi) >= float64(lo)*r.implausibleMultiple {
		return lo, o.Value == lo
	}
	return hi, o.Value == hi
}

// pickName chooses between the entity's and the observation's name. A
// primary-metric-bearing side is more reliable; otherwise the longer
// capture wins.
func (r *Reconciler) pickName(e model.Entity, o model.Observation) string {
	eHas := e.HasMetric(r.primary)
	oHas := r.obsHasPrimary(o)
	switch {
	case oHas && !eHas:
		return o.Name
	case eHas && !oHas:
		return e.Name
	}
	if len([]rune(o.Name)) > len([]rune(e.Name)) {
		return o.Name
	}
	return e.Name
}

func (r *Reconciler) obsHasPrimary(o model.Observation) bool {
	return o.Metric == r.primary && o.HasValue()
}

// valuesWithin reports whether both sides carry the primary metric and
// the readings agree within the given relative tolerance.
func (r *Reconciler) valuesWithin(e model.Entity, o model.Observation, tolerance float64) bool {
	if !e.HasMetric(r.primary) || !r.obsHasPrimary(o) {
		return false
	}
	a := float64(e.Value(r.primary))
	b := float64(o.Value)
	hi := a
	if b > hi {
		hi = b
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= hi*tolerance
}

// similarity computes the normalized edit similarity of two names,
// case-insensitively. Empty names never match.
func (r *Reconciler) similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), r.params)
}
