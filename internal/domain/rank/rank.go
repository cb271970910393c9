// Package rank orders canonical entities by their primary ranking metric
// and flags disagreement with the ranks the OCR itself reported.
package rank

import (
	"sort"

	"github.com/okian/rosterscan/internal/domain/model"
)

// Assigner derives the final roster order.
type Assigner struct {
	primary model.Metric
}

// New creates an Assigner ranking on the given primary metric.
func New(primary model.Metric) *Assigner {
	return &Assigner{primary: primary}
}

// Assign filters out entities without a positive primary metric (pure OCR
// artifacts in this domain), sorts the rest descending by that metric, and
// assigns 1-based ranks. Ties keep input order. Entities whose read rank
// disagrees with the derived rank are flagged.
func (a *Assigner) Assign(entities []model.Entity) []model.Entity {
	ranked := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Value(a.primary) > 0 {
			ranked = append(ranked, e.Clone())
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value(a.primary) > ranked[j].Value(a.primary)
	})

	for i := range ranked {
		ranked[i].AssignedRank = i + 1
		ranked[i].RankMismatch = ranked[i].ReadRank > 0 &&
			ranked[i].ReadRank != ranked[i].AssignedRank
	}
	return ranked
}
