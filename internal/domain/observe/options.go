package observe

import "github.com/okian/rosterscan/internal/domain/normalize"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithLayout sets the horizontal field column boundaries.
func WithLayout(l Layout) Option {
	return func(b *Builder) {
		b.layout = l
	}
}

// WithPodium sets the fixed podium slot geometry.
func WithPodium(slots []PodiumSlot) Option {
	return func(b *Builder) {
		if len(slots) > 0 {
			b.podium = slots
		}
	}
}

// WithScriptSets sets the language sets tried when reading the name
// column. The first set is also used for the numeric columns.
func WithScriptSets(sets [][]string) Option {
	return func(b *Builder) {
		if len(sets) > 0 {
			b.scriptSets = sets
		}
	}
}

// WithNormalizer sets a custom field normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(b *Builder) {
		if n != nil {
			b.norm = n
		}
	}
}

// WithRowPadding sets the proportional padding applied around a row span
// before slicing, and the fixed minimum for very thin rows.
func WithRowPadding(ratio float64, minPx int) Option {
	return func(b *Builder) {
		if ratio > 0 {
			b.padRatio = ratio
		}
		if minPx >= 0 {
			b.minPadPx = minPx
		}
	}
}

// WithRankNoiseTolerance sets how many non-digit characters the rank
// column's corrected text may contain before the row is rejected.
func WithRankNoiseTolerance(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.rankNoiseTolerance = n
		}
	}
}

// WithSingleCharValueFloor sets the minimum metric value required for a
// single-character name to be believed.
func WithSingleCharValueFloor(v int64) Option {
	return func(b *Builder) {
		if v > 0 {
			b.singleCharValueFloor = v
		}
	}
}

// WithFooterNoiseBounds sets the footer-noise rejection rule: values below
// ceil paired with read ranks at or beyond floor are discarded.
func WithFooterNoiseBounds(floor int, ceil int64) Option {
	return func(b *Builder) {
		if floor > 0 {
			b.footerRankFloor = floor
		}
		if ceil > 0 {
			b.footerValueCeil = ceil
		}
	}
}
