package reconcile

// Option applies a configuration option to the Reconciler.
type Option func(*Reconciler)

// WithNameThresholds sets the four fuzzy-name similarity thresholds, from
// strict to last-resort. Values outside (0,1] are ignored per field.
func WithNameThresholds(strict, relaxed, loose, last float64) Option {
	return func(r *Reconciler) {
		if strict > 0 && strict <= 1 {
			r.strictNameSim = strict
		}
		if relaxed > 0 && relaxed <= 1 {
			r.relaxedNameSim = relaxed
		}
		if loose > 0 && loose <= 1 {
			r.looseNameSim = loose
		}
		if last > 0 && last <= 1 {
			r.lastNameSim = last
		}
	}
}

// WithValueTolerances sets the relative tolerances for "same reading" and
// "near-certain identity" primary-metric comparisons.
func WithValueTolerances(same, nearIdentical float64) Option {
	return func(r *Reconciler) {
		if same > 0 {
			r.valueTolerance = same
		}
		if nearIdentical > 0 {
			r.valueNearIdentical = nearIdentical
		}
	}
}

// WithImplausibleMultiple sets the ratio beyond which two primary-metric
// readings are considered to hide a misread digit.
func WithImplausibleMultiple(ratio float64) Option {
	return func(r *Reconciler) {
		if ratio > 1 {
			r.implausibleMultiple = ratio
		}
	}
}

// WithTopRankExempt sets the rank at or above which the implausible
// multiple heuristic is suspended.
func WithTopRankExempt(rank int) Option {
	return func(r *Reconciler) {
		if rank >= 0 {
			r.topRankExempt = rank
		}
	}
}

// WithShortNameLen sets the length below which a name is treated as
// likely truncated for the read-rank rule.
func WithShortNameLen(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.shortNameLen = n
		}
	}
}
