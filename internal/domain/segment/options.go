package segment

// Option applies a configuration option to the Segmenter.
type Option func(*Segmenter)

// WithConfidenceFloor sets the minimum detection confidence kept during
// segmentation. Values outside [0,1] are ignored.
func WithConfidenceFloor(floor float64) Option {
	return func(s *Segmenter) {
		if floor >= 0 && floor <= 1 {
			s.confidenceFloor = floor
		}
	}
}

// WithRowTolerance sets the vertical pixel tolerance used to decide
// whether a detection belongs to the currently open row.
func WithRowTolerance(px int) Option {
	return func(s *Segmenter) {
		if px >= 0 {
			s.tolerancePx = px
		}
	}
}
