package capture

import "strings"

// SourceOption applies a configuration option to a Source.
type SourceOption func(*Source)

// WithExtensions replaces the set of frame file extensions the source
// accepts. Extensions are matched case-insensitively with a leading dot.
func WithExtensions(exts ...string) SourceOption {
	return func(s *Source) {
		if len(exts) == 0 {
			return
		}
		s.exts = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			e = strings.ToLower(e)
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			s.exts[e] = struct{}{}
		}
	}
}

// PreprocessOption applies a configuration option to a Preprocessor.
type PreprocessOption func(*Preprocessor)

// WithScale sets the integer upscale factor. Values below 1 disable
// upscaling.
func WithScale(scale int) PreprocessOption {
	return func(p *Preprocessor) {
		p.scale = scale
	}
}

// WithContrast sets the contrast adjustment percentage.
func WithContrast(contrast float64) PreprocessOption {
	return func(p *Preprocessor) {
		p.contrast = contrast
	}
}

// WithSharpen sets the sharpening sigma. Zero disables sharpening.
func WithSharpen(sigma float64) PreprocessOption {
	return func(p *Preprocessor) {
		if sigma >= 0 {
			p.sharpen = sigma
		}
	}
}

// DedupeOption applies a configuration option to a Deduper.
type DedupeOption func(*Deduper)

// WithTailRatio sets the fraction of frame height compared from the bottom.
func WithTailRatio(ratio float64) DedupeOption {
	return func(d *Deduper) {
		if ratio > 0 && ratio <= 1 {
			d.tailRatio = ratio
		}
	}
}

// WithDupeThreshold sets the identical-pixel fraction above which two
// frame tails count as the same.
func WithDupeThreshold(threshold float64) DedupeOption {
	return func(d *Deduper) {
		if threshold > 0 && threshold <= 1 {
			d.threshold = threshold
		}
	}
}
