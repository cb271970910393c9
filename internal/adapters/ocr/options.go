package ocr

import "github.com/otiai10/gosseract/v2"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWhitelist restricts recognition to the given character set for every
// client the engine creates. Empty leaves recognition unrestricted.
func WithWhitelist(chars string) Option {
	return func(e *Engine) {
		e.whitelist = chars
	}
}

// WithLinePageSegMode overrides the segmentation mode used for single-line
// field reads.
func WithLinePageSegMode(mode gosseract.PageSegMode) Option {
	return func(e *Engine) {
		e.linePSM = mode
	}
}

// WithDetectPageSegMode overrides the segmentation mode used for whole-region
// line detection.
func WithDetectPageSegMode(mode gosseract.PageSegMode) Option {
	return func(e *Engine) {
		e.detectPSM = mode
	}
}
