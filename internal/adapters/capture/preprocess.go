package capture

import (
	"image"

	"github.com/disintegration/imaging"
)

// Preprocessing defaults tuned against the source window's rendering.
const (
	defaultScale    = 2
	defaultContrast = 15
	defaultSharpen  = 0.7
)

// Preprocessor prepares a crop for recognition: grayscale, upscale, then
// contrast and sharpen passes.
type Preprocessor struct {
	scale    int
	contrast float64
	sharpen  float64
}

// NewPreprocessor creates a Preprocessor with default tuning.
func NewPreprocessor(opts ...PreprocessOption) *Preprocessor {
	p := &Preprocessor{
		scale:    defaultScale,
		contrast: defaultContrast,
		sharpen:  defaultSharpen,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply runs the preprocessing passes over an image.
func (p *Preprocessor) Apply(img image.Image) *image.NRGBA {
	out := imaging.Grayscale(img)
	if p.scale > 1 {
		out = imaging.Resize(out, out.Bounds().Dx()*p.scale, 0, imaging.Lanczos)
	}
	if p.contrast != 0 {
		out = imaging.AdjustContrast(out, p.contrast)
	}
	if p.sharpen > 0 {
		out = imaging.Sharpen(out, p.sharpen)
	}
	return out
}

// Scale reports the upscale factor, which region geometry must be divided
// by when mapping preprocessed coordinates back to the source frame.
func (p *Preprocessor) Scale() int {
	if p.scale < 1 {
		return 1
	}
	return p.scale
}
