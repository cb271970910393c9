package capture

import (
	"image"

	"github.com/disintegration/imaging"
)

// Duplicate-frame detection defaults. Scrolling stops moving at the end of
// the list, so the last captures repeat; the bottom of the frame is where
// repetition shows first.
const (
	defaultTailRatio     = 0.30
	defaultDupeThreshold = 0.98
)

// Deduper detects consecutive frames that show the same list tail.
type Deduper struct {
	tailRatio float64
	threshold float64
}

// NewDeduper creates a Deduper with default tuning.
func NewDeduper(opts ...DedupeOption) *Deduper {
	d := &Deduper{
		tailRatio: defaultTailRatio,
		threshold: defaultDupeThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Duplicate reports whether next repeats prev: the bottom tail of both
// frames is pixel-identical above the configured threshold. Differently
// sized frames never match.
func (d *Deduper) Duplicate(prev, next image.Image) bool {
	if prev == nil || next == nil {
		return false
	}
	pb, nb := prev.Bounds(), next.Bounds()
	if pb.Dx() != nb.Dx() || pb.Dy() != nb.Dy() {
		return false
	}

	tail := int(float64(pb.Dy()) * d.tailRatio)
	if tail < 1 {
		return false
	}
	pt := imaging.Crop(prev, image.Rect(pb.Min.X, pb.Max.Y-tail, pb.Max.X, pb.Max.Y))
	nt := imaging.Crop(next, image.Rect(nb.Min.X, nb.Max.Y-tail, nb.Max.X, nb.Max.Y))

	total := len(pt.Pix)
	if total == 0 || total != len(nt.Pix) {
		return false
	}
	same := 0
	for i := range pt.Pix {
		if pt.Pix[i] == nt.Pix[i] {
			same++
		}
	}
	return float64(same)/float64(total) >= d.threshold
}

// FilterDuplicates drops every frame whose tail repeats the previous kept
// frame, preserving capture order.
func (d *Deduper) FilterDuplicates(frames []Frame) []Frame {
	if len(frames) == 0 {
		return frames
	}
	kept := frames[:1:1]
	for _, f := range frames[1:] {
		if d.Duplicate(kept[len(kept)-1].Image, f.Image) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
