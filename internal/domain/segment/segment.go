// Package segment groups raw OCR detections into ordered horizontal rows
// based on vertical bounding-box overlap.
package segment

import (
	"sort"

	"github.com/okian/rosterscan/internal/domain/model"
)

// Default segmentation constants, tuned against the fixed-resolution
// source window. Both are expected to need recalibration per visual theme.
const (
	defaultConfidenceFloor = 0.35
	defaultRowTolerancePx  = 10
)

// Span is one detected row: a vertical pixel range in the source image.
type Span struct {
	Top    int
	Bottom int
}

// Height returns the row height in pixels.
func (s Span) Height() int { return s.Bottom - s.Top }

// Segmenter sweeps detections top to bottom and merges vertically adjacent
// spans into rows. A Segmenter is stateless across calls.
type Segmenter struct {
	confidenceFloor float64
	tolerancePx     int
}

// New creates a Segmenter with default tuning.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		confidenceFloor: defaultConfidenceFloor,
		tolerancePx:     defaultRowTolerancePx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rows groups detections into ordered, non-overlapping row spans. Low
// confidence detections are discarded as noise. An empty input yields an
// empty result, not an error.
func (s *Segmenter) Rows(detections []model.RawDetection) []Span {
	spans := make([]Span, 0, len(detections))
	for _, d := range detections {
		if d.Confidence < s.confidenceFloor {
			continue
		}
		top, bottom := d.VerticalSpan()
		spans = append(spans, Span{Top: top, Bottom: bottom})
	}
	if len(spans) == 0 {
		return nil
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Top < spans[j].Top })

	rows := make([]Span, 0, len(spans))
	current := spans[0]
	for _, sp := range spans[1:] {
		if sp.Top <= current.Bottom+s.tolerancePx {
			// Same text line: extend the open row downward.
			if sp.Bottom > current.Bottom {
				current.Bottom = sp.Bottom
			}
			continue
		}
		rows = append(rows, current)
		current = sp
	}
	rows = append(rows, current)
	return rows
}
