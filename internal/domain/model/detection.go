package model

import "image"

// RawDetection is a single OCR hit: a bounding polygon, the recognized
// text, and the engine's confidence in [0,1]. Detections are ephemeral;
// they exist only between an OCR call and row segmentation.
type RawDetection struct {
	Polygon    []image.Point
	Text       string
	Confidence float64
}

// VerticalSpan returns the min and max y coordinate of the polygon.
// An empty polygon yields (0, 0).
func (d RawDetection) VerticalSpan() (top, bottom int) {
	if len(d.Polygon) == 0 {
		return 0, 0
	}
	top = d.Polygon[0].Y
	bottom = d.Polygon[0].Y
	for _, p := range d.Polygon[1:] {
		if p.Y < top {
			top = p.Y
		}
		if p.Y > bottom {
			bottom = p.Y
		}
	}
	return top, bottom
}
