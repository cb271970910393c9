package capture

import (
	"image"

	"github.com/disintegration/imaging"
)

// Regions fixes where the roster UI lives inside a raw frame. The podium
// and the first list rows only exist on the first frame of a category;
// every later frame shows the scrolled list region.
type Regions struct {
	Podium    image.Rectangle
	FirstRows image.Rectangle
	Scrolled  image.Rectangle
}

// DefaultRegions matches the fixed-resolution source window.
func DefaultRegions() Regions {
	return Regions{
		Podium:    image.Rect(235, 360, 1180, 465),
		FirstRows: image.Rect(235, 475, 1180, 645),
		Scrolled:  image.Rect(235, 170, 1180, 660),
	}
}

// CropPodium cuts the podium region out of a first frame.
func (r Regions) CropPodium(frame image.Image) *image.NRGBA {
	return imaging.Crop(frame, r.Podium)
}

// CropFirstRows cuts the list rows visible below the podium on a first frame.
func (r Regions) CropFirstRows(frame image.Image) *image.NRGBA {
	return imaging.Crop(frame, r.FirstRows)
}

// CropScrolled cuts the full scrolled list region out of a later frame.
func (r Regions) CropScrolled(frame image.Image) *image.NRGBA {
	return imaging.Crop(frame, r.Scrolled)
}
