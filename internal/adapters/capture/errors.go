package capture

import "errors"

// Sentinel kinds for frame loading errors.
var (
	ErrNoFrames = errors.New("no frames in directory")
)
