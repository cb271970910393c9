package ocr

import "errors"

// Sentinel kinds for recognition errors.
var (
	ErrEngineClosed = errors.New("ocr engine closed")
	ErrNoLanguages  = errors.New("no recognition languages given")
)
