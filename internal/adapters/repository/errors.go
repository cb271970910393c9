package repository

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound      = errors.New("member not found")
	ErrUnknownMetric = errors.New("no roster for metric")
	ErrInvalidLimit  = errors.New("invalid roster limit")
)
