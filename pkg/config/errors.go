package config

import "errors"

var (
	// ErrNilPointer is returned when Load receives a nil target.
	ErrNilPointer = errors.New("config: nil pointer provided")

	// ErrParsingConfig wraps env-tag parsing failures.
	ErrParsingConfig = errors.New("config: failed to parse")
)
