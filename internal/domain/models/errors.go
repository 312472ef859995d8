package models

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidInstant      = errors.New("invalid instant")
	ErrUnsupportedBody     = errors.New("unsupported body")
	ErrMissingCoordinates  = errors.New("missing coordinates")
	ErrProviderUnavailable = errors.New("ephemeris provider unavailable")
)

// Warning codes carried on a Signature.
const (
	WarnDegradedAccuracy   = "DEGRADED_ACCURACY"
	WarnTimeUnknown        = "TIME_UNKNOWN"
	WarnMissingCoordinates = "MISSING_COORDINATES"
)
