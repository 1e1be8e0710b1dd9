package performance

import "errors"

// Sentinel kinds for parse failures.
var (
	ErrEmptyInput          = errors.New("empty input")
	ErrMalformedFormat     = errors.New("malformed format")
	ErrOutOfRangeComponent = errors.New("component out of range")
	ErrNonPositiveValue    = errors.New("non-positive value")
)
