package catalog

import "errors"

// Sentinel kinds for catalog failures.
var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrInvalidTable = errors.New("invalid coefficient table")
)
