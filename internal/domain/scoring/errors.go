package scoring

import "errors"

// Sentinel kinds for scoring failures.
var (
	ErrDirectionMismatch = errors.New("coefficients contradict event direction")
	ErrUnscorable        = errors.New("performance cannot be scored")
	ErrUnitMismatch      = errors.New("performance unit does not match event")
)
