package adjust

import "errors"

// Sentinel kinds for adjustment failures.
var (
	ErrInapplicableModifier = errors.New("modifier not applicable to event")
	ErrInvalidModifier      = errors.New("invalid modifier")
)
