package placement

import "errors"

// Sentinel kinds for placement failures.
var (
	ErrInvalidPlace    = errors.New("invalid place")
	ErrInvalidRound    = errors.New("invalid round")
	ErrUnknownCategory = errors.New("unknown placement category")
	ErrUnknownTable    = errors.New("unknown placement table")
	ErrInvalidTable    = errors.New("invalid placement table")
)
