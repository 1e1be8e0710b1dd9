package service

import (
	"errors"

	"github.com/okian/wapoints/internal/domain/adjust"
	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/performance"
	"github.com/okian/wapoints/internal/domain/placement"
	"github.com/okian/wapoints/internal/domain/scoring"
)

// Sentinel kinds for service failures.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrInvalidGender = errors.New("invalid gender")
)

// Error codes reported to clients and used as metric labels.
const (
	CodeUnknownEvent         = "unknown_event"
	CodeEmptyInput           = "empty_input"
	CodeMalformedFormat      = "malformed_format"
	CodeOutOfRangeComponent  = "out_of_range_component"
	CodeNonPositiveValue     = "non_positive_value"
	CodeUnscorable           = "unscorable_performance"
	CodeInapplicableModifier = "inapplicable_modifier"
	CodeInvalidModifier      = "invalid_modifier"
	CodeInvalidPlace         = "invalid_place"
	CodeInvalidRound         = "invalid_round"
	CodeUnknownCategory      = "unknown_category"
	CodeUnknownTable         = "unknown_table"
	CodeInvalidGender        = "invalid_gender"
	CodeNotStarted           = "not_started"
	CodeInternal             = "internal"
)

var codes = []struct { //nolint:gochecknoglobals // read-only lookup table
	kind error
	code string
}{
	{catalog.ErrUnknownEvent, CodeUnknownEvent},
	{performance.ErrEmptyInput, CodeEmptyInput},
	{performance.ErrMalformedFormat, CodeMalformedFormat},
	{performance.ErrOutOfRangeComponent, CodeOutOfRangeComponent},
	{performance.ErrNonPositiveValue, CodeNonPositiveValue},
	{adjust.ErrInapplicableModifier, CodeInapplicableModifier},
	{adjust.ErrInvalidModifier, CodeInvalidModifier},
	{placement.ErrInvalidPlace, CodeInvalidPlace},
	{placement.ErrInvalidRound, CodeInvalidRound},
	{placement.ErrUnknownCategory, CodeUnknownCategory},
	{placement.ErrUnknownTable, CodeUnknownTable},
	{ErrInvalidGender, CodeInvalidGender},
	{ErrNotStarted, CodeNotStarted},
	{scoring.ErrUnitMismatch, CodeInternal},
	{scoring.ErrUnscorable, CodeUnscorable},
}

// ErrorCode classifies err into a stable snake_case code.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.kind) {
			return c.code
		}
	}
	return CodeInternal
}
