// Package performance turns free-form performance text into a canonical
// numeric value and back.
//
// Times are accepted as SS.ss, MM:SS.ss or HH:MM:SS.ss and normalized to
// seconds. Distances, heights and combined-events totals are a single
// decimal number. Minutes and seconds inside a colon form must be below 60;
// a bare seconds value is unbounded so that "75.3" is a valid 400m time.
package performance

import (
	"fmt"
	"strings"

	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/errs"
	"github.com/shopspring/decimal"
)

const (
	maxTimeComponents = 3
	sixty             = 60
	secondsPerHour    = 3600
)

// Canonical is a strictly positive performance in a single unit.
type Canonical struct {
	Value     float64    `json:"value"`
	Unit      types.Unit `json:"unit"`
	Precision int        `json:"precision"` // decimal places the user actually supplied
}

// String renders the value the way it was entered.
func (c Canonical) String() string { return Format(c.Value, c.Unit, c.Precision) }

// WithValue returns a copy carrying v and the same unit and precision.
func (c Canonical) WithValue(v float64) Canonical {
	c.Value = v
	return c
}

// Parse reads raw as a performance measured in unit.
func Parse(raw string, unit types.Unit) (Canonical, error) {
	const op = "performance.Parse"

	s := strings.TrimSpace(raw)
	if s == "" {
		return Canonical{}, errs.NewKind(op, ErrEmptyInput)
	}
	if strings.HasPrefix(s, "-") {
		return Canonical{}, errs.WrapKind(op, ErrNonPositiveValue, fmt.Errorf("%q is negative", s))
	}

	var (
		total     decimal.Decimal
		precision int
		err       error
	)
	if unit.Timed() {
		total, precision, err = parseClock(s)
	} else {
		if strings.Contains(s, ":") {
			return Canonical{}, errs.WrapKind(op, ErrMalformedFormat, fmt.Errorf("%q: %s take a single number", s, unit))
		}
		total, precision, err = parseNumber(s, true)
	}
	if err != nil {
		return Canonical{}, errs.Wrap(op, err)
	}
	if !total.IsPositive() {
		return Canonical{}, errs.WrapKind(op, ErrNonPositiveValue, fmt.Errorf("%q", s))
	}
	return Canonical{Value: total.InexactFloat64(), Unit: unit, Precision: precision}, nil
}

// parseClock handles SS.ss, MM:SS.ss and HH:MM:SS.ss.
func parseClock(s string) (decimal.Decimal, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) > maxTimeComponents {
		return decimal.Zero, 0, errs.WrapKind("", ErrMalformedFormat, fmt.Errorf("%q has %d components", s, len(parts)))
	}

	values := make([]decimal.Decimal, len(parts))
	precision := 0
	for i, p := range parts {
		last := i == len(parts)-1
		v, prec, err := parseNumber(p, last)
		if err != nil {
			return decimal.Zero, 0, err
		}
		values[i] = v
		if last {
			precision = prec
		}
	}

	limit := decimal.NewFromInt(sixty)
	switch len(values) {
	case 3:
		if !values[1].LessThan(limit) {
			return decimal.Zero, 0, errs.WrapKind("", ErrOutOfRangeComponent, fmt.Errorf("minutes %s", parts[1]))
		}
		fallthrough
	case 2:
		if !values[len(values)-1].LessThan(limit) {
			return decimal.Zero, 0, errs.WrapKind("", ErrOutOfRangeComponent, fmt.Errorf("seconds %s", parts[len(parts)-1]))
		}
		if len(values) == 2 && !values[0].LessThan(limit) {
			return decimal.Zero, 0, errs.WrapKind("", ErrOutOfRangeComponent, fmt.Errorf("minutes %s", parts[0]))
		}
	}

	total := decimal.Zero
	weight := decimal.NewFromInt(1)
	for i := len(values) - 1; i >= 0; i-- {
		total = total.Add(values[i].Mul(weight))
		weight = weight.Mul(limit)
	}
	return total, precision, nil
}

// parseNumber accepts unsigned digits with an optional fraction. Only the
// final clock component may carry a fraction.
func parseNumber(tok string, allowFraction bool) (decimal.Decimal, int, error) {
	if tok == "" {
		return decimal.Zero, 0, errs.WrapKind("", ErrMalformedFormat, fmt.Errorf("empty component"))
	}
	if strings.HasPrefix(tok, "-") {
		return decimal.Zero, 0, errs.WrapKind("", ErrNonPositiveValue, fmt.Errorf("%q is negative", tok))
	}

	intPart, frac, hasDot := strings.Cut(tok, ".")
	if hasDot && !allowFraction {
		return decimal.Zero, 0, errs.WrapKind("", ErrMalformedFormat, fmt.Errorf("fraction in %q", tok))
	}
	if !digits(intPart) && !(intPart == "" && hasDot) {
		return decimal.Zero, 0, errs.WrapKind("", ErrMalformedFormat, fmt.Errorf("non-numeric %q", tok))
	}
	if hasDot && (frac == "" || !digits(frac)) {
		return decimal.Zero, 0, errs.WrapKind("", ErrMalformedFormat, fmt.Errorf("non-numeric %q", tok))
	}

	if intPart == "" {
		tok = "0" + tok
	}
	v, err := decimal.NewFromString(tok)
	if err != nil {
		return decimal.Zero, 0, errs.WrapKind("", ErrMalformedFormat, err)
	}
	return v, len(frac), nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Format renders v in unit with the given number of decimals. Times of a
// minute or more use the clock notation, e.g. 1:30.25 or 2:15:30.50.
func Format(v float64, unit types.Unit, precision int) string {
	if precision < 0 {
		precision = 0
	}
	d := decimal.NewFromFloat(v).Round(int32(precision)) //nolint:gosec // precision is a small decimal count
	if !unit.Timed() || d.LessThan(decimal.NewFromInt(sixty)) {
		return d.StringFixed(int32(precision)) //nolint:gosec // see above
	}

	minute := decimal.NewFromInt(sixty)
	hour := decimal.NewFromInt(secondsPerHour)
	hours := d.Div(hour).Floor()
	rest := d.Sub(hours.Mul(hour))
	minutes := rest.Div(minute).Floor()
	secs := rest.Sub(minutes.Mul(minute))

	sec := secs.StringFixed(int32(precision)) //nolint:gosec // see above
	if secs.LessThan(decimal.NewFromInt(10)) {
		sec = "0" + sec
	}
	if hours.IsPositive() {
		return fmt.Sprintf("%s:%02d:%s", hours.String(), minutes.IntPart(), sec)
	}
	return fmt.Sprintf("%s:%s", minutes.String(), sec)
}
