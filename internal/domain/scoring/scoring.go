// Package scoring applies an event's coefficients to a canonical
// performance. Results are floored, never rounded, and never clamped.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/performance"
	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/errs"
)

// floorGuard absorbs binary representation error for results that are
// mathematically an integer, e.g. 1199.9999999997.
const floorGuard = 1e-9

// Evaluate returns the unfloored formula value of x.
func Evaluate(s catalog.Scoring, x float64) float64 {
	c := s.Coefficients
	switch s.Formula {
	case catalog.Power:
		return c.A - c.B*math.Pow(x, c.C)
	default:
		return c.A*x*x + c.B*x + c.C
	}
}

// pointsLimit is 2^63; floored values must stay strictly inside it.
const pointsLimit = float64(math.MaxInt64)

// Points floors the formula value of x. It is pure: identical inputs always
// yield identical output. Absurd performances score absurd points; only a
// value no integer can hold is refused.
func Points(s catalog.Scoring, x float64) (int, error) {
	v := Evaluate(s, x)
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= pointsLimit {
		return 0, errs.WrapKind("scoring.Points", ErrUnscorable, fmt.Errorf("x=%g gives %g", x, v))
	}
	return int(math.Floor(v + floorGuard)), nil
}

// Score scores perf for ev as contested by g.
func Score(perf performance.Canonical, ev catalog.Event, g types.Gender) (int, error) {
	const op = "scoring.Score"

	if perf.Unit != ev.Unit() {
		return 0, errs.WrapKind(op, ErrUnitMismatch, fmt.Errorf("%s is measured in %s, got %s", ev.ID, ev.Unit(), perf.Unit))
	}
	s, ok := ev.Scoring(g)
	if !ok {
		return 0, errs.WrapKind(op, catalog.ErrUnknownEvent, fmt.Errorf("%q is not contested by %s", ev.ID, g))
	}
	p, err := Points(s, perf.Value)
	if err != nil {
		return 0, errs.Wrap(op, err)
	}
	return p, nil
}
