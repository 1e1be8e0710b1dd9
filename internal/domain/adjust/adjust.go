// Package adjust converts a raw performance into its condition-neutral
// equivalent using wind and net elevation drop.
//
// Adjusting is not idempotent. Callers adjust a raw performance exactly once.
package adjust

import (
	"fmt"
	"math"

	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/performance"
	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/errs"
)

// Modifier names used in Applied.Ignored.
const (
	ModifierWind      = "wind"
	ModifierElevation = "elevation"
)

// Context holds the optional condition readings of a performance. A nil
// field means the reading was not supplied, which differs from zero.
type Context struct {
	Wind      *float64 // m/s, positive is tailwind
	Elevation *float64 // net drop in m/km, positive is downhill
}

// Applied reports what Adjust did.
type Applied struct {
	Wind            *float64 `json:"wind,omitempty"`
	WindOffset      float64  `json:"wind_offset"`
	Elevation       *float64 `json:"elevation,omitempty"`
	ElevationOffset float64  `json:"elevation_offset"`
	Ignored         []string `json:"ignored,omitempty"`
}

// Option applies a configuration option to the Adjuster.
type Option func(*Adjuster)

// WithLenient ignores modifiers the event does not accept instead of
// rejecting them.
func WithLenient(lenient bool) Option {
	return func(a *Adjuster) {
		a.lenient = lenient
	}
}

// Adjuster applies wind and elevation corrections. It holds no mutable state.
type Adjuster struct {
	lenient bool
}

// New creates an Adjuster. By default inapplicable modifiers are rejected.
func New(opts ...Option) *Adjuster {
	a := &Adjuster{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Lenient reports whether inapplicable modifiers are ignored.
func (a *Adjuster) Lenient() bool { return a.lenient }

// Adjust returns perf corrected for ctx as scored by ev for gender g.
func (a *Adjuster) Adjust(perf performance.Canonical, ctx Context, ev catalog.Event, g types.Gender) (performance.Canonical, Applied, error) {
	const op = "adjust.Adjust"

	var applied Applied
	s, ok := ev.Scoring(g)
	if !ok {
		return perf, applied, errs.WrapKind(op, catalog.ErrUnknownEvent, fmt.Errorf("%q is not contested by %s", ev.ID, g))
	}

	// Penalties raise a time and lower a mark.
	sign := 1.0
	if ev.Direction() == types.HigherIsBetter {
		sign = -1.0
	}

	value := perf.Value
	if ctx.Wind != nil {
		switch {
		case !ev.AcceptsWind() && a.lenient:
			applied.Ignored = append(applied.Ignored, ModifierWind)
		case !ev.AcceptsWind():
			return perf, Applied{}, errs.WrapKind(op, ErrInapplicableModifier, fmt.Errorf("%s does not take a wind reading", ev.ID))
		case !finite(*ctx.Wind):
			return perf, Applied{}, errs.WrapKind(op, ErrInvalidModifier, fmt.Errorf("wind %v", *ctx.Wind))
		default:
			w := *ctx.Wind
			applied.Wind = &w
			// Tailwinds within the allowance are legal and carry no penalty.
			if w < 0 || w > ev.Wind.Allowance {
				applied.WindOffset = s.WindCoefficient * w
				value += sign * applied.WindOffset
			}
		}
	}

	if ctx.Elevation != nil {
		switch {
		case !ev.AcceptsElevation() && a.lenient:
			applied.Ignored = append(applied.Ignored, ModifierElevation)
		case !ev.AcceptsElevation():
			return perf, Applied{}, errs.WrapKind(op, ErrInapplicableModifier, fmt.Errorf("%s does not take an elevation drop", ev.ID))
		case !finite(*ctx.Elevation):
			return perf, Applied{}, errs.WrapKind(op, ErrInvalidModifier, fmt.Errorf("elevation %v", *ctx.Elevation))
		default:
			d := *ctx.Elevation
			applied.Elevation = &d
			if d > ev.Elevation.Allowance {
				applied.ElevationOffset = s.ElevationCoefficient * d
				value += sign * applied.ElevationOffset
			}
		}
	}

	if !finite(value) {
		return perf, Applied{}, errs.WrapKind(op, ErrInvalidModifier, fmt.Errorf("adjusted performance %g is not finite", value))
	}
	if value <= 0 {
		return perf, Applied{}, errs.WrapKind(op, ErrInvalidModifier, fmt.Errorf("adjusted performance %g is not positive", value))
	}
	return perf.WithValue(value), applied, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
