package scoring

import (
	"errors"
	"fmt"

	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/errs"
)

const (
	// DefaultSamples is the number of points sampled across each range.
	DefaultSamples = 64
	monotoneSlack  = 1e-9
)

// VerifyEvent checks that points move with the event's direction over every
// gender's realistic range. Lower-is-better events must not gain points as x
// grows; higher-is-better events must not lose any.
func VerifyEvent(ev catalog.Event, samples int) error {
	if samples < 2 {
		samples = DefaultSamples
	}
	dir := ev.Direction()
	for _, g := range ev.Genders() {
		s, _ := ev.Scoring(g)
		step := (s.Range.Hi - s.Range.Lo) / float64(samples-1)
		prevX := s.Range.Lo
		prev := Evaluate(s, prevX)
		for i := 1; i < samples; i++ {
			x := s.Range.Lo + step*float64(i)
			cur := Evaluate(s, x)
			if (dir == types.LowerIsBetter && cur > prev+monotoneSlack) ||
				(dir == types.HigherIsBetter && cur < prev-monotoneSlack) {
				return errs.WrapKind("scoring.VerifyEvent", ErrDirectionMismatch,
					fmt.Errorf("%s/%s is %s but scores %.2f at %g and %.2f at %g", ev.ID, g, dir, prev, prevX, cur, x))
			}
			prevX, prev = x, cur
		}
	}
	return nil
}

// VerifyCatalog runs VerifyEvent for every event and reports all mismatches.
func VerifyCatalog(c *catalog.Catalog, samples int) error {
	var failures []error
	for _, ev := range c.Events() {
		if err := VerifyEvent(ev, samples); err != nil {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}
