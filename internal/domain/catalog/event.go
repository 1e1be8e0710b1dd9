package catalog

import (
	"github.com/okian/wapoints/internal/domain/types"
)

// Formula selects how coefficients turn a performance into points.
type Formula string

const (
	// Quadratic is the published table form: a*x^2 + b*x + c.
	Quadratic Formula = "quadratic"
	// Power is the form a - b*x^c.
	Power Formula = "power"
)

// Coefficients of an event's points formula.
type Coefficients struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Range bounds the realistic performances of an event.
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Modifier marks an event as accepting a condition adjustment. Values at or
// below Allowance leave the performance unchanged.
type Modifier struct {
	Allowance float64 `json:"allowance" yaml:"allowance"`
}

// Scoring is the gender-specific part of an event.
type Scoring struct {
	Formula              Formula      `json:"formula"`
	Coefficients         Coefficients `json:"coefficients"`
	Range                Range        `json:"range"`
	WindCoefficient      float64      `json:"wind_coefficient,omitempty"`
	ElevationCoefficient float64      `json:"elevation_coefficient,omitempty"`
}

// Event is one discipline of the catalog. Values are immutable once loaded.
type Event struct {
	ID             string
	Name           string
	Aliases        []string
	Family         types.Family
	PlacementGroup string
	Wind           *Modifier
	Elevation      *Modifier

	scoring map[types.Gender]Scoring
}

// Direction in which the event's performances improve.
func (e Event) Direction() types.Direction { return e.Family.Direction() }

// Unit of the event's canonical performance.
func (e Event) Unit() types.Unit { return e.Family.Unit() }

// AcceptsWind reports whether a wind reading may accompany a performance.
func (e Event) AcceptsWind() bool { return e.Wind != nil }

// AcceptsElevation reports whether a net elevation drop may accompany a performance.
func (e Event) AcceptsElevation() bool { return e.Elevation != nil }

// Scoring returns the coefficients for g. ok is false when the event is not
// contested by g.
func (e Event) Scoring(g types.Gender) (Scoring, bool) {
	s, ok := e.scoring[g]
	return s, ok
}

// Genders contesting the event, in display order.
func (e Event) Genders() []types.Gender {
	out := make([]types.Gender, 0, len(e.scoring))
	for _, g := range types.Genders {
		if _, ok := e.scoring[g]; ok {
			out = append(out, g)
		}
	}
	return out
}
