// Package catalog holds the immutable table of scored events.
//
// The table is data: adding an event means adding a row to the YAML
// document, never a code branch. A Catalog is built once and shared by
// pointer; nothing mutates it after Load returns.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/okian/wapoints/internal/domain/types"
	"github.com/okian/wapoints/pkg/errs"
	"gopkg.in/yaml.v3"
)

//go:embed data/coefficients.yaml
var embedded []byte

// Catalog is a read-only keyed mapping of events.
type Catalog struct {
	version string
	events  []Event
	index   map[string]int
}

type tableDoc struct {
	Version string     `yaml:"version"`
	Events  []eventDoc `yaml:"events"`
}

type eventDoc struct {
	ID             string      `yaml:"id"`
	Name           string      `yaml:"name"`
	Family         string      `yaml:"family"`
	PlacementGroup string      `yaml:"placement_group"`
	Aliases        []string    `yaml:"aliases"`
	Wind           *Modifier   `yaml:"wind"`
	Elevation      *Modifier   `yaml:"elevation"`
	Men            *scoringDoc `yaml:"men"`
	Women          *scoringDoc `yaml:"women"`
}

type scoringDoc struct {
	Formula              string    `yaml:"formula"`
	Coefficients         []float64 `yaml:"coefficients"`
	Range                []float64 `yaml:"range"`
	WindCoefficient      float64   `yaml:"wind_coefficient"`
	ElevationCoefficient float64   `yaml:"elevation_coefficient"`
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) { //nolint:gochecknoglobals // built once, read-only
	return Parse(embedded)
})

// Default returns the embedded catalog.
func Default() (*Catalog, error) { return defaultCatalog() }

// LoadFile reads a coefficient table from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied table path
	if err != nil {
		return nil, errs.WrapKind("catalog.LoadFile", ErrInvalidTable, err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load reads a coefficient table from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.WrapKind("catalog.Load", ErrInvalidTable, err)
	}
	return Parse(data)
}

// Parse builds a catalog from a YAML document.
func Parse(data []byte) (*Catalog, error) {
	const op = "catalog.Parse"

	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.WrapKind(op, ErrInvalidTable, err)
	}
	if len(doc.Events) == 0 {
		return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("no events"))
	}

	c := &Catalog{
		version: doc.Version,
		events:  make([]Event, 0, len(doc.Events)),
		index:   make(map[string]int, len(doc.Events)*2),
	}
	for i, ed := range doc.Events {
		ev, err := ed.build()
		if err != nil {
			return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("event #%d: %w", i+1, err))
		}
		for _, key := range append([]string{ev.ID}, ev.Aliases...) {
			k := normalize(key)
			if _, dup := c.index[k]; dup {
				return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("duplicate id or alias %q", key))
			}
			c.index[k] = len(c.events)
		}
		c.events = append(c.events, ev)
	}
	return c, nil
}

func (d eventDoc) build() (Event, error) {
	if strings.TrimSpace(d.ID) == "" {
		return Event{}, fmt.Errorf("missing id")
	}
	fam := types.Family(d.Family)
	if !fam.Valid() {
		return Event{}, fmt.Errorf("%s: unknown family %q", d.ID, d.Family)
	}
	name := d.Name
	if name == "" {
		name = d.ID
	}
	ev := Event{
		ID:             d.ID,
		Name:           name,
		Aliases:        d.Aliases,
		Family:         fam,
		PlacementGroup: d.PlacementGroup,
		Wind:           d.Wind,
		Elevation:      d.Elevation,
		scoring:        make(map[types.Gender]Scoring, len(types.Genders)),
	}
	for g, sd := range map[types.Gender]*scoringDoc{types.Men: d.Men, types.Women: d.Women} {
		if sd == nil {
			continue
		}
		s, err := sd.build()
		if err != nil {
			return Event{}, fmt.Errorf("%s/%s: %w", d.ID, g, err)
		}
		ev.scoring[g] = s
	}
	if len(ev.scoring) == 0 {
		return Event{}, fmt.Errorf("%s: no coefficients for any gender", d.ID)
	}
	return ev, nil
}

func (d scoringDoc) build() (Scoring, error) {
	f := Formula(d.Formula)
	switch f {
	case "":
		f = Quadratic
	case Quadratic, Power:
	default:
		return Scoring{}, fmt.Errorf("unknown formula %q", d.Formula)
	}
	if len(d.Coefficients) != 3 {
		return Scoring{}, fmt.Errorf("want 3 coefficients, got %d", len(d.Coefficients))
	}
	if len(d.Range) != 2 || d.Range[0] <= 0 || d.Range[0] >= d.Range[1] {
		return Scoring{}, fmt.Errorf("range must be 0 < lo < hi, got %v", d.Range)
	}
	return Scoring{
		Formula:              f,
		Coefficients:         Coefficients{A: d.Coefficients[0], B: d.Coefficients[1], C: d.Coefficients[2]},
		Range:                Range{Lo: d.Range[0], Hi: d.Range[1]},
		WindCoefficient:      d.WindCoefficient,
		ElevationCoefficient: d.ElevationCoefficient,
	}, nil
}

func normalize(id string) string { return strings.ToLower(strings.TrimSpace(id)) }

// Lookup finds an event by id or alias, ignoring case.
func (c *Catalog) Lookup(id string) (Event, error) {
	i, ok := c.index[normalize(id)]
	if !ok {
		return Event{}, errs.WrapKind("catalog.Lookup", ErrUnknownEvent, fmt.Errorf("%q", id))
	}
	return c.events[i], nil
}

// LookupFor finds an event contested by g along with its coefficients.
func (c *Catalog) LookupFor(g types.Gender, id string) (Event, Scoring, error) {
	ev, err := c.Lookup(id)
	if err != nil {
		return Event{}, Scoring{}, err
	}
	s, ok := ev.Scoring(g)
	if !ok {
		return Event{}, Scoring{}, errs.WrapKind("catalog.LookupFor", ErrUnknownEvent, fmt.Errorf("%q is not contested by %s", ev.ID, g))
	}
	return ev, s, nil
}

// Events returns the events in table order. The slice is a copy.
func (c *Catalog) Events() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// EventsFor returns the events contested by g, in table order.
func (c *Catalog) EventsFor(g types.Gender) []Event {
	out := make([]Event, 0, len(c.events))
	for _, ev := range c.events {
		if _, ok := ev.scoring[g]; ok {
			out = append(out, ev)
		}
	}
	return out
}

// Len is the number of events.
func (c *Catalog) Len() int { return len(c.events) }

// Version of the loaded table.
func (c *Catalog) Version() string { return c.version }
