// Package placement scores finishing places by competition category.
//
// Lookup is direct: a place the table does not list scores the table-wide
// fallback. In a semifinal, every place that reached the final scores as
// first, and the final's size picks the semifinal table.
package placement

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/okian/wapoints/pkg/errs"
	"gopkg.in/yaml.v3"
)

//go:embed data/placements.yaml
var embedded []byte

// DefaultGroup is the placement group used when none is given.
const DefaultGroup = "track_field"

// Round of the competition a place was achieved in.
type Round string

const (
	Final           Round = "final"
	Semifinal       Round = "semifinal"
	SemifinalMax9   Round = "semifinal_max9"
	Semifinal10Plus Round = "semifinal_10plus"
)

// maxSmallFinal is the largest final scored from the semifinal_max9 table.
const maxSmallFinal = 9

// Valid reports whether r names a stored table.
func (r Round) Valid() bool {
	switch r {
	case Final, SemifinalMax9, Semifinal10Plus:
		return true
	}
	return false
}

// Semifinal reports whether r is a semifinal round.
func (r Round) Semifinal() bool {
	return r == Semifinal || r == SemifinalMax9 || r == Semifinal10Plus
}

// resolve maps a requested round onto its stored table.
func (r Round) resolve(sizeOfFinal int) (Round, error) {
	if !r.Semifinal() {
		return r, nil
	}
	if sizeOfFinal < 1 {
		return "", fmt.Errorf("%s needs the size of the final", r)
	}
	table := Semifinal10Plus
	if sizeOfFinal <= maxSmallFinal {
		table = SemifinalMax9
	}
	if r != Semifinal && r != table {
		return "", fmt.Errorf("%s contradicts a final of %d", r, sizeOfFinal)
	}
	return table, nil
}

// Category is a competition tier.
type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Request selects one table cell.
type Request struct {
	Group       string
	Round       Round
	Category    string
	Place       int
	SizeOfFinal int // semifinal places up to this size reached the final
}

// Result of a placement lookup.
type Result struct {
	Points   int  `json:"points"`
	Place    int   `json:"scored_place"` // place after the semifinal rule
	Round    Round `json:"round"`        // stored table that was read
	Fallback bool  `json:"fallback"`
}

type table map[int]int

// Tables holds every placement table. Immutable after load.
type Tables struct {
	version    string
	fallback   int
	categories []Category
	known      map[string]struct{}
	groups     map[string]map[Round]map[string]table
}

type tablesDoc struct {
	Version    string                                      `yaml:"version"`
	Fallback   int                                         `yaml:"fallback"`
	Categories []Category                                  `yaml:"categories"`
	Groups     map[string]map[Round]map[string]map[int]int `yaml:"groups"`
}

var defaultTables = sync.OnceValues(func() (*Tables, error) { //nolint:gochecknoglobals // built once, read-only
	return Parse(embedded)
})

// Default returns the embedded tables.
func Default() (*Tables, error) { return defaultTables() }

// LoadFile reads placement tables from path.
func LoadFile(path string) (*Tables, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied table path
	if err != nil {
		return nil, errs.WrapKind("placement.LoadFile", ErrInvalidTable, err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load reads placement tables from r.
func Load(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.WrapKind("placement.Load", ErrInvalidTable, err)
	}
	return Parse(data)
}

// Parse builds tables from a YAML document.
func Parse(data []byte) (*Tables, error) {
	const op = "placement.Parse"

	var doc tablesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.WrapKind(op, ErrInvalidTable, err)
	}
	if len(doc.Categories) == 0 {
		return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("no categories"))
	}
	if doc.Fallback < 0 {
		return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("negative fallback %d", doc.Fallback))
	}

	t := &Tables{
		version:    doc.Version,
		fallback:   doc.Fallback,
		categories: make([]Category, 0, len(doc.Categories)),
		known:      make(map[string]struct{}, len(doc.Categories)),
		groups:     make(map[string]map[Round]map[string]table, len(doc.Groups)),
	}
	for _, c := range doc.Categories {
		id := normalize(c.ID)
		if id == "" {
			return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("category without id"))
		}
		if _, dup := t.known[id]; dup {
			return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("duplicate category %q", c.ID))
		}
		t.known[id] = struct{}{}
		t.categories = append(t.categories, Category{ID: id, Name: c.Name})
	}

	for group, rounds := range doc.Groups {
		t.groups[group] = make(map[Round]map[string]table, len(rounds))
		for round, cats := range rounds {
			if !round.Valid() {
				return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("%s: unknown round %q", group, round))
			}
			t.groups[group][round] = make(map[string]table, len(cats))
			for cat, rows := range cats {
				id := normalize(cat)
				if _, ok := t.known[id]; !ok {
					return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("%s/%s: undeclared category %q", group, round, cat))
				}
				tb := make(table, len(rows))
				for place, pts := range rows {
					if place < 1 || pts < 0 {
						return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("%s/%s/%s: bad row %d: %d", group, round, cat, place, pts))
					}
					tb[place] = pts
				}
				if _, ok := tb[1]; len(tb) > 0 && !ok {
					return nil, errs.WrapKind(op, ErrInvalidTable, fmt.Errorf("%s/%s/%s: table must start at place 1", group, round, cat))
				}
				t.groups[group][round][id] = tb
			}
		}
	}
	return t, nil
}

func normalize(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }

// Score returns the points for req.
func (t *Tables) Score(req Request) (Result, error) {
	const op = "placement.Score"

	if req.Place < 1 {
		return Result{}, errs.WrapKind(op, ErrInvalidPlace, fmt.Errorf("place %d", req.Place))
	}
	cat := normalize(req.Category)
	if _, ok := t.known[cat]; !ok {
		return Result{}, errs.WrapKind(op, ErrUnknownCategory, fmt.Errorf("%q", req.Category))
	}
	group := req.Group
	if group == "" {
		group = DefaultGroup
	}
	requested := req.Round
	if requested == "" {
		requested = Final
	}
	round, err := requested.resolve(req.SizeOfFinal)
	if err != nil {
		return Result{}, errs.WrapKind(op, ErrInvalidRound, err)
	}
	rounds, ok := t.groups[group]
	if !ok {
		return Result{}, errs.WrapKind(op, ErrUnknownTable, fmt.Errorf("group %q", group))
	}
	cats, ok := rounds[round]
	if !ok {
		return Result{}, errs.WrapKind(op, ErrUnknownTable, fmt.Errorf("%s has no %q round", group, round))
	}

	place := req.Place
	if round.Semifinal() && place <= req.SizeOfFinal {
		place = 1
	}
	if pts, ok := cats[cat][place]; ok {
		return Result{Points: pts, Place: place, Round: round}, nil
	}
	return Result{Points: t.fallback, Place: place, Round: round, Fallback: true}, nil
}

// ScoreCategory scores a final place in the default group.
func (t *Tables) ScoreCategory(category string, place int) (int, error) {
	res, err := t.Score(Request{Category: category, Place: place})
	if err != nil {
		return 0, err
	}
	return res.Points, nil
}

// Categories in declaration order. The slice is a copy.
func (t *Tables) Categories() []Category { return slices.Clone(t.categories) }

// Groups returns the group names, sorted.
func (t *Tables) Groups() []string {
	out := make([]string, 0, len(t.groups))
	for g := range t.groups {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// HasGroup reports whether group has tables.
func (t *Tables) HasGroup(group string) bool {
	_, ok := t.groups[group]
	return ok
}

// Fallback is the score for places the tables do not list.
func (t *Tables) Fallback() int { return t.fallback }

// Version of the loaded tables.
func (t *Tables) Version() string { return t.version }
