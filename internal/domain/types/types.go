// Package types contains common types used across the application
package types

import (
	"fmt"
	"strings"
)

// Gender selects which coefficient set of an event applies.
type Gender string

const (
	Men   Gender = "men"
	Women Gender = "women"
)

// Genders lists the supported genders in display order.
var Genders = []Gender{Men, Women} //nolint:gochecknoglobals // read-only enumeration

// ParseGender accepts "men"/"women" and the common short forms.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "men", "man", "m", "male":
		return Men, nil
	case "women", "woman", "w", "f", "female":
		return Women, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// Family groups events that share a measurement and modifier convention.
type Family string

const (
	Track    Family = "track"
	Road     Family = "road"
	Walk     Family = "walk"
	Field    Family = "field"
	Combined Family = "combined"
)

// Valid reports whether f is one of the known families.
func (f Family) Valid() bool {
	switch f {
	case Track, Road, Walk, Field, Combined:
		return true
	}
	return false
}

// Direction fixed by the family: field marks and combined points totals
// improve upward, everything timed improves downward. Combined departs from
// a field-only rule on purpose: its published coefficients increase with the
// points total, so lower-is-better would fail the coefficient check.
func (f Family) Direction() Direction {
	switch f {
	case Field, Combined:
		return HigherIsBetter
	default:
		return LowerIsBetter
	}
}

// Unit of the canonical performance value for the family.
func (f Family) Unit() Unit {
	switch f {
	case Field:
		return Meters
	case Combined:
		return Points
	default:
		return Seconds
	}
}

// Direction says which way a performance value improves.
type Direction string

const (
	LowerIsBetter  Direction = "lower_is_better"
	HigherIsBetter Direction = "higher_is_better"
)

// Unit of a canonical performance.
type Unit string

const (
	Seconds Unit = "seconds"
	Meters  Unit = "meters"
	Points  Unit = "points"
)

// Timed reports whether values in this unit are written as clock times.
func (u Unit) Timed() bool { return u == Seconds }
