// Package model contains domain models passed between layers.
package model

import (
	"github.com/okian/wapoints/internal/domain/adjust"
	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/types"
)

// EventInfo describes an event for selection lists.
type EventInfo struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Aliases            []string        `json:"aliases,omitempty"`
	Family             types.Family    `json:"family"`
	Direction          types.Direction `json:"direction"`
	Unit               types.Unit      `json:"unit"`
	AcceptsWind        bool            `json:"accepts_wind"`
	AcceptsElevation   bool            `json:"accepts_elevation"`
	PlacementGroup     string          `json:"placement_group"`
	Genders            []types.Gender  `json:"genders"`
	WindAllowance      *float64        `json:"wind_allowance,omitempty"`
	ElevationAllowance *float64        `json:"elevation_allowance,omitempty"`
}

// NewEventInfo flattens a catalog event.
func NewEventInfo(ev catalog.Event) EventInfo {
	info := EventInfo{
		ID:               ev.ID,
		Name:             ev.Name,
		Aliases:          ev.Aliases,
		Family:           ev.Family,
		Direction:        ev.Direction(),
		Unit:             ev.Unit(),
		AcceptsWind:      ev.AcceptsWind(),
		AcceptsElevation: ev.AcceptsElevation(),
		PlacementGroup:   ev.PlacementGroup,
		Genders:          ev.Genders(),
	}
	if ev.Wind != nil {
		a := ev.Wind.Allowance
		info.WindAllowance = &a
	}
	if ev.Elevation != nil {
		a := ev.Elevation.Allowance
		info.ElevationAllowance = &a
	}
	return info
}

// ScoreRequest asks for the points of one performance.
// Wind and Elevation are optional; nil means not supplied.
type ScoreRequest struct {
	EventID     string   `json:"event"`
	Performance string   `json:"performance"`
	Wind        *float64 `json:"wind,omitempty"`
	Elevation   *float64 `json:"elevation,omitempty"`
	Gender      string   `json:"gender,omitempty"`
}

// ScoreResult is the outcome of a performance calculation.
type ScoreResult struct {
	EventID         string         `json:"event"`
	Gender          types.Gender   `json:"gender"`
	Points          int            `json:"points"`
	Unit            types.Unit     `json:"unit"`
	Performance     float64        `json:"performance"`
	Adjusted        float64        `json:"adjusted"`
	Display         string         `json:"display"`
	AdjustedDisplay string         `json:"adjusted_display"`
	Adjustment      adjust.Applied `json:"adjustment"`
}

// PlacementRequest asks for the points of a finishing place.
// EventID, when set, selects the placement group of that event.
type PlacementRequest struct {
	Category    string `json:"category"`
	Place       int    `json:"place"`
	EventID     string `json:"event,omitempty"`
	Round       string `json:"round,omitempty"`
	SizeOfFinal int    `json:"size_of_final,omitempty"`
}

// PlacementResult is the outcome of a placement lookup.
type PlacementResult struct {
	Category    string `json:"category"`
	Group       string `json:"group"`
	Round       string `json:"round"`
	Place       int    `json:"place"`
	ScoredPlace int    `json:"scored_place"`
	Points      int    `json:"points"`
	Fallback    bool   `json:"fallback"`
}

// TotalRequest combines a performance with the place it earned.
type TotalRequest struct {
	ScoreRequest
	Category    string `json:"category"`
	Place       int    `json:"place"`
	Round       string `json:"round,omitempty"`
	SizeOfFinal int    `json:"size_of_final,omitempty"`
}

// PlacementRequest returns the placement half of r.
func (r TotalRequest) PlacementRequest() PlacementRequest {
	return PlacementRequest{
		Category:    r.Category,
		Place:       r.Place,
		EventID:     r.EventID,
		Round:       r.Round,
		SizeOfFinal: r.SizeOfFinal,
	}
}

// TotalResult reports both scores and their sum.
type TotalResult struct {
	Score     ScoreResult     `json:"score"`
	Placement PlacementResult `json:"placement"`
	Total     int             `json:"total"`
}
