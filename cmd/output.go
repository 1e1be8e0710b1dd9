package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/okian/wapoints/internal/domain/model"
	"github.com/okian/wapoints/internal/domain/placement"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	return tw
}

func parsePlace(raw string) (int, error) {
	place, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("place %q is not a whole number", raw)
	}
	return place, nil
}

func renderScore(w io.Writer, res model.ScoreResult) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Event", "Gender", "Performance", "Adjusted", "Points"})
	tw.AppendRow(table.Row{res.EventID, res.Gender, res.Display, res.AdjustedDisplay, res.Points})
	if notes := adjustmentNotes(res); notes != "" {
		tw.AppendFooter(table.Row{"", "", "", notes, ""})
	}
	tw.Render()
}

func adjustmentNotes(res model.ScoreResult) string {
	var notes []string
	a := res.Adjustment
	if a.Wind != nil {
		notes = append(notes, fmt.Sprintf("wind %+.1f (%+.3f)", *a.Wind, a.WindOffset))
	}
	if a.Elevation != nil {
		notes = append(notes, fmt.Sprintf("drop %.1f (%+.3f)", *a.Elevation, a.ElevationOffset))
	}
	for _, m := range a.Ignored {
		notes = append(notes, m+" ignored")
	}
	return strings.Join(notes, ", ")
}

func renderPlacement(w io.Writer, res model.PlacementResult) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Category", "Group", "Round", "Place", "Scored As", "Points"})
	tw.AppendRow(table.Row{res.Category, res.Group, res.Round, res.Place, res.ScoredPlace, placementPoints(res)})
	tw.Render()
}

func placementPoints(res model.PlacementResult) string {
	if res.Fallback {
		return strconv.Itoa(res.Points) + " (outside table)"
	}
	return strconv.Itoa(res.Points)
}

func renderTotal(w io.Writer, res model.TotalResult) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Component", "Detail", "Points"})
	tw.AppendRow(table.Row{"Result", fmt.Sprintf("%s %s", res.Score.EventID, res.Score.AdjustedDisplay), res.Score.Points})
	tw.AppendRow(table.Row{"Placement", fmt.Sprintf("%s place %d", res.Placement.Category, res.Placement.Place), placementPoints(res.Placement)})
	tw.AppendFooter(table.Row{"Total", "", res.Total})
	tw.Render()
}

func renderEvents(w io.Writer, events []model.EventInfo) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Family", "Unit", "Wind", "Elevation", "Genders"})
	for _, ev := range events {
		genders := make([]string, 0, len(ev.Genders))
		for _, g := range ev.Genders {
			genders = append(genders, string(g))
		}
		tw.AppendRow(table.Row{ev.ID, ev.Name, ev.Family, ev.Unit, yesNo(ev.AcceptsWind), yesNo(ev.AcceptsElevation), strings.Join(genders, ",")})
	}
	tw.Render()
}

func renderCategories(w io.Writer, cats []placement.Category) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Name"})
	for _, c := range cats {
		tw.AppendRow(table.Row{c.ID, c.Name})
	}
	tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
