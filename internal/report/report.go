// Package report flattens per-team metrics into the combined CSV report.
//
// The emitter runs in two passes. Pass one collects the union of dietary
// and allergy categories observed across all teams, so the column set is a
// run-wide decision rather than an accident of per-team data. Pass two
// writes one row per team against that fixed layout.
//
// Cell semantics for the dynamic (dietary/allergy) columns: a team that
// never observed a category gets a blank cell, not a zero. Blank means
// "category not observed for this team"; a printed 0 can only appear in the
// fixed-order size columns, where the enumerated sizes are always reported.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/kvachher/masti-reg-tracker/internal/aggregate"
)

// ShirtSizeOrder is the fixed report order for shirt size columns. Values
// outside this set (including the empty "not provided" category) stay in
// the raw distribution but get no fixed column.
var ShirtSizeOrder = []string{"XS", "S", "M", "L", "XL"}

// PantSizeOrder is the fixed report order for pant size columns.
var PantSizeOrder = []string{"N", "XS", "S", "M", "L", "XL"}

// Header returns the full column layout for the given teams: the fixed
// columns, then one column per dietary and allergy value in the run-wide
// union, each group sorted lexicographically.
func Header(all []aggregate.TeamMetrics) []string {
	header := []string{"Team", "Total Roster Count", "Total Afterparty Count"}
	for _, s := range ShirtSizeOrder {
		header = append(header, "T-Shirt Size - "+s)
	}
	for _, s := range PantSizeOrder {
		header = append(header, "Pant Size - "+s)
	}
	for _, v := range unionKeys(all, func(m aggregate.TeamMetrics) map[string]int { return m.Dietary }) {
		header = append(header, "Dietary - "+v)
	}
	for _, v := range unionKeys(all, func(m aggregate.TeamMetrics) map[string]int { return m.Allergies }) {
		header = append(header, "Dancer Allergy - "+v)
	}
	return header
}

// Write emits the report for all teams to w as CSV, one row per team, in
// the order given.
func Write(w io.Writer, all []aggregate.TeamMetrics) error {
	dietary := unionKeys(all, func(m aggregate.TeamMetrics) map[string]int { return m.Dietary })
	allergies := unionKeys(all, func(m aggregate.TeamMetrics) map[string]int { return m.Allergies })

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(all)); err != nil {
		return fmt.Errorf("report: write header: %w", err)
	}

	for _, m := range all {
		row := []string{
			m.Team,
			strconv.Itoa(m.TotalRoster),
			strconv.Itoa(m.AfterpartyCount),
		}
		for _, s := range ShirtSizeOrder {
			row = append(row, strconv.Itoa(m.ShirtSizes[s]))
		}
		for _, s := range PantSizeOrder {
			row = append(row, strconv.Itoa(m.PantSizes[s]))
		}
		for _, v := range dietary {
			row = append(row, dynamicCell(m.Dietary, v))
		}
		for _, v := range allergies {
			row = append(row, dynamicCell(m.Allergies, v))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write row for %s: %w", m.Team, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the report to path, fully replacing any prior artifact.
func WriteFile(path string, all []aggregate.TeamMetrics) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	if err := Write(f, all); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// dynamicCell renders a dynamic-column cell: the count when the team
// observed the category, blank when it did not.
func dynamicCell(dist map[string]int, key string) string {
	n, ok := dist[key]
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}

// unionKeys collects the sorted union of one distribution's keys across all
// teams.
func unionKeys(all []aggregate.TeamMetrics, pick func(aggregate.TeamMetrics) map[string]int) []string {
	seen := map[string]struct{}{}
	for _, m := range all {
		for k := range pick(m) {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
