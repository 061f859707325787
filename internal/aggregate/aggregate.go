// Package aggregate computes per-team summary metrics over cleaned,
// filtered, tagged roster records.
//
// Record fields are tagged text; any interpretation of that text (the
// yes/no afterparty answer, the categorical sizes and restrictions) lives
// in this package's comparators rather than being scattered through the
// pipeline.
package aggregate

import (
	"strings"

	"github.com/kvachher/masti-reg-tracker/internal/roster"
	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// TeamMetrics is a derived, per-team summary. It is recomputed every run
// and only ever flattened into the report, never persisted.
type TeamMetrics struct {
	Team            string
	TotalRoster     int
	AfterpartyCount int

	// Categorical distributions: observed value → count. "" is a real
	// category ("not provided") and is counted, not dropped.
	ShirtSizes map[string]int
	PantSizes  map[string]int
	Dietary    map[string]int
	Allergies  map[string]int
}

// FlagIsYes reports whether a flag field's text counts as an affirmative
// answer. Only a case-insensitive "yes" counts; anything else, including
// empty text, does not.
func FlagIsYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}

// Summarize computes the metrics for one team's records. All records must
// share one team value (the pipeline tags per file, so they do). The second
// return is false when recs is empty: an empty team produces no metrics and
// the caller skips it.
func Summarize(recs []records.Record) (TeamMetrics, bool) {
	if len(recs) == 0 {
		return TeamMetrics{}, false
	}

	m := TeamMetrics{
		Team:        recs[0].Get(roster.FieldTeam),
		TotalRoster: len(recs),
		ShirtSizes:  distribution(recs, roster.FieldShirtSize),
		PantSizes:   distribution(recs, roster.FieldPantSize),
		Dietary:     distribution(recs, roster.FieldDietary),
		Allergies:   distribution(recs, roster.FieldDancerAllergies),
	}
	for _, rec := range recs {
		if FlagIsYes(rec.Get(roster.FieldAfterparty)) {
			m.AfterpartyCount++
		}
	}
	return m, true
}

// distribution counts occurrences of each value of field across recs.
func distribution(recs []records.Record, field string) map[string]int {
	out := make(map[string]int)
	for _, rec := range recs {
		out[rec.Get(field)]++
	}
	return out
}
