package aggregate

import (
	"reflect"
	"testing"

	"github.com/kvachher/masti-reg-tracker/internal/roster"
	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

func rec(fields map[string]string) records.Record {
	r := records.Record{}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

func TestFlagIsYes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"Yes", true},
		{"yes", true},
		{"YES", true},
		{" yes ", true},
		{"no", false},
		{"", false},
		{"y", false},
		{"yess", false},
	}
	for _, tt := range tests {
		if got := FlagIsYes(tt.in); got != tt.want {
			t.Errorf("FlagIsYes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	if _, ok := Summarize(nil); ok {
		t.Error("Summarize(nil) ok = true, want false")
	}
	if _, ok := Summarize([]records.Record{}); ok {
		t.Error("Summarize(empty) ok = true, want false")
	}
}

func TestSummarizeAfterparty(t *testing.T) {
	t.Parallel()

	recs := []records.Record{
		rec(map[string]string{roster.FieldTeam: "RAAS", roster.FieldAfterparty: "Yes"}),
		rec(map[string]string{roster.FieldTeam: "RAAS", roster.FieldAfterparty: "no"}),
		rec(map[string]string{roster.FieldTeam: "RAAS", roster.FieldAfterparty: ""}),
	}
	m, ok := Summarize(recs)
	if !ok {
		t.Fatal("Summarize() ok = false, want true")
	}
	if m.Team != "RAAS" {
		t.Errorf("Team = %q, want RAAS", m.Team)
	}
	if m.TotalRoster != 3 {
		t.Errorf("TotalRoster = %d, want 3", m.TotalRoster)
	}
	if m.AfterpartyCount != 1 {
		t.Errorf("AfterpartyCount = %d, want 1", m.AfterpartyCount)
	}
}

func TestSummarizeDistributionsCountEmptyAsCategory(t *testing.T) {
	t.Parallel()

	sizes := []string{"S", "S", "M", "", "XL"}
	recs := make([]records.Record, 0, len(sizes))
	for _, s := range sizes {
		recs = append(recs, rec(map[string]string{
			roster.FieldTeam:      "FUSION",
			roster.FieldShirtSize: s,
		}))
	}
	m, ok := Summarize(recs)
	if !ok {
		t.Fatal("Summarize() ok = false, want true")
	}

	want := map[string]int{"S": 2, "M": 1, "": 1, "XL": 1}
	if !reflect.DeepEqual(m.ShirtSizes, want) {
		t.Errorf("ShirtSizes = %v, want %v", m.ShirtSizes, want)
	}
	// No pant size was ever set; the distribution is all "".
	if !reflect.DeepEqual(m.PantSizes, map[string]int{"": 5}) {
		t.Errorf("PantSizes = %v, want 5x empty", m.PantSizes)
	}
}

func TestSummarizeDietaryAndAllergies(t *testing.T) {
	t.Parallel()

	recs := []records.Record{
		rec(map[string]string{
			roster.FieldTeam:            "BHANGRA",
			roster.FieldDietary:         "Vegetarian",
			roster.FieldDancerAllergies: "Peanuts",
		}),
		rec(map[string]string{
			roster.FieldTeam:            "BHANGRA",
			roster.FieldDietary:         "Vegetarian",
			roster.FieldDancerAllergies: "",
		}),
		rec(map[string]string{
			roster.FieldTeam:            "BHANGRA",
			roster.FieldDietary:         "Halal",
			roster.FieldDancerAllergies: "Peanuts",
		}),
	}
	m, _ := Summarize(recs)
	if !reflect.DeepEqual(m.Dietary, map[string]int{"Vegetarian": 2, "Halal": 1}) {
		t.Errorf("Dietary = %v", m.Dietary)
	}
	if !reflect.DeepEqual(m.Allergies, map[string]int{"Peanuts": 2, "": 1}) {
		t.Errorf("Allergies = %v", m.Allergies)
	}
}
