package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kvachher/masti-reg-tracker/internal/aggregate"
)

func writeRows(t *testing.T, all []aggregate.TeamMetrics) [][]string {
	t.Helper()

	var buf bytes.Buffer
	if err := Write(&buf, all); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read report: %v", err)
	}
	return rows
}

func col(t *testing.T, rows [][]string, name string, rowIdx int) string {
	t.Helper()
	for i, h := range rows[0] {
		if h == name {
			return rows[rowIdx][i]
		}
	}
	t.Fatalf("column %q not in header %v", name, rows[0])
	return ""
}

func TestHeaderLayout(t *testing.T) {
	t.Parallel()

	all := []aggregate.TeamMetrics{
		{
			Team:      "RAAS",
			Dietary:   map[string]int{"Vegetarian": 2, "": 1},
			Allergies: map[string]int{"Peanuts": 1},
		},
		{
			Team:      "BHANGRA",
			Dietary:   map[string]int{"Halal": 1},
			Allergies: map[string]int{},
		},
	}
	want := []string{
		"Team", "Total Roster Count", "Total Afterparty Count",
		"T-Shirt Size - XS", "T-Shirt Size - S", "T-Shirt Size - M", "T-Shirt Size - L", "T-Shirt Size - XL",
		"Pant Size - N", "Pant Size - XS", "Pant Size - S", "Pant Size - M", "Pant Size - L", "Pant Size - XL",
		"Dietary - ", "Dietary - Halal", "Dietary - Vegetarian",
		"Dancer Allergy - Peanuts",
	}
	if got := Header(all); !reflect.DeepEqual(got, want) {
		t.Errorf("Header() =\n%v\nwant\n%v", got, want)
	}
}

func TestWriteFixedSizeColumnsPrintZero(t *testing.T) {
	t.Parallel()

	all := []aggregate.TeamMetrics{{
		Team:        "FUSION",
		TotalRoster: 3,
		ShirtSizes:  map[string]int{"S": 2, "XL": 1},
		PantSizes:   map[string]int{},
		Dietary:     map[string]int{},
		Allergies:   map[string]int{},
	}}
	rows := writeRows(t, all)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	if got := col(t, rows, "T-Shirt Size - S", 1); got != "2" {
		t.Errorf("shirt S = %q, want 2", got)
	}
	// Enumerated sizes always get a printed count, zero included.
	if got := col(t, rows, "T-Shirt Size - M", 1); got != "0" {
		t.Errorf("shirt M = %q, want 0", got)
	}
	if got := col(t, rows, "Pant Size - N", 1); got != "0" {
		t.Errorf("pant N = %q, want 0", got)
	}
}

func TestWriteDynamicColumnsBlankWhenUnobserved(t *testing.T) {
	t.Parallel()

	all := []aggregate.TeamMetrics{
		{
			Team:       "RAAS",
			ShirtSizes: map[string]int{}, PantSizes: map[string]int{},
			Dietary:   map[string]int{"Vegetarian": 2},
			Allergies: map[string]int{"Peanuts": 1},
		},
		{
			Team:       "BHANGRA",
			ShirtSizes: map[string]int{}, PantSizes: map[string]int{},
			Dietary:   map[string]int{"Halal": 1},
			Allergies: map[string]int{},
		},
	}
	rows := writeRows(t, all)

	// RAAS never observed Halal: blank, not zero.
	if got := col(t, rows, "Dietary - Halal", 1); got != "" {
		t.Errorf("RAAS Dietary - Halal = %q, want blank", got)
	}
	if got := col(t, rows, "Dietary - Vegetarian", 1); got != "2" {
		t.Errorf("RAAS Dietary - Vegetarian = %q, want 2", got)
	}
	if got := col(t, rows, "Dietary - Vegetarian", 2); got != "" {
		t.Errorf("BHANGRA Dietary - Vegetarian = %q, want blank", got)
	}
	if got := col(t, rows, "Dancer Allergy - Peanuts", 2); got != "" {
		t.Errorf("BHANGRA Dancer Allergy - Peanuts = %q, want blank", got)
	}
}

func TestWriteEmptyCategoryGetsDynamicColumn(t *testing.T) {
	t.Parallel()

	all := []aggregate.TeamMetrics{{
		Team:       "RAAS",
		ShirtSizes: map[string]int{}, PantSizes: map[string]int{},
		Dietary:   map[string]int{"": 3},
		Allergies: map[string]int{},
	}}
	rows := writeRows(t, all)
	if got := col(t, rows, "Dietary - ", 1); got != "3" {
		t.Errorf("Dietary - (empty) = %q, want 3", got)
	}
}

func TestWriteFileReplacesArtifact(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "team_metrics.csv")
	if err := os.WriteFile(path, []byte("stale,old,report\nwith,more,rows\nand,more,rows\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	all := []aggregate.TeamMetrics{{
		Team:       "RAAS",
		ShirtSizes: map[string]int{}, PantSizes: map[string]int{},
		Dietary:   map[string]int{},
		Allergies: map[string]int{},
	}}
	if err := WriteFile(path, all); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("re-read report: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (header + one team)", len(rows))
	}
	if rows[1][0] != "RAAS" {
		t.Errorf("team cell = %q, want RAAS", rows[1][0])
	}
}
