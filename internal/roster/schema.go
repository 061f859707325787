// Package roster declares the canonical roster schema: the fixed field set
// every source spreadsheet is normalized into, the header variants that map
// onto it, and the intended interpretation of each field.
//
// The schema is statically declared here, once, instead of being inferred
// from whichever input file happens to be processed first. The pipeline
// establishes the destination table from this set before any file is read.
package roster

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table is the destination table name. The web app reads it back with
// exactly two query shapes: distinct team values, and all columns for one
// team.
const Table = "roster"

// Kind declares how a field's text is meant to be interpreted. Fields stay
// tagged text end to end; interpretation happens only in the designated
// comparators (see the aggregate package).
type Kind string

const (
	// KindID marks the opaque row identifier. The source value is discarded
	// on persist and reassigned by the store.
	KindID Kind = "id"
	// KindText is free-form text with no further interpretation.
	KindText Kind = "text"
	// KindDate is a date kept as text (mm/dd/yyyy in the source files).
	KindDate Kind = "date"
	// KindFlag is a yes/no answer, compared case-insensitively.
	KindFlag Kind = "flag"
	// KindCategory is an enumerable value counted into a distribution,
	// with "" as an explicit category.
	KindCategory Kind = "category"
	// KindTeam is the team name derived from the source file name.
	KindTeam Kind = "team"
)

// Field is one canonical roster attribute.
type Field struct {
	Name string
	Kind Kind
}

// Canonical field names used throughout the pipeline.
const (
	FieldID              = "id"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldRole            = "role"
	FieldDateOfBirth     = "date_of_birth"
	FieldShirtSize       = "t_shirt_size"
	FieldPantSize        = "pant_size"
	FieldDietary         = "dietary_restrictions"
	FieldOtherDietary    = "other_dietary_allergies"
	FieldDancerAllergies = "dancer_allergies"
	FieldEmail           = "email"
	FieldPhoneNumber     = "phone_number"
	FieldVaccination     = "vaccination_status"
	FieldAfterparty      = "afterparty"
	FieldFormatCheck     = "data_format_check"
	FieldTeam            = "team"
)

// fields lists the canonical schema in destination column order.
var fields = []Field{
	{FieldID, KindID},
	{FieldFirstName, KindText},
	{FieldLastName, KindText},
	{FieldRole, KindText},
	{FieldDateOfBirth, KindDate},
	{FieldShirtSize, KindCategory},
	{FieldPantSize, KindCategory},
	{FieldDietary, KindCategory},
	{FieldOtherDietary, KindText},
	{FieldDancerAllergies, KindCategory},
	{FieldEmail, KindText},
	{FieldPhoneNumber, KindText},
	{FieldVaccination, KindText},
	{FieldAfterparty, KindFlag},
	{FieldFormatCheck, KindText},
	{FieldTeam, KindTeam},
}

// headerMap maps the header variants observed in the source spreadsheets to
// canonical field names. Header text is whitespace-trimmed before lookup;
// anything not listed here is dropped at normalization.
var headerMap = map[string]string{
	"#":          FieldID,
	"First Name": FieldFirstName,
	"Last Name":  FieldLastName,
	"Role":       FieldRole,
	"Date of Birth (mm/dd/yyyy)":           FieldDateOfBirth,
	"T-Shirt Size":                         FieldShirtSize,
	"Pant Size":                            FieldPantSize,
	"Dietary Restrictions":                 FieldDietary,
	"Other Dietary Restrictions/Allergies": FieldOtherDietary,
	"Dancer Specified Allergies":           FieldDancerAllergies,
	"Email (xyz@abc.com)":                  FieldEmail,
	"Phone Number (123-456-7890)":          FieldPhoneNumber,
	"Vaccination Status (Boosted, Vaccinated, Unvaccinated)": FieldVaccination,
	"Afterparty (Y/N)":                     FieldAfterparty,
	"Data Format Check (no action needed)": FieldFormatCheck,
}

// Fields returns the canonical schema in destination column order. The
// returned slice is a copy.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Columns returns the canonical column names in destination order,
// including the id and team columns.
func Columns() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// RecordFields returns the canonical field names a parsed record carries:
// every column except team, which is stamped later by the tagger.
func RecordFields() []string {
	out := make([]string, 0, len(fields)-1)
	for _, f := range fields {
		if f.Name == FieldTeam {
			continue
		}
		out = append(out, f.Name)
	}
	return out
}

// HeaderMap returns a copy of the source header → canonical name lookup.
func HeaderMap() map[string]string {
	out := make(map[string]string, len(headerMap))
	for k, v := range headerMap {
		out[k] = v
	}
	return out
}

var upper = cases.Upper(language.Und)

// TeamName derives the team identity from a source file path: the base name
// with the extension stripped, upper-cased. One file is the unit of team
// identity, so every record from that file carries the same value.
func TeamName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return upper.String(base)
}
