package builtin

import (
	"strings"

	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// Require removes any record whose required fields are empty after trimming.
// A field that is absent and a field that holds "" are treated identically:
// both exclude the record. Order of surviving records is preserved.
type Require struct {
	Fields []string
}

// Apply returns the records that have a non-blank value for every required
// field. The input slice is reused.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		ok := true
		for _, f := range r.Fields {
			if strings.TrimSpace(rec[f]) == "" {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
