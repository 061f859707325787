// Package builtin contains the reusable transformers the roster pipeline is
// assembled from.
package builtin

import (
	"strings"

	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// Normalize trims surrounding whitespace from every value and repairs the
// mis-decoded non-breaking spaces ("Â ") that spreadsheet exports produce.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			r[k] = strings.TrimSpace(strings.ReplaceAll(v, "Â ", " "))
		}
	}
	return in
}
