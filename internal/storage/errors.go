package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSchemaNotInitialized is returned by Insert when EstablishSchema has not
// been called for the run. It is fatal: the pipeline never writes rows into
// a table whose shape it did not establish itself.
var ErrSchemaNotInitialized = errors.New("storage: schema not initialized")

// SchemaMismatchError reports a disagreement between a record's column set
// and the established table schema. Unknown lists record columns the table
// does not have; Missing lists table columns the record does not carry.
// Either way the offending batch is rejected whole, nothing is silently
// truncated.
type SchemaMismatchError struct {
	Table   string
	Unknown []string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown columns %s", strings.Join(e.Unknown, ", ")))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns %s", strings.Join(e.Missing, ", ")))
	}
	return fmt.Sprintf("storage: schema mismatch on %s: %s", e.Table, strings.Join(parts, "; "))
}

// CheckColumns compares a record's column set against the established
// schema columns (excluding the store-assigned id column) and returns a
// *SchemaMismatchError on any disagreement. Backends share this check so
// mismatch semantics stay identical across stores.
func CheckColumns(table string, schema []string, idColumn string, recordCols map[string]struct{}) error {
	want := make(map[string]struct{}, len(schema))
	for _, c := range schema {
		if c == idColumn {
			continue
		}
		want[c] = struct{}{}
	}

	var unknown, missing []string
	for c := range recordCols {
		if c == idColumn {
			continue
		}
		if _, ok := want[c]; !ok {
			unknown = append(unknown, c)
		}
	}
	for c := range want {
		if _, ok := recordCols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(unknown) == 0 && len(missing) == 0 {
		return nil
	}
	sort.Strings(unknown)
	sort.Strings(missing)
	return &SchemaMismatchError{Table: table, Unknown: unknown, Missing: missing}
}
