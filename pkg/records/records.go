// Package records defines the row representation shared by the parser,
// transformers, aggregation, and storage layers.
package records

// Record is a single roster row keyed by canonical field name. Values are
// plain text: the parser materializes every canonical field, so a field that
// was absent or blank in the source carries "" rather than being missing.
// Downstream code treats "" as an explicit "not provided" category.
type Record map[string]string

// Get returns the value for field name, or "" when the field is not set.
func (r Record) Get(name string) string {
	return r[name]
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
