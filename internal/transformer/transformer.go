// Package transformer defines the record transformation contract applied
// between parsing and persistence.
package transformer

import "github.com/kvachher/masti-reg-tracker/pkg/records"

// Transformer rewrites or filters a batch of records.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers applied left to right.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
