package builtin

import (
	"github.com/kvachher/masti-reg-tracker/internal/roster"
	"github.com/kvachher/masti-reg-tracker/pkg/records"
)

// TagTeam stamps every record with the team identity derived from the
// source file. One file is one team, so the value is constant per batch.
type TagTeam struct {
	Team string
}

func (t TagTeam) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[roster.FieldTeam] = t.Team
	}
	return in
}
