// Package all registers every storage backend with the factory. The CLI
// imports it blank so backend selection stays a config decision.
package all

import (
	_ "github.com/kvachher/masti-reg-tracker/internal/storage/postgres"
	_ "github.com/kvachher/masti-reg-tracker/internal/storage/sqlite"
)
