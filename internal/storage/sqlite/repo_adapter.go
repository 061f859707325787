// Registration of the SQLite backend with the storage factory. Callers never
// import this package directly; registration happens in init and the blank
// import lives in storage/all.
package sqlite

import (
	"context"

	"github.com/kvachher/masti-reg-tracker/internal/storage"
)

// newRepository is a test hook that points at NewRepository by default.
var newRepository = NewRepository

// wrappedRepo pairs *Repository with the cleanup function returned by
// NewRepository so Close releases everything.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() error {
	if w.closeFn != nil {
		w.closeFn()
	}
	return nil
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:      cfg.DSN,
			Table:    cfg.Table,
			IDColumn: cfg.IDColumn,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
