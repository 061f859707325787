// Registration of the Postgres backend with the storage factory.
package postgres

import (
	"context"

	"github.com/kvachher/masti-reg-tracker/internal/storage"
)

var newRepository = NewRepository

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
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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
