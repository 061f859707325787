// Package datasource defines where input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source yields a readable stream of one input's bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
