// Package file implements local filesystem data sources: opening single
// roster files, discovering the roster directory, and reading line-based
// list files (used for the fetch URL list).
package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local is a filesystem data source that opens one file from local disk.
type Local struct{ path string }

// NewLocal returns a Local data source bound to the provided path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. If ctx is already canceled
// the context error is returned without touching the filesystem. Filesystem
// errors are wrapped with the path while keeping errors.Is checks intact.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// ListCSV returns the paths of all regular files in dir with a .csv
// extension (case-insensitive), non-recursive, in sorted name order. An
// empty directory yields an empty slice.
func ListCSV(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// ReadList reads a text file line by line and returns the non-empty,
// non-comment lines. Lines that are empty or start with '#' after trimming
// are skipped, so list files can carry comments and blank separators.
// Order is preserved.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
