package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted
var ErrNotFound = errors.New("key not found")

// Store persists opaque values under string keys. Values are stored as given; callers own the encoding.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open picks a backend from the DSN scheme:
//
//	memory:                  in-process map, lost on exit
//	sqlite://path/to/db      modernc.org/sqlite
//	postgres://... (or postgresql://)
//	file://path or a bare path   JSON object file
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "memory:" || dsn == "memory":
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, "file://"):
		return OpenFile(strings.TrimPrefix(dsn, "file://"))
	case dsn == "":
		return nil, fmt.Errorf("empty store DSN")
	default:
		return OpenFile(dsn)
	}
}
