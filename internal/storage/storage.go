// Package storage persists opaque objects (session snapshots, progress records
// and chat logs) by key. Two backends exist: a gocloud.dev bucket (GCS, local
// files or memory) and an embedded SQLite table.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
)

// ErrNotFound is returned by Read when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Store is a key-value blob store. Delete of a missing key is not an error.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Maintainer is implemented by backends that need periodic housekeeping.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// Append adds data to the end of the object at key, creating it if needed.
func Append(ctx context.Context, s Store, key string, data []byte) error {
	existing, err := s.Read(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to read %s for append: %w", key, err)
	}
	buf := make([]byte, 0, len(existing)+len(data))
	buf = append(buf, existing...)
	buf = append(buf, data...)
	return s.Write(ctx, key, buf)
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
