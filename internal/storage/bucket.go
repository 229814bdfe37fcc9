package storage

import (
	"context"
	"fmt"
	"log/slog"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" //revive:disable:blank-imports
	_ "gocloud.dev/blob/gcsblob"  //revive:disable:blank-imports
	_ "gocloud.dev/blob/memblob"  //revive:disable:blank-imports
	"gocloud.dev/gcerrors"
)

// BucketStore stores objects in a gocloud.dev bucket.
type BucketStore struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// OpenBucket opens a bucket by URL, e.g. gs://name, file:///path or mem://.
func OpenBucket(ctx context.Context, url string, logger *slog.Logger) (*BucketStore, error) {
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", url, err)
	}
	return NewBucketStore(b, logger), nil
}

// NewBucketStore wraps an already opened bucket.
func NewBucketStore(b *blob.Bucket, logger *slog.Logger) *BucketStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &BucketStore{
		bucket: b,
		logger: logger.With("component", "bucket_store"),
	}
}

// Read returns the object at key or ErrNotFound.
func (s *BucketStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Write replaces the object at key.
func (s *BucketStore) Write(ctx context.Context, key string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: contentType(key)}
	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Object written", "key", key, "bytes", len(data))
	return nil
}

// Delete removes the object at key. Missing objects are ignored.
func (s *BucketStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close releases the bucket.
func (s *BucketStore) Close() error {
	return s.bucket.Close()
}
