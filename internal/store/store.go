// Package store writes downloaded images to their destination.
//
// A plain directory path is backed by a gocloud.dev fileblob bucket; any
// target with a URL scheme ("mem://", "file:///...") is opened through
// blob.OpenBucket. Objects become visible only once fully written, so a
// failed Put never leaves a partial image behind.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// Store persists image bytes under a name and reports where they landed.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	Close() error
}

// BlobStore is a Store backed by a blob.Bucket.
type BlobStore struct {
	bucket *blob.Bucket
	target string
	local  bool
}

// Open opens the store for target, creating the directory when target is
// a local path.
func Open(ctx context.Context, target string) (*BlobStore, error) {
	if target == "" {
		return nil, fmt.Errorf("store: empty target")
	}

	if strings.Contains(target, "://") {
		bucket, err := blob.OpenBucket(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("open bucket %s: %w", target, err)
		}
		return &BlobStore{bucket: bucket, target: target}, nil
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target, err)
	}
	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{
		CreateDir: true,
		NoTempDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("open image dir %s: %w", target, err)
	}
	return &BlobStore{bucket: bucket, target: target, local: true}, nil
}

// NewBlobStore wraps an already opened bucket. Locations are reported as
// prefix joined with the object name.
func NewBlobStore(bucket *blob.Bucket, prefix string) *BlobStore {
	return &BlobStore{bucket: bucket, target: prefix}
}

// Put writes data under name, replacing any previous object of that name.
func (s *BlobStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := s.bucket.WriteAll(ctx, name, data, &blob.WriterOptions{ContentType: "image/jpeg"}); err != nil {
		return "", err
	}
	return s.Location(name), nil
}

// Location returns the path reported for name.
func (s *BlobStore) Location(name string) string {
	if s.local {
		return filepath.Join(s.target, name)
	}
	if strings.HasSuffix(s.target, "/") {
		return s.target + name
	}
	return s.target + "/" + name
}

// Bucket exposes the underlying bucket.
func (s *BlobStore) Bucket() *blob.Bucket {
	return s.bucket
}

// Close releases the bucket.
func (s *BlobStore) Close() error {
	return s.bucket.Close()
}
