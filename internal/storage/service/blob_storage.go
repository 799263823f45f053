// Package service provides the storage backend, remote source fetching, content
// inspection and file password hashing.
package service

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"

	// Register the bucket drivers selectable through STORAGE_URL
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobStorage keeps file contents in a gocloud.dev bucket.
type BlobStorage struct {
	bucket *blob.Bucket
}

// NewBlobStorage wraps an open bucket.
func NewBlobStorage(bucket *blob.Bucket) *BlobStorage {
	return &BlobStorage{bucket: bucket}
}

// OpenBlobStorage opens the bucket addressed by url, e.g. file:///var/lib/backups,
// mem:// or s3://bucket?region=eu-central-1.
func OpenBlobStorage(ctx context.Context, url string) (*BlobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open storage bucket")
	}
	return NewBlobStorage(bucket), nil
}

// Write streams r into key. When reading r fails the write is aborted and the
// previous content of key, if any, stays in place. The error from r is returned as is.
func (s *BlobStorage) Write(ctx context.Context, key string, r io.Reader, contentType string) error {
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(writeCtx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return apperrors.Wrap(err, "failed to open storage writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return apperrors.Wrap(err, "failed to commit file content")
	}
	return nil
}

// Open returns a reader of the content stored under key.
func (s *BlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileContentMissing, key)
		}
		return nil, apperrors.Wrap(err, "failed to open file content")
	}
	return r, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return apperrors.Wrap(err, "failed to delete file content")
	}
	return nil
}

// Exists reports whether key holds content.
func (s *BlobStorage) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check file content")
	}
	return exists, nil
}

// Close releases the bucket.
func (s *BlobStorage) Close() error {
	return s.bucket.Close()
}
