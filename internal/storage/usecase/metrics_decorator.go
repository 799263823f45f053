package usecase

import (
	"context"
	"io"
	"time"

	"github.com/riotkit-org/backup-repository/internal/metrics"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

type fileManagerWithMetrics struct {
	next    FileManager
	metrics metrics.BusinessMetrics
}

// NewFileManagerWithMetrics wraps a FileManager with metrics recording.
func NewFileManagerWithMetrics(manager FileManager, m metrics.BusinessMetrics) FileManager {
	return &fileManagerWithMetrics{next: manager, metrics: m}
}

// Store records metrics around FileManager.Store.
func (f *fileManagerWithMetrics) Store(
	ctx context.Context,
	upload *domain.Upload,
	content io.Reader,
	policy UploadPolicy,
) (*domain.StoredFile, error) {
	start := time.Now()
	file, err := f.next.Store(ctx, upload, content, policy)
	metrics.Observe(ctx, f.metrics, "storage", "file_store", start, metrics.StatusOf(err))
	return file, err
}

// GetByFilename records metrics around FileManager.GetByFilename.
func (f *fileManagerWithMetrics) GetByFilename(
	ctx context.Context,
	filename domain.Filename,
) (*domain.StoredFile, error) {
	start := time.Now()
	file, err := f.next.GetByFilename(ctx, filename)
	metrics.Observe(ctx, f.metrics, "storage", "file_get", start, metrics.StatusOf(err))
	return file, err
}

// Open records metrics around FileManager.Open.
func (f *fileManagerWithMetrics) Open(ctx context.Context, file *domain.StoredFile) (io.ReadCloser, error) {
	start := time.Now()
	r, err := f.next.Open(ctx, file)
	metrics.Observe(ctx, f.metrics, "storage", "file_open", start, metrics.StatusOf(err))
	return r, err
}

// List records metrics around FileManager.List.
func (f *fileManagerWithMetrics) List(ctx context.Context, filter domain.ListFilter) ([]*domain.StoredFile, error) {
	start := time.Now()
	files, err := f.next.List(ctx, filter)
	metrics.Observe(ctx, f.metrics, "storage", "file_list", start, metrics.StatusOf(err))
	return files, err
}
