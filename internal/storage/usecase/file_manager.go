package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
	"github.com/riotkit-org/backup-repository/internal/storage/service"
)

type fileManager struct {
	txManager   database.TxManager
	fileRepo    FileRepository
	storage     FileStorage
	hasher      PasswordHasher
	maxFileSize int64
	logger      *slog.Logger
	now         func() time.Time
}

// Store writes the content under a fresh key before touching metadata, so a
// rejected or failed upload never replaces an existing file.
func (m *fileManager) Store(
	ctx context.Context,
	upload *domain.Upload,
	content io.Reader,
	policy UploadPolicy,
) (*domain.StoredFile, error) {
	existing, err := m.find(ctx, upload.Filename)
	if err != nil {
		return nil, err
	}
	if existing != nil && !upload.Overwrite {
		return nil, domain.NewFileExistsError(existing)
	}

	mimeType, content, err := service.DetectMimeType(content)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read uploaded content")
	}
	if !policy.IsMimeTypeAllowed(mimeType) {
		return nil, domain.NewMimeTypeNotAllowedError(mimeType)
	}

	file := &domain.StoredFile{
		ID:         uuid.Must(uuid.NewV7()),
		Filename:   upload.Filename,
		MimeType:   mimeType,
		Tags:       upload.Tags,
		Public:     upload.Public,
		UploadedBy: upload.UploadedBy,
		CreatedAt:  m.now(),
	}
	if upload.Password != "" {
		if file.PasswordHash, err = m.hasher.Hash(upload.Password); err != nil {
			return nil, err
		}
	}

	meter := service.NewContentMeter(content, func(size int64) bool {
		return (m.maxFileSize <= 0 || size <= m.maxFileSize) && policy.IsFileSizeAllowed(size)
	})
	if err := m.storage.Write(ctx, file.StorageKey(), meter, mimeType); err != nil {
		return nil, err
	}
	if meter.Size() == 0 {
		m.discard(ctx, file)
		return nil, domain.NewEmptyFileError()
	}
	file.Size = meter.Size()
	file.ContentHash = meter.Sum()

	var replaced *domain.StoredFile
	err = m.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := m.find(ctx, upload.Filename)
		if err != nil {
			return err
		}
		if current != nil {
			if !upload.Overwrite {
				return domain.NewFileExistsError(current)
			}
			if err := m.fileRepo.Delete(ctx, current.ID); err != nil {
				return err
			}
			replaced = current
		}
		return m.fileRepo.Create(ctx, file)
	})
	if err != nil {
		m.discard(ctx, file)
		return nil, err
	}

	if replaced != nil {
		m.discard(ctx, replaced)
	}
	return file, nil
}

// GetByFilename retrieves a file by its normalized name.
func (m *fileManager) GetByFilename(ctx context.Context, filename domain.Filename) (*domain.StoredFile, error) {
	return m.fileRepo.GetByFilename(ctx, filename)
}

// Open opens the stored content for reading.
func (m *fileManager) Open(ctx context.Context, file *domain.StoredFile) (io.ReadCloser, error) {
	return m.storage.Open(ctx, file.StorageKey())
}

// List returns files matching the filter.
func (m *fileManager) List(ctx context.Context, filter domain.ListFilter) ([]*domain.StoredFile, error) {
	return m.fileRepo.List(ctx, filter)
}

func (m *fileManager) find(ctx context.Context, filename domain.Filename) (*domain.StoredFile, error) {
	file, err := m.fileRepo.GetByFilename(ctx, filename)
	if errors.Is(err, domain.ErrFileNotFound) {
		return nil, nil
	}
	return file, err
}

// discard removes content that has no metadata pointing at it.
func (m *fileManager) discard(ctx context.Context, file *domain.StoredFile) {
	if err := m.storage.Delete(context.WithoutCancel(ctx), file.StorageKey()); err != nil {
		m.logger.Warn("failed to delete orphaned file content",
			slog.String("file_id", file.ID.String()),
			slog.Any("error", err),
		)
	}
}

// NewFileManager creates a FileManager. A positive maxFileSize caps every upload
// on top of the token limits.
func NewFileManager(
	txManager database.TxManager,
	fileRepo FileRepository,
	storage FileStorage,
	hasher PasswordHasher,
	maxFileSize int64,
	logger *slog.Logger,
) FileManager {
	return &fileManager{
		txManager:   txManager,
		fileRepo:    fileRepo,
		storage:     storage,
		hasher:      hasher,
		maxFileSize: maxFileSize,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}
