package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

// MySQLFileRepository implements StoredFile persistence for MySQL.
// UUIDs are stored as BINARY(16), tags as a JSON array.
type MySQLFileRepository struct {
	db *sql.DB
}

// Create inserts a new file.
func (m *MySQLFileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	querier := database.GetTx(ctx, m.db)

	id, err := file.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal stored file id")
	}

	uploadedBy, err := file.UploadedBy.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal uploader id")
	}

	tags, err := database.MarshalJSONColumn(file.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO stored_files (` + fileColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		file.Filename.String(),
		file.ContentHash,
		file.Size,
		file.MimeType,
		tags,
		file.Public,
		file.PasswordHash,
		uploadedBy,
		file.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create stored file")
	}
	return nil
}

// Delete removes a file record.
func (m *MySQLFileRepository) Delete(ctx context.Context, fileID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := fileID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal stored file id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM stored_files WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete stored file")
	}
	return requireAffected(result, "failed to delete stored file")
}

// GetByFilename retrieves a file by its normalized name.
func (m *MySQLFileRepository) GetByFilename(
	ctx context.Context,
	filename domain.Filename,
) (*domain.StoredFile, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + fileColumns + ` FROM stored_files WHERE filename = ?`

	file, err := scanFile(querier.QueryRowContext(ctx, query, filename.String()), scanBinaryUUID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get stored file")
	}
	return file, nil
}

// List returns a page of files matching the filter.
func (m *MySQLFileRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.StoredFile, error) {
	querier := database.GetTx(ctx, m.db)

	var conditions []string
	var args []any

	for _, tag := range filter.Tags {
		encoded, err := database.MarshalJSONColumn([]string{tag})
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, `JSON_CONTAINS(tags, ?)`)
		args = append(args, string(encoded))
	}
	if len(filter.MimeTypes) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.MimeTypes)), ", ")
		conditions = append(conditions, `mime_type IN (`+placeholders+`)`)
		for _, mimeType := range filter.MimeTypes {
			args = append(args, mimeType)
		}
	}
	if filter.UploadedBy != uuid.Nil {
		uploadedBy, err := filter.UploadedBy.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal uploader id")
		}
		conditions = append(conditions, `uploaded_by = ?`)
		args = append(args, uploadedBy)
	}
	if filter.Search != "" {
		conditions = append(conditions, `filename LIKE ?`)
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
	}
	if filter.ExcludePasswordProtected {
		conditions = append(conditions, `password_hash = ''`)
	}

	query := `SELECT ` + fileColumns + ` FROM stored_files`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list stored files")
	}
	return collectRows(rows, scanBinaryUUID)
}

// NewMySQLFileRepository creates a new MySQL StoredFile repository.
func NewMySQLFileRepository(db *sql.DB) *MySQLFileRepository {
	return &MySQLFileRepository{db: db}
}
