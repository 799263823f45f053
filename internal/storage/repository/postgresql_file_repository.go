// Package repository implements file metadata persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

const fileColumns = `id, filename, content_hash, size, mime_type, tags, public, password_hash,
	uploaded_by, created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLFileRepository implements StoredFile persistence for PostgreSQL.
// Tags are stored as a JSONB array.
type PostgreSQLFileRepository struct {
	db *sql.DB
}

// Create inserts a new file.
func (p *PostgreSQLFileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	querier := database.GetTx(ctx, p.db)

	tags, err := database.MarshalJSONColumn(file.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO stored_files (` + fileColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(
		ctx,
		query,
		file.ID,
		file.Filename.String(),
		file.ContentHash,
		file.Size,
		file.MimeType,
		tags,
		file.Public,
		file.PasswordHash,
		file.UploadedBy,
		file.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create stored file")
	}
	return nil
}

// Delete removes a file record.
func (p *PostgreSQLFileRepository) Delete(ctx context.Context, fileID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM stored_files WHERE id = $1`, fileID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete stored file")
	}
	return requireAffected(result, "failed to delete stored file")
}

// GetByFilename retrieves a file by its normalized name.
func (p *PostgreSQLFileRepository) GetByFilename(
	ctx context.Context,
	filename domain.Filename,
) (*domain.StoredFile, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + fileColumns + ` FROM stored_files WHERE filename = $1`

	file, err := scanFile(querier.QueryRowContext(ctx, query, filename.String()), scanUUID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get stored file")
	}
	return file, nil
}

// List returns a page of files matching the filter.
func (p *PostgreSQLFileRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.StoredFile, error) {
	querier := database.GetTx(ctx, p.db)

	var conditions []string
	var args []any
	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, tag := range filter.Tags {
		encoded, err := database.MarshalJSONColumn([]string{tag})
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, `tags @> `+next(string(encoded))+`::jsonb`)
	}
	if len(filter.MimeTypes) > 0 {
		conditions = append(conditions, `mime_type = ANY(`+next(pq.Array(filter.MimeTypes))+`)`)
	}
	if filter.UploadedBy != uuid.Nil {
		conditions = append(conditions, `uploaded_by = `+next(filter.UploadedBy))
	}
	if filter.Search != "" {
		conditions = append(conditions, `filename ILIKE `+next("%"+likeEscaper.Replace(filter.Search)+"%"))
	}
	if filter.ExcludePasswordProtected {
		conditions = append(conditions, `password_hash = ''`)
	}

	query := `SELECT ` + fileColumns + ` FROM stored_files`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` ORDER BY created_at DESC LIMIT ` + next(filter.Limit) + ` OFFSET ` + next(filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list stored files")
	}
	return collectRows(rows, scanUUID)
}

// NewPostgreSQLFileRepository creates a new PostgreSQL StoredFile repository.
func NewPostgreSQLFileRepository(db *sql.DB) *PostgreSQLFileRepository {
	return &PostgreSQLFileRepository{db: db}
}

// idScanner adapts the driver-specific id columns into uuids.
type idScanner func(dest *uuid.UUID) (any, func() error)

func scanUUID(dest *uuid.UUID) (any, func() error) {
	return dest, func() error { return nil }
}

func scanBinaryUUID(dest *uuid.UUID) (any, func() error) {
	var raw []byte
	return &raw, func() error { return dest.UnmarshalBinary(raw) }
}

func scanFile(row rowScanner, scanID idScanner) (*domain.StoredFile, error) {
	var file domain.StoredFile
	var filename string
	var tags []byte

	idDest, decodeID := scanID(&file.ID)
	uploaderDest, decodeUploader := scanID(&file.UploadedBy)

	err := row.Scan(
		idDest,
		&filename,
		&file.ContentHash,
		&file.Size,
		&file.MimeType,
		&tags,
		&file.Public,
		&file.PasswordHash,
		uploaderDest,
		&file.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	if err := decodeID(); err != nil {
		return nil, err
	}
	if err := decodeUploader(); err != nil {
		return nil, err
	}
	if file.Filename, err = domain.NewFilename(filename); err != nil {
		return nil, err
	}
	if err := database.UnmarshalJSONColumn(tags, &file.Tags); err != nil {
		return nil, err
	}
	return &file, nil
}

func collectRows(rows *sql.Rows, scanID idScanner) ([]*domain.StoredFile, error) {
	defer func() {
		_ = rows.Close()
	}()

	files := make([]*domain.StoredFile, 0)
	for rows.Next() {
		file, err := scanFile(rows, scanID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan stored file")
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate stored files")
	}
	return files, nil
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}
