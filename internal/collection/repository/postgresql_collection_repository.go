// Package repository implements collection persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

const collectionColumns = `id, name, description, strategy, max_backups_count, max_one_version_size,
	max_collection_size, allowed_tokens, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLCollectionRepository implements Collection persistence for PostgreSQL.
// Allowed tokens are stored as a JSONB array of ids.
type PostgreSQLCollectionRepository struct {
	db *sql.DB
}

// Create inserts a new collection.
func (p *PostgreSQLCollectionRepository) Create(ctx context.Context, collection *domain.Collection) error {
	querier := database.GetTx(ctx, p.db)

	allowedTokens, err := database.MarshalJSONColumn(collection.AllowedTokens)
	if err != nil {
		return err
	}

	query := `INSERT INTO collections (` + collectionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(
		ctx,
		query,
		collection.ID,
		collection.Name,
		collection.Description,
		string(collection.Strategy),
		collection.MaxBackupsCount,
		collection.MaxOneVersionSize,
		collection.MaxCollectionSize,
		allowedTokens,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create collection")
	}
	return nil
}

// Update persists the editable collection fields.
func (p *PostgreSQLCollectionRepository) Update(ctx context.Context, collection *domain.Collection) error {
	querier := database.GetTx(ctx, p.db)

	allowedTokens, err := database.MarshalJSONColumn(collection.AllowedTokens)
	if err != nil {
		return err
	}

	query := `UPDATE collections
			  SET name = $1, description = $2, strategy = $3, max_backups_count = $4,
			      max_one_version_size = $5, max_collection_size = $6, allowed_tokens = $7, updated_at = $8
			  WHERE id = $9`

	result, err := querier.ExecContext(
		ctx,
		query,
		collection.Name,
		collection.Description,
		string(collection.Strategy),
		collection.MaxBackupsCount,
		collection.MaxOneVersionSize,
		collection.MaxCollectionSize,
		allowedTokens,
		collection.UpdatedAt,
		collection.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update collection")
	}
	return requireAffected(result, "failed to update collection")
}

// Get retrieves a collection by its ID.
func (p *PostgreSQLCollectionRepository) Get(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`

	collection, err := scanCollection(querier.QueryRowContext(ctx, query, collectionID), scanUUID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get collection")
	}
	return collection, nil
}

// List returns a page of collections matching the filter.
func (p *PostgreSQLCollectionRepository) List(
	ctx context.Context,
	filter domain.ListFilter,
) ([]*domain.Collection, error) {
	querier := database.GetTx(ctx, p.db)

	var args []any
	query := `SELECT ` + collectionColumns + ` FROM collections`
	if filter.AllowedToken != uuid.Nil {
		args = append(args, fmt.Sprintf(`[%q]`, filter.AllowedToken.String()))
		query += ` WHERE allowed_tokens @> $1::jsonb`
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list collections")
	}
	return collectRows(rows, scanUUID)
}

// Delete removes a collection.
func (p *PostgreSQLCollectionRepository) Delete(ctx context.Context, collectionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, collectionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete collection")
	}
	return requireAffected(result, "failed to delete collection")
}

// NewPostgreSQLCollectionRepository creates a new PostgreSQL Collection repository.
func NewPostgreSQLCollectionRepository(db *sql.DB) *PostgreSQLCollectionRepository {
	return &PostgreSQLCollectionRepository{db: db}
}

// idScanner adapts the driver-specific id column into a uuid.
type idScanner func(dest *uuid.UUID) (any, func() error)

func scanUUID(dest *uuid.UUID) (any, func() error) {
	return dest, func() error { return nil }
}

func scanBinaryUUID(dest *uuid.UUID) (any, func() error) {
	var raw []byte
	return &raw, func() error { return dest.UnmarshalBinary(raw) }
}

func scanCollection(row rowScanner, scanID idScanner) (*domain.Collection, error) {
	var collection domain.Collection
	var strategy string
	var allowedTokens []byte

	idDest, decodeID := scanID(&collection.ID)

	err := row.Scan(
		idDest,
		&collection.Name,
		&collection.Description,
		&strategy,
		&collection.MaxBackupsCount,
		&collection.MaxOneVersionSize,
		&collection.MaxCollectionSize,
		&allowedTokens,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCollectionNotFound
		}
		return nil, err
	}

	if err := decodeID(); err != nil {
		return nil, err
	}
	collection.Strategy = domain.Strategy(strategy)
	if err := database.UnmarshalJSONColumn(allowedTokens, &collection.AllowedTokens); err != nil {
		return nil, err
	}
	return &collection, nil
}

func collectRows(rows *sql.Rows, scanID idScanner) ([]*domain.Collection, error) {
	defer func() {
		_ = rows.Close()
	}()

	collections := make([]*domain.Collection, 0)
	for rows.Next() {
		collection, err := scanCollection(rows, scanID)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan collection")
		}
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate collections")
	}
	return collections, nil
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return domain.ErrCollectionNotFound
	}
	return nil
}
