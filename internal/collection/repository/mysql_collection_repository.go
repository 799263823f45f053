package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// MySQLCollectionRepository implements Collection persistence for MySQL.
// UUIDs are stored as BINARY(16), allowed tokens as a JSON array.
type MySQLCollectionRepository struct {
	db *sql.DB
}

// Create inserts a new collection.
func (m *MySQLCollectionRepository) Create(ctx context.Context, collection *domain.Collection) error {
	querier := database.GetTx(ctx, m.db)

	id, err := collection.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal collection id")
	}

	allowedTokens, err := database.MarshalJSONColumn(collection.AllowedTokens)
	if err != nil {
		return err
	}

	query := `INSERT INTO collections (` + collectionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLCollectionRepository) Update(ctx context.Context, collection *domain.Collection) error {
	querier := database.GetTx(ctx, m.db)

	id, err := collection.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal collection id")
	}

	allowedTokens, err := database.MarshalJSONColumn(collection.AllowedTokens)
	if err != nil {
		return err
	}

	query := `UPDATE collections
			  SET name = ?, description = ?, strategy = ?, max_backups_count = ?,
			      max_one_version_size = ?, max_collection_size = ?, allowed_tokens = ?, updated_at = ?
			  WHERE id = ?`

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
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update collection")
	}
	return requireAffected(result, "failed to update collection")
}

// Get retrieves a collection by its ID.
func (m *MySQLCollectionRepository) Get(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := collectionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal collection id")
	}

	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = ?`

	collection, err := scanCollection(querier.QueryRowContext(ctx, query, id), scanBinaryUUID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get collection")
	}
	return collection, nil
}

// List returns a page of collections matching the filter.
func (m *MySQLCollectionRepository) List(
	ctx context.Context,
	filter domain.ListFilter,
) ([]*domain.Collection, error) {
	querier := database.GetTx(ctx, m.db)

	var args []any
	query := `SELECT ` + collectionColumns + ` FROM collections`
	if filter.AllowedToken != uuid.Nil {
		token, err := database.MarshalJSONColumn([]uuid.UUID{filter.AllowedToken})
		if err != nil {
			return nil, err
		}
		args = append(args, string(token))
		query += ` WHERE JSON_CONTAINS(allowed_tokens, ?)`
	}
	args = append(args, filter.Limit, filter.Offset)
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list collections")
	}
	return collectRows(rows, scanBinaryUUID)
}

// Delete removes a collection.
func (m *MySQLCollectionRepository) Delete(ctx context.Context, collectionID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := collectionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal collection id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete collection")
	}
	return requireAffected(result, "failed to delete collection")
}

// NewMySQLCollectionRepository creates a new MySQL Collection repository.
func NewMySQLCollectionRepository(db *sql.DB) *MySQLCollectionRepository {
	return &MySQLCollectionRepository{db: db}
}
