package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// MySQLTokenRepository implements Token persistence for MySQL.
// UUIDs are stored as BINARY(16), roles and token data as JSON.
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	roles, data, err := encodeTokenColumns(token)
	if err != nil {
		return err
	}

	query := `INSERT INTO tokens (` + tokenColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		roles,
		data,
		token.Active,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// Get retrieves a token by its ID.
func (m *MySQLTokenRepository) Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = ?`

	token, err := m.scan(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return token, nil
}

// GetByTokenHash retrieves a token by the hash of its secret.
func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE token_hash = ?`

	token, err := m.scan(querier.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}
	return token, nil
}

// Revoke is a conditional update, see PostgreSQLTokenRepository.Revoke.
func (m *MySQLTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := tokenID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `UPDATE tokens SET active = false, revoked_at = ? WHERE id = ? AND active = true`

	result, err := querier.ExecContext(ctx, query, revokedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}
	if affected > 0 {
		return nil
	}

	if _, err := m.Get(ctx, tokenID); err != nil {
		return err
	}
	return authDomain.ErrTokenAlreadyInactive
}

// Search returns tokens matching the filter, newest first.
func (m *MySQLTokenRepository) Search(
	ctx context.Context,
	filter authDomain.SearchFilter,
) ([]*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	var conditions []string
	var args []any

	if filter.Role != "" {
		roles, err := database.MarshalJSONColumn([]string{string(filter.Role)})
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, "JSON_CONTAINS(roles, ?)")
		args = append(args, string(roles))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "active = true")
	}

	query := `SELECT ` + tokenColumns + ` FROM tokens`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	tokens := make([]*authDomain.Token, 0)
	for rows.Next() {
		token, err := m.scan(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}

	return tokens, nil
}

func (m *MySQLTokenRepository) scan(row rowScanner) (*authDomain.Token, error) {
	var token authDomain.Token
	var id, roles, data []byte

	err := row.Scan(
		&id,
		&token.TokenHash,
		&roles,
		&data,
		&token.Active,
		&token.ExpiresAt,
		&token.RevokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, err
	}

	if err := token.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	if err := decodeTokenColumns(&token, roles, data); err != nil {
		return nil, err
	}
	return &token, nil
}

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
