// Package repository implements token persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

const tokenColumns = `id, token_hash, roles, data, active, expires_at, revoked_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLTokenRepository implements Token persistence for PostgreSQL.
// Roles and token data are stored as JSONB.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	roles, data, err := encodeTokenColumns(token)
	if err != nil {
		return err
	}

	query := `INSERT INTO tokens (` + tokenColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.ID,
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
func (p *PostgreSQLTokenRepository) Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = $1`

	token, err := p.scan(querier.QueryRowContext(ctx, query, tokenID))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return token, nil
}

// GetByTokenHash retrieves a token by the hash of its secret.
func (p *PostgreSQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE token_hash = $1`

	token, err := p.scan(querier.QueryRowContext(ctx, query, tokenHash))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}
	return token, nil
}

// Revoke is a conditional update. When no row changes, a follow-up read tells an
// unknown token apart from an inactive one.
func (p *PostgreSQLTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens SET active = false, revoked_at = $1 WHERE id = $2 AND active = true`

	result, err := querier.ExecContext(ctx, query, revokedAt, tokenID)
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

	if _, err := p.Get(ctx, tokenID); err != nil {
		return err
	}
	return authDomain.ErrTokenAlreadyInactive
}

// Search returns tokens matching the filter, newest first.
func (p *PostgreSQLTokenRepository) Search(
	ctx context.Context,
	filter authDomain.SearchFilter,
) ([]*authDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	var conditions []string
	var args []any

	if filter.Role != "" {
		args = append(args, fmt.Sprintf(`[%q]`, string(filter.Role)))
		conditions = append(conditions, fmt.Sprintf("roles @> $%d::jsonb", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "active = true")
	}

	query := `SELECT ` + tokenColumns + ` FROM tokens`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search tokens")
	}
	defer func() {
		_ = rows.Close()
	}()

	tokens := make([]*authDomain.Token, 0)
	for rows.Next() {
		token, err := p.scan(rows)
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

func (p *PostgreSQLTokenRepository) scan(row rowScanner) (*authDomain.Token, error) {
	var token authDomain.Token
	var roles, data []byte

	err := row.Scan(
		&token.ID,
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

	if err := decodeTokenColumns(&token, roles, data); err != nil {
		return nil, err
	}
	return &token, nil
}

func encodeTokenColumns(token *authDomain.Token) ([]byte, []byte, error) {
	roles, err := database.MarshalJSONColumn(token.Roles.Strings())
	if err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(token.Data)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to encode token data")
	}
	return roles, data, nil
}

func decodeTokenColumns(token *authDomain.Token, roles, data []byte) error {
	if err := database.UnmarshalJSONColumn(roles, &token.Roles); err != nil {
		return err
	}
	return database.UnmarshalJSONColumn(data, &token.Data)
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL Token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
