package domain

import (
	"github.com/riotkit-org/backup-repository/internal/errors"
)

// Authentication errors.
var (
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrTokenAlreadyInactive is the stable outcome of revoking a revoked token.
	ErrTokenAlreadyInactive = errors.Wrap(errors.ErrConflict, "token is already inactive")

	ErrTokenIDTaken = errors.Wrap(errors.ErrConflict, "token id is already in use")

	ErrUnknownRole = errors.Wrap(errors.ErrInvalidInput, "unknown role")
)

// ErrInvalidToken is returned for unknown, expired and revoked bearer secrets alike.
var ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid or inactive token")
