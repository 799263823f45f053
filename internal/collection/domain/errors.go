package domain

import (
	"github.com/riotkit-org/backup-repository/internal/errors"
)

// Collection errors.
var (
	ErrCollectionNotFound = errors.Wrap(errors.ErrNotFound, "collection not found")
)
