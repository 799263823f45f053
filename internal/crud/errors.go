package crud

import (
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// FromDomainError converts a domain failure into a response. It reports false for
// errors that must propagate instead: authorization denials and infrastructure faults.
func FromDomainError(err error) (*Response, bool) {
	if err == nil {
		return nil, false
	}

	var authErr *apperrors.AuthorizationError
	if apperrors.As(err, &authErr) {
		return nil, false
	}

	var mappingErr *apperrors.MappingError
	if apperrors.As(err, &mappingErr) {
		return WithValidationErrors(mappingErr.Errors), true
	}

	var validationErr *apperrors.ValidationError
	if apperrors.As(err, &validationErr) {
		return WithDomainError(
			validationErr.Message,
			validationErr.Field,
			validationErr.Code,
			validationErr.Reference,
		), true
	}

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return NotFound(""), true
	case apperrors.Is(err, apperrors.ErrConflict):
		return WithDomainError(err.Error(), "", "conflict", nil), true
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return WithDomainError(err.Error(), "", "invalid_input", nil), true
	}

	return nil, false
}
