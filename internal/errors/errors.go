// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated token doesn't have permission.
	ErrForbidden = errors.New("forbidden")
)

// CodeNotAuthenticated is the machine-readable code carried by every authorization denial.
const CodeNotAuthenticated = "not_authenticated"

// AuthorizationError is returned when a security context denies an operation.
// It always wraps ErrForbidden so HTTP adapters can map it without knowing the type.
type AuthorizationError struct {
	Message string
	Code    string
}

// NewAuthorizationError creates an authorization denial with the not_authenticated code.
func NewAuthorizationError(message string) *AuthorizationError {
	return &AuthorizationError{Message: message, Code: CodeNotAuthenticated}
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped sentinel.
func (e *AuthorizationError) Unwrap() error {
	return ErrForbidden
}

// ValidationError is a domain-level rejection of otherwise well-formed input.
// Reference optionally points at the conflicting resource (e.g. an existing file).
type ValidationError struct {
	Message   string
	Field     string
	Code      string
	Reference any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// MappingError carries per-field errors produced while mapping a form onto an entity.
type MappingError struct {
	Errors map[string]string
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}
	return "mapping failed: " + strings.Join(parts, "; ")
}

// Unwrap returns the wrapped sentinel.
func (e *MappingError) Unwrap() error {
	return ErrInvalidInput
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
