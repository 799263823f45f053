// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

var (
	// mimeTypeRegex matches "type/subtype" media types without parameters
	mimeTypeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9!#$&^_.+-]*/[a-z0-9*][a-z0-9!#$&^_.+*-]*$`)

	// tagRegex matches lowercase tags such as "db-backup" or "project_x.daily"
	tagRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,63}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// FieldErrors flattens a validation.Errors value into field -> message pairs.
// Any other error is reported under the "_" key.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !apperrors.As(err, &errs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}
	return fields
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// MimeType validates a "type/subtype" media type, wildcard subtypes allowed
var MimeType = validation.NewStringRuleWithError(
	func(s string) bool {
		return mimeTypeRegex.MatchString(strings.ToLower(s))
	},
	validation.NewError("validation_mime_type", "must be a valid mime type"),
)

// Tag validates a file tag
var Tag = validation.NewStringRuleWithError(
	tagRegex.MatchString,
	validation.NewError("validation_tag", "must be 1-64 characters of letters, digits, dot, dash or underscore"),
)

// UUID validates a textual UUID
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)
