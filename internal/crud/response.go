// Package crud provides the uniform result envelope returned by every action handler.
//
// A Response carries exactly one of: a success payload, per-field validation errors,
// a single domain error, or a "not found" marker.
package crud

import (
	"net/http"
)

// DomainError describes a single business rule violation.
type DomainError struct {
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Code      string `json:"code,omitempty"`
	Reference any    `json:"reference,omitempty"`
}

// Response is the result envelope shared by action handlers.
type Response struct {
	Status   bool              `json:"status"`
	HTTPCode int               `json:"http_code"`
	Message  string            `json:"message"`
	Data     any               `json:"data,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Error    *DomainError      `json:"error,omitempty"`
}

// Success wraps a successful result.
func Success(data any, httpCode int) *Response {
	return &Response{
		Status:   true,
		HTTPCode: httpCode,
		Message:  "OK",
		Data:     data,
	}
}

// WithValidationErrors creates an error response listing per-field problems.
func WithValidationErrors(errors map[string]string) *Response {
	return &Response{
		Status:   false,
		HTTPCode: http.StatusBadRequest,
		Message:  "Validation error",
		Errors:   errors,
	}
}

// WithDomainError creates an error response for a single business rule violation.
func WithDomainError(message, field, code string, reference any) *Response {
	return &Response{
		Status:   false,
		HTTPCode: http.StatusBadRequest,
		Message:  message,
		Error: &DomainError{
			Message:   message,
			Field:     field,
			Code:      code,
			Reference: reference,
		},
	}
}

// NotFound creates a response for a missing resource.
func NotFound(message string) *Response {
	if message == "" {
		message = "Object not found"
	}
	return &Response{
		Status:   false,
		HTTPCode: http.StatusNotFound,
		Message:  message,
	}
}

// IsSuccess reports whether the response carries a success payload.
func (r *Response) IsSuccess() bool {
	return r != nil && r.Status
}

// IsNotFound reports whether the response is the "not found" variant.
func (r *Response) IsNotFound() bool {
	return r != nil && !r.Status && r.HTTPCode == http.StatusNotFound
}
