// Package apperror defines the application error taxonomy and its mapping
// to HTTP status codes. Services return these errors and handlers translate
// them at the boundary instead of branching on error strings.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of an application error
type ErrorType int

const (
	// InternalError represents an unexpected runtime or persistence failure
	InternalError ErrorType = iota
	// ValidationError represents an input validation failure with per-field messages
	ValidationError
	// AuthError represents an authentication failure
	AuthError
	// NotFoundError represents a missing resource
	NotFoundError
	// ConflictError represents a uniqueness violation detected by the store
	ConflictError
)

// AppError is the error type returned by services. Fields carries
// field-level messages for validation and conflict errors.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  map[string]string
	Err     error
}

// Error satisfies the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As chains
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
// ConflictError maps to 422 because uniqueness failures are surfaced to
// clients the same way the validation pre-checks surface them.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, ConflictError:
		return http.StatusUnprocessableEntity
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewValidation creates a ValidationError with a field→message map
func NewValidation(fields map[string]string) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// NewAuth creates an AuthError with a client-facing message
func NewAuth(message string) *AppError {
	return &AppError{Type: AuthError, Message: message}
}

// NewNotFound creates a NotFoundError with a resource-specific message
func NewNotFound(message string) *AppError {
	return &AppError{Type: NotFoundError, Message: message}
}

// NewConflict creates a ConflictError for a single offending field
func NewConflict(field, message string, err error) *AppError {
	return &AppError{
		Type:    ConflictError,
		Message: "Validation failed",
		Fields:  map[string]string{field: message},
		Err:     err,
	}
}

// NewInternal wraps an unexpected failure. The underlying error is kept for
// logging but never serialized to the client.
func NewInternal(message string, err error) *AppError {
	return &AppError{Type: InternalError, Message: message, Err: err}
}

// From extracts an *AppError from an error chain. Errors outside the
// taxonomy are treated as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("internal server error", err)
}

// IsNotFound reports whether the error chain contains a NotFoundError
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsConflict reports whether the error chain contains a ConflictError
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsValidation reports whether the error chain contains a ValidationError
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}
