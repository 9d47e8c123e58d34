// ABOUTME: Error types and handling for the Digests library
// ABOUTME: Provides structured errors with context for library operations

package digests

import (
	"errors"
	"fmt"

	apperrors "page-digest/core/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "internal"

	// ErrorTypeConfiguration indicates a configuration error
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Error represents a structured error from the library
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithCause adds a cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

var (
	// ErrClientClosed is returned when operations are attempted on a closed client
	ErrClientClosed = NewError(ErrorTypeInternal, "client is closed")

	// ErrDisabled is returned by Open when the domain policy excludes the host
	ErrDisabled = apperrors.ErrDisabled

	// ErrNothingToDigest is returned when a page has no extractable content
	ErrNothingToDigest = apperrors.ErrNothingToDigest

	// ErrBusy is returned when a session is already processing a digest
	ErrBusy = apperrors.ErrBusy

	// ErrCredentialMissing is returned when no backend key is configured
	ErrCredentialMissing = apperrors.ErrCredentialMissing
)

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeValidation
	}
	return apperrors.IsValidation(err)
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrorTypeConfiguration
}

// Kind classifies err into the user-facing error category
func Kind(err error) apperrors.Kind {
	return apperrors.Classify(err)
}

// Message returns the user-facing message for err
func Message(err error) string {
	return apperrors.UserMessage(apperrors.Classify(err))
}
