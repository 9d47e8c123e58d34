// ABOUTME: Custom error types for the content-digest pipeline
// ABOUTME: Classifies every pipeline failure into one user-facing message category

package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource, such as an unset storage key
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents invalid input from the UI surface or settings
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents a failed call to the summarization backend.
// StatusCode is 0 for network failures and timeouts.
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("external API error from %s: network or timeout - %s", e.API, e.Message)
	}
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

var (
	// ErrCredentialMissing is returned when no backend credential is configured
	ErrCredentialMissing = errors.New("backend credential is not configured")

	// ErrNoOutput is returned when a successful response carries no generated text
	ErrNoOutput = errors.New("backend response contained no output text")

	// ErrBusy is returned when a digest is requested while another is processing
	ErrBusy = errors.New("a digest is already in progress")

	// ErrDisabled is returned when the domain policy disables the pipeline for a host
	ErrDisabled = errors.New("digesting is disabled for this host")

	// ErrNothingToDigest is returned when the page has no extractable content.
	// It is informational rather than a failure.
	ErrNothingToDigest = errors.New("no readable content found on the page")
)

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Kind is the user-facing category of a pipeline error
type Kind string

const (
	KindNone              Kind = ""
	KindCredentialMissing Kind = "credential_missing"
	KindUnauthorized      Kind = "unauthorized"
	KindRateLimited       Kind = "rate_limited"
	KindBadRequest        Kind = "bad_request"
	KindNetworkOrTimeout  Kind = "network_or_timeout"
	KindNoOutput          Kind = "no_output"
	KindUnknownHTTP       Kind = "unknown_http"
	KindBusy              Kind = "busy"
	KindDisabled          Kind = "disabled"
	KindNothingToDigest   Kind = "nothing_to_digest"
	KindInternal          Kind = "internal"
)

// Classify maps err to exactly one Kind
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	switch {
	case errors.Is(err, ErrCredentialMissing):
		return KindCredentialMissing
	case errors.Is(err, ErrNoOutput):
		return KindNoOutput
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrDisabled):
		return KindDisabled
	case errors.Is(err, ErrNothingToDigest):
		return KindNothingToDigest
	}

	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 0:
			return KindNetworkOrTimeout
		case 400:
			return KindBadRequest
		case 401:
			return KindUnauthorized
		case 429:
			return KindRateLimited
		default:
			return KindUnknownHTTP
		}
	}

	return KindInternal
}

// StatusCode returns the HTTP status carried by err, or -1 when it carries none
func StatusCode(err error) int {
	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return -1
}

// IsInformational reports whether kind describes an expected outcome rather than a failure
func IsInformational(kind Kind) bool {
	return kind == KindNothingToDigest
}

// UserMessage returns the message shown to the user for kind
func UserMessage(kind Kind) string {
	switch kind {
	case KindNone:
		return ""
	case KindCredentialMissing:
		return "No API key is configured. Please enter your API key to continue."
	case KindUnauthorized:
		return "The API key was rejected. Please enter a new API key."
	case KindRateLimited:
		return "The summarization service is rate limiting requests. Please wait a moment and try again."
	case KindBadRequest:
		return "The request was rejected. The selected text may be too long; try a shorter selection."
	case KindNetworkOrTimeout:
		return "Could not reach the summarization service. Check your connection and try again."
	case KindNoOutput:
		return "The summarization service returned no text. Please try again."
	case KindBusy:
		return "A digest is already being processed."
	case KindDisabled:
		return "Digesting is disabled on this site."
	case KindNothingToDigest:
		return "No article text was found on this page. Select some text and try again."
	default:
		return "Digesting failed. Please try again."
	}
}
