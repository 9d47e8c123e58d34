// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts pipeline errors to appropriate HTTP responses

package handlers

import (
	"github.com/danielgtaylor/huma/v2"

	"page-digest/core/errors"
)

// toHumaError converts pipeline errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if errors.IsNotFound(err) {
		return huma.Error404NotFound(err.Error())
	}

	if errors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	kind := errors.Classify(err)
	msg := errors.UserMessage(kind)

	switch kind {
	case errors.KindCredentialMissing:
		return huma.Error412PreconditionFailed(msg)
	case errors.KindUnauthorized:
		return huma.Error502BadGateway(msg, err)
	case errors.KindRateLimited:
		return huma.Error429TooManyRequests(msg)
	case errors.KindBadRequest:
		return huma.Error400BadRequest(msg, err)
	case errors.KindNetworkOrTimeout:
		return huma.Error504GatewayTimeout(msg, err)
	case errors.KindNoOutput, errors.KindUnknownHTTP:
		return huma.Error503ServiceUnavailable(msg, err)
	case errors.KindBusy:
		return huma.Error409Conflict(msg)
	case errors.KindDisabled:
		return huma.Error403Forbidden(msg)
	case errors.KindNothingToDigest:
		return huma.Error422UnprocessableEntity(msg)
	}

	return huma.Error500InternalServerError("Internal server error", err)
}
