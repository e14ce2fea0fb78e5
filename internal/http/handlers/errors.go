// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package) and the translation of
// service errors into those responses. Codes give clients a stable,
// machine-readable taxonomy next to the human-readable message.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Validation failures are 400, unknown users/resources are 404.
//   - Anything else is a 500 whose message is always "internal server error";
//     the cause is attached to the request and logged, never returned.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "invalid_action",
//	  "message": "invalid action; must be one of: view, click, contact, download, share, bookmark"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mindwell-api/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeInvalidMood     = "invalid_mood"
	ErrCodeInvalidAction   = "invalid_action"
	ErrCodeInvalidMetadata = "invalid_metadata"
	ErrCodeLogFailed       = "log_failed"
	ErrCodeCreateFailed    = "create_failed"
	ErrCodeListFailed      = "list_failed"
	ErrCodeTrackFailed     = "track_failed"
	ErrCodeIdempotencyKey  = "idempotency_key_reused"
)

// msgIdempotencyKeyReused answers a key replayed with a different body.
const msgIdempotencyKeyReused = "Idempotency-Key was already used with a different request body"

// msgInternal is the only message a 5xx response ever carries.
const msgInternal = "internal server error"

// failService maps a service error to an error response. Unknown errors
// become a 500 with code fallback.
func failService(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidMoodScore),
		errors.Is(err, services.ErrNotesTooLong),
		errors.Is(err, services.ErrInvalidTags):
		fail(c, http.StatusBadRequest, ErrCodeInvalidMood, err.Error())
	case errors.Is(err, services.ErrInvalidAction):
		fail(c, http.StatusBadRequest, ErrCodeInvalidAction, err.Error())
	case errors.Is(err, services.ErrInvalidMetadata):
		fail(c, http.StatusBadRequest, ErrCodeInvalidMetadata, err.Error())
	case errors.Is(err, services.ErrMissingAnonymousID),
		errors.Is(err, services.ErrMissingUserID),
		errors.Is(err, services.ErrMissingFields):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrResourceNotFound),
		errors.Is(err, services.ErrMoodLogNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, fallback, msgInternal)
	}
}
