// Package services defines the business logic for mood logging, message
// interactions, and resource utilization tracking. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// Validation errors (400).
var (
	// ErrMissingAnonymousID is returned when a mood submission has no anonymousId.
	ErrMissingAnonymousID = errors.New("anonymousId is required")

	// ErrInvalidMoodScore is returned when moodScore is not an integer in [1,10].
	ErrInvalidMoodScore = errors.New("moodScore must be an integer between 1 and 10")

	// ErrNotesTooLong is returned when mood notes exceed MaxNotesRunes.
	ErrNotesTooLong = errors.New("notes too long")

	// ErrInvalidTags is returned when emotions or triggers exceed the tag limits.
	ErrInvalidTags = errors.New("emotions and triggers accept at most 20 tags of up to 64 characters")

	// ErrMissingUserID is returned when a message interaction has no userId.
	ErrMissingUserID = errors.New("userId is required")

	// ErrMissingFields is returned when a utilization event lacks resourceId
	// or action.
	ErrMissingFields = errors.New("resourceId and action are required")

	// ErrInvalidAction is returned (wrapped with the accepted set) when a
	// utilization action is outside the endpoint's action set.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidMetadata aliases domain.ErrInvalidMetadata so handlers only
	// need to know this package.
	ErrInvalidMetadata = domain.ErrInvalidMetadata
)

// Not-found errors (404).
var (
	// ErrUserNotFound indicates that the referenced anonymous user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrResourceNotFound indicates that the referenced directory resource
	// does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrMoodLogNotFound indicates that a mood log looked up by ID is missing.
	ErrMoodLogNotFound = errors.New("mood log not found")

	// ErrMessageNotFound indicates that a message interaction looked up by ID
	// is missing.
	ErrMessageNotFound = errors.New("message not found")
)
