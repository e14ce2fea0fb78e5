// Package handlers exposes the HTTP endpoints of the platform:
//   - POST /mood/log               (mood submission)
//   - GET  /messages, POST /messages  (WhatsApp message interactions)
//   - GET  /resources/utilization, POST /resources/utilization
//   - GET  /directory/utilization, POST /directory/utilization
//
// Handlers are transport-thin: they bind and validate JSON, call the
// application services through the interfaces below, and translate results
// into HTTP responses (including idempotent replays and conditional GETs).
package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/services"
)

//
// Service contracts (context-aware)
//

// MoodService records mood submissions.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MoodService interface {
	// Log validates and atomically records a submission.
	Log(ctx context.Context, in services.MoodInput) (*services.MoodResult, error)
	// Get reloads a recorded submission by mood log ID.
	Get(ctx context.Context, id string) (*services.MoodResult, error)
}

// MessageService lists and records WhatsApp message interactions.
type MessageService interface {
	// ListRecent returns the newest messages first, with users preloaded.
	ListRecent(ctx context.Context, limit int) ([]domain.UserInteraction, error)
	// Record stores one inbound message with its phone number redacted.
	Record(ctx context.Context, in services.MessageInput) (*domain.UserInteraction, error)
	// Get reloads a recorded message by interaction ID.
	Get(ctx context.Context, id string) (*domain.UserInteraction, error)
	// Stats returns the message count and newest timestamp.
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// UtilizationService persists resource utilization and reports counts.
type UtilizationService interface {
	Track(ctx context.Context, in services.UtilizationInput) error
	Metrics(ctx context.Context, resourceID string) (domain.UtilizationMetrics, error)
}

// DirectoryService forwards utilization events to the directory manager.
type DirectoryService interface {
	Track(ctx context.Context, resourceID, action string, demographics *domain.Demographics, attrs domain.Attributes) (*services.DirectoryEvent, error)
	Analytics(ctx context.Context, q services.AnalyticsQuery) services.AnalyticsAck
}

// IdempotencyStore remembers which resource a keyed POST produced and a
// fingerprint of the request that produced it.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string, now time.Time) (resourceID, requestHash string, status int, found bool)
	Save(ctx context.Context, scope, key, requestHash, resourceID string, status int) error
}

// requestFingerprint is the hex SHA-256 of the bound request re-encoded as
// JSON, so whitespace and key order in the raw body do not matter.
func requestFingerprint(req any) string {
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	moodSvc MoodService
	msgSvc  MessageService
	utilSvc UtilizationService
	dirSvc  DirectoryService
	idem    IdempotencyStore
}

// New constructs Handlers bound to the given services. idem may be nil, in
// which case Idempotency-Key headers are accepted but never replayed.
//
// New also registers the custom binding rules used by the request DTOs.
func New(mood MoodService, msg MessageService, util UtilizationService, dir DirectoryService, idem IdempotencyStore) *Handlers {
	registerValidations()
	return &Handlers{moodSvc: mood, msgSvc: msg, utilSvc: util, dirSvc: dir, idem: idem}
}
