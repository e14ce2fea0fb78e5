// Package services – DirectoryService
//
// This file implements DirectoryService, the manager-backed variant of
// resource utilization tracking. Recording is delegated to an injected
// DirectoryManager (see package directory); the service only validates the
// request against the directory action set. Validated attributes travel to
// the manager on the context (domain.WithAttributes) with phone numbers
// redacted from their values.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/privacy"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DirectoryManager records utilization for a directory resource.
// demographics may be nil.
type DirectoryManager interface {
	TrackUtilization(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error
}

// DirectoryEvent echoes an accepted utilization event.
type DirectoryEvent struct {
	ResourceID string    `json:"resourceId"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// AnalyticsQuery carries the GET filters. They are echoed back unparsed.
type AnalyticsQuery struct {
	ResourceID string `json:"resourceId,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	GroupBy    string `json:"groupBy,omitempty"`
}

// AnalyticsAck is the placeholder answer to an analytics request.
type AnalyticsAck struct {
	Message string         `json:"message"`
	Filters AnalyticsQuery `json:"filters"`
}

// analyticsPlaceholder is returned until directory analytics exist.
const analyticsPlaceholder = "Utilization analytics endpoint - implementation pending"

// DirectoryService validates directory utilization and hands it to Manager.
type DirectoryService struct {
	Manager DirectoryManager

	now func() time.Time
}

// NewDirectoryService constructs a DirectoryService around m. A nil m
// accepts every event without recording it.
func NewDirectoryService(m DirectoryManager) *DirectoryService {
	return &DirectoryService{Manager: m}
}

// Track validates the event and delegates it to the manager.
//
// Errors:
//   - ErrMissingFields when resourceId or action is blank.
//   - ErrInvalidAction (wrapped, listing domain.DirectoryActions).
//   - ErrInvalidMetadata (wrapped) for bad demographics or attributes.
//   - The manager's error, wrapped, otherwise.
func (s *DirectoryService) Track(ctx context.Context, resourceID, action string, demographics *domain.Demographics, attrs domain.Attributes) (*DirectoryEvent, error) {
	tr := otel.Tracer("services/DirectoryService")
	ctx, span := tr.Start(ctx, "Track",
		trace.WithAttributes(
			attribute.String("resource.id", resourceID),
			attribute.String("utilization.action", action),
		),
	)
	defer span.End()

	resourceID = strings.TrimSpace(resourceID)
	action = strings.TrimSpace(action)
	if resourceID == "" || action == "" {
		return nil, ErrMissingFields
	}
	if !domain.IsDirectoryAction(action) {
		return nil, fmt.Errorf("%w; must be one of: %s", ErrInvalidAction, domain.JoinActions(domain.DirectoryActions))
	}
	if err := demographics.Validate(); err != nil {
		return nil, err
	}
	for k := range attrs {
		if privacy.ContainsPhone(k, "") {
			return nil, fmt.Errorf("%w: attribute key must not contain a phone number", ErrInvalidMetadata)
		}
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	ctx = domain.WithAttributes(ctx, redactAttributes(attrs))

	if s.Manager != nil {
		if err := s.Manager.TrackUtilization(ctx, resourceID, action, demographics); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "directory manager failed")
			return nil, fmt.Errorf("track utilization: %w", err)
		}
	}

	utilizationTotal.WithLabelValues(variantDirectory, action).Inc()
	return &DirectoryEvent{ResourceID: resourceID, Action: action, Timestamp: s.clock()}, nil
}

// Analytics acknowledges an analytics request. No metrics are computed.
func (s *DirectoryService) Analytics(ctx context.Context, q AnalyticsQuery) AnalyticsAck {
	_, span := otel.Tracer("services/DirectoryService").Start(ctx, "Analytics")
	defer span.End()
	return AnalyticsAck{Message: analyticsPlaceholder, Filters: q}
}

func redactAttributes(attrs domain.Attributes) domain.Attributes {
	if len(attrs) == 0 {
		return nil
	}
	out := make(domain.Attributes, len(attrs))
	for k, v := range attrs {
		out[k] = privacy.Redact(v)
	}
	return out
}

func (s *DirectoryService) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}
