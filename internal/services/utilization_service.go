// Package services – UtilizationService
//
// This file implements UtilizationService, the directly persisted variant of
// resource utilization tracking. Each accepted event becomes a
// "resource_<action>" UserInteraction pointing at the resource, so metrics
// are plain counts over that table.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/repo"
	"github.com/tbourn/mindwell-api/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UtilizationInput is one resource utilization event.
type UtilizationInput struct {
	ResourceID   string
	Action       string
	Demographics *domain.Demographics
	Session      *domain.SessionData
}

// UtilizationService records and summarizes resource utilization.
type UtilizationService struct {
	DB *gorm.DB

	now func() time.Time
}

// NewUtilizationService constructs a UtilizationService.
func NewUtilizationService(db *gorm.DB) *UtilizationService {
	return &UtilizationService{DB: db}
}

// Track validates in and records it against an existing resource.
//
// Validation order: missing fields, action set, metadata, resource existence.
//
// Errors:
//   - ErrMissingFields when resourceId or action is blank.
//   - ErrInvalidAction (wrapped, listing domain.ResourceActions).
//   - ErrInvalidMetadata (wrapped) for bad demographics or session data.
//   - ErrResourceNotFound when the resource does not exist.
func (s *UtilizationService) Track(ctx context.Context, in UtilizationInput) error {
	tr := otel.Tracer("services/UtilizationService")
	ctx, span := tr.Start(ctx, "Track",
		trace.WithAttributes(
			attribute.String("resource.id", in.ResourceID),
			attribute.String("utilization.action", in.Action),
		),
	)
	defer span.End()

	resourceID := strings.TrimSpace(in.ResourceID)
	action := strings.TrimSpace(in.Action)
	if resourceID == "" || action == "" {
		return ErrMissingFields
	}
	if !domain.IsResourceAction(action) {
		return fmt.Errorf("%w; must be one of: %s", ErrInvalidAction, domain.JoinActions(domain.ResourceActions))
	}
	meta, err := domain.EncodeMetadata(domain.UtilizationMetadata{
		Action:       action,
		Demographics: in.Demographics,
		Session:      in.Session,
	})
	if err != nil {
		return err
	}

	res, err := repo.GetResource(ctx, s.DB, resourceID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("lookup resource: %w", err)
	}

	lang := res.Language
	if in.Demographics != nil {
		lang = utils.NormalizeLanguage(in.Demographics.Language, res.Language)
	}
	if err := repo.CreateInteraction(ctx, s.DB, &domain.UserInteraction{
		ID:              uuid.NewString(),
		InteractionType: domain.ResourceInteractionType(action),
		EntityType:      domain.EntityResource,
		EntityID:        res.ID,
		ResourceID:      &res.ID,
		Metadata:        meta,
		Timestamp:       s.clock(),
		Language:        lang,
	}); err != nil {
		return fmt.Errorf("insert utilization: %w", err)
	}

	utilizationTotal.WithLabelValues(variantResource, action).Inc()
	return nil
}

// Metrics returns interaction counts for resourceID. A blank resourceID
// yields zero metrics without touching the database.
func (s *UtilizationService) Metrics(ctx context.Context, resourceID string) (domain.UtilizationMetrics, error) {
	tr := otel.Tracer("services/UtilizationService")
	ctx, span := tr.Start(ctx, "Metrics", trace.WithAttributes(attribute.String("resource.id", resourceID)))
	defer span.End()

	out := domain.EmptyUtilizationMetrics()
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return out, nil
	}

	total, err := repo.CountResourceInteractions(ctx, s.DB, resourceID)
	if err != nil {
		return out, fmt.Errorf("count utilization: %w", err)
	}
	if total == 0 {
		return out, nil
	}
	byType, err := repo.CountResourceInteractionsByType(ctx, s.DB, resourceID)
	if err != nil {
		return out, fmt.Errorf("group utilization: %w", err)
	}
	out.TotalInteractions = total
	out.InteractionsByType = byType
	return out, nil
}

func (s *UtilizationService) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}
