// Package services – MessageService
//
// This file implements MessageService, which records and lists WhatsApp
// message interactions. Phone numbers never reach the database: the stored
// metadata carries domain.RedactedPhone instead, and the number is scrubbed
// from the message body and attributes as well.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/privacy"
	"github.com/tbourn/mindwell-api/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMessagesLimit is the number of newest messages ListRecent returns.
const DefaultMessagesLimit = 50

// defaultMessageType applies when the client omits messageType.
const defaultMessageType = "text"

// MessageInput is an inbound WhatsApp message interaction.
type MessageInput struct {
	UserID         string
	MessageContent string
	MessageType    string
	PhoneNumber    string
	Attributes     domain.Attributes
}

// MessageService coordinates message interaction persistence.
type MessageService struct {
	DB *gorm.DB
	// Limit caps ListRecent.
	Limit int

	now func() time.Time
}

// NewMessageService constructs a MessageService. A non-positive limit falls
// back to DefaultMessagesLimit.
func NewMessageService(db *gorm.DB, limit int) *MessageService {
	if limit <= 0 {
		limit = DefaultMessagesLimit
	}
	return &MessageService{DB: db, Limit: limit}
}

// ListRecent returns up to min(limit, s.Limit) WHATSAPP_MESSAGE interactions,
// newest first, each with its user preloaded. A non-positive limit means
// s.Limit.
func (s *MessageService) ListRecent(ctx context.Context, limit int) ([]domain.UserInteraction, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListRecent")
	defer span.End()

	ceiling := s.Limit
	if ceiling <= 0 {
		ceiling = DefaultMessagesLimit
	}
	if limit <= 0 || limit > ceiling {
		limit = ceiling
	}
	span.SetAttributes(attribute.Int("limit", limit))

	items, err := repo.ListRecentInteractions(ctx, s.DB, domain.InteractionWhatsAppMessage, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return items, nil
}

// Record validates in, redacts the phone number, and inserts one
// WHATSAPP_MESSAGE interaction. Duplicate submissions create duplicate rows.
//
// Errors:
//   - ErrMissingUserID when in.UserID is blank.
//   - ErrInvalidMetadata (wrapped) when the content is longer than
//     domain.MaxMessageContentLen, or the message type or attributes are
//     rejected. An attribute key carrying a phone number is rejected, since
//     a key cannot be redacted in place.
//   - ErrUserNotFound when in.UserID does not exist.
func (s *MessageService) Record(ctx context.Context, in MessageInput) (*domain.UserInteraction, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(attribute.String("user.id", in.UserID)),
	)
	defer span.End()

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrMissingUserID
	}

	// The length limit applies to what the client sent; redaction may
	// lengthen the stored body.
	if utf8.RuneCountInString(in.MessageContent) > domain.MaxMessageContentLen {
		return nil, fmt.Errorf("%w: message content too long", ErrInvalidMetadata)
	}
	mm, err := buildMessageMetadata(in)
	if err != nil {
		return nil, err
	}
	meta, err := domain.EncodeMetadata(mm)
	if err != nil {
		return nil, err
	}

	user, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	now := s.clock()
	msg := &domain.UserInteraction{
		ID:              uuid.NewString(),
		UserID:          &user.ID,
		InteractionType: domain.InteractionWhatsAppMessage,
		EntityType:      domain.EntityMessage,
		EntityID:        strconv.FormatInt(now.UnixMilli(), 10),
		Metadata:        meta,
		Timestamp:       now,
		Language:        user.Language,
	}
	if err := repo.CreateInteraction(ctx, s.DB, msg); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	msg.User = user
	return msg, nil
}

// Get reloads one message interaction, e.g. to replay an idempotent request.
func (s *MessageService) Get(ctx context.Context, id string) (*domain.UserInteraction, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("interaction.id", id)))
	defer span.End()

	in, err := repo.GetInteraction(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if in.InteractionType != domain.InteractionWhatsAppMessage {
		return nil, ErrMessageNotFound
	}
	return in, nil
}

// Stats returns the number of message interactions and the newest timestamp,
// used by the HTTP layer to compute an ETag.
func (s *MessageService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return repo.InteractionsStats(ctx, s.DB, domain.InteractionWhatsAppMessage)
}

func (s *MessageService) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// buildMessageMetadata produces the stored metadata for in. The raw phone
// number is replaced by domain.RedactedPhone and removed from the content
// and attribute values. Attribute keys that carry a phone number are
// rejected.
func buildMessageMetadata(in MessageInput) (domain.MessageMetadata, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	scrub := func(s string) string {
		s = privacy.ScrubNumber(s, phone, domain.RedactedPhone)
		return privacy.RedactPhones(s, domain.RedactedPhone)
	}

	mt := strings.ToLower(strings.TrimSpace(in.MessageType))
	if mt == "" {
		mt = defaultMessageType
	}
	meta := domain.MessageMetadata{
		MessageContent: scrub(in.MessageContent),
		MessageType:    mt,
		Platform:       domain.PlatformWhatsApp,
	}
	if phone != "" {
		meta.PhoneNumber = domain.RedactedPhone
	}
	if len(in.Attributes) > 0 {
		meta.Attributes = make(domain.Attributes, len(in.Attributes))
		for k, v := range in.Attributes {
			if privacy.ContainsPhone(k, phone) {
				return domain.MessageMetadata{}, fmt.Errorf("%w: attribute key must not contain a phone number", ErrInvalidMetadata)
			}
			meta.Attributes[k] = privacy.Redact(scrub(v))
		}
	}
	return meta, nil
}
