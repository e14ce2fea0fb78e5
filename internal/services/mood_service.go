// Package services – MoodService
//
// This file implements MoodService, which records a mood submission for an
// anonymous user. A submission produces four writes that commit or roll back
// together: the mood log, a "mood_logged" interaction, the gamification
// upsert, and the user's last-active timestamp.
//
// Observability: public methods are OpenTelemetry-instrumented and committed
// logs are counted in mood_logs_total{label}.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/repo"
	"github.com/tbourn/mindwell-api/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Defaults for MoodService guards.
const (
	DefaultMoodPoints = 5
	MaxNotesRunes     = 2000
	MaxTags           = 20
	MaxTagRunes       = 64
)

// MoodInput is a validated-at-the-edge mood submission.
type MoodInput struct {
	AnonymousID string
	MoodScore   int
	Emotions    []string
	Notes       *string
	Triggers    []string
	Language    string
}

// MoodResult is what a committed submission produced.
type MoodResult struct {
	MoodLog      *domain.MoodLog
	Sentiment    domain.Sentiment
	PointsEarned int
}

// MoodService coordinates mood logging and its side effects.
type MoodService struct {
	DB *gorm.DB
	// Points awarded per submission.
	Points int

	now func() time.Time
}

// NewMoodService constructs a MoodService. A negative points value falls
// back to DefaultMoodPoints.
func NewMoodService(db *gorm.DB, points int) *MoodService {
	if points < 0 {
		points = DefaultMoodPoints
	}
	return &MoodService{DB: db, Points: points}
}

// Log validates in, then atomically writes the mood log, the interaction,
// the gamification counters and the user's activity timestamp.
//
// Errors:
//   - ErrMissingAnonymousID, ErrInvalidMoodScore, ErrNotesTooLong,
//     ErrInvalidTags for invalid input (nothing is written).
//   - ErrUserNotFound when no user has in.AnonymousID (nothing is written).
//   - A wrapped DB error otherwise; the transaction is rolled back.
func (s *MoodService) Log(ctx context.Context, in MoodInput) (*MoodResult, error) {
	tr := otel.Tracer("services/MoodService")
	ctx, span := tr.Start(ctx, "Log",
		trace.WithAttributes(attribute.Int("mood.score", in.MoodScore)),
	)
	defer span.End()

	anonID := strings.TrimSpace(in.AnonymousID)
	if anonID == "" {
		return nil, ErrMissingAnonymousID
	}
	if !domain.ValidMoodScore(in.MoodScore) {
		return nil, ErrInvalidMoodScore
	}
	if in.Notes != nil {
		n := strings.TrimSpace(*in.Notes)
		if utf8.RuneCountInString(n) > MaxNotesRunes {
			return nil, ErrNotesTooLong
		}
		if n == "" {
			in.Notes = nil
		} else {
			in.Notes = &n
		}
	}
	emotions, err := cleanTags(in.Emotions)
	if err != nil {
		return nil, err
	}
	triggers, err := cleanTags(in.Triggers)
	if err != nil {
		return nil, err
	}

	sentiment := domain.AnalyzeMood(in.MoodScore)
	now := s.clock()

	var ml *domain.MoodLog
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := repo.GetUserByAnonymousID(ctx, tx, anonID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("lookup user: %w", err)
		}
		span.SetAttributes(attribute.String("user.id", user.ID))
		lang := utils.NormalizeLanguage(in.Language, user.Language)

		ml = &domain.MoodLog{
			ID:             uuid.NewString(),
			UserID:         user.ID,
			MoodScore:      in.MoodScore,
			Emotions:       emotions,
			Notes:          in.Notes,
			Triggers:       triggers,
			SentimentScore: sentiment.Score,
			SentimentLabel: sentiment.Label,
			Language:       lang,
			CreatedAt:      now,
		}
		if err := repo.CreateMoodLog(ctx, tx, ml); err != nil {
			return fmt.Errorf("insert mood log: %w", err)
		}

		meta, err := domain.EncodeMetadata(domain.MoodLoggedMetadata{
			MoodScore:      in.MoodScore,
			SentimentScore: sentiment.Score,
			SentimentLabel: sentiment.Label,
			EmotionCount:   len(emotions),
			TriggerCount:   len(triggers),
		})
		if err != nil {
			return err
		}
		if err := repo.CreateInteraction(ctx, tx, &domain.UserInteraction{
			ID:              uuid.NewString(),
			UserID:          &user.ID,
			InteractionType: domain.InteractionMoodLogged,
			EntityType:      domain.EntityMoodLog,
			EntityID:        ml.ID,
			Metadata:        meta,
			Timestamp:       now,
			Language:        lang,
		}); err != nil {
			return fmt.Errorf("insert interaction: %w", err)
		}

		if err := repo.AwardMoodLogPoints(ctx, tx, user.ID, s.Points, now); err != nil {
			return fmt.Errorf("award points: %w", err)
		}
		if err := repo.TouchUser(ctx, tx, user.ID, now); err != nil {
			return fmt.Errorf("touch user: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "mood log rolled back")
		}
		return nil, err
	}

	moodLogsTotal.WithLabelValues(string(sentiment.Label)).Inc()
	return &MoodResult{MoodLog: ml, Sentiment: sentiment, PointsEarned: s.Points}, nil
}

// Get reloads a committed mood log, e.g. to replay an idempotent request.
func (s *MoodService) Get(ctx context.Context, id string) (*MoodResult, error) {
	tr := otel.Tracer("services/MoodService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("mood_log.id", id)))
	defer span.End()

	ml, err := repo.GetMoodLog(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMoodLogNotFound
		}
		return nil, err
	}
	return &MoodResult{
		MoodLog:      ml,
		Sentiment:    domain.Sentiment{Score: ml.SentimentScore, Label: ml.SentimentLabel},
		PointsEarned: s.Points,
	}, nil
}

func (s *MoodService) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// cleanTags trims tags, drops empties and duplicates, and enforces MaxTags
// and MaxTagRunes. The result is never nil so the JSON column stores [].
func cleanTags(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > MaxTagRunes {
			return nil, ErrInvalidTags
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) > MaxTags {
		return nil, ErrInvalidTags
	}
	return out, nil
}
