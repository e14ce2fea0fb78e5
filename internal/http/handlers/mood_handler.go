// Mood HTTP handlers.
//
// This file exposes:
//   - POST /mood/log   (record a mood submission and award points)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (scope, key), the handler returns that recorded mood log
// and sets `Idempotency-Replayed: true` instead of logging again. A key
// reused with a different body gets 422 idempotency_key_reused.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/http/middleware"
	"github.com/tbourn/mindwell-api/internal/services"
)

// moodLoggedMessage confirms a committed submission.
const moodLoggedMessage = "Mood logged successfully"

//
// DTOs
//

// LogMoodRequest is the JSON payload for a mood submission.
//
// MoodScore is decoded as a number so non-integers such as 3.5 reach the
// mood_score rule and are rejected instead of being truncated.
type LogMoodRequest struct {
	AnonymousID string   `json:"anonymousId" binding:"required" example:"anon-7f3c2a"`
	MoodScore   *float64 `json:"moodScore"   binding:"required,mood_score" example:"7" minimum:"1" maximum:"10"`
	Emotions    []string `json:"emotions,omitempty"  example:"calm,hopeful"`
	Notes       *string  `json:"notes,omitempty"     example:"Slept well"`
	Triggers    []string `json:"triggers,omitempty"  example:"work"`
	Language    string   `json:"language,omitempty"  example:"ms"`
}

// LogMoodResponse is returned for a recorded (or replayed) submission.
type LogMoodResponse struct {
	MoodLogID         string           `json:"moodLogId" example:"5b0f8f1e-8f55-4c8e-9d43-2f0c8a3f7b11"`
	SentimentAnalysis domain.Sentiment `json:"sentimentAnalysis"`
	PointsEarned      int              `json:"pointsEarned" example:"5"`
	Message           string           `json:"message" example:"Mood logged successfully"`
}

func newLogMoodResponse(res *services.MoodResult) LogMoodResponse {
	return LogMoodResponse{
		MoodLogID:         res.MoodLog.ID,
		SentimentAnalysis: res.Sentiment,
		PointsEarned:      res.PointsEarned,
		Message:           moodLoggedMessage,
	}
}

//
// Handlers
//

// LogMood godoc
// @ID          logMood
// @Summary     Log a mood entry
// @Description Records a 1-10 mood score for an anonymous user, derives the sentiment,
// @Description logs a mood_logged interaction and awards gamification points. All writes
// @Description commit together or not at all.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Mood
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.LogMoodRequest  true  "Mood submission"
//
// @Success     201  {object}  handlers.LogMoodResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid mood data"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Idempotency-Key reused with a different body"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /mood/log [post]
func (h *Handlers) LogMood(c *gin.Context) {
	ctx := c.Request.Context()

	var req LogMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidMood, bindMessage(err))
		return
	}

	scope := middleware.IdempotencyScope(c)
	idemKey, _ := middleware.GetIdempotencyKey(c)
	fingerprint := requestFingerprint(req)
	if idemKey != "" && h.idem != nil {
		if id, hash, status, found := h.idem.Lookup(ctx, scope, idemKey, time.Now().UTC()); found {
			if hash != "" && hash != fingerprint {
				fail(c, http.StatusUnprocessableEntity, ErrCodeIdempotencyKey, msgIdempotencyKeyReused)
				return
			}
			if prev, err := h.moodSvc.Get(ctx, id); err == nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, status, newLogMoodResponse(prev))
				return
			}
		}
	}

	res, err := h.moodSvc.Log(ctx, services.MoodInput{
		AnonymousID: req.AnonymousID,
		MoodScore:   int(*req.MoodScore),
		Emotions:    req.Emotions,
		Notes:       req.Notes,
		Triggers:    req.Triggers,
		Language:    req.Language,
	})
	if err != nil {
		failService(c, err, ErrCodeLogFailed)
		return
	}

	if idemKey != "" && h.idem != nil {
		if err := h.idem.Save(ctx, scope, idemKey, fingerprint, res.MoodLog.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency save failed")
		}
	}

	ok(c, http.StatusCreated, newLogMoodResponse(res))
}
