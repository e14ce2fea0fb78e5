// Message HTTP handlers.
//
// This file exposes REST endpoints for WhatsApp message interactions:
//   - GET  /messages   (newest messages first, at most 50)
//   - POST /messages   (record one inbound message)
//
// Phone numbers are redacted by the service before anything is stored; the
// handler never logs request bodies.
//
// Conditional GET: the list carries a weak ETag derived from the effective
// limit, the message count and the newest timestamp, and If-None-Match yields
// 304. Joined user fields are not part of the tag; the API never changes a
// user's anonymousId or language.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/http/middleware"
	"github.com/tbourn/mindwell-api/internal/services"
	"github.com/tbourn/mindwell-api/internal/utils"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for an inbound WhatsApp message.
type PostMessageRequest struct {
	// UserID is the AnonymousUser primary key.
	UserID         string            `json:"userId"                   binding:"required" example:"0d6c2a4e-2b1f-4e59-9d2c-8c1e5f3a7b90"`
	MessageContent string            `json:"messageContent,omitempty" binding:"max=4096" example:"Hi, I need someone to talk to"`
	MessageType    string            `json:"messageType,omitempty"    binding:"omitempty,message_type" example:"text"`
	PhoneNumber    string            `json:"phoneNumber,omitempty"    example:"+60123456789"`
	Metadata       domain.Attributes `json:"metadata,omitempty"`
}

// MessageUser is the pseudonymous owner embedded in a message view.
type MessageUser struct {
	AnonymousID string `json:"anonymousId" example:"anon-7f3c2a"`
	Language    string `json:"language"    example:"en"`
}

// MessageView is a message interaction as returned by the API.
type MessageView struct {
	domain.UserInteraction
	User *MessageUser `json:"user,omitempty"`
}

func newMessageView(in domain.UserInteraction) MessageView {
	v := MessageView{UserInteraction: in}
	if in.User != nil {
		v.User = &MessageUser{AnonymousID: in.User.AnonymousID, Language: in.User.Language}
	}
	return v
}

//
// Helpers
//

// clampMessagesLimit parses ?limit and bounds it to [1, DefaultMessagesLimit].
func clampMessagesLimit(c *gin.Context) int {
	return utils.ClampLimit(c.Query("limit"), services.DefaultMessagesLimit, services.DefaultMessagesLimit)
}

// messagesETag identifies one list representation: the same rows at a
// different limit are a different body.
func messagesETag(limit int, count int64, newest *time.Time) string {
	var ts int64
	if newest != nil {
		ts = newest.UnixMilli()
	}
	return fmt.Sprintf(`W/"messages:%d:%d:%d"`, limit, count, ts)
}

//
// Handlers
//

// ListMessages godoc
// @ID          listMessages
// @Summary     List recent WhatsApp messages
// @Description Returns at most 50 WHATSAPP_MESSAGE interactions, newest first, each with
// @Description the owner's anonymousId and language. Supports If-None-Match.
// @Tags        Messages
// @Produce     json
//
// @Param       limit  query  int  false  "Maximum rows"  minimum(1) maximum(50) default(50)
//
// @Success     200  {array}   handlers.MessageView
// @Success     304  "Not modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	limit := clampMessagesLimit(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.msgSvc.Stats(ctx); err == nil {
		etag := messagesETag(limit, count, maxTS)
		c.Header("ETag", etag)
		c.Header("Cache-Control", "private, no-cache")
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	} else {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("message stats unavailable")
	}

	items, err := h.msgSvc.ListRecent(ctx, limit)
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}

	out := make([]MessageView, 0, len(items))
	for _, it := range items {
		out = append(out, newMessageView(it))
	}
	ok(c, http.StatusOK, out)
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Record a WhatsApp message
// @Description Stores an inbound message as a WHATSAPP_MESSAGE interaction. Any phone number
// @Description is replaced by a redaction marker before it is persisted. Duplicate requests
// @Description create duplicate rows unless an Idempotency-Key is sent.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.PostMessageRequest  true  "Message payload"
//
// @Success     201  {object}  handlers.MessageView
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Idempotency-Key reused with a different body"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindMessage(err))
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
			if prev, err := h.msgSvc.Get(ctx, id); err == nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, status, newMessageView(*prev))
				return
			}
		}
	}

	m, err := h.msgSvc.Record(ctx, services.MessageInput{
		UserID:         req.UserID,
		MessageContent: req.MessageContent,
		MessageType:    req.MessageType,
		PhoneNumber:    req.PhoneNumber,
		Attributes:     req.Metadata,
	})
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}

	if idemKey != "" && h.idem != nil {
		if err := h.idem.Save(ctx, scope, idemKey, fingerprint, m.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency save failed")
		}
	}

	ok(c, http.StatusCreated, newMessageView(*m))
}
