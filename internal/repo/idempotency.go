// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to implement safe-retry semantics for POST endpoints.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given (scope, key) pair.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("scope = ? AND key = ? AND expires_at > ?", scope, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency inserts a record and returns ErrDuplicate on unique violation.
func CreateIdempotency(ctx context.Context, db *gorm.DB, scope, key, requestHash, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:          uuid.NewString(),
		Scope:       scope,
		Key:         key,
		ResourceID:  resourceID,
		Status:      status,
		RequestHash: requestHash,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") ||
			strings.Contains(low, "duplicate key value") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// DefaultIdempotencyTTL bounds how long a recorded result can be replayed.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore binds the idempotency helpers to a database and TTL so
// the HTTP layer can record and replay results without holding a *gorm.DB.
type IdempotencyStore struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyStore returns a store whose records expire after ttl
// (DefaultIdempotencyTTL when ttl <= 0).
func NewIdempotencyStore(db *gorm.DB, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{DB: db, TTL: ttl}
}

// Exists reports whether an unexpired record exists for (scope, key).
func (s *IdempotencyStore) Exists(ctx context.Context, scope, key string, now time.Time) (bool, error) {
	_, err := GetIdempotency(ctx, s.DB, scope, key, now)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Lookup returns the recorded resource ID, request fingerprint and status
// for (scope, key).
func (s *IdempotencyStore) Lookup(ctx context.Context, scope, key string, now time.Time) (resourceID, requestHash string, status int, found bool) {
	rec, err := GetIdempotency(ctx, s.DB, scope, key, now)
	if err != nil {
		return "", "", 0, false
	}
	return rec.ResourceID, rec.RequestHash, rec.Status, true
}

// Save records the result of a request. A concurrent duplicate is not an
// error: the first writer wins.
func (s *IdempotencyStore) Save(ctx context.Context, scope, key, requestHash, resourceID string, status int) error {
	_, err := CreateIdempotency(ctx, s.DB, scope, key, requestHash, resourceID, status, s.TTL)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}
