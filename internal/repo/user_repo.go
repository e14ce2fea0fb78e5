// Package repo implements the data persistence layer for domain entities,
// backed by GORM.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a row is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts an anonymous user. An empty language defaults to "en".
func CreateUser(ctx context.Context, db *gorm.DB, anonymousID, language string) (*domain.AnonymousUser, error) {
	if strings.TrimSpace(language) == "" {
		language = "en"
	}
	now := time.Now().UTC()
	u := &domain.AnonymousUser{
		ID:           uuid.NewString(),
		AnonymousID:  anonymousID,
		Language:     language,
		LastActiveAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches an anonymous user by primary key, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.AnonymousUser, error) {
	var u domain.AnonymousUser
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByAnonymousID fetches an anonymous user by its client-held
// identifier, or ErrNotFound.
func GetUserByAnonymousID(ctx context.Context, db *gorm.DB, anonymousID string) (*domain.AnonymousUser, error) {
	var u domain.AnonymousUser
	if err := db.WithContext(ctx).Where("anonymous_id = ?", anonymousID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// TouchUser sets last_active_at. Returns ErrNotFound if no row matched.
func TouchUser(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.AnonymousUser{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_active_at": at, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
