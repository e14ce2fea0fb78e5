// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// MentalHealthResource directory.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// CreateResource inserts a directory entry.
func CreateResource(ctx context.Context, db *gorm.DB, name, category, description, language string) (*domain.MentalHealthResource, error) {
	if strings.TrimSpace(language) == "" {
		language = "en"
	}
	now := time.Now().UTC()
	r := &domain.MentalHealthResource{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    category,
		Description: description,
		Language:    language,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetResource fetches a directory entry by ID, or ErrNotFound.
func GetResource(ctx context.Context, db *gorm.DB, id string) (*domain.MentalHealthResource, error) {
	var r domain.MentalHealthResource
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}
