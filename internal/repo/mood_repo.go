// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the MoodLog
// model.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// CreateMoodLog inserts m as-is. Callers assign ID, sentiment and timestamps.
func CreateMoodLog(ctx context.Context, db *gorm.DB, m *domain.MoodLog) error {
	return db.WithContext(ctx).Create(m).Error
}

// GetMoodLog fetches a mood log by ID, or ErrNotFound.
func GetMoodLog(ctx context.Context, db *gorm.DB, id string) (*domain.MoodLog, error) {
	var m domain.MoodLog
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
