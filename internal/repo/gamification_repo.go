// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// GamificationData counters.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// AwardMoodLogPoints upserts the user's gamification row: a new row starts at
// (1, points); an existing row is incremented in place so concurrent
// submissions never lose an update.
func AwardMoodLogPoints(ctx context.Context, db *gorm.DB, userID string, points int, at time.Time) error {
	row := &domain.GamificationData{
		ID:               uuid.NewString(),
		UserID:           userID,
		MoodLogsCount:    1,
		TotalPoints:      points,
		LastPointsEarned: &at,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"mood_logs_count":    gorm.Expr("gamification_data.mood_logs_count + ?", 1),
			"total_points":       gorm.Expr("gamification_data.total_points + ?", points),
			"last_points_earned": at,
			"updated_at":         at,
		}),
	}).Create(row).Error
}

// GetGamification fetches the user's counters, or ErrNotFound.
func GetGamification(ctx context.Context, db *gorm.DB, userID string) (*domain.GamificationData, error) {
	var g domain.GamificationData
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}
