// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// InteractionsStats returns aggregate metadata for interactions of one type:
// the total number of rows and the greatest Timestamp among those rows.
//
// When there are no rows, the returned count is 0 and maxTimestamp is nil.
func InteractionsStats(ctx context.Context, db *gorm.DB, interactionType string) (count int64, maxTimestamp *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.UserInteraction{}).Where("interaction_type = ?", interactionType)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Latest timestamp (avoid MAX() -> TEXT in SQLite)
	var row struct {
		Timestamp time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.UserInteraction{}).
		Where("interaction_type = ?", interactionType).
		Select("timestamp").Order(newestFirst).Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.Timestamp, nil
}
