// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// UserInteraction event log.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// newestFirst orders by (timestamp DESC, id DESC). The column is quoted
// because "timestamp" is a keyword on PostgreSQL.
var newestFirst = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "timestamp"}, Desc: true},
	{Column: clause.Column{Name: "id"}, Desc: true},
}}

// CreateInteraction inserts in as-is. Callers assign ID and Timestamp.
func CreateInteraction(ctx context.Context, db *gorm.DB, in *domain.UserInteraction) error {
	return db.WithContext(ctx).Create(in).Error
}

// GetInteraction fetches an interaction by ID, or ErrNotFound.
func GetInteraction(ctx context.Context, db *gorm.DB, id string) (*domain.UserInteraction, error) {
	var in domain.UserInteraction
	if err := db.WithContext(ctx).Where("id = ?", id).First(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// ListRecentInteractions returns up to limit interactions of the given type,
// newest first (Timestamp DESC, ID DESC), with the owning user preloaded.
func ListRecentInteractions(ctx context.Context, db *gorm.DB, interactionType string, limit int) ([]domain.UserInteraction, error) {
	var out []domain.UserInteraction
	q := db.WithContext(ctx).
		Preload("User").
		Where("interaction_type = ?", interactionType).
		Order(newestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountResourceInteractions uses a raw COUNT so a missing table surfaces as an error.
func CountResourceInteractions(ctx context.Context, db *gorm.DB, resourceID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM user_interactions WHERE resource_id = ?", resourceID).
		Scan(&total).Error
	return total, err
}

// CountResourceInteractionsByType groups a resource's interactions by
// interaction type.
func CountResourceInteractionsByType(ctx context.Context, db *gorm.DB, resourceID string) (map[string]int64, error) {
	var rows []struct {
		InteractionType string
		N               int64
	}
	err := db.WithContext(ctx).
		Model(&domain.UserInteraction{}).
		Select("interaction_type, COUNT(*) AS n").
		Where("resource_id = ?", resourceID).
		Group("interaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.InteractionType] = r.N
	}
	return out, nil
}
