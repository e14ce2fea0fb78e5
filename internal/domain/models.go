// Package domain defines the persistence models for anonymous users, mood
// logs, interactions, gamification counters, and directory resources. These
// types are mapped with GORM and form the core data layer of the platform.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AnonymousUser is a pseudonymous actor identified only by an opaque
// AnonymousID. No PII is stored on the row.
//
// Fields:
//   - ID: UUID primary key (char(36)); referenced by other tables.
//   - AnonymousID: opaque client-held identifier (unique).
//   - Language: preferred language tag, e.g. "en" or "ms".
//   - LastActiveAt: refreshed on every mood submission.
type AnonymousUser struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	AnonymousID  string    `json:"anonymousId"  gorm:"type:varchar(128);not null;uniqueIndex"`
	Language     string    `json:"language"     gorm:"type:varchar(16);not null;default:'en'"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the database table name for AnonymousUser.
func (AnonymousUser) TableName() string { return "anonymous_users" }

// MoodLog is one row per mood submission. SentimentScore and SentimentLabel
// are always derived from MoodScore via AnalyzeMood.
type MoodLog struct {
	ID             string                      `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID         string                      `json:"userId"         gorm:"type:char(36);not null;index:idx_mood_user_created,priority:1"`
	MoodScore      int                         `json:"moodScore"      gorm:"not null;check:mood_score BETWEEN 1 AND 10"`
	Emotions       datatypes.JSONSlice[string] `json:"emotions"`
	Notes          *string                     `json:"notes,omitempty" gorm:"type:text"`
	Triggers       datatypes.JSONSlice[string] `json:"triggers"`
	SentimentScore float64                     `json:"sentimentScore" gorm:"not null"`
	SentimentLabel SentimentLabel              `json:"sentimentLabel" gorm:"type:varchar(16);not null;check:sentiment_label IN ('positive','neutral','negative')"`
	Language       string                      `json:"language"       gorm:"type:varchar(16);not null;default:'en'"`
	CreatedAt      time.Time                   `json:"createdAt"      gorm:"index:idx_mood_user_created,priority:2"`

	User AnonymousUser `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MoodLog.
func (MoodLog) TableName() string { return "mood_logs" }

// Interaction types written by this service.
const (
	InteractionWhatsAppMessage = "WHATSAPP_MESSAGE"
	InteractionMoodLogged      = "mood_logged"
	// InteractionResourcePrefix is joined with a utilization action,
	// e.g. "resource_view".
	InteractionResourcePrefix = "resource_"
)

// Entity types referenced by UserInteraction.EntityType.
const (
	EntityMessage  = "message"
	EntityMoodLog  = "mood_log"
	EntityResource = "resource"
)

// UserInteraction is the generic event log. UserID is nullable because
// directory utilization can be recorded without an identified user.
// ResourceID is set only for resource utilization.
type UserInteraction struct {
	ID              string         `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID          *string        `json:"userId"          gorm:"type:char(36);index"`
	InteractionType string         `json:"interactionType" gorm:"type:varchar(64);not null;index:idx_interaction_type_ts,priority:1"`
	EntityType      string         `json:"entityType"      gorm:"type:varchar(32);not null"`
	EntityID        string         `json:"entityId"        gorm:"type:varchar(64);not null"`
	ResourceID      *string        `json:"resourceId,omitempty" gorm:"type:char(36);index"`
	Metadata        datatypes.JSON `json:"metadata"`
	Timestamp       time.Time      `json:"timestamp"       gorm:"not null;index:idx_interaction_type_ts,priority:2"`
	Language        string         `json:"language"        gorm:"type:varchar(16);not null;default:'en'"`

	User     *AnonymousUser        `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Resource *MentalHealthResource `json:"-" gorm:"foreignKey:ResourceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserInteraction.
func (UserInteraction) TableName() string { return "user_interactions" }

// GamificationData holds per-user engagement counters. There is at most one
// row per user; mood logging upserts it.
type GamificationData struct {
	ID               string     `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID           string     `json:"userId"           gorm:"type:char(36);not null;uniqueIndex"`
	MoodLogsCount    int        `json:"moodLogsCount"    gorm:"not null;default:0"`
	TotalPoints      int        `json:"totalPoints"      gorm:"not null;default:0"`
	LastPointsEarned *time.Time `json:"lastPointsEarned,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	User AnonymousUser `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for GamificationData.
func (GamificationData) TableName() string { return "gamification_data" }

// MentalHealthResource is a directory entry (helpline, clinic, self-help
// material). Utilization is counted from UserInteraction rows carrying its ID.
type MentalHealthResource struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(255);not null"`
	Category    string    `json:"category"    gorm:"type:varchar(64);index"`
	Description string    `json:"description" gorm:"type:text"`
	Language    string    `json:"language"    gorm:"type:varchar(16);not null;default:'en'"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the database table name for MentalHealthResource.
func (MentalHealthResource) TableName() string { return "mental_health_resources" }
