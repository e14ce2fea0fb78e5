package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&AnonymousUser{}, &MentalHealthResource{}, &MoodLog{},
		&UserInteraction{}, &GamificationData{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		AnonymousUser{}.TableName():        "anonymous_users",
		MoodLog{}.TableName():              "mood_logs",
		UserInteraction{}.TableName():      "user_interactions",
		GamificationData{}.TableName():     "gamification_data",
		MentalHealthResource{}.TableName(): "mental_health_resources",
		Idempotency{}.TableName():          "idempotency",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes(t *testing.T) {
	db := newDomainDB(t)
	m := db.Migrator()

	for _, tbl := range []any{&AnonymousUser{}, &MoodLog{}, &UserInteraction{}, &GamificationData{}, &MentalHealthResource{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&MoodLog{}, "idx_mood_user_created") {
		t.Fatalf("expected index idx_mood_user_created on mood_logs")
	}
	if !m.HasIndex(&UserInteraction{}, "idx_interaction_type_ts") {
		t.Fatalf("expected index idx_interaction_type_ts on user_interactions")
	}
}

func TestMoodLog_CheckConstraint_RejectsOutOfRange(t *testing.T) {
	db := newDomainDB(t)

	u := &AnonymousUser{ID: uuid.NewString(), AnonymousID: "anon-1", Language: "en", LastActiveAt: time.Now()}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	bad := &MoodLog{ID: uuid.NewString(), UserID: u.ID, MoodScore: 11, SentimentLabel: SentimentPositive, Language: "en"}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected check constraint failure for mood_score=11")
	}

	good := &MoodLog{
		ID: uuid.NewString(), UserID: u.ID, MoodScore: 8,
		Emotions: []string{"calm"}, Triggers: []string{},
		SentimentScore: 0.67, SentimentLabel: SentimentPositive, Language: "en",
	}
	if err := db.Create(good).Error; err != nil {
		t.Fatalf("valid mood log rejected: %v", err)
	}

	var got MoodLog
	if err := db.First(&got, "id = ?", good.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Emotions) != 1 || got.Emotions[0] != "calm" {
		t.Fatalf("emotions JSON round trip mismatch: %#v", got.Emotions)
	}
}

func TestUserDelete_CascadesMoodLogs_NullsInteractions(t *testing.T) {
	db := newDomainDB(t)

	u := &AnonymousUser{ID: uuid.NewString(), AnonymousID: "anon-2", Language: "en"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	ml := &MoodLog{ID: uuid.NewString(), UserID: u.ID, MoodScore: 5, SentimentLabel: SentimentNeutral, Language: "en"}
	if err := db.Create(ml).Error; err != nil {
		t.Fatalf("seed mood log: %v", err)
	}
	in := &UserInteraction{
		ID: uuid.NewString(), UserID: &u.ID, InteractionType: InteractionMoodLogged,
		EntityType: EntityMoodLog, EntityID: ml.ID, Timestamp: time.Now(), Language: "en",
	}
	if err := db.Create(in).Error; err != nil {
		t.Fatalf("seed interaction: %v", err)
	}

	if err := db.Delete(&AnonymousUser{}, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var logs int64
	db.Model(&MoodLog{}).Where("user_id = ?", u.ID).Count(&logs)
	if logs != 0 {
		t.Fatalf("expected mood logs cascade-deleted, got %d", logs)
	}
	var kept UserInteraction
	if err := db.First(&kept, "id = ?", in.ID).Error; err != nil {
		t.Fatalf("interaction should survive user deletion: %v", err)
	}
	if kept.UserID != nil {
		t.Fatalf("expected interaction user_id set NULL, got %v", *kept.UserID)
	}
}
