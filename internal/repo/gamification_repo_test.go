package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/mindwell-api/internal/domain"
)

func TestAwardMoodLogPoints_InsertThenIncrement(t *testing.T) {
	db := newTestDB(t, &domain.AnonymousUser{}, &domain.GamificationData{})
	ctx := context.Background()

	if _, err := GetGamification(ctx, db, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first award, got %v", err)
	}

	t1 := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	if err := AwardMoodLogPoints(ctx, db, "u1", 5, t1); err != nil {
		t.Fatalf("first award: %v", err)
	}
	g, err := GetGamification(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetGamification: %v", err)
	}
	if g.MoodLogsCount != 1 || g.TotalPoints != 5 || g.LastPointsEarned == nil || !g.LastPointsEarned.Equal(t1) {
		t.Fatalf("unexpected row after first award: %+v", g)
	}

	t2 := t1.Add(time.Hour)
	if err := AwardMoodLogPoints(ctx, db, "u1", 5, t2); err != nil {
		t.Fatalf("second award: %v", err)
	}
	g2, _ := GetGamification(ctx, db, "u1")
	if g2.ID != g.ID {
		t.Fatalf("upsert must keep a single row per user: %s vs %s", g2.ID, g.ID)
	}
	if g2.MoodLogsCount != 2 || g2.TotalPoints != 10 || !g2.LastPointsEarned.Equal(t2) {
		t.Fatalf("unexpected row after second award: %+v", g2)
	}
}

func TestAwardMoodLogPoints_Concurrent(t *testing.T) {
	db := newTestDB(t, &domain.AnonymousUser{}, &domain.GamificationData{})
	// A single connection serializes writers on the shared in-memory DB.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- AwardMoodLogPoints(ctx, db, "u-c", 5, time.Now().UTC())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("award: %v", err)
		}
	}

	g, err := GetGamification(ctx, db, "u-c")
	if err != nil {
		t.Fatalf("GetGamification: %v", err)
	}
	if g.MoodLogsCount != n || g.TotalPoints != 5*n {
		t.Fatalf("lost updates: %+v", g)
	}
}
