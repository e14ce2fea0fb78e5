package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/mindwell-api/internal/domain"
)

func newIdemDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestGetIdempotency_BlankScopeOrKey_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	if rec, err := GetIdempotency(context.Background(), db, "   ", "k1", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank scope, got (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "POST /api/messages", "", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for blank key, got (%v, %v)", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	// Insert an expired record (expires_at <= now)
	exp := &domain.Idempotency{
		ID:         "expired",
		Scope:      "POST /api/mood/log",
		Key:        "k1",
		ResourceID: "m0",
		Status:     201,
		CreatedAt:  now.Add(-2 * time.Hour),
		ExpiresAt:  now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "POST /api/mood/log", "k1", now)
	if rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}

	// Also check a totally missing key
	rec2, err2 := GetIdempotency(context.Background(), db, "POST /api/mood/log", "missing", now)
	if rec2 != nil || err2 != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec2, err2)
	}
}

func TestGetIdempotency_Success(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	ok := &domain.Idempotency{
		ID:         "ok",
		Scope:      "POST /api/messages",
		Key:        "k2",
		ResourceID: "i1",
		Status:     201,
		CreatedAt:  now.Add(-time.Minute),
		ExpiresAt:  now.Add(time.Hour),
	}
	if err := db.Create(ok).Error; err != nil {
		t.Fatalf("seed ok: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "POST /api/messages", "k2", now)
	if err != nil {
		t.Fatalf("GetIdempotency success err: %v", err)
	}
	if rec == nil || rec.ResourceID != "i1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	// Same key under another scope is a different record.
	if _, err := GetIdempotency(context.Background(), db, "POST /api/mood/log", "k2", now); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound across scopes, got %v", err)
	}
}

func TestCreateIdempotency_SuccessAndDuplicate(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})

	ttl := 90 * time.Minute
	start := time.Now().UTC()

	// Success
	rec, err := CreateIdempotency(context.Background(), db, "POST /api/mood/log", "k9", "h9", "m9", 201, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency error: %v", err)
	}
	if rec == nil || rec.ID == "" || rec.Scope != "POST /api/mood/log" || rec.Key != "k9" || rec.ResourceID != "m9" || rec.RequestHash != "h9" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	// Loose bound to avoid timing flakes.
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	// Duplicate (same scope, key) should map to ErrDuplicate
	_, err2 := CreateIdempotency(context.Background(), db, "POST /api/mood/log", "k9", "h9", "mX", 201, ttl)
	if err2 != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err2)
	}
}

// Generic DB error path: attempt insert without migrating the table.
func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newIdemDB(t) // intentionally NOT migrating
	_, err := CreateIdempotency(context.Background(), db, "POST /api/messages", "kX", "", "mX", 201, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}

func TestIdempotencyStore_SaveLookupExists(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	store := NewIdempotencyStore(db, 0)
	if store.TTL != DefaultIdempotencyTTL {
		t.Fatalf("TTL = %v; want default", store.TTL)
	}
	ctx := context.Background()
	now := time.Now().UTC()

	if ok, err := store.Exists(ctx, "POST /api/messages", "k1", now); ok || err != nil {
		t.Fatalf("Exists before Save = %v, %v", ok, err)
	}
	if _, _, _, found := store.Lookup(ctx, "POST /api/messages", "k1", now); found {
		t.Fatalf("Lookup before Save found a record")
	}

	if err := store.Save(ctx, "POST /api/messages", "k1", "fp-1", "msg-1", 201); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// first writer wins
	if err := store.Save(ctx, "POST /api/messages", "k1", "fp-2", "msg-2", 201); err != nil {
		t.Fatalf("duplicate Save: %v", err)
	}

	id, hash, status, found := store.Lookup(ctx, "POST /api/messages", "k1", now)
	if !found || id != "msg-1" || hash != "fp-1" || status != 201 {
		t.Fatalf("Lookup = %q, %q, %d, %v", id, hash, status, found)
	}
	if ok, err := store.Exists(ctx, "POST /api/messages", "k1", now); !ok || err != nil {
		t.Fatalf("Exists after Save = %v, %v", ok, err)
	}
	// same key under another scope is independent
	if _, _, _, found := store.Lookup(ctx, "POST /api/mood/log", "k1", now); found {
		t.Fatalf("scopes must not collide")
	}
	// expired
	if _, _, _, found := store.Lookup(ctx, "POST /api/messages", "k1", now.Add(25*time.Hour)); found {
		t.Fatalf("expired record must not replay")
	}
}

func TestIdempotencyStore_Exists_ErrorWithoutTable(t *testing.T) {
	store := NewIdempotencyStore(newIdemDB(t), time.Minute)
	ok, err := store.Exists(context.Background(), "POST /api/messages", "k", time.Now().UTC())
	if ok || err == nil {
		t.Fatalf("expected error without table, got %v, %v", ok, err)
	}
}
