package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/http/middleware"
	"github.com/tbourn/mindwell-api/internal/repo"
	"github.com/tbourn/mindwell-api/internal/services"
)

// ---------- test plumbing ----------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newRouter mounts h the way the API router does, minus the outer stack.
func newRouter(h *Handlers, idem middleware.IdempotencyLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, idem))
	r.POST("/mood/log", h.LogMood)
	r.GET("/messages", h.ListMessages)
	r.POST("/messages", h.PostMessage)
	r.GET("/resources/utilization", h.ResourceUtilizationMetrics)
	r.POST("/resources/utilization", h.TrackResourceUtilization)
	r.GET("/directory/utilization", h.DirectoryAnalytics)
	r.POST("/directory/utilization", h.TrackDirectoryUtilization)
	return r
}

func doJSON(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return er
}

// ---------- stubs ----------

type stubMoodSvc struct {
	log   func(ctx context.Context, in services.MoodInput) (*services.MoodResult, error)
	get   func(ctx context.Context, id string) (*services.MoodResult, error)
	calls int
}

func (s *stubMoodSvc) Log(ctx context.Context, in services.MoodInput) (*services.MoodResult, error) {
	s.calls++
	return s.log(ctx, in)
}

func (s *stubMoodSvc) Get(ctx context.Context, id string) (*services.MoodResult, error) {
	if s.get == nil {
		return nil, services.ErrMoodLogNotFound
	}
	return s.get(ctx, id)
}

type stubMsgSvc struct {
	list   func(ctx context.Context, limit int) ([]domain.UserInteraction, error)
	record func(ctx context.Context, in services.MessageInput) (*domain.UserInteraction, error)
	stats  func(ctx context.Context) (int64, *time.Time, error)
	calls  int
}

func (s *stubMsgSvc) ListRecent(ctx context.Context, limit int) ([]domain.UserInteraction, error) {
	s.calls++
	return s.list(ctx, limit)
}

func (s *stubMsgSvc) Record(ctx context.Context, in services.MessageInput) (*domain.UserInteraction, error) {
	s.calls++
	return s.record(ctx, in)
}

func (s *stubMsgSvc) Get(context.Context, string) (*domain.UserInteraction, error) {
	return nil, services.ErrMessageNotFound
}

func (s *stubMsgSvc) Stats(ctx context.Context) (int64, *time.Time, error) {
	if s.stats == nil {
		return 0, nil, nil
	}
	return s.stats(ctx)
}

type stubUtilSvc struct {
	track   func(ctx context.Context, in services.UtilizationInput) error
	metrics func(ctx context.Context, resourceID string) (domain.UtilizationMetrics, error)
}

func (s stubUtilSvc) Track(ctx context.Context, in services.UtilizationInput) error {
	return s.track(ctx, in)
}

func (s stubUtilSvc) Metrics(ctx context.Context, resourceID string) (domain.UtilizationMetrics, error) {
	return s.metrics(ctx, resourceID)
}

// recordingManager is a DirectoryManager that remembers every call.
type recordingManager struct {
	err   error
	calls []string
}

func (m *recordingManager) TrackUtilization(_ context.Context, resourceID, action string, _ *domain.Demographics) error {
	m.calls = append(m.calls, resourceID+"/"+action)
	return m.err
}
