package httpapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/mindwell-api/internal/config"
	"github.com/tbourn/mindwell-api/internal/directory"
	"github.com/tbourn/mindwell-api/internal/domain"
	"github.com/tbourn/mindwell-api/internal/http/middleware"
	"github.com/tbourn/mindwell-api/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:routerdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api",
		RateRPS:        100,
		RateBurst:      100,
		CORS:           config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:       config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		MoodPoints:     5,
		MessagesLimit:  50,
		IdempotencyTTL: time.Hour,
	}
}

func serve(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), nil, nil, testConfig())

	// /health works
	w := serve(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	// no-store is scoped to the API
	if cc := w.Header().Get("Cache-Control"); cc == "no-store" {
		t.Fatalf("/health must not be no-store")
	}

	// /metrics is wired
	w = serve(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	w = serve(r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 on every API route
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/health"},
		{http.MethodGet, "/api/mood/log"},
		{http.MethodDelete, "/api/messages"},
		{http.MethodPut, "/api/resources/utilization"},
		{http.MethodPatch, "/api/directory/utilization"},
	} {
		w = serve(r, tc.method, tc.path, "", nil)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s expected 405, got %d", tc.method, tc.path, w.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "method_not_allowed" {
			t.Fatalf("unexpected 405 body: %s", w.Body.String())
		}
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := testConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	RegisterRoutes(r, newTestDB(t), nil, nil, cfg)

	w := serve(r, http.MethodGet, "/health", "", map[string]string{"Origin": "http://example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := serve(r, http.MethodPost, "/echo", "0123456789AB", nil) // 12 bytes
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	// non-root prefix
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := serve(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}

// End to end: mood log, message ingestion and listing through the full stack.
func TestAPI_MoodAndMessagesFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	ctx := context.Background()
	u, err := repo.CreateUser(ctx, db, "anon-flow", "ms")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	RegisterRoutes(r, db, nil, nil, testConfig())

	// mood
	w := serve(r, http.MethodPost, "/api/mood/log", `{"anonymousId":"anon-flow","moodScore":6,"emotions":["tired"]}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("mood: %d %s", w.Code, w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("API responses must be no-store, got %q", cc)
	}
	var mood struct {
		MoodLogID         string `json:"moodLogId"`
		SentimentAnalysis struct {
			Score float64 `json:"score"`
			Label string  `json:"label"`
		} `json:"sentimentAnalysis"`
		PointsEarned int    `json:"pointsEarned"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &mood); err != nil {
		t.Fatalf("json: %v", err)
	}
	if mood.MoodLogID == "" || mood.SentimentAnalysis.Label != "neutral" || mood.PointsEarned != 5 || mood.Message == "" {
		t.Fatalf("unexpected mood response: %+v", mood)
	}
	g, err := repo.GetGamification(ctx, db, u.ID)
	if err != nil || g.MoodLogsCount != 1 || g.TotalPoints != 5 {
		t.Fatalf("gamification: %+v %v", g, err)
	}

	// unknown user → 404
	if w := serve(r, http.MethodPost, "/api/mood/log", `{"anonymousId":"ghost","moodScore":6}`, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown user: %d", w.Code)
	}

	// messages
	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"userId":%q,"messageContent":"msg %d","phoneNumber":"+60123456789"}`, u.ID, i)
		if w := serve(r, http.MethodPost, "/api/messages", body, nil); w.Code != http.StatusCreated {
			t.Fatalf("post message %d: %d %s", i, w.Code, w.Body.String())
		}
	}
	if w := serve(r, http.MethodPost, "/api/messages", `{"messageContent":"no user"}`, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing userId: %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/api/messages", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "60123456789") {
		t.Fatalf("list leaks phone number: %s", w.Body.String())
	}
	var list []struct {
		ID        string    `json:"id"`
		Timestamp time.Time `json:"timestamp"`
		User      struct {
			AnonymousID string `json:"anonymousId"`
			Language    string `json:"language"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list len = %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Timestamp.After(list[i-1].Timestamp) {
			t.Fatalf("list not newest first: %v", list)
		}
	}
	if list[0].User.AnonymousID != "anon-flow" || list[0].User.Language != "ms" {
		t.Fatalf("user not joined: %+v", list[0].User)
	}

	// conditional GET survives the no-store middleware
	etag := w.Header().Get("ETag")
	if etag == "" || w.Header().Get("Cache-Control") != "private, no-cache" {
		t.Fatalf("missing ETag or cache override: %v", w.Header())
	}
	if w := serve(r, http.MethodGet, "/api/messages", "", map[string]string{"If-None-Match": etag}); w.Code != http.StatusNotModified {
		t.Fatalf("If-None-Match: %d", w.Code)
	}

	// gzip negotiated
	w = serve(r, http.MethodGet, "/api/messages", "", map[string]string{"Accept-Encoding": "gzip"})
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, headers=%v", w.Header())
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	raw, _ := io.ReadAll(zr)
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		t.Fatalf("unexpected gzip payload: %q", raw)
	}
}

func TestAPI_UtilizationVariants(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	res, err := repo.CreateResource(context.Background(), db, "MIASA", "helpline", "peer support", "en")
	if err != nil {
		t.Fatalf("seed resource: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	RegisterRoutes(r, db, directory.NewRedisManager(rdb), rdb, testConfig())

	// variant A
	if w := serve(r, http.MethodPost, "/api/resources/utilization", `{"resourceId":"`+res.ID+`","action":"download"}`, nil); w.Code != http.StatusOK {
		t.Fatalf("A post: %d %s", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodPost, "/api/resources/utilization", `{"resourceId":"`+res.ID+`","action":"qr_scan"}`, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("A qr_scan must be rejected: %d", w.Code)
	}
	w := serve(r, http.MethodGet, "/api/resources/utilization?resourceId="+res.ID, "", nil)
	if !strings.Contains(w.Body.String(), `"resource_download":1`) {
		t.Fatalf("A metrics: %s", w.Body.String())
	}

	// variant B goes to the redis manager
	if w := serve(r, http.MethodPost, "/api/directory/utilization", `{"resourceId":"clinic-1","action":"qr_scan","userDemographics":{"ageGroup":"25-34"}}`, nil); w.Code != http.StatusOK {
		t.Fatalf("B post: %d %s", w.Code, w.Body.String())
	}
	counts, err := rdb.HGetAll(context.Background(), directory.DefaultKeyPrefix+"clinic-1").Result()
	if err != nil || counts[directory.FieldTotal] != "1" || counts["action:qr_scan"] != "1" || counts["age_group:25-34"] != "1" {
		t.Fatalf("redis counts: %v %v", counts, err)
	}
	w = serve(r, http.MethodGet, "/api/directory/utilization?resourceId=clinic-1", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"resourceId":"clinic-1"`) {
		t.Fatalf("B get: %d %s", w.Code, w.Body.String())
	}

	// the redis limiter is in the chain
	if keys := mr.Keys(); len(keys) == 0 {
		t.Fatalf("expected rate-limit and utilization keys in redis")
	}
}

func TestRegisterRoutes_IdempotencyReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	db := newTestDB(t)
	u, err := repo.CreateUser(context.Background(), db, "anon-retry", "en")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	RegisterRoutes(r, db, nil, nil, testConfig())

	body := `{"userId":"` + u.ID + `","messageContent":"retry me"}`
	headers := map[string]string{middleware.HeaderIdempotencyKey: "retry-1"}
	first := serve(r, http.MethodPost, "/api/messages", body, headers)
	second := serve(r, http.MethodPost, "/api/messages", body, headers)
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("statuses: %d %d", first.Code, second.Code)
	}
	if second.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("second request was not replayed")
	}
	var n int64
	db.Model(&domain.UserInteraction{}).Where("interaction_type = ?", domain.InteractionWhatsAppMessage).Count(&n)
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}

	// same key on another route is a different scope
	moodBody := `{"anonymousId":"anon-retry","moodScore":8}`
	if w := serve(r, http.MethodPost, "/api/mood/log", moodBody, headers); w.Code != http.StatusCreated || w.Header().Get(middleware.HeaderIdempotencyReplayed) != "" {
		t.Fatalf("cross-route key must not replay: %d %v", w.Code, w.Header())
	}

	// malformed key
	w := serve(r, http.MethodPost, "/api/messages", body, map[string]string{middleware.HeaderIdempotencyKey: "bad key!"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad key: %d", w.Code)
	}
}

func TestRegisterRoutes_RateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig()
	cfg.RateRPS = 0.0001
	cfg.RateBurst = 1
	RegisterRoutes(r, newTestDB(t), nil, nil, cfg)

	if w := serve(r, http.MethodGet, "/api/directory/utilization", "", nil); w.Code != http.StatusOK {
		t.Fatalf("first: %d", w.Code)
	}
	w := serve(r, http.MethodGet, "/api/directory/utilization", "", nil)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected 429 with Retry-After, got %d %v", w.Code, w.Header())
	}
	// buckets are per route
	if w := serve(r, http.MethodGet, "/api/resources/utilization", "", nil); w.Code != http.StatusOK {
		t.Fatalf("other route: %d", w.Code)
	}
}

func Test_redisRateWindow(t *testing.T) {
	cases := []struct {
		rps   float64
		burst int
		want  time.Duration
	}{
		{5, 10, 2 * time.Second},
		{10, 10, time.Second},
		{0.5, 3, 6 * time.Second},
		{4, 0, 250 * time.Millisecond},
		{0, 10, 24 * time.Hour},
	}
	for _, tc := range cases {
		if got := redisRateWindow(tc.rps, tc.burst); got != tc.want {
			t.Fatalf("redisRateWindow(%v, %d) = %v; want %v", tc.rps, tc.burst, got, tc.want)
		}
	}
}
