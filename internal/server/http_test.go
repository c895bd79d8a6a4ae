package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/learnhub/internal/auth/jwt"
	"github.com/gokatarajesh/learnhub/internal/config"
	"github.com/gokatarajesh/learnhub/internal/db"
	"github.com/gokatarajesh/learnhub/internal/history"
	"github.com/gokatarajesh/learnhub/internal/learning"
)

func testConfig() *config.App {
	return &config.App{
		HTTPAddr: "127.0.0.1:0",
		CORS: config.CORS{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         60,
		},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "quizrunner_test_total", Help: "test"}))
	router := NewRouter(testConfig(), zerolog.Nop(), Deps{Gatherer: reg}, Handlers{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quizrunner_test_total")
}

func TestPingChecksDependencies(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	conn, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "ping.db"))
	require.NoError(t, err)
	defer conn.Close()

	router := NewRouter(testConfig(), zerolog.Nop(), Deps{DB: conn, Redis: rdb}, Handlers{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mr.Close()
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

type staticValidator struct {
	manager *jwt.Manager
}

func (v staticValidator) ValidateToken(token string) (*jwt.Claims, error) {
	return v.manager.Validate(token)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	manager := jwt.NewManager(jwt.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "quizrunner"})
	store := history.NewSQLStore(nil)
	router := NewRouter(testConfig(), zerolog.Nop(), Deps{}, Handlers{
		Validator: staticValidator{manager: manager},
		History:   history.NewHTTPHandler(history.NewRepository(store), zerolog.Nop()),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_required")

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestThemesArePublicAndCoursesNeedLogin(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 9, "name": "Nutrition", "status": 1}]`))
	}))
	defer upstream.Close()

	manager := jwt.NewManager(jwt.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "quizrunner"})
	svc := learning.NewService(learning.NewClient(upstream.URL, upstream.Client()), nil, nil, zerolog.Nop())
	router := NewRouter(testConfig(), zerolog.Nop(), Deps{}, Handlers{
		Validator: staticValidator{manager: manager},
		Learning:  learning.NewHTTPHandler(svc, zerolog.Nop()),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/themes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nutrition")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/courses", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(testConfig(), zerolog.Nop(), Deps{}, Handlers{})

	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUpgraderChecksOrigin(t *testing.T) {
	up := NewUpgrader(testConfig().CORS)

	req := httptest.NewRequest(http.MethodGet, "/ws/notifications", nil)
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, up.CheckOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, up.CheckOrigin(req))
}
