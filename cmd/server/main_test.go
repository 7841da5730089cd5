package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-be/internal/config"
	"storefront-be/internal/events"
	"storefront-be/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		AppPort:       "8080",
		AppEnv:        "test",
		StoreBackend:  config.BackendMemory,
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		StockPolicy:   config.StockPolicyAllowNegative,
		StatusPolicy:  config.StatusPolicyForward,
		SeedData:      true,
		AdminEmail:    "admin@test.com",
		AdminPassword: "admin123",
		AdminName:     "Admin",
		CORSOrigin:    "http://localhost:3000",
	}
}

func TestNewServer(t *testing.T) {
	handler, limiter, err := newServer(context.Background(), testConfig(), store.NewMemory(), events.NopPublisher{})
	require.NoError(t, err)
	require.NotNil(t, limiter)

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"ok"`)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("seeded catalog", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var products []map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
		assert.NotEmpty(t, products)
	})

	t.Run("seeded admin can log in", func(t *testing.T) {
		body := strings.NewReader(`{"email":"admin@test.com","password":"admin123"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"role":"admin"`)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestNewServer_NoSeed(t *testing.T) {
	cfg := testConfig()
	cfg.SeedData = false

	handler, _, err := newServer(context.Background(), cfg, store.NewMemory(), events.NopPublisher{})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestNewPublisher(t *testing.T) {
	p, err := newPublisher(testConfig())
	require.NoError(t, err)
	assert.IsType(t, events.NopPublisher{}, p)
}

func TestNewStore_Memory(t *testing.T) {
	st, err := newStore(context.Background(), testConfig())
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, st)
}

func TestRun(t *testing.T) {
	origStart := startServerFunc
	defer func() { startServerFunc = origStart }()

	var addr string
	startServerFunc = func(srv *http.Server) error {
		addr = srv.Addr
		return http.ErrServerClosed
	}

	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("KAFKA_BROKERS", "")

	assert.NoError(t, run())
	assert.Equal(t, ":9090", addr)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("JWT_SECRET", "")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestRun_StoreError(t *testing.T) {
	origStore := initStoreFunc
	defer func() { initStoreFunc = origStore }()
	initStoreFunc = func(context.Context, *config.Config) (store.Store, error) {
		return nil, errors.New("store down")
	}

	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("JWT_SECRET", "test-secret")

	assert.EqualError(t, run(), "store down")
}
