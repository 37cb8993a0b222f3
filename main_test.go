package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"mediahub/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() config.Config {
	return config.Config{
		AppPort:          ":0",
		CORSOrigins:      "*",
		DBDriver:         "sqlite",
		DatabaseDSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecret:        "test_jwt_secret",
		JWTExpiresIn:     time.Hour,
		OpenverseBaseURL: "http://127.0.0.1:1/",
		OpenverseTimeout: time.Second,
	}
}

func TestNewAppServesHealthAndRoutes(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	defer app.Shutdown()

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "healthy", health["status"])

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Fiber.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/search_history?username=alice", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewAppUnreachableOpenverse(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	defer app.Shutdown()

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/rate_limit", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	// The credential exchange fails first.
	assert.Equal(t, "transport_error", body["kind"])
}

func TestNewAppRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DBDriver = "oracle"
	_, err := NewApp(cfg)
	assert.Error(t, err)
}
