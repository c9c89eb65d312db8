package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b3data/ettj/internal/api/handlers"
	"github.com/b3data/ettj/pkg/config"
	"github.com/b3data/ettj/pkg/logger"
)

func testRouter() http.Handler {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return NewRouter(handlers.NewCurveHandler(nil, log), log)
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ettj-api", body["service"])
}

func TestCurveRouteRejectsPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/curve?product=DI1", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCurveRouteValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/curve", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
