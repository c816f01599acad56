package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cargo-broker/internal/config"
	"cargo-broker/internal/delivery/http/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct {
	err error
}

func (s stubHealth) Health() error  { return s.err }
func (s stubHealth) Driver() string { return "sqlite" }

func newRouter(health HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	return SetupRoutes(cfg, Handlers{
		Quotes:   &handler.QuoteHandler{},
		Partners: &handler.PartnerHandler{},
		Settings: &handler.SettingsHandler{},
		Advisory: &handler.AdvisoryHandler{},
	}, health, nil)
}

func TestHealthReportsStorageDriver(t *testing.T) {
	r := newRouter(stubHealth{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "sqlite", body["storage"])
}

func TestHealthUnavailableBackend(t *testing.T) {
	r := newRouter(stubHealth{err: errors.New("locked")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
