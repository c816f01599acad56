package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"cargo-broker/internal/config"
	"cargo-broker/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.Any("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, GetClientID(c)+"|"+GetRequestID(c))
	})
	return r
}

func TestClientIdentity(t *testing.T) {
	r := newRouter(RequestIDMiddleware(), ClientIdentityMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
	assert.True(t, strings.HasPrefix(w.Body.String(), DefaultClientID+"|"))

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set(ClientIDHeader, "  client-042 ")
	req.Header.Set(RequestIDHeader, "trace-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-042|trace-1", w.Body.String())
	assert.Equal(t, "trace-1", w.Header().Get(RequestIDHeader))
}

func TestClientIdentityTruncatesOnRuneBoundary(t *testing.T) {
	r := newRouter(ClientIdentityMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set(ClientIDHeader, strings.Repeat("a", maxClientIDLength-1)+"éé")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	clientID := strings.SplitN(w.Body.String(), "|", 2)[0]
	assert.True(t, utf8.ValidString(clientID))
	assert.Equal(t, strings.Repeat("a", maxClientIDLength-1), clientID)

	assert.Equal(t, "ab", truncateUTF8("abc", 2))
	assert.Equal(t, "日", truncateUTF8("日本", 4))
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	r := newRouter(RequestIDMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRateLimitPerClient(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	defer limiter.Stop()
	r := newRouter(ClientIdentityMiddleware(), RateLimitMiddleware(limiter))

	send := func(clientID string) int {
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set(ClientIDHeader, clientID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusOK, send("b"))
}

func TestRequestSizeLimit(t *testing.T) {
	r := newRouter(RequestSizeLimitMiddleware(8))

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"too":"large"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(SecurityHeadersMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestLoggingUsesRouteTemplate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	defer func(orig *zap.Logger) { logger.Logger = orig }(logger.Logger)
	logger.Logger = zap.New(core)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), ClientIdentityMiddleware(), LoggingMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/quotes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, logs.Len())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/req-abc", nil)
	req.Header.Set(ClientIDHeader, "client-042")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Request rejected", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "/api/v1/quotes/:id", fields["route"])
	assert.Equal(t, "req-abc", fields["resource_id"])
	assert.Equal(t, "client-042", fields["client_id"])
}

func TestCORSAlwaysAllowsClientHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}))
	r.GET("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", ClientIDHeader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-client-id")
}

func TestWithHeadersDeduplicates(t *testing.T) {
	got := withHeaders([]string{"x-client-id", "Accept"}, ClientIDHeader, RequestIDHeader)
	assert.Equal(t, []string{"x-client-id", "Accept", RequestIDHeader}, got)
}
