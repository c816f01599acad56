package middleware

import (
	"net/http"
	"time"

	"cargo-broker/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware applies the configured policy. Browsers must always be able
// to send X-Client-ID and read X-Request-ID and Content-Disposition, so those
// headers are added even when the configuration omits them.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	}

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     methods,
		AllowHeaders:     withHeaders(cfg.AllowedHeaders, "Content-Type", ClientIDHeader, RequestIDHeader),
		ExposeHeaders:    withHeaders(cfg.ExposedHeaders, RequestIDHeader, "Content-Disposition", "Retry-After"),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}

	return cors.New(corsConfig)
}

func withHeaders(configured []string, required ...string) []string {
	out := append([]string(nil), configured...)
	seen := make(map[string]struct{}, len(out))
	for _, h := range out {
		seen[http.CanonicalHeaderKey(h)] = struct{}{}
	}
	for _, h := range required {
		if _, ok := seen[http.CanonicalHeaderKey(h)]; !ok {
			out = append(out, h)
		}
	}
	return out
}
