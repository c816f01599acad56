package routes

import (
	"net/http"

	"cargo-broker/internal/config"
	"cargo-broker/internal/delivery/http/handler"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/middleware"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether the storage backend is reachable and which
// driver serves it.
type HealthChecker interface {
	Health() error
	Driver() string
}

type Handlers struct {
	Quotes   *handler.QuoteHandler
	Partners *handler.PartnerHandler
	Settings *handler.SettingsHandler
	Advisory *handler.AdvisoryHandler
}

func SetupRoutes(cfg *config.Config, h Handlers, health HealthChecker, limiter *middleware.RateLimiter) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware in order: recovery, request ID, client identity, logging, security headers, CORS, request size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ClientIdentityMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	if limiter != nil {
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	driver := cfg.Storage.Driver
	if health != nil {
		driver = health.Driver()
	}

	healthHandler := func(c *gin.Context) {
		if health != nil {
			if err := health.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "Storage backend unavailable",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
			"storage": driver,
		})
	}
	router.GET("/health", healthHandler)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler)

		// Client routes
		h.Quotes.RegisterClientRoutes(v1)
		h.Partners.RegisterClientRoutes(v1)
		h.Advisory.RegisterClientRoutes(v1)

		// Partner routes
		h.Quotes.RegisterPartnerRoutes(v1)
		h.Partners.RegisterPartnerRoutes(v1)

		admin := v1.Group("/admin")
		{
			h.Quotes.RegisterAdminRoutes(admin)
			h.Partners.RegisterAdminRoutes(admin)
			h.Settings.RegisterAdminRoutes(admin)
			h.Advisory.RegisterAdminRoutes(admin)
		}
	}

	logger.Info("All routes initialized")
	return router
}
