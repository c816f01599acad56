package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cargo-broker/internal/advisory"
	"cargo-broker/internal/config"
	"cargo-broker/internal/database"
	"cargo-broker/internal/delivery/http/handler"
	"cargo-broker/internal/events"
	"cargo-broker/internal/infrastructure/storage"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/middleware"
	"cargo-broker/internal/pricing"
	"cargo-broker/internal/routes"
	"cargo-broker/internal/store"
	"cargo-broker/internal/usecase/partner"
	"cargo-broker/internal/usecase/quote"
	"cargo-broker/internal/usecase/settings"
	"cargo-broker/internal/watch"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("events_driver", cfg.Events.Driver),
	)

	db, err := database.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to open data store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close data store", zap.Error(err))
		}
	}()

	ctx := context.Background()
	collections := store.NewCollections(store.New(db.Backend, store.WithTTL(cfg.Storage.TTL())))

	requestRepository := storage.NewQuoteRepository(ctx, collections)
	partnerRepository := storage.NewPartnerRepository(ctx, collections)
	blockListRepository := storage.NewBlockListRepository(ctx, collections)
	settingsRepository := storage.NewSettingsRepository(ctx, collections, cfg.Pricing.DefaultFeePercent)

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		logger.Error("Failed to initialize event publisher, falling back to log",
			zap.String("driver", cfg.Events.Driver),
			zap.Error(err),
		)
		publisher = events.LogPublisher{}
	}
	dispatcher := events.NewDispatcher(publisher, 256, 5*time.Second)
	dispatcher.Start()
	defer dispatcher.Stop()

	guard := advisory.NewGuard(advisory.NewHTTPOracle(cfg.Advisory), cfg.Advisory)
	if cfg.Advisory.BaseURL == "" {
		guard.SetOffline(true)
		logger.Info("Advisory oracle not configured; serving fallbacks")
	}
	advisoryService := advisory.NewService(guard)

	quoteService := quote.NewService(
		requestRepository,
		partnerRepository,
		blockListRepository,
		settingsRepository,
		dispatcher,
		advisoryService,
		cfg.Storage.TTL(),
	)
	partnerService := partner.NewService(partnerRepository, blockListRepository, dispatcher)
	settingsService := settings.NewService(settingsRepository, pricing.RateBounds{
		Min: cfg.Pricing.MinFeePercent,
		Max: cfg.Pricing.MaxFeePercent,
	})

	watcher := watch.NewWatcher(
		requestRepository,
		quoteService,
		dispatcher,
		watch.Policy{Horizon: cfg.Storage.TTL(), Window: cfg.Watch.ExpiringWindow()},
		cfg.Watch.Interval,
		cfg.Watch.SweepInterval,
	)

	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	go watcher.Start(jobsCtx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	defer limiter.Stop()

	router := routes.SetupRoutes(cfg, routes.Handlers{
		Quotes:   handler.NewQuoteHandler(quoteService, partnerService, settingsService, advisoryService),
		Partners: handler.NewPartnerHandler(partnerService, quoteService),
		Settings: handler.NewSettingsHandler(settingsService),
		Advisory: handler.NewAdvisoryHandler(advisoryService, quoteService, watcher, dispatcher),
	}, db, limiter)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}
