package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blakestevenson/moodreel/internal/auth"
	"github.com/blakestevenson/moodreel/internal/auth/providers"
	"github.com/blakestevenson/moodreel/internal/catalog"
	"github.com/blakestevenson/moodreel/internal/config"
	"github.com/blakestevenson/moodreel/internal/db"
	"github.com/blakestevenson/moodreel/internal/history"
	httpserver "github.com/blakestevenson/moodreel/internal/http"
	"github.com/blakestevenson/moodreel/internal/logging"
	"github.com/blakestevenson/moodreel/internal/mood"
	"github.com/blakestevenson/moodreel/internal/tmdb"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.NewLogger(cfg.IsDevelopment(), logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Moodreel server",
		zap.String("environment", cfg.Environment),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	if cfg.GeneratedSecret {
		logger.Warn("JWT_SECRET not set; using a random secret, sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	var store db.Store
	if cfg.HasDatabase() {
		dbPool, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{
			MaxConns: int32(cfg.DBMaxConns),
			MinConns: int32(cfg.DBMinConns),
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer dbPool.Close()

		if err := db.Migrate(ctx, dbPool, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}

		logger.Info("Connected to database")
		store = db.NewPostgresStore(dbPool)
	} else {
		logger.Warn("DATABASE_URL not set; accounts and history are kept in memory")
		store = db.NewMemoryStore()
	}

	// Initialize upstream clients
	tmdbClient := tmdb.NewClient(tmdb.Config{
		BaseURL:        cfg.TMDBBaseURL,
		ImageBaseURL:   cfg.TMDBImageBaseURL,
		BearerToken:    cfg.TMDBBearerToken,
		Timeout:        cfg.TMDBTimeout,
		RateLimit:      cfg.TMDBRateLimit,
		RetryAttempts:  cfg.TMDBRetryAttempts,
		SearchCacheTTL: cfg.SearchCacheTTL,
	}, logger.Named("tmdb"))
	moodClient := mood.NewClient(cfg.MoodAPIURL, cfg.MoodTimeout, logger.Named("mood"))

	// Initialize services
	catalogService := catalog.NewService(tmdbClient, moodClient, catalog.Options{
		ListLimit:          cfg.ListLimit,
		MaxRecommendations: cfg.MaxRecommendations,
		EnrichWorkers:      cfg.EnrichWorkers,
		GenreCacheTTL:      cfg.GenreCacheTTL,
	}, logger.Named("catalog"))

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 0) // Use default expiry
	passwordProvider := providers.NewPasswordProvider(store, 0)
	authService := auth.NewService(store, jwtManager, passwordProvider, logger.Named("auth"))
	historyService := history.NewService(store, logger.Named("history"))

	// Keep the genre table warm in the background
	var warmer *catalog.Warmer
	if cfg.WarmInterval > 0 && cfg.GenreCacheTTL > 0 {
		warmer = catalog.NewWarmer(catalogService, cfg.WarmInterval, logger.Named("warmer"))
		if err := warmer.Start(ctx); err != nil {
			logger.Fatal("Failed to start genre warmer", zap.Error(err))
		}
	}

	// Initialize HTTP router
	router := httpserver.NewRouter(catalogService, authService, historyService, httpserver.Options{
		RecommendRatePerMin: cfg.RecommendRatePerMin,
		SecureCookies:       cfg.IsProduction(),
	}, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("address", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Block until a signal or error is received
	select {
	case err := <-serverErrors:
		logger.Fatal("Server error", zap.Error(err))

	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		if warmer != nil {
			warmer.Stop()
		}

		// Give outstanding requests a deadline for completion
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Error("Failed to close server", zap.Error(err))
			}
		}

		logger.Info("Server stopped")
	}
}
