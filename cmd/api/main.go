package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricehunt/internal/alert"
	"pricehunt/internal/auth"
	"pricehunt/internal/catalog"
	"pricehunt/internal/config"
	"pricehunt/internal/database"
	"pricehunt/internal/feed"
	"pricehunt/internal/handler"
	"pricehunt/internal/repository"
	"pricehunt/internal/router"
	"pricehunt/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting pricehunt API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Load the mock catalogue served to the storefront
	seed, err := catalog.LoadSeedFile(cfg.Catalog.SeedPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	mockCatalog := catalog.NewFromSeed(seed, logger)

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	priceRepo := repository.NewPriceRepository(pool, logger)
	alertRepo := repository.NewAlertRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize services
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, nil)
	productService := service.NewProductService(productRepo, priceRepo, logger)
	priceService := service.NewPriceService(priceRepo, productRepo, logger)
	alertService := service.NewAlertService(alertRepo, productRepo, priceRepo, logger)
	userService := service.NewUserService(userRepo, tokens, logger)

	importer := feed.NewImporter(newFeedLoader(ctx, cfg.S3, logger), priceService, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Health:  handler.NewHealthHandler(pool, logger),
		Product: handler.NewProductHandler(productService, logger),
		Catalog: handler.NewCatalogHandler(mockCatalog, logger),
		Auth:    handler.NewAuthHandler(userService, logger),
		Alert:   handler.NewAlertHandler(alertService, logger),
		Admin:   handler.NewAdminHandler(priceService, importer, logger),
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		APIKey:         cfg.Auth.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Tokens:         tokens,
	}, logger)

	// Import startup feeds before serving so the first responses see them
	if len(cfg.Catalog.FeedPaths) > 0 {
		result, err := importer.Import(ctx, cfg.Catalog.FeedPaths)
		if err != nil {
			logger.Warn().Err(err).Int("failed", result.Failed).Msg("startup feed import finished with errors")
		}
	}

	// Start the price alert checker
	checker := alert.NewChecker(alertService, alert.NewLogNotifier(logger), cfg.Alerts.CheckInterval, cfg.Alerts.Workers, logger)
	checkerDone := make(chan struct{})
	go func() {
		defer close(checkerDone)
		checker.Run(ctx)
	}()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		cancel()
		<-checkerDone
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop background work first
		cancel()
		<-checkerDone

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newFeedLoader reads feeds from S3 with a local fallback when S3 is enabled,
// and from the local file system otherwise.
func newFeedLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) feed.Loader {
	fileLoader := feed.NewFileLoader(logger)

	if !cfg.Enabled {
		logger.Info().Msg("using local file system for price feeds (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := feed.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return feed.NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, true, logger)
}
