package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopcart/internal/catalog"
	"shopcart/internal/config"
	"shopcart/internal/coupon"
	"shopcart/internal/database"
	"shopcart/internal/events"
	"shopcart/internal/handler"
	"shopcart/internal/repository"
	"shopcart/internal/router"
	"shopcart/internal/service"
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
	logger.Info().Msg("starting shopcart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repository
	cartRepo := repository.NewCartRepository(pool, logger)

	// Initialize catalog gateway with optional Redis cache
	gateway := catalog.NewPostgresGateway(pool, logger)
	if cfg.Redis.Enabled {
		rdb, err := database.NewRedis(ctx, cfg.Redis.Addr, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, catalog cache disabled")
		} else {
			defer rdb.Close()
			gateway = catalog.NewCachedGateway(gateway, rdb, logger)
		}
	}

	// Seed coupon definitions from the configured source
	if cfg.Coupons.Source != "" {
		var loader coupon.Loader
		location := cfg.Coupons.FilePath

		if cfg.Coupons.Source == "s3" {
			loader, err = coupon.NewS3Loader(ctx, cfg.Coupons.Bucket, cfg.Coupons.Region, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize S3 coupon loader: %w", err)
			}
			location = cfg.Coupons.Key
		} else {
			loader = coupon.NewFileLoader(logger)
		}

		defs, err := loader.Load(ctx, location)
		if err != nil {
			return fmt.Errorf("failed to load coupon definitions: %w", err)
		}

		if err := coupon.Seed(ctx, defs, cartRepo, logger); err != nil {
			return fmt.Errorf("failed to seed coupons: %w", err)
		}
	}

	// Initialize operation event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("operation event publisher started")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize service and HTTP surface
	cartService := service.NewCartService(cartRepo, gateway, publisher, logger)
	cartHandler := handler.NewCartHandler(cartService, cfg.Development, logger)
	mux := router.New(cartHandler, cfg.Auth.APIKey, logger)

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
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
