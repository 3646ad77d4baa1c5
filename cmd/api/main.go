package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/momento/internal/api"
	"github.com/saturnino-fabrica-de-software/momento/internal/audit"
	"github.com/saturnino-fabrica-de-software/momento/internal/auth"
	"github.com/saturnino-fabrica-de-software/momento/internal/config"
	"github.com/saturnino-fabrica-de-software/momento/internal/database"
	"github.com/saturnino-fabrica-de-software/momento/internal/face"
	"github.com/saturnino-fabrica-de-software/momento/internal/facematch"
	"github.com/saturnino-fabrica-de-software/momento/internal/provider"
	"github.com/saturnino-fabrica-de-software/momento/internal/repository"
	"github.com/saturnino-fabrica-de-software/momento/internal/service"
	"github.com/saturnino-fabrica-de-software/momento/internal/storage"
	"github.com/saturnino-fabrica-de-software/momento/internal/worker"
)

var version = "dev"

const (
	tokenTTL             = 24 * time.Hour
	shutdownDrainTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Momento API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("provider", cfg.ProviderType),
		slog.String("version", version),
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	objects, err := storage.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.MediaBaseURL())
	if err != nil {
		return fmt.Errorf("failed to create media store: %w", err)
	}

	detector, err := face.NewFaceDetector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face detector: %w", err)
	}

	deps, mediaService, detectionService := wire(cfg, pool, objects, detector, logger)

	sweeper := worker.NewDetectionSweeper(detectionService, logger, cfg.DetectionSweepInterval)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start detection sweeper: %w", err)
	}

	// Setup router
	router := api.NewRouter(logger, deps)
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		logger.Info("shutting down server...")
		if err := router.Shutdown(); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case err := <-errChan:
		serveErr = fmt.Errorf("server error: %w", err)
	}

	sweeper.Stop()
	drainDetections(mediaService, shutdownDrainTimeout, logger)

	if serveErr != nil {
		return serveErr
	}
	logger.Info("server stopped")

	return nil
}

func wire(
	cfg *config.Config,
	pool *pgxpool.Pool,
	objects *storage.S3Store,
	detector provider.FaceDetector,
	logger *slog.Logger,
) (*api.Dependencies, *service.MediaService, *service.DetectionService) {
	eventRepo := repository.NewEventRepository(pool)
	mediaRepo := repository.NewMediaRepository(pool)
	detectionRepo := repository.NewFaceDetectionRepository(pool)
	profileRepo := repository.NewFaceProfileRepository(pool)

	eventService := service.NewEventService(eventRepo, logger)
	detectionService := service.NewDetectionService(mediaRepo, detectionRepo, objects, detector, logger).
		WithMaxAttempts(cfg.DetectionMaxAttempts).
		WithTimeout(cfg.DetectionTimeout)
	mediaService := service.NewMediaService(eventService, mediaRepo, objects, detectionService, logger).
		WithMaxBytes(cfg.MaxUploadBytes).
		WithDetectionTimeout(cfg.DetectionTimeout)

	matcher := facematch.NewMatcher(profileRepo, detectionRepo).WithThreshold(cfg.MatchThreshold)
	faceService := service.NewFaceService(eventService, profileRepo, matcher, detector, logger).
		WithAuditLogger(audit.NewSlogLogger(logger))

	deps := &api.Dependencies{
		DB:               pool,
		Tokens:           auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, tokenTTL),
		Events:           eventService,
		Media:            mediaService,
		Faces:            faceService,
		Version:          version,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		MatchThreshold:   cfg.HTTPMatchThreshold,
		RateLimitPerUser: cfg.RateLimitMax,
	}

	return deps, mediaService, detectionService
}

func migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	dbName, err := database.DatabaseName(dsn)
	if err != nil {
		return err
	}

	db, err := database.OpenSQL(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, dbName, logger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}

// drainDetections waits for background detections, which still write to
// the pool, up to timeout.
func drainDetections(media interface{ Wait() }, timeout time.Duration, logger *slog.Logger) bool {
	done := make(chan struct{})
	go func() {
		media.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		logger.Warn("gave up waiting for background detections")
		return false
	}
}
