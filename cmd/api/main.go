package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Neutx/snap-and-win/internal/auth"
	"github.com/Neutx/snap-and-win/internal/config"
	"github.com/Neutx/snap-and-win/internal/handler"
	"github.com/Neutx/snap-and-win/internal/repository"
	"github.com/Neutx/snap-and-win/internal/service"
	"github.com/Neutx/snap-and-win/internal/uploader"
	"github.com/Neutx/snap-and-win/internal/validator"
	"github.com/Neutx/snap-and-win/pkg/database"
	"github.com/Neutx/snap-and-win/pkg/sheets"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Row store client (the Submissions sheet)
	store, err := sheets.New(cfg.Sheets)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize row store client")
	}

	// Optional Postgres backlog for submissions the sheet rejected
	var backlogPool *pgxpool.Pool
	var backlog service.BacklogWriter
	if cfg.DB.DSN != "" {
		backlogPool, err = database.NewPool(ctx, cfg.DB.DSN, cfg.DB.MaxRetries)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to backlog database")
		}
		backlog = repository.NewBacklogRepository(backlogPool)
	} else {
		log.Info().Msg("no DB_DSN configured, backlog store disabled")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      cfg.Brand.Name,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    int(cfg.Cloudinary.MaxFileSize) + 1024*1024, // image upload + form overhead
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Initialize components (layered architecture)
	submissionRepo := repository.NewSubmissionRepository(store)
	ingestService := service.NewIngestService(submissionRepo, backlog)
	reviewService := service.NewReviewService(submissionRepo, cfg.Brand.CouponPrefix)
	authenticator := auth.NewAuthenticator(cfg.Auth)
	gateway := uploader.NewCloudinary(cfg.Cloudinary)

	submitHandler := handler.NewSubmitHandler(ingestService, validate)
	adminHandler := handler.NewAdminHandler(reviewService, validate)
	authHandler := handler.NewAuthHandler(authenticator, validate)
	uploadHandler := handler.NewUploadHandler(gateway)
	configHandler := handler.NewConfigHandler(cfg.Brand, cfg.Cloudinary)

	// Health handler
	healthHandler := handler.NewHealthHandler(store)
	app.Get("/health", healthHandler.Check)

	// Public routes
	app.Get("/api/config", configHandler.Get)
	app.Post("/api/submit", submitHandler.Submit)
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/uploads/sign", uploadHandler.Sign)
	app.Post("/api/uploads", uploadHandler.Upload)
	app.Post("/api/uploads/callback", uploadHandler.Callback)

	// Admin routes behind the session gate
	admin := app.Group("/api/admin", auth.Middleware(authenticator))
	admin.Get("/submissions", adminHandler.List)
	admin.Post("/submissions/process", adminHandler.Process)
	admin.Post("/uploads/preset", uploadHandler.Preset)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close backlog pool AFTER server shutdown (even if shutdown timed out)
	if backlogPool != nil {
		log.Info().Msg("closing backlog database connections...")
		backlogPool.Close()
	}
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
