package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JKhoa/TieuLuanMTK/internal/config"
	"github.com/JKhoa/TieuLuanMTK/internal/database"
	"github.com/JKhoa/TieuLuanMTK/internal/handler"
	"github.com/JKhoa/TieuLuanMTK/internal/logger"
	"github.com/JKhoa/TieuLuanMTK/internal/middleware"
	"github.com/JKhoa/TieuLuanMTK/internal/repository"
	"github.com/JKhoa/TieuLuanMTK/internal/router"
	"github.com/JKhoa/TieuLuanMTK/internal/service"
	"github.com/JKhoa/TieuLuanMTK/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting student manager")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Database ─────────────────────────────────────────────────
	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if _, err := db.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
	}

	// ─── Rate Limiter ──────────────────────────────────────────────────
	var limiter middleware.Limiter
	switch {
	case cfg.RateLimitPerMinute <= 0:
		log.Info().Msg("Rate limiting disabled")
	case rdb != nil:
		limiter = middleware.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
		log.Info().Int("per_minute", cfg.RateLimitPerMinute).Msg("Rate limiting writes via Redis")
	default:
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		log.Info().Int("per_minute", cfg.RateLimitPerMinute).Msg("Rate limiting writes in memory")
	}

	// ─── Wire Layers ───────────────────────────────────────────────────
	studentRepo := repository.NewStudentRepository(db)
	studentService := service.NewStudentService(studentRepo, log)

	handlers := &router.Handlers{
		Student: handler.NewStudentHandler(studentService),
		Page:    handler.NewPageHandler(cfg.AppTitle),
		Health:  handler.NewHealthHandler(db, rdb),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(handlers, limiter, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
