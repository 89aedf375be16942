package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/bank"
	"github.com/reteihq/attest-backend/internal/config"
	"github.com/reteihq/attest-backend/internal/database"
	"github.com/reteihq/attest-backend/internal/handler"
	"github.com/reteihq/attest-backend/internal/logger"
	"github.com/reteihq/attest-backend/internal/repository"
	"github.com/reteihq/attest-backend/internal/router"
	"github.com/reteihq/attest-backend/internal/service"
	"github.com/reteihq/attest-backend/internal/store"
	"github.com/reteihq/attest-backend/internal/validator"
	"github.com/reteihq/attest-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Dur("exam_duration", cfg.ExamDuration).
		Msg("Starting Attest Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Question Bank ────────────────────────────────────────────
	// The bank must be loaded and valid before any attestation can
	// start; a broken bank is fatal here, not mid-exam.
	questions, err := bank.NewLoader(cfg.BankSource, log).Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load question bank")
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	sessionStore := store.NewSessionStore(rdb, log)
	reportService := service.NewReportService(questions, cfg.ExamDuration, log)

	// ─── Attempt Archive (optional PostgreSQL) ─────────────────────────
	var archiveQueue service.ReportArchiver
	var archiveHandler *handler.ArchiveHandler
	var archiveWorker *worker.ArchiveWorker

	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		archiveRepo := repository.NewArchiveRepository(pool)
		archiveQueue = store.NewArchiveQueue(rdb, log)
		archiveHandler = handler.NewArchiveHandler(archiveRepo)
		archiveWorker = worker.NewArchiveWorker(archiveRepo, rdb, log)
	} else {
		log.Warn().Msg("DATABASE_URL not set, attempt archive disabled")
	}

	examService := service.NewExamService(
		sessionStore, reportService, archiveQueue,
		questions, cfg.ExamDuration, log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Session: handler.NewSessionHandler(examService, reportService),
		Timer:   handler.NewTimerHandler(examService, log, cfg.AllowedOrigins),
		Archive: archiveHandler,
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	if archiveWorker != nil {
		go archiveWorker.Start(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
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

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the archive worker and let the queue drain.
	workerCancel()
	if archiveWorker != nil {
		time.Sleep(2 * time.Second)
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
