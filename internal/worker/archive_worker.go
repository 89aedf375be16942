package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/config"
	"github.com/reteihq/attest-backend/internal/model"
	"github.com/reteihq/attest-backend/internal/repository"
)

// ArchiveWorker consumes the report archive queue and writes finished
// attempts to PostgreSQL. The engine only enqueues; durability is this
// worker's job so a slow database never blocks finishing an attempt.
type ArchiveWorker struct {
	repo *repository.ArchiveRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewArchiveWorker creates a new ArchiveWorker.
func NewArchiveWorker(repo *repository.ArchiveRepository, rdb *redis.Client, log zerolog.Logger) *ArchiveWorker {
	return &ArchiveWorker{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "archive_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine; cancel ctx to
// stop. Remaining queue items are drained before exit.
func (w *ArchiveWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ArchiveWorker) processNext(ctx context.Context) {
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.ArchiveReportsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.persist(ctx, []byte(result[1])); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying in 5s")
		w.rdb.RPush(ctx, config.WorkerKey.ArchiveReportsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *ArchiveWorker) persist(ctx context.Context, raw []byte) error {
	var report model.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		// Malformed payloads are dropped, not requeued forever.
		w.log.Error().Err(err).Msg("Dropping malformed archive payload")
		return nil
	}
	return w.repo.InsertReport(ctx, &report)
}

// drain archives everything left in the queue before shutdown.
func (w *ArchiveWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.ArchiveReportsQueue).Result()
		if err != nil {
			break
		}
		if err := w.persist(ctx, []byte(result)); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.ArchiveReportsQueue, result)
			break
		}
		drained++
	}
	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining reports")
	}
}
