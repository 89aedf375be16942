package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/config"
	"github.com/reteihq/attest-backend/internal/model"
)

// ArchiveQueue hands finished reports to the archive worker through a
// Redis list. Enqueue failures are the caller's concern to log, not to
// fail the attestation over.
type ArchiveQueue struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewArchiveQueue creates an ArchiveQueue.
func NewArchiveQueue(rdb *redis.Client, log zerolog.Logger) *ArchiveQueue {
	return &ArchiveQueue{
		rdb: rdb,
		log: log.With().Str("component", "archive_queue").Logger(),
	}
}

// Enqueue pushes a finished report onto the archive queue.
func (q *ArchiveQueue) Enqueue(ctx context.Context, report *model.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.ArchiveReportsQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue report: %w", err)
	}
	return nil
}
