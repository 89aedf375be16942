package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reteihq/attest-backend/internal/model"
)

// ArchivedAttempt is one finished attestation as kept in the archive.
type ArchivedAttempt struct {
	ID           uuid.UUID `json:"id"`
	EmployeeName string    `json:"employee_name"`
	EmployeeRole string    `json:"employee_role,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	CorrectCount int       `json:"correct_count"`
	TotalCount   int       `json:"total_count"`
	Percentage   int       `json:"percentage"`
	TimeExceeded bool      `json:"time_exceeded"`
	CreatedAt    time.Time `json:"created_at"`
}

// ArchiveRepository persists finished attempt summaries.
type ArchiveRepository struct {
	pool *pgxpool.Pool
}

// NewArchiveRepository creates a new ArchiveRepository.
func NewArchiveRepository(pool *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{pool: pool}
}

// InsertReport stores a finished report as an archived attempt.
func (r *ArchiveRepository) InsertReport(ctx context.Context, report *model.Report) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempt_archive
		   (id, employee_name, employee_role, started_at, finished_at,
		    correct_count, total_count, percentage, time_exceeded)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.New(), report.EmployeeName, report.EmployeeRole,
		report.StartedAt, report.FinishedAt,
		report.CorrectCount, report.TotalCount, report.Percentage,
		report.TimeExceeded,
	)
	return err
}

// List returns the most recent archived attempts, newest first.
func (r *ArchiveRepository) List(ctx context.Context, limit int) ([]ArchivedAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, employee_name, employee_role, started_at, finished_at,
		        correct_count, total_count, percentage, time_exceeded, created_at
		 FROM attempt_archive
		 ORDER BY created_at DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []ArchivedAttempt
	for rows.Next() {
		var a ArchivedAttempt
		if err := rows.Scan(
			&a.ID, &a.EmployeeName, &a.EmployeeRole, &a.StartedAt, &a.FinishedAt,
			&a.CorrectCount, &a.TotalCount, &a.Percentage, &a.TimeExceeded, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
