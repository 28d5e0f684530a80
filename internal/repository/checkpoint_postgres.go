package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

type checkpointRepository struct {
	db *sql.DB
}

// NewCheckpointRepository creates a new PostgreSQL checkpoint repository.
func NewCheckpointRepository(db *sql.DB) domain.CheckpointRepository {
	return &checkpointRepository{db: db}
}

func (r *checkpointRepository) Start(ctx context.Context, runID string, startedAt time.Time) error {
	query, args, err := psql.Insert("scheduler_checkpoints").
		Columns("run_id", "status", "started_at").
		Values(runID, domain.CheckpointStarted, startedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write start checkpoint: %w", err)
	}
	return nil
}

func (r *checkpointRepository) Complete(ctx context.Context, runID string, processed, scheduled, skipped int, completedAt time.Time) error {
	query, args, err := psql.Update("scheduler_checkpoints").
		SetMap(sq.Eq{
			"status":             domain.CheckpointCompleted,
			"completed_at":       completedAt,
			"contacts_processed": processed,
			"contacts_scheduled": scheduled,
			"contacts_skipped":   skipped,
		}).
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write completion checkpoint: %w", err)
	}
	return nil
}

func (r *checkpointRepository) Fail(ctx context.Context, runID string, errMsg string, completedAt time.Time) error {
	query, args, err := psql.Update("scheduler_checkpoints").
		SetMap(sq.Eq{
			"status":        domain.CheckpointFailed,
			"completed_at":  completedAt,
			"error_message": errMsg,
		}).
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write failure checkpoint: %w", err)
	}
	return nil
}
