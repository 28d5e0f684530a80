package scheduling

import (
	"context"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

// Checkpointer records the start/end/failure of each run for audit.
type Checkpointer struct {
	repo domain.CheckpointRepository
	time TimeProvider
}

func NewCheckpointer(repo domain.CheckpointRepository, time TimeProvider) *Checkpointer {
	return &Checkpointer{repo: repo, time: time}
}

func (c *Checkpointer) Start(ctx context.Context, runID string) error {
	return c.repo.Start(ctx, runID, c.time.Now())
}

func (c *Checkpointer) Complete(ctx context.Context, runID string, processed, scheduled, skipped int) error {
	return c.repo.Complete(ctx, runID, processed, scheduled, skipped, c.time.Now())
}

func (c *Checkpointer) Fail(ctx context.Context, runID string, cause error) error {
	return c.repo.Fail(ctx, runID, cause.Error(), c.time.Now())
}
