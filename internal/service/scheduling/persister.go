package scheduling

import (
	"context"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

// Persister writes a pass's output in chunks of cfg.BatchSize rows,
// each chunk its own InsertBatch call, with every row marked with the
// run's identifier.
type Persister struct {
	schedules domain.ScheduleRepository
	cfg       *Config
}

func NewPersister(schedules domain.ScheduleRepository, cfg *Config) *Persister {
	return &Persister{schedules: schedules, cfg: cfg}
}

// ClearAndPersist wipes the contacts' prior pre-scheduled/skipped rows
// then writes rows in batches of cfg.BatchSize, each its own
// transaction. Used by the main pass, whose anniversary/campaign
// candidates fully replace a contact's future schedule each run.
func (p *Persister) ClearAndPersist(ctx context.Context, contactIDs []int64, rows []*domain.EmailSchedule, runID string) error {
	if err := p.schedules.ClearPending(ctx, contactIDs); err != nil {
		return NewSchedulingError(ErrCodeStorage, "failed to clear prior pending schedules", true, err)
	}
	return p.Persist(ctx, rows, runID)
}

// Persist writes rows in batches of cfg.BatchSize without first
// clearing anything. Used by the follow-up pass: follow-up rows are
// additive to whatever the main pass already scheduled, deduplicated
// by the follow-up pipeline's own lookback check and the persister's
// uniqueness contract.
func (p *Persister) Persist(ctx context.Context, rows []*domain.EmailSchedule, runID string) error {
	for _, r := range rows {
		r.SchedulerRunID = runID
		if r.ScheduledSendTime == "" {
			r.ScheduledSendTime = p.cfg.SendTime
		}
	}

	for i := 0; i < len(rows); i += p.cfg.BatchSize {
		end := i + p.cfg.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := p.schedules.InsertBatch(ctx, rows[i:end]); err != nil {
			return NewSchedulingError(ErrCodeStorage, "failed to insert schedule batch", true, err)
		}
	}

	return nil
}
