package scheduling

import (
	"context"
	"time"

	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

// FollowupEngine orchestrates the separate follow-up pass: one
// generation pipeline followed by persistence under its own run id.
type FollowupEngine struct {
	pipeline    *FollowupPipeline
	persister   *Persister
	checkpoints *Checkpointer
	logger      logger.Logger
}

func NewFollowupEngine(
	scheduleRepo domain.ScheduleRepository,
	contactRepo domain.ContactRepository,
	campaignRepo domain.CampaignRepository,
	eventRepo domain.EventRepository,
	checkpointRepo domain.CheckpointRepository,
	registry *datecalc.Registry,
	cfg *Config,
	timeProvider TimeProvider,
	log logger.Logger,
) *FollowupEngine {
	return &FollowupEngine{
		pipeline:    NewFollowupPipeline(scheduleRepo, contactRepo, campaignRepo, eventRepo, registry, cfg, log),
		persister:   NewPersister(scheduleRepo, cfg),
		checkpoints: NewCheckpointer(checkpointRepo, timeProvider),
		logger:      log,
	}
}

// Run executes one follow-up pass for today.
func (e *FollowupEngine) Run(ctx context.Context, runID string, today time.Time) (*RunStats, error) {
	if err := e.checkpoints.Start(ctx, runID); err != nil {
		return nil, NewSchedulingError(ErrCodeStorage, "failed to write start checkpoint", true, err)
	}

	stats, err := e.run(ctx, runID, today)
	if err != nil {
		if failErr := e.checkpoints.Fail(ctx, runID, err); failErr != nil {
			e.logger.WithFields(map[string]interface{}{"run_id": runID, "error": failErr.Error()}).Error("failed to write failure checkpoint")
		}
		return nil, err
	}

	if err := e.checkpoints.Complete(ctx, runID, stats.ContactsProcessed, stats.ContactsScheduled, stats.ContactsSkipped); err != nil {
		return nil, NewSchedulingError(ErrCodeStorage, "failed to write completion checkpoint", true, err)
	}
	return stats, nil
}

func (e *FollowupEngine) run(ctx context.Context, runID string, today time.Time) (*RunStats, error) {
	rows, err := e.pipeline.Generate(ctx, today)
	if err != nil {
		return nil, err
	}

	if err := e.persister.Persist(ctx, rows, runID); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	for _, r := range rows {
		seen[r.ContactID] = true
	}

	return &RunStats{
		RunID:             runID,
		ContactsProcessed: len(seen),
		ContactsScheduled: len(rows),
		ContactsSkipped:   0,
	}, nil
}
