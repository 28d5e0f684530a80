package scheduling

import (
	"context"
	"time"

	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

// RunStats summarises a completed pass for logging and the checkpoint
// row.
type RunStats struct {
	RunID             string
	ContactsProcessed int
	ContactsScheduled int
	ContactsSkipped   int
}

// Engine orchestrates one main scheduling pass: contact source fan-out
// into the anniversary and campaign pipelines, load balancing,
// frequency limiting, and persistence, in that fixed order.
type Engine struct {
	contacts     *ContactSource
	anniversary  *AnniversaryPipeline
	campaigns    *CampaignPipeline
	loadBalancer *LoadBalancer
	frequency    *FrequencyLimiter
	persister    *Persister
	checkpoints  *Checkpointer
	logger       logger.Logger
}

func NewEngine(
	contactRepo domain.ContactRepository,
	campaignRepo domain.CampaignRepository,
	scheduleRepo domain.ScheduleRepository,
	checkpointRepo domain.CheckpointRepository,
	registry *datecalc.Registry,
	cfg *Config,
	timeProvider TimeProvider,
	log logger.Logger,
) *Engine {
	return &Engine{
		contacts:     NewContactSource(contactRepo, cfg.BatchSize),
		anniversary:  NewAnniversaryPipeline(registry, cfg, log),
		campaigns:    NewCampaignPipeline(campaignRepo, registry, cfg, log),
		loadBalancer: NewLoadBalancer(cfg, log),
		frequency:    NewFrequencyLimiter(scheduleRepo, cfg),
		persister:    NewPersister(scheduleRepo, cfg),
		checkpoints:  NewCheckpointer(checkpointRepo, timeProvider),
		logger:       log,
	}
}

// Run executes one full main pass for today, returning the run's
// statistics. On any fatal error the checkpoint is marked failed and
// the error is returned.
func (e *Engine) Run(ctx context.Context, runID string, today time.Time) (*RunStats, error) {
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

// filterValid drops contacts that fail domain.Contact.Validate, logging
// each one.
func (e *Engine) filterValid(runID string, batch []*domain.Contact) []*domain.Contact {
	valid := batch[:0:0]
	for _, c := range batch {
		if err := c.Validate(); err != nil {
			e.logger.WithFields(map[string]interface{}{"run_id": runID, "contact_id": c.ID, "error": err.Error()}).Warn("skipping invalid contact")
			continue
		}
		valid = append(valid, c)
	}
	return valid
}

func (e *Engine) run(ctx context.Context, runID string, today time.Time) (*RunStats, error) {
	total, err := e.contacts.Count(ctx)
	if err != nil {
		return nil, NewSchedulingError(ErrCodeStorage, "failed to count eligible contacts", true, err)
	}

	var allRows []*domain.EmailSchedule
	var contactIDs []int64
	processed := 0

	err = e.contacts.ForEachBatch(ctx, func(batch []*domain.Contact) error {
		batch = e.filterValid(runID, batch)

		anniversaryRows, err := e.anniversary.GenerateBatch(ctx, batch, today)
		if err != nil {
			return err
		}
		campaignRows, err := e.campaigns.GenerateForBatch(ctx, batch, today)
		if err != nil {
			return err
		}

		allRows = append(allRows, anniversaryRows...)
		allRows = append(allRows, campaignRows...)
		for _, c := range batch {
			contactIDs = append(contactIDs, c.ID)
		}
		processed += len(batch)

		e.logger.WithFields(map[string]interface{}{"run_id": runID, "processed": processed}).Info("batch processed")
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Load balancing and frequency limiting observe the full candidate
	// set, which is why they run after every batch has fanned in.
	e.loadBalancer.Balance(allRows, total, today)

	if err := e.frequency.Limit(ctx, allRows, today); err != nil {
		return nil, err
	}

	if err := e.persister.ClearAndPersist(ctx, contactIDs, allRows, runID); err != nil {
		return nil, err
	}

	scheduled, skipped := 0, 0
	for _, r := range allRows {
		if r.Status == domain.StatusSkipped {
			skipped++
		} else {
			scheduled++
		}
	}

	return &RunStats{
		RunID:             runID,
		ContactsProcessed: processed,
		ContactsScheduled: scheduled,
		ContactsSkipped:   skipped,
	}, nil
}
