package scheduling

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

// maxParallelContacts bounds how many contacts the anniversary
// pipeline computes concurrently, using golang.org/x/sync/semaphore to
// cap per-recipient fan-out.
const maxParallelContacts = 16

// AnniversaryPipeline produces birthday, effective-date, AEP, and
// post-window messages per contact.
type AnniversaryPipeline struct {
	registry *datecalc.Registry
	cfg      *Config
	logger   logger.Logger
}

func NewAnniversaryPipeline(registry *datecalc.Registry, cfg *Config, log logger.Logger) *AnniversaryPipeline {
	return &AnniversaryPipeline{registry: registry, cfg: cfg, logger: log}
}

// GenerateBatch fans out GenerateForContact across contacts, bounded
// by maxParallelContacts, and joins the results before returning.
func (p *AnniversaryPipeline) GenerateBatch(ctx context.Context, contacts []*domain.Contact, today time.Time) ([]*domain.EmailSchedule, error) {
	results := make([][]*domain.EmailSchedule, len(contacts))

	sem := semaphore.NewWeighted(maxParallelContacts)
	g, gctx := errgroup.WithContext(ctx)

	for i, c := range contacts {
		i, c := i, c
		if err := sem.Acquire(gctx, 1); err != nil {
			return nil, err
		}
		g.Go(func() error {
			defer sem.Release(1)
			results[i] = p.GenerateForContact(c, today)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*domain.EmailSchedule
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// GenerateForContact emits up to four rows for a single contact:
// birthday, effective_date, aep, and post_window.
func (p *AnniversaryPipeline) GenerateForContact(contact *domain.Contact, today time.Time) []*domain.EmailSchedule {
	var rows []*domain.EmailSchedule

	rule := p.registry.Lookup(contact.State)
	window := datecalc.ExclusionWindow(rule, contact, today, p.cfg.PreWindowExclusionDays)

	anySkippedForExclusion := false

	if contact.BirthDate != nil {
		if anchor, ok := datecalc.NextAnniversary(*contact.BirthDate, today); ok {
			send := anchor.AddDate(0, 0, -p.cfg.BirthdayEmailDaysBefore)
			if !send.Before(today) {
				row := p.buildRow(contact, domain.EmailTypeBirthday, send, 5, "birthday_default", anchor, window)
				if row.SkipReason == domain.SkipReasonExclusionWindow {
					anySkippedForExclusion = true
				}
				rows = append(rows, row)
			}
		} else {
			p.logger.WithFields(map[string]interface{}{"contact_id": contact.ID}).Warn("malformed birth_date, skipping birthday email")
		}
	}

	if contact.EffectiveDate != nil {
		if anchor, ok := datecalc.NextAnniversary(*contact.EffectiveDate, today); ok {
			send := anchor.AddDate(0, 0, -p.cfg.EffectiveDateEmailDaysBefore)
			if !send.Before(today) {
				row := p.buildRow(contact, domain.EmailTypeEffectiveDate, send, 5, "effective_date_default", anchor, window)
				if row.SkipReason == domain.SkipReasonExclusionWindow {
					anySkippedForExclusion = true
				}
				rows = append(rows, row)
			}
		} else {
			p.logger.WithFields(map[string]interface{}{"contact_id": contact.ID}).Warn("malformed effective_date, skipping effective-date email")
		}
	}

	aepAnchor := aepAnchorDate(today, p.cfg.AEPMonth, p.cfg.AEPDay)
	aepRow := p.buildRow(contact, domain.EmailTypeAEP, aepAnchor, 5, "aep_default", aepAnchor, window)
	if aepRow.SkipReason == domain.SkipReasonExclusionWindow {
		anySkippedForExclusion = true
	}
	rows = append(rows, aepRow)

	if anySkippedForExclusion && !window.IsZero() {
		send := window.End.AddDate(0, 0, 1)
		if !send.Before(today) {
			rows = append(rows, &domain.EmailSchedule{
				ContactID:         contact.ID,
				EmailType:         domain.EmailTypePostWindow,
				ScheduledSendDate: send,
				Status:            domain.StatusPreScheduled,
				Priority:          3,
				EmailTemplate:     "post_window_default",
				EventYear:         send.Year(),
				EventMonth:        int(send.Month()),
				EventDay:          send.Day(),
			})
		}
	}

	return rows
}

func (p *AnniversaryPipeline) buildRow(contact *domain.Contact, emailType string, send time.Time, priority int, template string, anchor time.Time, window datecalc.Window) *domain.EmailSchedule {
	row := &domain.EmailSchedule{
		ContactID:         contact.ID,
		EmailType:         emailType,
		ScheduledSendDate: send,
		Priority:          priority,
		EmailTemplate:     template,
		EventYear:         anchor.Year(),
		EventMonth:        int(anchor.Month()),
		EventDay:          anchor.Day(),
	}

	if datecalc.InWindow(send, window) {
		row.Status = domain.StatusSkipped
		row.SkipReason = domain.SkipReasonExclusionWindow
	} else {
		row.Status = domain.StatusPreScheduled
	}
	return row
}

// aepAnchorDate returns this year's AEP date, or next year's if this
// year's is today or has already passed.
func aepAnchorDate(today time.Time, month, day int) time.Time {
	anchor := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if !today.Before(anchor) {
		anchor = time.Date(today.Year()+1, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}
	return anchor
}
