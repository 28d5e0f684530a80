package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

// carryOverStatuses are the statuses counted toward a contact's
// historical frequency budget. Follow-ups are exempt.
var carryOverStatuses = []domain.ScheduleStatus{
	domain.StatusSent,
	domain.StatusDelivered,
	domain.StatusPreScheduled,
}

// FrequencyLimiter enforces the per-contact rolling message cap,
// using priority as the tiebreaker.
type FrequencyLimiter struct {
	schedules domain.ScheduleRepository
	cfg       *Config
}

func NewFrequencyLimiter(schedules domain.ScheduleRepository, cfg *Config) *FrequencyLimiter {
	return &FrequencyLimiter{schedules: schedules, cfg: cfg}
}

// Limit mutates rows in place, flipping over-budget pre-scheduled rows
// to skipped/frequency_limit. Rows already marked skipped
// (e.g. for exclusion_window) and follow-up rows are left untouched.
func (fl *FrequencyLimiter) Limit(ctx context.Context, rows []*domain.EmailSchedule, today time.Time) error {
	var proposals []*domain.EmailSchedule
	for _, r := range rows {
		if r.Status == domain.StatusPreScheduled && !domain.IsFollowup(r.EmailType) {
			proposals = append(proposals, r)
		}
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		if proposals[i].Priority != proposals[j].Priority {
			return proposals[i].Priority < proposals[j].Priority
		}
		return proposals[i].ScheduledSendDate.Before(proposals[j].ScheduledSendDate)
	})

	from := today.AddDate(0, 0, -fl.cfg.PeriodDays)
	carryOverCache := make(map[int64]int)
	admittedThisRun := make(map[int64]int)

	for _, row := range proposals {
		carryOver, ok := carryOverCache[row.ContactID]
		if !ok {
			var err error
			carryOver, err = fl.schedules.CountRecentForContact(ctx, row.ContactID, carryOverStatuses, from, today)
			if err != nil {
				return NewSchedulingError(ErrCodeStorage, "failed to count recent schedules for frequency limit", true, err)
			}
			carryOverCache[row.ContactID] = carryOver
		}

		total := carryOver + admittedThisRun[row.ContactID]
		if total < fl.cfg.MaxEmailsPerPeriod {
			admittedThisRun[row.ContactID]++
			continue
		}

		row.Status = domain.StatusSkipped
		row.SkipReason = domain.SkipReasonFrequencyLimit
	}

	return nil
}
