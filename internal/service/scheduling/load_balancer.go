package scheduling

import (
	"math"
	"time"

	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

// LoadBalancer applies per-day smoothing to effective-date rows and
// monitors (but does not redistribute) daily-cap overages.
type LoadBalancer struct {
	cfg    *Config
	logger logger.Logger
}

func NewLoadBalancer(cfg *Config, log logger.Logger) *LoadBalancer {
	return &LoadBalancer{cfg: cfg, logger: log}
}

// Balance mutates the pre-scheduled rows' send dates in place to
// smooth effective-date density, then logs a warning for any day
// whose total volume still exceeds the cap. totalContacts is the
// full eligible population size, used to derive the daily cap.
func (lb *LoadBalancer) Balance(rows []*domain.EmailSchedule, totalContacts int, today time.Time) {
	dailyCap := int(math.Floor(float64(totalContacts) * lb.cfg.DailySendPercentageCap))
	edSoftLimit := minInt(lb.cfg.EDDailySoftLimit, int(math.Floor(float64(dailyCap)*0.3)))

	// edByDate is a fixed snapshot of effective-date volume per day,
	// taken before any shifting. Shift candidacy is judged against
	// this snapshot for the whole pass, not a running count, so every
	// row that started on an over-limit day remains a candidate
	// regardless of how many peers have already moved off it.
	edByDate := make(map[time.Time]int)
	for _, row := range rows {
		if row.Status != domain.StatusPreScheduled || row.EmailType != domain.EmailTypeEffectiveDate {
			continue
		}
		edByDate[dateOnlyLB(row.ScheduledSendDate)]++
	}

	for _, row := range rows {
		if row.Status != domain.StatusPreScheduled || row.EmailType != domain.EmailTypeEffectiveDate {
			continue
		}
		current := dateOnlyLB(row.ScheduledSendDate)
		if edByDate[current] <= edSoftLimit {
			continue
		}

		offset := smoothingOffset(row.ContactID, row.EmailType, row.EventYear, lb.cfg.EDSmoothingWindowDays)
		shifted := row.ScheduledSendDate.AddDate(0, 0, offset)
		if shifted.Before(today) {
			continue
		}

		row.ScheduledSendDate = shifted
	}

	totalByDate := make(map[time.Time]int)
	for _, row := range rows {
		if row.Status != domain.StatusPreScheduled {
			continue
		}
		totalByDate[dateOnlyLB(row.ScheduledSendDate)]++
	}

	threshold := float64(dailyCap) * lb.cfg.OverageThreshold
	for date, count := range totalByDate {
		if float64(count) > threshold {
			lb.logger.WithFields(map[string]interface{}{
				"date":      date.Format("2006-01-02"),
				"count":     count,
				"daily_cap": dailyCap,
				"threshold": threshold,
			}).Warn("daily send volume exceeds cap threshold")
		}
	}
}

func dateOnlyLB(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
