package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

func testLoadBalancer() *LoadBalancer {
	return NewLoadBalancer(DefaultConfig(), logger.NewTestLogger(nil))
}

func TestLoadBalancer_UnderSoftLimit_LeavesDatesUnchanged(t *testing.T) {
	lb := testLoadBalancer()
	today := date(2024, 5, 1)
	sendDate := date(2024, 6, 1)

	rows := []*domain.EmailSchedule{
		{ContactID: 1, EmailType: domain.EmailTypeEffectiveDate, ScheduledSendDate: sendDate, Status: domain.StatusPreScheduled, EventYear: 2024},
		{ContactID: 2, EmailType: domain.EmailTypeEffectiveDate, ScheduledSendDate: sendDate, Status: domain.StatusPreScheduled, EventYear: 2024},
	}

	lb.Balance(rows, 10000, today)

	for _, r := range rows {
		assert.True(t, r.ScheduledSendDate.Equal(sendDate))
	}
}

func TestLoadBalancer_OverSoftLimit_ShiftsSomeRowsWithoutLosingAny(t *testing.T) {
	lb := testLoadBalancer()
	today := date(2024, 5, 1)
	sendDate := date(2024, 6, 1)

	var rows []*domain.EmailSchedule
	for i := int64(1); i <= 10; i++ {
		rows = append(rows, &domain.EmailSchedule{
			ContactID: i, EmailType: domain.EmailTypeEffectiveDate,
			ScheduledSendDate: sendDate, Status: domain.StatusPreScheduled, EventYear: 2024,
		})
	}

	// totalContacts=200 gives dailyCap=14 and edSoftLimit=4, comfortably
	// below the 10 rows stacked on one day, so smoothing must engage.
	lb.Balance(rows, 200, today)

	byDate := make(map[time.Time]int)
	for _, r := range rows {
		byDate[r.ScheduledSendDate]++
		assert.False(t, r.ScheduledSendDate.Before(today), "a row must never be shifted into the past")
	}
	assert.Greater(t, len(byDate), 1, "smoothing should move at least one row off the dense day")

	total := 0
	for _, c := range byDate {
		total += c
	}
	assert.Equal(t, 10, total, "balancing must never drop or duplicate a row")
}

func TestLoadBalancer_IgnoresNonEffectiveDateRows(t *testing.T) {
	lb := testLoadBalancer()
	today := date(2024, 5, 1)
	sendDate := date(2024, 6, 1)

	rows := []*domain.EmailSchedule{
		{ContactID: 1, EmailType: domain.EmailTypeBirthday, ScheduledSendDate: sendDate, Status: domain.StatusPreScheduled},
	}

	lb.Balance(rows, 500, today)
	assert.True(t, rows[0].ScheduledSendDate.Equal(sendDate))
}
