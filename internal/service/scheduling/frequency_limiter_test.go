package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/internal/domain/mocks"
)

func testFrequencyLimiter(schedules domain.ScheduleRepository) *FrequencyLimiter {
	return NewFrequencyLimiter(schedules, DefaultConfig())
}

func TestFrequencyLimiter_UnderCap_AdmitsAll(t *testing.T) {
	schedules := new(mocks.MockScheduleRepository)
	fl := testFrequencyLimiter(schedules)
	today := date(2024, 5, 1)

	rows := []*domain.EmailSchedule{
		{ContactID: 1, Status: domain.StatusPreScheduled, EmailType: domain.EmailTypeBirthday, ScheduledSendDate: date(2024, 5, 10), Priority: 1},
	}

	schedules.On("CountRecentForContact", mock.Anything, int64(1), carryOverStatuses, mock.Anything, today).Return(0, nil)

	err := fl.Limit(context.Background(), rows, today)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreScheduled, rows[0].Status)
	schedules.AssertExpectations(t)
}

func TestFrequencyLimiter_OverCap_SkipsWithFrequencyLimitReason(t *testing.T) {
	schedules := new(mocks.MockScheduleRepository)
	fl := testFrequencyLimiter(schedules)
	today := date(2024, 5, 1)

	rows := []*domain.EmailSchedule{
		{ContactID: 1, Status: domain.StatusPreScheduled, EmailType: domain.EmailTypeBirthday, ScheduledSendDate: date(2024, 5, 10), Priority: 1},
	}

	// carry-over already at the max (5), so this new proposal is over budget.
	schedules.On("CountRecentForContact", mock.Anything, int64(1), carryOverStatuses, mock.Anything, today).Return(5, nil)

	err := fl.Limit(context.Background(), rows, today)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSkipped, rows[0].Status)
	assert.Equal(t, domain.SkipReasonFrequencyLimit, rows[0].SkipReason)
}

func TestFrequencyLimiter_PriorityBreaksTieWithinBudget(t *testing.T) {
	schedules := new(mocks.MockScheduleRepository)
	fl := testFrequencyLimiter(schedules)
	today := date(2024, 5, 1)

	// carry-over of 4 leaves exactly one slot free (cap is 5); the two
	// proposals compete for it and the higher-priority (lower number)
	// one must win.
	highPriority := &domain.EmailSchedule{ContactID: 1, Status: domain.StatusPreScheduled, EmailType: domain.EmailTypeBirthday, ScheduledSendDate: date(2024, 5, 10), Priority: 1}
	lowPriority := &domain.EmailSchedule{ContactID: 1, Status: domain.StatusPreScheduled, EmailType: domain.EmailTypeAEP, ScheduledSendDate: date(2024, 5, 12), Priority: 9}

	schedules.On("CountRecentForContact", mock.Anything, int64(1), carryOverStatuses, mock.Anything, today).Return(4, nil)

	rows := []*domain.EmailSchedule{lowPriority, highPriority}
	err := fl.Limit(context.Background(), rows, today)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPreScheduled, highPriority.Status, "the higher-priority proposal should take the one remaining slot")
	assert.Equal(t, domain.StatusSkipped, lowPriority.Status)
	assert.Equal(t, domain.SkipReasonFrequencyLimit, lowPriority.SkipReason)
}

func TestFrequencyLimiter_LeavesFollowupsAndAlreadySkippedUntouched(t *testing.T) {
	schedules := new(mocks.MockScheduleRepository)
	fl := testFrequencyLimiter(schedules)
	today := date(2024, 5, 1)

	followup := &domain.EmailSchedule{ContactID: 2, Status: domain.StatusPreScheduled, EmailType: domain.EmailTypeFollowupClicked, ScheduledSendDate: date(2024, 5, 10), Priority: 1}
	alreadySkipped := &domain.EmailSchedule{ContactID: 3, Status: domain.StatusSkipped, SkipReason: domain.SkipReasonExclusionWindow, EmailType: domain.EmailTypeBirthday, ScheduledSendDate: date(2024, 5, 10), Priority: 1}

	rows := []*domain.EmailSchedule{followup, alreadySkipped}
	err := fl.Limit(context.Background(), rows, today)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPreScheduled, followup.Status)
	assert.Equal(t, domain.StatusSkipped, alreadySkipped.Status)
	assert.Equal(t, domain.SkipReasonExclusionWindow, alreadySkipped.SkipReason, "an existing skip reason must not be overwritten")
	schedules.AssertExpectations(t)
}

func TestFrequencyLimiter_CachesCarryOverCountPerContact(t *testing.T) {
	schedules := new(mocks.MockScheduleRepository)
	fl := testFrequencyLimiter(schedules)
	today := date(2024, 5, 1)

	rows := []*domain.EmailSchedule{
		{ContactID: 1, Status: domain.StatusPreScheduled, EmailType: domain.EmailTypeBirthday, ScheduledSendDate: date(2024, 5, 10), Priority: 1},
		{ContactID: 1, Status: domain.StatusPreScheduled, EmailType: domain.EmailTypeAEP, ScheduledSendDate: date(2024, 5, 12), Priority: 2},
	}

	schedules.On("CountRecentForContact", mock.Anything, int64(1), carryOverStatuses, mock.Anything, today).Return(0, nil).Once()

	err := fl.Limit(context.Background(), rows, today)
	require.NoError(t, err)
	schedules.AssertNumberOfCalls(t, "CountRecentForContact", 1)
}
