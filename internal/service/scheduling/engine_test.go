package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/internal/domain/mocks"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

func TestEngine_Run_EndToEnd_HappyPath(t *testing.T) {
	contacts := new(mocks.MockContactRepository)
	campaigns := new(mocks.MockCampaignRepository)
	schedules := new(mocks.MockScheduleRepository)
	checkpoints := new(mocks.MockCheckpointRepository)

	today := date(2024, 5, 1)
	batch := []*domain.Contact{
		{ID: 1, Email: "a@example.com", State: "TX", ZipCode: "75001", BirthDate: ptrTime(date(1980, 6, 17))},
	}

	contacts.On("CountEligible", mock.Anything).Return(1, nil)
	contacts.On("FetchEligibleBatch", mock.Anything, 0, mock.AnythingOfType("int")).Return(batch, nil).Once()
	contacts.On("FetchEligibleBatch", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("int")).Return([]*domain.Contact{}, nil).Maybe()

	campaigns.On("ActiveInstances", mock.Anything, today).Return([]*domain.CampaignInstance{}, nil)

	schedules.On("CountRecentForContact", mock.Anything, int64(1), mock.Anything, mock.Anything, today).Return(0, nil)
	schedules.On("ClearPending", mock.Anything, []int64{1}).Return(nil)
	schedules.On("InsertBatch", mock.Anything, mock.Anything).Return(nil)

	checkpoints.On("Start", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	checkpoints.On("Complete", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	registry := datecalc.NewRegistry(nil)
	cfg := DefaultConfig()
	engine := NewEngine(contacts, campaigns, schedules, checkpoints, registry, cfg, FixedTimeProvider{T: today}, logger.NewTestLogger(nil))

	stats, err := engine.Run(context.Background(), "run-1", today)
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Equal(t, 1, stats.ContactsProcessed)
	require.Greater(t, stats.ContactsScheduled+stats.ContactsSkipped, 0)

	checkpoints.AssertCalled(t, "Start", mock.Anything, "run-1", mock.Anything)
	checkpoints.AssertCalled(t, "Complete", mock.Anything, "run-1", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Run_MarksCheckpointFailedOnStorageError(t *testing.T) {
	contacts := new(mocks.MockContactRepository)
	campaigns := new(mocks.MockCampaignRepository)
	schedules := new(mocks.MockScheduleRepository)
	checkpoints := new(mocks.MockCheckpointRepository)

	today := date(2024, 5, 1)

	contacts.On("CountEligible", mock.Anything).Return(0, assertingErr{})
	checkpoints.On("Start", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	checkpoints.On("Fail", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).Return(nil)

	registry := datecalc.NewRegistry(nil)
	cfg := DefaultConfig()
	engine := NewEngine(contacts, campaigns, schedules, checkpoints, registry, cfg, FixedTimeProvider{T: today}, logger.NewTestLogger(nil))

	_, err := engine.Run(context.Background(), "run-2", today)
	require.Error(t, err)
	checkpoints.AssertCalled(t, "Fail", mock.Anything, "run-2", mock.Anything, mock.Anything)
}

type assertingErr struct{}

func (assertingErr) Error() string { return "boom" }

func TestEngine_Run_SkipsContactsThatFailValidation(t *testing.T) {
	contacts := new(mocks.MockContactRepository)
	campaigns := new(mocks.MockCampaignRepository)
	schedules := new(mocks.MockScheduleRepository)
	checkpoints := new(mocks.MockCheckpointRepository)

	today := date(2024, 5, 1)
	batch := []*domain.Contact{
		{ID: 1, Email: "a@example.com", State: "TX", ZipCode: "75001"},
		{ID: 2, Email: "not-an-email", State: "TX", ZipCode: "75001"},
	}

	contacts.On("CountEligible", mock.Anything).Return(2, nil)
	contacts.On("FetchEligibleBatch", mock.Anything, 0, mock.AnythingOfType("int")).Return(batch, nil).Once()
	contacts.On("FetchEligibleBatch", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("int")).Return([]*domain.Contact{}, nil).Maybe()

	campaigns.On("ActiveInstances", mock.Anything, today).Return([]*domain.CampaignInstance{}, nil)

	schedules.On("CountRecentForContact", mock.Anything, int64(1), mock.Anything, mock.Anything, today).Return(0, nil)
	schedules.On("ClearPending", mock.Anything, []int64{1}).Return(nil)
	schedules.On("InsertBatch", mock.Anything, mock.Anything).Return(nil)

	checkpoints.On("Start", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)
	checkpoints.On("Complete", mock.Anything, mock.AnythingOfType("string"), 1, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	registry := datecalc.NewRegistry(nil)
	cfg := DefaultConfig()
	engine := NewEngine(contacts, campaigns, schedules, checkpoints, registry, cfg, FixedTimeProvider{T: today}, logger.NewTestLogger(nil))

	stats, err := engine.Run(context.Background(), "run-3", today)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ContactsProcessed, "the contact with a malformed email must be dropped before generation")
	schedules.AssertCalled(t, "ClearPending", mock.Anything, []int64{1})
}
