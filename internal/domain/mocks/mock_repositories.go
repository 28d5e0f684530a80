// Package mocks holds hand-written testify/mock implementations of
// the domain repository interfaces, used by service-layer unit tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

// MockContactRepository is a mock implementation of domain.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) CountEligible(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockContactRepository) FetchEligibleBatch(ctx context.Context, offset, limit int) ([]*domain.Contact, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

// MockCampaignRepository is a mock implementation of domain.CampaignRepository.
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) GetCampaignType(ctx context.Context, name string) (*domain.CampaignType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CampaignType), args.Error(1)
}

func (m *MockCampaignRepository) ActiveInstances(ctx context.Context, today time.Time) ([]*domain.CampaignInstance, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CampaignInstance), args.Error(1)
}

func (m *MockCampaignRepository) PendingMemberships(ctx context.Context, campaignInstanceID string) ([]*domain.ContactCampaignMembership, error) {
	args := m.Called(ctx, campaignInstanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContactCampaignMembership), args.Error(1)
}

func (m *MockCampaignRepository) GetInstanceByID(ctx context.Context, id string) (*domain.CampaignInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CampaignInstance), args.Error(1)
}

// MockScheduleRepository is a mock implementation of domain.ScheduleRepository.
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) ClearPending(ctx context.Context, contactIDs []int64) error {
	args := m.Called(ctx, contactIDs)
	return args.Error(0)
}

func (m *MockScheduleRepository) InsertBatch(ctx context.Context, rows []*domain.EmailSchedule) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockScheduleRepository) CountRecentForContact(ctx context.Context, contactID int64, statuses []domain.ScheduleStatus, from, to time.Time) (int, error) {
	args := m.Called(ctx, contactID, statuses, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockScheduleRepository) SentOrDeliveredInRange(ctx context.Context, emailTypes []string, from, to time.Time) ([]*domain.EmailSchedule, error) {
	args := m.Called(ctx, emailTypes, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EmailSchedule), args.Error(1)
}

func (m *MockScheduleRepository) HasFollowupInWindow(ctx context.Context, contactID int64, from, to time.Time) (bool, error) {
	args := m.Called(ctx, contactID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.EmailSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailSchedule), args.Error(1)
}

// MockCheckpointRepository is a mock implementation of domain.CheckpointRepository.
type MockCheckpointRepository struct {
	mock.Mock
}

func (m *MockCheckpointRepository) Start(ctx context.Context, runID string, startedAt time.Time) error {
	args := m.Called(ctx, runID, startedAt)
	return args.Error(0)
}

func (m *MockCheckpointRepository) Complete(ctx context.Context, runID string, processed, scheduled, skipped int, completedAt time.Time) error {
	args := m.Called(ctx, runID, processed, scheduled, skipped, completedAt)
	return args.Error(0)
}

func (m *MockCheckpointRepository) Fail(ctx context.Context, runID string, errMsg string, completedAt time.Time) error {
	args := m.Called(ctx, runID, errMsg, completedAt)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of domain.EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) HasClickSince(ctx context.Context, contactID int64, since time.Time) (bool, error) {
	args := m.Called(ctx, contactID, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) LatestEligibilityEventSince(ctx context.Context, contactID int64, since time.Time) (*domain.ContactEvent, error) {
	args := m.Called(ctx, contactID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactEvent), args.Error(1)
}
