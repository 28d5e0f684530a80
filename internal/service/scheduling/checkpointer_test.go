package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pyrex41/o-email-schedule/internal/domain/mocks"
)

func TestCheckpointer_Start_UsesProvidedTime(t *testing.T) {
	repo := new(mocks.MockCheckpointRepository)
	now := date(2024, 5, 1)
	c := NewCheckpointer(repo, FixedTimeProvider{T: now})

	repo.On("Start", mock.Anything, "run-1", now).Return(nil)

	err := c.Start(context.Background(), "run-1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCheckpointer_Complete_PassesCounts(t *testing.T) {
	repo := new(mocks.MockCheckpointRepository)
	now := date(2024, 5, 1)
	c := NewCheckpointer(repo, FixedTimeProvider{T: now})

	repo.On("Complete", mock.Anything, "run-1", 10, 8, 2, now).Return(nil)

	err := c.Complete(context.Background(), "run-1", 10, 8, 2)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCheckpointer_Fail_PassesCauseMessage(t *testing.T) {
	repo := new(mocks.MockCheckpointRepository)
	now := date(2024, 5, 1)
	c := NewCheckpointer(repo, FixedTimeProvider{T: now})

	cause := errors.New("database unreachable")
	repo.On("Fail", mock.Anything, "run-1", "database unreachable", now).Return(nil)

	err := c.Fail(context.Background(), "run-1", cause)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
