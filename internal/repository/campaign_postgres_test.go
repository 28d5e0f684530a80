package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

func TestCampaignRepository_GetCampaignType_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCampaignRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM campaign_types`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "respect_exclusion_windows", "enable_followups", "days_before_event", "target_all_contacts", "priority", "active"}))

	_, err = repo.GetCampaignType(context.Background(), "missing")
	assert.Error(t, err)
	var notFound *domain.ErrNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_ActiveInstances_ScansNullableDates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCampaignRepository(db)

	rows := sqlmock.NewRows([]string{"id", "campaign_type", "instance_name", "email_template", "sms_template", "active_start_date", "active_end_date", "metadata"}).
		AddRow("inst-1", "annual_review", "2024 Review", "review_email", "review_sms", nil, nil, nil)

	mock.ExpectQuery(`SELECT (.+) FROM campaign_instances`).
		WillReturnRows(rows)

	instances, err := repo.ActiveInstances(context.Background(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Nil(t, instances[0].ActiveStartDate)
	assert.Equal(t, "{}", instances[0].Metadata, "a NULL metadata column should default to an empty JSON object")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_PendingMemberships_DefaultsMetadata(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCampaignRepository(db)

	rows := sqlmock.NewRows([]string{"contact_id", "campaign_instance_id", "trigger_date", "status", "metadata"}).
		AddRow(int64(1), "inst-1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), domain.MembershipPending, nil)

	mock.ExpectQuery(`SELECT (.+) FROM contact_campaigns`).
		WillReturnRows(rows)

	memberships, err := repo.PendingMemberships(context.Background(), "inst-1")
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "{}", memberships[0].Metadata)
	assert.NoError(t, mock.ExpectationsWereMet())
}
