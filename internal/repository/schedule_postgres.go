package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new PostgreSQL email schedule repository.
func NewScheduleRepository(db *sql.DB) domain.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) ClearPending(ctx context.Context, contactIDs []int64) error {
	if len(contactIDs) == 0 {
		return nil
	}

	query, args, err := psql.Delete("email_schedules").
		Where(sq.Eq{"contact_id": contactIDs}).
		Where(sq.Eq{"status": []domain.ScheduleStatus{domain.StatusPreScheduled, domain.StatusSkipped}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear pending schedules: %w", err)
	}
	return nil
}

// InsertBatch writes rows in a single transaction, relying on the
// table's uniqueness constraint on (contact_id, email_type,
// event_year, event_month, event_day) to silently drop duplicates.
func (r *scheduleRepository) InsertBatch(ctx context.Context, rows []*domain.EmailSchedule) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := psql.Insert("email_schedules").Columns(
		"contact_id", "email_type", "scheduled_send_date", "scheduled_send_time",
		"status", "skip_reason", "priority", "campaign_instance_id",
		"email_template", "sms_template", "scheduler_run_id",
		"event_year", "event_month", "event_day", "metadata",
	).Suffix("ON CONFLICT (contact_id, email_type, event_year, event_month, event_day) DO NOTHING")

	for _, row := range rows {
		insert = insert.Values(
			row.ContactID, row.EmailType, row.ScheduledSendDate, row.ScheduledSendTime,
			row.Status, row.SkipReason, row.Priority, nullableString(row.CampaignInstanceID),
			row.EmailTemplate, row.SMSTemplate, row.SchedulerRunID,
			row.EventYear, row.EventMonth, row.EventDay, nullableString(row.Metadata),
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert schedule batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func (r *scheduleRepository) CountRecentForContact(ctx context.Context, contactID int64, statuses []domain.ScheduleStatus, from, to time.Time) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("email_schedules").
		Where(sq.Eq{"contact_id": contactID, "status": statuses}).
		Where(sq.GtOrEq{"scheduled_send_date": from}).
		Where(sq.Lt{"scheduled_send_date": to}).
		Where("email_type NOT LIKE 'followup\\_%' ESCAPE '\\'").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent schedules: %w", err)
	}
	return count, nil
}

func (r *scheduleRepository) SentOrDeliveredInRange(ctx context.Context, emailTypes []string, from, to time.Time) ([]*domain.EmailSchedule, error) {
	sb := psql.Select(
		"id", "contact_id", "email_type", "scheduled_send_date", "scheduled_send_time",
		"status", "skip_reason", "priority", "campaign_instance_id",
		"email_template", "sms_template", "scheduler_run_id",
		"event_year", "event_month", "event_day", "metadata",
	).From("email_schedules").
		Where(sq.Eq{"status": []domain.ScheduleStatus{domain.StatusSent, domain.StatusDelivered}}).
		Where(sq.GtOrEq{"scheduled_send_date": from}).
		Where(sq.LtOrEq{"scheduled_send_date": to})

	if len(emailTypes) > 0 {
		sb = sb.Where(sq.Eq{"email_type": emailTypes})
	}

	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent/delivered rows: %w", err)
	}
	defer rows.Close()

	var results []*domain.EmailSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}
	return results, nil
}

func (r *scheduleRepository) HasFollowupInWindow(ctx context.Context, contactID int64, from, to time.Time) (bool, error) {
	query, args, err := psql.Select("1").
		From("email_schedules").
		Where(sq.Eq{"contact_id": contactID}).
		Where("email_type LIKE 'followup\\_%' ESCAPE '\\'").
		Where(sq.GtOrEq{"scheduled_send_date": from}).
		Where(sq.LtOrEq{"scheduled_send_date": to}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var found int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check followup window: %w", err)
	}
	return true, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*domain.EmailSchedule, error) {
	query, args, err := psql.Select(
		"id", "contact_id", "email_type", "scheduled_send_date", "scheduled_send_time",
		"status", "skip_reason", "priority", "campaign_instance_id",
		"email_template", "sms_template", "scheduler_run_id",
		"event_year", "event_month", "event_day", "metadata",
	).From("email_schedules").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	s, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "email_schedule", ID: fmt.Sprintf("%d", id)}
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

func scanSchedule(row rowScanner) (*domain.EmailSchedule, error) {
	var s domain.EmailSchedule
	var campaignInstanceID, metadata sql.NullString
	if err := row.Scan(
		&s.ID, &s.ContactID, &s.EmailType, &s.ScheduledSendDate, &s.ScheduledSendTime,
		&s.Status, &s.SkipReason, &s.Priority, &campaignInstanceID,
		&s.EmailTemplate, &s.SMSTemplate, &s.SchedulerRunID,
		&s.EventYear, &s.EventMonth, &s.EventDay, &metadata,
	); err != nil {
		return nil, err
	}
	if campaignInstanceID.Valid {
		s.CampaignInstanceID = &campaignInstanceID.String
	}
	if metadata.Valid {
		s.Metadata = &metadata.String
	}
	return &s, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
