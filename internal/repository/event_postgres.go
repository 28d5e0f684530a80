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

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) HasClickSince(ctx context.Context, contactID int64, since time.Time) (bool, error) {
	query, args, err := psql.Select("1").
		From("tracking_clicks").
		Where(sq.Eq{"contact_id": contactID}).
		Where(sq.GtOrEq{"clicked_at": since}).
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
		return false, fmt.Errorf("failed to check click history: %w", err)
	}
	return true, nil
}

func (r *eventRepository) LatestEligibilityEventSince(ctx context.Context, contactID int64, since time.Time) (*domain.ContactEvent, error) {
	query, args, err := psql.Select("contact_id", "event_type", "occurred_at", "metadata").
		From("contact_events").
		Where(sq.Eq{"contact_id": contactID, "event_type": domain.EventTypeEligibilityAnswered}).
		Where(sq.GtOrEq{"occurred_at": since}).
		OrderBy("occurred_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var e domain.ContactEvent
	var metadata sql.NullString
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&e.ContactID, &e.EventType, &e.CreatedAt, &metadata)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest eligibility event: %w", err)
	}
	if metadata.Valid {
		e.Metadata = metadata.String
	} else {
		e.Metadata = "{}"
	}
	return &e, nil
}
