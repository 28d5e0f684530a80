package domain

import (
	"context"
	"time"
)

// ContactRepository streams eligible contacts from storage in pages.
type ContactRepository interface {
	// CountEligible returns the total number of eligible contacts,
	// used by the Load Balancer to derive the daily cap.
	CountEligible(ctx context.Context) (int, error)

	// FetchEligibleBatch returns up to limit eligible contacts
	// (non-empty email, state, zip) starting at offset, ordered by id.
	FetchEligibleBatch(ctx context.Context, offset, limit int) ([]*Contact, error)

	// GetByID fetches a single contact, used by the follow-up pipeline
	// to re-derive exclusion windows for a contact outside the current
	// batch.
	GetByID(ctx context.Context, id int64) (*Contact, error)
}

// CampaignRepository reads campaign configuration and membership rows.
type CampaignRepository interface {
	GetCampaignType(ctx context.Context, name string) (*CampaignType, error)

	// ActiveInstances returns every campaign instance whose active
	// window contains today.
	ActiveInstances(ctx context.Context, today time.Time) ([]*CampaignInstance, error)

	// PendingMemberships returns every pending membership row for the
	// given campaign instance.
	PendingMemberships(ctx context.Context, campaignInstanceID string) ([]*ContactCampaignMembership, error)

	// GetInstanceByID fetches a single campaign instance, used by the
	// follow-up pipeline to resolve per-tier template overrides and
	// the source campaign's name.
	GetInstanceByID(ctx context.Context, id string) (*CampaignInstance, error)
}

// ScheduleRepository persists and queries email_schedules rows.
type ScheduleRepository interface {
	// ClearPending deletes pre-scheduled and skipped rows for the
	// given contacts, per the run's wipe-then-repopulate lifecycle.
	ClearPending(ctx context.Context, contactIDs []int64) error

	// InsertBatch writes a batch of rows in one transaction, silently
	// ignoring duplicates keyed on (contact_id, email_type, date).
	InsertBatch(ctx context.Context, rows []*EmailSchedule) error

	// CountRecentForContact returns the carry-over count: messages
	// with the given statuses whose scheduled_send_date falls in
	// [from, to) for a contact, excluding follow-ups.
	CountRecentForContact(ctx context.Context, contactID int64, statuses []ScheduleStatus, from, to time.Time) (int, error)

	// SentOrDeliveredInRange returns rows with status sent/delivered
	// and scheduled_send_date in [from, to]. A nil emailTypes selects
	// every email type; the follow-up pipeline itself filters down to
	// anniversary types and followups-enabled campaign types.
	SentOrDeliveredInRange(ctx context.Context, emailTypes []string, from, to time.Time) ([]*EmailSchedule, error)

	// HasFollowupInWindow reports whether the contact already has any
	// followup_* row scheduled within [from, to].
	HasFollowupInWindow(ctx context.Context, contactID int64, from, to time.Time) (bool, error)

	// GetByID fetches a single row by its primary key (used to
	// validate followup metadata references).
	GetByID(ctx context.Context, id int64) (*EmailSchedule, error)
}

// CheckpointRepository persists scheduler_checkpoints rows.
type CheckpointRepository interface {
	Start(ctx context.Context, runID string, startedAt time.Time) error
	Complete(ctx context.Context, runID string, processed, scheduled, skipped int, completedAt time.Time) error
	Fail(ctx context.Context, runID string, errMsg string, completedAt time.Time) error
}

// EventRepository reads tracking_clicks and contact_events for the
// follow-up pipeline's behaviour classification.
type EventRepository interface {
	HasClickSince(ctx context.Context, contactID int64, since time.Time) (bool, error)

	// LatestEligibilityEventSince returns the most recent eligibility
	// event at or after since, or nil if none exists.
	LatestEligibilityEventSince(ctx context.Context, contactID int64, since time.Time) (*ContactEvent, error)
}
