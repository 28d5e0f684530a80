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

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new PostgreSQL campaign repository.
func NewCampaignRepository(db *sql.DB) domain.CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) GetCampaignType(ctx context.Context, name string) (*domain.CampaignType, error) {
	query, args, err := psql.Select(
		"name", "respect_exclusion_windows", "enable_followups",
		"days_before_event", "target_all_contacts", "priority", "active",
	).From("campaign_types").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var ct domain.CampaignType
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&ct.Name, &ct.RespectExclusionWindows, &ct.EnableFollowups,
		&ct.DaysBeforeEvent, &ct.TargetAllContacts, &ct.Priority, &ct.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "campaign_type", ID: name}
		}
		return nil, fmt.Errorf("failed to get campaign type: %w", err)
	}
	return &ct, nil
}

func (r *campaignRepository) ActiveInstances(ctx context.Context, today time.Time) ([]*domain.CampaignInstance, error) {
	query, args, err := psql.Select(
		"id", "campaign_type", "instance_name", "email_template", "sms_template",
		"active_start_date", "active_end_date", "metadata",
	).From("campaign_instances").
		Where(sq.Or{sq.Eq{"active_start_date": nil}, sq.LtOrEq{"active_start_date": today}}).
		Where(sq.Or{sq.Eq{"active_end_date": nil}, sq.GtOrEq{"active_end_date": today}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active instances: %w", err)
	}
	defer rows.Close()

	var instances []*domain.CampaignInstance
	for rows.Next() {
		ci, err := scanCampaignInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign instance: %w", err)
		}
		instances = append(instances, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign instances: %w", err)
	}
	return instances, nil
}

func (r *campaignRepository) GetInstanceByID(ctx context.Context, id string) (*domain.CampaignInstance, error) {
	query, args, err := psql.Select(
		"id", "campaign_type", "instance_name", "email_template", "sms_template",
		"active_start_date", "active_end_date", "metadata",
	).From("campaign_instances").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	ci, err := scanCampaignInstance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "campaign_instance", ID: id}
		}
		return nil, fmt.Errorf("failed to get campaign instance: %w", err)
	}
	return ci, nil
}

func scanCampaignInstance(row rowScanner) (*domain.CampaignInstance, error) {
	var ci domain.CampaignInstance
	var start, end sql.NullTime
	var metadata sql.NullString
	if err := row.Scan(
		&ci.ID, &ci.CampaignType, &ci.InstanceName, &ci.EmailTemplate, &ci.SMSTemplate,
		&start, &end, &metadata,
	); err != nil {
		return nil, err
	}
	if start.Valid {
		ci.ActiveStartDate = &start.Time
	}
	if end.Valid {
		ci.ActiveEndDate = &end.Time
	}
	if metadata.Valid {
		ci.Metadata = metadata.String
	} else {
		ci.Metadata = "{}"
	}
	return &ci, nil
}

func (r *campaignRepository) PendingMemberships(ctx context.Context, campaignInstanceID string) ([]*domain.ContactCampaignMembership, error) {
	query, args, err := psql.Select("contact_id", "campaign_instance_id", "trigger_date", "status", "metadata").
		From("contact_campaigns").
		Where(sq.Eq{"campaign_instance_id": campaignInstanceID, "status": domain.MembershipPending}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*domain.ContactCampaignMembership
	for rows.Next() {
		var m domain.ContactCampaignMembership
		var metadata sql.NullString
		if err := rows.Scan(&m.ContactID, &m.CampaignInstanceID, &m.TriggerDate, &m.Status, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		if metadata.Valid {
			m.Metadata = metadata.String
		} else {
			m.Metadata = "{}"
		}
		memberships = append(memberships, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}
	return memberships, nil
}
