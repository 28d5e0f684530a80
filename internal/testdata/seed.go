// Package testdata seeds sample campaign_types, campaign_instances, and
// contact_campaigns rows so the campaign pipeline can be exercised against
// a freshly initialized database without a production data load.
package testdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type campaignTypeSeed struct {
	name                    string
	respectExclusionWindows bool
	enableFollowups         bool
	daysBeforeEvent         int
	targetAllContacts       bool
	priority                int
	active                  bool
}

var campaignTypeSeeds = []campaignTypeSeed{
	{"rate_increase", true, true, 14, false, 1, true},
	{"seasonal_promo", true, true, 7, false, 5, true},
	{"initial_blast", false, false, 0, true, 10, true},
}

type campaignInstanceSeed struct {
	id            string
	campaignType  string
	instanceName  string
	emailTemplate string
	smsTemplate   string
}

// SeedCampaigns populates campaign_types, campaign_instances, and
// contact_campaigns with sample rows targeting up to 50 eligible contacts,
// split evenly between the two seeded instances.
func SeedCampaigns(ctx context.Context, db *sql.DB, contacts domain.ContactRepository, today time.Time) error {
	for _, ct := range campaignTypeSeeds {
		if err := seedCampaignType(ctx, db, ct); err != nil {
			return err
		}
	}

	rateInstance := campaignInstanceSeed{
		id:            uuid.New().String(),
		campaignType:  "rate_increase",
		instanceName:  "rate_increase_q1_2024",
		emailTemplate: "rate_increase_template_v1",
		smsTemplate:   "rate_increase_sms_v1",
	}
	promoInstance := campaignInstanceSeed{
		id:            uuid.New().String(),
		campaignType:  "seasonal_promo",
		instanceName:  "spring_enrollment_2024",
		emailTemplate: "spring_promo_template",
		smsTemplate:   "spring_promo_sms",
	}

	activeEnd := today.AddDate(0, 0, 90)
	for _, inst := range []campaignInstanceSeed{rateInstance, promoInstance} {
		if err := seedCampaignInstance(ctx, db, inst, today, activeEnd); err != nil {
			return err
		}
	}

	batch, err := contacts.FetchEligibleBatch(ctx, 0, 50)
	if err != nil {
		return fmt.Errorf("failed to fetch contacts to target: %w", err)
	}

	triggerDate := today.AddDate(0, 0, 30)
	half := len(batch) / 2

	for _, c := range batch[:half] {
		if err := seedMembership(ctx, db, c.ID, rateInstance.id, triggerDate); err != nil {
			return err
		}
	}
	for _, c := range batch[half:] {
		if err := seedMembership(ctx, db, c.ID, promoInstance.id, triggerDate); err != nil {
			return err
		}
	}

	return nil
}

func seedCampaignType(ctx context.Context, db *sql.DB, ct campaignTypeSeed) error {
	query, args, err := psql.Insert("campaign_types").
		Columns("name", "respect_exclusion_windows", "enable_followups", "days_before_event", "target_all_contacts", "priority", "active").
		Values(ct.name, ct.respectExclusionWindows, ct.enableFollowups, ct.daysBeforeEvent, ct.targetAllContacts, ct.priority, ct.active).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			respect_exclusion_windows = EXCLUDED.respect_exclusion_windows,
			enable_followups = EXCLUDED.enable_followups,
			days_before_event = EXCLUDED.days_before_event,
			target_all_contacts = EXCLUDED.target_all_contacts,
			priority = EXCLUDED.priority,
			active = EXCLUDED.active`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build campaign type insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to seed campaign type %s: %w", ct.name, err)
	}
	return nil
}

func seedCampaignInstance(ctx context.Context, db *sql.DB, inst campaignInstanceSeed, start, end time.Time) error {
	query, args, err := psql.Insert("campaign_instances").
		Columns("id", "campaign_type", "instance_name", "email_template", "sms_template", "active_start_date", "active_end_date").
		Values(inst.id, inst.campaignType, inst.instanceName, inst.emailTemplate, inst.smsTemplate, start, end).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build campaign instance insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to seed campaign instance %s: %w", inst.instanceName, err)
	}
	return nil
}

func seedMembership(ctx context.Context, db *sql.DB, contactID int64, instanceID string, triggerDate time.Time) error {
	query, args, err := psql.Insert("contact_campaigns").
		Columns("contact_id", "campaign_instance_id", "trigger_date", "status").
		Values(contactID, instanceID, triggerDate, domain.MembershipPending).
		Suffix("ON CONFLICT (contact_id, campaign_instance_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build contact campaign insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to seed membership for contact %d: %w", contactID, err)
	}
	return nil
}
