package scheduling

import (
	"context"
	"time"

	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

// CampaignPipeline produces campaign-instance messages for explicitly
// targeted contacts.
type CampaignPipeline struct {
	campaigns domain.CampaignRepository
	registry  *datecalc.Registry
	cfg       *Config
	logger    logger.Logger
}

func NewCampaignPipeline(campaigns domain.CampaignRepository, registry *datecalc.Registry, cfg *Config, log logger.Logger) *CampaignPipeline {
	return &CampaignPipeline{campaigns: campaigns, registry: registry, cfg: cfg, logger: log}
}

// GenerateForBatch evaluates every active campaign instance against
// the contacts in the current batch.
func (p *CampaignPipeline) GenerateForBatch(ctx context.Context, contacts []*domain.Contact, today time.Time) ([]*domain.EmailSchedule, error) {
	byID := make(map[int64]*domain.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}

	instances, err := p.campaigns.ActiveInstances(ctx, today)
	if err != nil {
		return nil, NewSchedulingError(ErrCodeStorage, "failed to load active campaign instances", true, err)
	}

	var out []*domain.EmailSchedule
	for _, instance := range instances {
		campaignType, err := p.campaigns.GetCampaignType(ctx, instance.CampaignType)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{
				"campaign_instance_id": instance.ID,
				"campaign_type":        instance.CampaignType,
			}).Warn("campaign type missing, skipping instance")
			continue
		}
		if !campaignType.Active {
			continue
		}

		memberships, err := p.campaigns.PendingMemberships(ctx, instance.ID)
		if err != nil {
			return nil, NewSchedulingError(ErrCodeStorage, "failed to load campaign memberships", true, err)
		}

		for _, m := range memberships {
			contact, inBatch := byID[m.ContactID]
			if !inBatch {
				continue
			}

			row, skip := p.evaluateMembership(contact, m, instance, campaignType, today)
			if skip {
				continue
			}
			out = append(out, row)
		}
	}

	return out, nil
}

func (p *CampaignPipeline) evaluateMembership(contact *domain.Contact, m *domain.ContactCampaignMembership, instance *domain.CampaignInstance, campaignType *domain.CampaignType, today time.Time) (*domain.EmailSchedule, bool) {
	sendDate := m.TriggerDate.AddDate(0, 0, -campaignType.DaysBeforeEvent)
	if sendDate.Before(today) {
		p.logger.WithFields(map[string]interface{}{
			"contact_id":            contact.ID,
			"campaign_instance_id":  instance.ID,
			"send_date":             sendDate,
		}).Info("campaign send date already past, discarding")
		return nil, true
	}

	instanceID := instance.ID
	row := &domain.EmailSchedule{
		ContactID:          contact.ID,
		EmailType:          domain.CampaignEmailType(campaignType.Name),
		ScheduledSendDate:  sendDate,
		Priority:           campaignType.Priority,
		CampaignInstanceID: &instanceID,
		EmailTemplate:      instance.EmailTemplate,
		SMSTemplate:        instance.SMSTemplate,
		EventYear:          m.TriggerDate.Year(),
		EventMonth:         int(m.TriggerDate.Month()),
		EventDay:           m.TriggerDate.Day(),
	}

	if campaignType.RespectExclusionWindows {
		rule := p.registry.Lookup(contact.State)
		window := datecalc.ExclusionWindow(rule, contact, today, p.cfg.PreWindowExclusionDays)
		if datecalc.InWindow(sendDate, window) {
			row.Status = domain.StatusSkipped
			row.SkipReason = domain.SkipReasonExclusionWindow
			return row, false
		}
	}

	row.Status = domain.StatusPreScheduled
	return row, false
}
