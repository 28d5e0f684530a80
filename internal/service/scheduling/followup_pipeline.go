package scheduling

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/domain"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

// anniversaryEmailTypes are the source email types eligible for
// follow-up consideration without consulting campaign configuration.
var anniversaryEmailTypes = map[string]bool{
	domain.EmailTypeBirthday:      true,
	domain.EmailTypeEffectiveDate: true,
	domain.EmailTypeAEP:           true,
	domain.EmailTypePostWindow:    true,
}

var defaultFollowupTemplates = map[string]struct{ Email, SMS string }{
	tierCold.EmailType:      {"followup_cold_default", "followup_cold_default_sms"},
	tierClicked.EmailType:   {"followup_clicked_default", "followup_clicked_default_sms"},
	tierHQNoYes.EmailType:   {"followup_hq_no_yes_default", "followup_hq_no_yes_default_sms"},
	tierHQWithYes.EmailType: {"followup_hq_with_yes_default", "followup_hq_with_yes_default_sms"},
}

// FollowupPipeline classifies each eligible sent message into a
// behaviour tier and schedules a follow-up.
type FollowupPipeline struct {
	schedules domain.ScheduleRepository
	contacts  domain.ContactRepository
	campaigns domain.CampaignRepository
	events    domain.EventRepository
	registry  *datecalc.Registry
	cfg       *Config
	logger    logger.Logger
}

func NewFollowupPipeline(
	schedules domain.ScheduleRepository,
	contacts domain.ContactRepository,
	campaigns domain.CampaignRepository,
	events domain.EventRepository,
	registry *datecalc.Registry,
	cfg *Config,
	log logger.Logger,
) *FollowupPipeline {
	return &FollowupPipeline{
		schedules: schedules,
		contacts:  contacts,
		campaigns: campaigns,
		events:    events,
		registry:  registry,
		cfg:       cfg,
		logger:    log,
	}
}

// Generate produces the follow-up pass's candidate rows for today
//. The caller persists the result with its own run id.
func (p *FollowupPipeline) Generate(ctx context.Context, today time.Time) ([]*domain.EmailSchedule, error) {
	from := today.AddDate(0, 0, -p.cfg.FollowupLookbackDays)

	sent, err := p.schedules.SentOrDeliveredInRange(ctx, nil, from, today)
	if err != nil {
		return nil, NewSchedulingError(ErrCodeStorage, "failed to load sent messages", true, err)
	}

	var out []*domain.EmailSchedule
	for _, source := range sent {
		eligible, campaignType, err := p.isEligibleSource(ctx, source)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{"schedule_id": source.ID, "error": err.Error()}).Warn("failed to resolve campaign type for follow-up source")
			continue
		}
		if !eligible {
			continue
		}

		already, err := p.schedules.HasFollowupInWindow(ctx, source.ContactID, from, today)
		if err != nil {
			return nil, NewSchedulingError(ErrCodeStorage, "failed to check existing follow-ups", true, err)
		}
		if already {
			continue
		}

		row, err := p.buildFollowup(ctx, source, campaignType, today)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{"schedule_id": source.ID, "error": err.Error()}).Warn("failed to build follow-up row")
			continue
		}
		if row == nil {
			continue // silently dropped: in exclusion window
		}
		out = append(out, row)
	}

	return out, nil
}

// isEligibleSource reports whether a sent/delivered row is a valid
// follow-up source, and resolves its campaign type when applicable.
func (p *FollowupPipeline) isEligibleSource(ctx context.Context, source *domain.EmailSchedule) (bool, *domain.CampaignType, error) {
	if anniversaryEmailTypes[source.EmailType] {
		return true, nil, nil
	}
	if !strings.HasPrefix(source.EmailType, "campaign_") {
		return false, nil, nil
	}
	if source.CampaignInstanceID == nil {
		return false, nil, nil
	}
	instance, err := p.campaigns.GetInstanceByID(ctx, *source.CampaignInstanceID)
	if err != nil {
		return false, nil, err
	}
	campaignType, err := p.campaigns.GetCampaignType(ctx, instance.CampaignType)
	if err != nil {
		return false, nil, err
	}
	if !campaignType.EnableFollowups {
		return false, nil, nil
	}
	return true, campaignType, nil
}

func (p *FollowupPipeline) buildFollowup(ctx context.Context, source *domain.EmailSchedule, campaignType *domain.CampaignType, today time.Time) (*domain.EmailSchedule, error) {
	clicked, err := p.events.HasClickSince(ctx, source.ContactID, source.ScheduledSendDate)
	if err != nil {
		return nil, err
	}
	latest, err := p.events.LatestEligibilityEventSince(ctx, source.ContactID, source.ScheduledSendDate)
	if err != nil {
		return nil, err
	}

	behaviour := Behaviour{Clicked: clicked}
	if latest != nil {
		behaviour.AnsweredHQ = true
		behaviour.HasConditions = HasConditions(latest.Metadata)
	}

	tier := SelectTier(behaviour)

	sendDate := source.ScheduledSendDate.AddDate(0, 0, p.cfg.FollowupDaysAfter)
	tomorrow := today.AddDate(0, 0, 1)
	if sendDate.Before(tomorrow) {
		sendDate = tomorrow
	}

	contact, err := p.contacts.GetByID(ctx, source.ContactID)
	if err != nil {
		return nil, err
	}

	if p.inExclusionWindow(contact, sendDate, today) {
		return nil, nil
	}

	emailTemplate, smsTemplate := defaultFollowupTemplates[tier.EmailType].Email, defaultFollowupTemplates[tier.EmailType].SMS

	var instance *domain.CampaignInstance
	var campaignName string
	priority := tier.Priority

	if source.CampaignInstanceID != nil {
		instance, err = p.campaigns.GetInstanceByID(ctx, *source.CampaignInstanceID)
		if err != nil {
			return nil, err
		}
		campaignName = instance.InstanceName

		if override := gjson.Get(instance.Metadata, "followup_templates."+tier.EmailType); override.Exists() {
			if e := override.Get("email"); e.Exists() {
				emailTemplate = e.String()
			}
			if s := override.Get("sms"); s.Exists() {
				smsTemplate = s.String()
			}
		}

		if campaignType != nil {
			priority = minInt(tier.Priority, campaignType.Priority+1)
		}
	}

	metadata, err := json.Marshal(followupMetadata{
		SourceScheduleID: source.ID,
		Behaviour:        behaviour,
		CampaignName:     campaignName,
	})
	if err != nil {
		return nil, err
	}
	metadataStr := string(metadata)

	return &domain.EmailSchedule{
		ContactID:         source.ContactID,
		EmailType:         tier.EmailType,
		ScheduledSendDate: sendDate,
		Status:            domain.StatusPreScheduled,
		Priority:          priority,
		EmailTemplate:     emailTemplate,
		SMSTemplate:       smsTemplate,
		EventYear:         source.ScheduledSendDate.Year(),
		EventMonth:        int(source.ScheduledSendDate.Month()),
		EventDay:          source.ScheduledSendDate.Day(),
		Metadata:          &metadataStr,
	}, nil
}

// inExclusionWindow applies the full state exclusion-window check by
// default, or the reference implementation's reduced year-round-only
// check when LegacyFollowupExclusion is set.
func (p *FollowupPipeline) inExclusionWindow(contact *domain.Contact, sendDate, today time.Time) bool {
	rule := p.registry.Lookup(contact.State)
	if rule == nil {
		return false
	}
	if p.cfg.LegacyFollowupExclusion && rule.Kind != domain.StateRuleYearRound {
		return false
	}
	window := datecalc.ExclusionWindow(rule, contact, today, p.cfg.PreWindowExclusionDays)
	return datecalc.InWindow(sendDate, window)
}

type followupMetadata struct {
	SourceScheduleID int64     `json:"source_schedule_id"`
	Behaviour        Behaviour `json:"behaviour"`
	CampaignName     string    `json:"campaign_name,omitempty"`
}
