package domain

import "time"

// ScheduleStatus is the lifecycle state of an EmailSchedule row.
type ScheduleStatus string

const (
	StatusPreScheduled ScheduleStatus = "pre-scheduled"
	StatusSkipped      ScheduleStatus = "skipped"
	StatusSent         ScheduleStatus = "sent"
	StatusDelivered    ScheduleStatus = "delivered"
)

// SkipReason explains why a row carries StatusSkipped.
type SkipReason string

const (
	SkipReasonNone            SkipReason = ""
	SkipReasonExclusionWindow SkipReason = "exclusion_window"
	SkipReasonFrequencyLimit  SkipReason = "frequency_limit"
)

// Anniversary email types.
const (
	EmailTypeBirthday      = "birthday"
	EmailTypeEffectiveDate = "effective_date"
	EmailTypeAEP           = "aep"
	EmailTypePostWindow    = "post_window"
)

// Follow-up tiers.
const (
	EmailTypeFollowupCold       = "followup_1_cold"
	EmailTypeFollowupClicked    = "followup_2_clicked_no_hq"
	EmailTypeFollowupHQNoYes    = "followup_3_hq_no_yes"
	EmailTypeFollowupHQWithYes  = "followup_4_hq_with_yes"
)

// CampaignEmailType derives the email_type for a campaign instance of
// the given campaign type name.
func CampaignEmailType(campaignTypeName string) string {
	return "campaign_" + campaignTypeName
}

// IsFollowup reports whether an email type names a follow-up tier.
func IsFollowup(emailType string) bool {
	return len(emailType) > 9 && emailType[:9] == "followup_"
}

// EmailSchedule is the engine's single output row.
type EmailSchedule struct {
	ID                 int64
	ContactID          int64
	EmailType          string
	ScheduledSendDate  time.Time
	ScheduledSendTime  string
	Status             ScheduleStatus
	SkipReason         SkipReason
	Priority           int
	CampaignInstanceID *string
	EmailTemplate      string
	SMSTemplate        string
	SchedulerRunID     string
	EventYear          int
	EventMonth         int
	EventDay           int
	Metadata           *string
}
