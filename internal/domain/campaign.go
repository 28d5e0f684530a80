package domain

import "time"

// CampaignType is a named behavioural profile shared by every instance
// realising it.
type CampaignType struct {
	Name                    string
	RespectExclusionWindows bool
	EnableFollowups         bool
	DaysBeforeEvent         int
	TargetAllContacts       bool
	Priority                int
	Active                  bool
}

// CampaignInstance is a concrete realisation of a CampaignType.
type CampaignInstance struct {
	ID               string
	CampaignType     string
	InstanceName     string
	EmailTemplate    string
	SMSTemplate      string
	ActiveStartDate  *time.Time
	ActiveEndDate    *time.Time
	Metadata         string // opaque JSON, read with gjson
}

// ActiveOn reports whether the instance's active window contains day.
// A nil bound is unbounded on that side.
func (ci *CampaignInstance) ActiveOn(day time.Time) bool {
	if ci.ActiveStartDate != nil && day.Before(*ci.ActiveStartDate) {
		return false
	}
	if ci.ActiveEndDate != nil && day.After(*ci.ActiveEndDate) {
		return false
	}
	return true
}

// MembershipStatus is the lifecycle state of a ContactCampaignMembership.
type MembershipStatus string

const (
	MembershipPending MembershipStatus = "pending"
)

// ContactCampaignMembership targets a specific contact with a specific
// campaign instance at a specific trigger date.
type ContactCampaignMembership struct {
	ContactID          int64
	CampaignInstanceID string
	TriggerDate        time.Time
	Status             MembershipStatus
	Metadata           string
}
