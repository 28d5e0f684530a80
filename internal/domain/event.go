package domain

import "time"

// TrackingClick is a single click event recorded against a contact.
type TrackingClick struct {
	ContactID int64
	ClickedAt time.Time
}

// ContactEvent is a generic timestamped event with opaque JSON
// metadata, used here for eligibility-questionnaire submissions.
type ContactEvent struct {
	ContactID int64
	EventType string
	CreatedAt time.Time
	Metadata  string // JSON text, read with gjson
}

const EventTypeEligibilityAnswered = "eligibility_answered"
