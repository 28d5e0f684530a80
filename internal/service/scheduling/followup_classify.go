package scheduling

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FollowupTier is one of four behaviour-derived classes.
type FollowupTier struct {
	EmailType string
	Priority  int
}

var (
	tierHQWithYes = FollowupTier{EmailType: "followup_4_hq_with_yes", Priority: 1}
	tierHQNoYes   = FollowupTier{EmailType: "followup_3_hq_no_yes", Priority: 2}
	tierClicked   = FollowupTier{EmailType: "followup_2_clicked_no_hq", Priority: 3}
	tierCold      = FollowupTier{EmailType: "followup_1_cold", Priority: 4}
)

// Behaviour is the classification snapshot produced for a single sent
// message.
type Behaviour struct {
	Clicked       bool `json:"clicked"`
	AnsweredHQ    bool `json:"answered_hq"`
	HasConditions bool `json:"has_conditions"`
}

// SelectTier applies the mutually-exclusive tier table.
func SelectTier(b Behaviour) FollowupTier {
	switch {
	case b.AnsweredHQ && b.HasConditions:
		return tierHQWithYes
	case b.AnsweredHQ && !b.HasConditions:
		return tierHQNoYes
	case b.Clicked && !b.AnsweredHQ:
		return tierClicked
	default:
		return tierCold
	}
}

// HasConditions parses an eligibility event's opaque JSON metadata and
// reports whether it indicates reported medical conditions: an
// explicit has_medical_conditions flag, a positive
// main_questions_yes_count, or any truthy key whose name contains the
// substring "condition".
func HasConditions(metadataJSON string) bool {
	if metadataJSON == "" {
		return false
	}
	parsed := gjson.Parse(metadataJSON)
	if !parsed.IsObject() {
		return false
	}

	if parsed.Get("has_medical_conditions").Bool() {
		return true
	}
	if parsed.Get("main_questions_yes_count").Int() > 0 {
		return true
	}

	found := false
	parsed.ForEach(func(key, value gjson.Result) bool {
		if strings.Contains(strings.ToLower(key.String()), "condition") && isTruthy(value) {
			found = true
			return false
		}
		return true
	})
	return found
}

func isTruthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		s := v.String()
		return s != "" && s != "false" && s != "0"
	default:
		return false
	}
}
