package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTier_MutuallyExclusive(t *testing.T) {
	cases := []struct {
		name string
		b    Behaviour
		want FollowupTier
	}{
		{"hq yes with conditions wins over everything", Behaviour{Clicked: true, AnsweredHQ: true, HasConditions: true}, tierHQWithYes},
		{"hq answered no conditions", Behaviour{Clicked: true, AnsweredHQ: true, HasConditions: false}, tierHQNoYes},
		{"clicked but never answered hq", Behaviour{Clicked: true, AnsweredHQ: false}, tierClicked},
		{"cold, no engagement at all", Behaviour{}, tierCold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectTier(tc.b))
		})
	}
}

func TestHasConditions_ExplicitFlag(t *testing.T) {
	assert.True(t, HasConditions(`{"has_medical_conditions": true}`))
	assert.False(t, HasConditions(`{"has_medical_conditions": false}`))
}

func TestHasConditions_YesCount(t *testing.T) {
	assert.True(t, HasConditions(`{"main_questions_yes_count": 2}`))
	assert.False(t, HasConditions(`{"main_questions_yes_count": 0}`))
}

func TestHasConditions_FuzzyConditionKey(t *testing.T) {
	assert.True(t, HasConditions(`{"diabetes_condition_flag": "yes"}`))
	assert.False(t, HasConditions(`{"diabetes_condition_flag": "false"}`))
}

func TestHasConditions_EmptyOrMalformed(t *testing.T) {
	assert.False(t, HasConditions(""))
	assert.False(t, HasConditions("not json"))
	assert.False(t, HasConditions(`[]`))
}
