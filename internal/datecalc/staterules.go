package datecalc

import "github.com/pyrex41/o-email-schedule/internal/domain"

// DefaultStateRules is the canonical state-rule table.
// States absent from this map have no exclusion window.
var DefaultStateRules = map[string]*domain.StateRule{
	"CA": {State: "CA", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 30, DaysAfter: 60},
	"ID": {State: "ID", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 0, DaysAfter: 63},
	"KY": {State: "KY", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 0, DaysAfter: 60},
	"MD": {State: "MD", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 0, DaysAfter: 30},
	"NV": {State: "NV", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 0, DaysAfter: 60, UseMonthStart: true},
	"OK": {State: "OK", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 0, DaysAfter: 60},
	"OR": {State: "OR", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 0, DaysAfter: 31},
	"VA": {State: "VA", Kind: domain.StateRuleBirthdayWindow, DaysBefore: 0, DaysAfter: 30},

	"MO": {State: "MO", Kind: domain.StateRuleEffectiveDateWindow, DaysBefore: 30, DaysAfter: 33},

	"CT": {State: "CT", Kind: domain.StateRuleYearRound},
	"MA": {State: "MA", Kind: domain.StateRuleYearRound},
	"NY": {State: "NY", Kind: domain.StateRuleYearRound},
	"WA": {State: "WA", Kind: domain.StateRuleYearRound},
}

// Registry looks up state rules by two-letter code.
type Registry struct {
	rules map[string]*domain.StateRule
}

// NewRegistry builds a Registry over the given rule set. Pass nil to
// use DefaultStateRules.
func NewRegistry(rules map[string]*domain.StateRule) *Registry {
	if rules == nil {
		rules = DefaultStateRules
	}
	return &Registry{rules: rules}
}

// Lookup returns the rule for state, or nil if the state has none.
func (r *Registry) Lookup(state string) *domain.StateRule {
	return r.rules[state]
}
