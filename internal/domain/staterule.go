package domain

// StateRuleKind classifies how a state's exclusion window is anchored.
type StateRuleKind string

const (
	StateRuleYearRound            StateRuleKind = "year_round"
	StateRuleBirthdayWindow       StateRuleKind = "birthday_window"
	StateRuleEffectiveDateWindow  StateRuleKind = "effective_date_window"
)

// StateRule describes the exclusion-window policy for a single state.
// States absent from the registry have no exclusion window at all.
type StateRule struct {
	State          string
	Kind           StateRuleKind
	DaysBefore     int
	DaysAfter      int
	UseMonthStart  bool // BirthdayWindow only: relocate anchor to the 1st of its month
}
