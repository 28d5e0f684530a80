package datecalc

import (
	"time"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

// DefaultPreWindowExclusionDays extends every birthday/effective-date window
// backward to cover advance-notice sends landing inside the quiet
// period.
const DefaultPreWindowExclusionDays = 60

// Window is an inclusive [Start, End] calendar-date pair. A zero Window
// (IsZero true) means the contact has no exclusion window.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// ExclusionWindow computes the contact's exclusion window for today,
// or a zero Window if the state has no rule or the rule needs a date
// the contact doesn't supply.
func ExclusionWindow(rule *domain.StateRule, contact *domain.Contact, today time.Time, preWindowDays int) Window {
	if rule == nil {
		return Window{}
	}

	switch rule.Kind {
	case domain.StateRuleYearRound:
		return Window{
			Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		}

	case domain.StateRuleBirthdayWindow:
		if contact.BirthDate == nil {
			return Window{}
		}
		anchor, ok := NextAnniversary(*contact.BirthDate, today)
		if !ok {
			return Window{}
		}
		if rule.UseMonthStart {
			anchor = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
		return Window{
			Start: anchor.AddDate(0, 0, -(rule.DaysBefore + preWindowDays)),
			End:   anchor.AddDate(0, 0, rule.DaysAfter),
		}

	case domain.StateRuleEffectiveDateWindow:
		if contact.EffectiveDate == nil {
			return Window{}
		}
		anchor, ok := NextAnniversary(*contact.EffectiveDate, today)
		if !ok {
			return Window{}
		}
		return Window{
			Start: anchor.AddDate(0, 0, -(rule.DaysBefore + preWindowDays)),
			End:   anchor.AddDate(0, 0, rule.DaysAfter),
		}
	}

	return Window{}
}

// InWindow reports whether sendDate falls inside the window. When Start
// and End share a calendar year the test is Start <= sendDate <= End;
// when they do not (the window wraps a year boundary) a date counts as
// inside if it is on or after Start or on or before End.
func InWindow(sendDate time.Time, w Window) bool {
	if w.IsZero() {
		return false
	}
	send := dateOnly(sendDate)
	start := dateOnly(w.Start)
	end := dateOnly(w.End)

	if start.Year() == end.Year() {
		return !send.Before(start) && !send.After(end)
	}
	return !send.Before(start) || !send.After(end)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
