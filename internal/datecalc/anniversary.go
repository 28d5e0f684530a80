// Package datecalc implements the date arithmetic at the heart of the
// scheduling engine: next-anniversary computation with leap-day
// policy, and the state-rule-driven exclusion-window calculus.
package datecalc

import "time"

// NextAnniversary returns the next occurrence of d's month/day on or
// after the day after today. If the candidate date in today's year is
// strictly after today, it is used; otherwise the following year's
// candidate is used.
//
// Leap-day policy: when d is Feb 29 and the target year is not a leap
// year, the result collapses to Feb 28 of that year.
//
// Returns the zero time and false if d is the zero time.
func NextAnniversary(d, today time.Time) (time.Time, bool) {
	if d.IsZero() {
		return time.Time{}, false
	}

	month, day := d.Month(), d.Day()

	candidate := anniversaryIn(today.Year(), month, day)
	if candidate.After(today) {
		return candidate, true
	}
	return anniversaryIn(today.Year()+1, month, day), true
}

// anniversaryIn builds month/day in year, collapsing Feb 29 to Feb 28
// when year is not a leap year.
func anniversaryIn(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
