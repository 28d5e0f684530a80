// Package scheduling implements the scheduling engine's core
// pipelines: anniversary and campaign message generation, load
// balancing, frequency limiting, persistence, checkpointing, and the
// behaviour-driven follow-up pass.
package scheduling

import "time"

// Config holds every tunable constant the engine needs, all
// overridable by the caller (internal/config wires these from
// viper/env).
type Config struct {
	SendTime string // HH:MM:SS, default "08:30:00"

	BatchSize int // default 10000

	MaxEmailsPerPeriod int // default 5
	PeriodDays         int // default 30

	BirthdayEmailDaysBefore      int // default 14
	EffectiveDateEmailDaysBefore int // default 30
	PreWindowExclusionDays       int // default 60

	AEPMonth int // default 9
	AEPDay   int // default 15

	DailySendPercentageCap float64 // default 0.07
	EDDailySoftLimit       int     // default 15
	EDSmoothingWindowDays  int     // default 5 (offsets in [-2, +2])
	OverageThreshold       float64 // default 1.2

	FollowupDaysAfter   int // default 2
	FollowupLookbackDays int // default 35

	// LegacyFollowupExclusion switches the follow-up pipeline's
	// exclusion check to the reduced, year-round-only test the
	// reference implementation uses, instead of the full window test.
	// Defaults to false (full check).
	LegacyFollowupExclusion bool
}

// DefaultConfig returns the canonical set of defaults.
func DefaultConfig() *Config {
	return &Config{
		SendTime: "08:30:00",

		BatchSize: 10000,

		MaxEmailsPerPeriod: 5,
		PeriodDays:         30,

		BirthdayEmailDaysBefore:      14,
		EffectiveDateEmailDaysBefore: 30,
		PreWindowExclusionDays:       60,

		AEPMonth: 9,
		AEPDay:   15,

		DailySendPercentageCap: 0.07,
		EDDailySoftLimit:       15,
		EDSmoothingWindowDays:  5,
		OverageThreshold:       1.2,

		FollowupDaysAfter:    2,
		FollowupLookbackDays: 35,

		LegacyFollowupExclusion: false,
	}
}

// PeriodDuration returns the rolling frequency window as a duration.
func (c *Config) PeriodDuration() time.Duration {
	return time.Duration(c.PeriodDays) * 24 * time.Hour
}
