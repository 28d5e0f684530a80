package scheduling

import "time"

// TimeProvider abstracts wall-clock time so tests can pin "today"
// without sleeping or faking the system clock.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider is the default TimeProvider, backed by time.Now.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// NewRealTimeProvider returns the default TimeProvider.
func NewRealTimeProvider() TimeProvider { return RealTimeProvider{} }

// FixedTimeProvider returns a constant time; used in tests.
type FixedTimeProvider struct {
	T time.Time
}

func (f FixedTimeProvider) Now() time.Time { return f.T }
