package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// It decides which calendar day counts as "today" for every computation.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today is the local calendar date of the clock's current instant.
func Today(c Clock) CalendarDate {
	return DateOf(c.Now())
}
