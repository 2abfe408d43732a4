package timetable

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since local midnight.
// The value 1440 is permitted as an exclusive interval end meaning midnight
// of the following day.
type TimeOfDay int

const minutesPerDay = 24 * 60

// ParseTimeOfDay parses a "15:04" formatted clock time.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("timetable: invalid clock time %q: %w", value, err)
	}
	return TimeOfDay(parsed.Hour()*60 + parsed.Minute()), nil
}

// Valid reports whether the value lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= minutesPerDay
}

// Before reports whether t precedes other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// String formats the value as "15:04".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the raw minute count for persistence.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// At anchors the clock time on the supplied calendar date in the given
// location, yielding an absolute instant.
func (t TimeOfDay) At(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, loc)
}
