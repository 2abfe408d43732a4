package timetable

import (
	"fmt"
	"time"
)

// DefaultHorizonMonths bounds materialization for open-ended patterns:
// a pattern without an effective-to date is expanded until effective-from
// plus this many calendar months.
const DefaultHorizonMonths = 2

// Pattern is a weekly recurrence: selected weekdays, a daily time slot, and
// an inclusive effective date range. EffectiveFrom and EffectiveTo are
// calendar dates at midnight UTC; a nil EffectiveTo leaves the pattern
// open-ended.
type Pattern struct {
	Weekdays      WeekdaySet
	Start         TimeOfDay
	End           TimeOfDay
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

// Validate checks the structural invariants of the pattern.
func (p Pattern) Validate() error {
	if !p.Weekdays.Valid() {
		return ErrEmptyWeekdaySet
	}
	if !p.Start.Valid() || !p.End.Valid() {
		return fmt.Errorf("timetable: clock times must fall within a day")
	}
	if !p.Start.Before(p.End) {
		return fmt.Errorf("timetable: start time %s must precede end time %s", p.Start, p.End)
	}
	if p.EffectiveTo != nil && p.EffectiveTo.Before(p.EffectiveFrom) {
		return fmt.Errorf("timetable: effective-to %s precedes effective-from %s",
			FormatDate(*p.EffectiveTo), FormatDate(p.EffectiveFrom))
	}
	return nil
}

// Horizon returns the inclusive date range the pattern materializes over.
// Open-ended patterns are clamped to horizonMonths calendar months past
// effective-from; a non-positive horizonMonths falls back to the default.
func (p Pattern) Horizon(horizonMonths int) (time.Time, time.Time) {
	if p.EffectiveTo != nil {
		return p.EffectiveFrom, *p.EffectiveTo
	}
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	return p.EffectiveFrom, p.EffectiveFrom.AddDate(0, horizonMonths, 0)
}

// Materialize expands the pattern into the calendar dates of its concrete
// occurrences: every date within the horizon whose weekday is selected, in
// chronological order. Dates are midnight UTC.
func Materialize(p Pattern, horizonMonths int) []time.Time {
	from, to := p.Horizon(horizonMonths)

	var dates []time.Time
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if p.Weekdays.Contains(FromTime(day.Weekday())) {
			dates = append(dates, day)
		}
	}
	return dates
}
