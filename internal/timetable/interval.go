package timetable

import "time"

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) share any instant. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// DateRangesIntersect reports whether the inclusive date ranges [aFrom,aTo]
// and [bFrom,bTo] share at least one calendar date. A nil upper bound means
// the range extends indefinitely.
func DateRangesIntersect(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time) bool {
	if aTo != nil && aTo.Before(bFrom) {
		return false
	}
	if bTo != nil && bTo.Before(aFrom) {
		return false
	}
	return true
}

// PatternsCanCoincide reports whether two recurrence patterns can ever place
// occurrences on the same calendar date: their weekday sets must share a day
// and their effective ranges must intersect. Patterns that cannot coincide
// never conflict regardless of their clock times.
func PatternsCanCoincide(a, b Pattern) bool {
	if !a.Weekdays.Intersects(b.Weekdays) {
		return false
	}
	return DateRangesIntersect(a.EffectiveFrom, a.EffectiveTo, b.EffectiveFrom, b.EffectiveTo)
}

// Date truncates an instant to its calendar date in the supplied location,
// normalized to midnight UTC so dates compare with Equal/Before/After.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" calendar date normalized to midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// FormatDate renders a calendar date as "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
