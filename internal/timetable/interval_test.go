package timetable

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd TimeOfDay
		want                       bool
	}{
		{"identical slots", 540, 600, 540, 600, true},
		{"partial overlap", 540, 630, 600, 660, true},
		{"contained slot", 540, 720, 600, 660, true},
		{"touching slots do not overlap", 540, 600, 600, 660, false},
		{"touching slots reversed", 600, 660, 540, 600, false},
		{"disjoint slots", 540, 600, 720, 780, false},
		{"one minute overlap", 540, 601, 600, 660, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %q", tc.name)
			}
		})
	}
}

func TestDateRangesIntersect(t *testing.T) {
	t.Parallel()

	date := func(value string) time.Time {
		parsed, err := ParseDate(value)
		if err != nil {
			t.Fatalf("bad date %q: %v", value, err)
		}
		return parsed
	}
	ptr := func(value string) *time.Time {
		d := date(value)
		return &d
	}

	cases := []struct {
		name  string
		aFrom time.Time
		aTo   *time.Time
		bFrom time.Time
		bTo   *time.Time
		want  bool
	}{
		{"overlapping bounded ranges", date("2025-01-01"), ptr("2025-01-31"), date("2025-01-15"), ptr("2025-02-15"), true},
		{"disjoint bounded ranges", date("2025-01-01"), ptr("2025-01-14"), date("2025-01-15"), ptr("2025-01-31"), false},
		{"shared boundary date", date("2025-01-01"), ptr("2025-01-15"), date("2025-01-15"), ptr("2025-01-31"), true},
		{"open ended intersects later range", date("2025-01-01"), nil, date("2026-06-01"), ptr("2026-06-30"), true},
		{"open ended before bounded range ends", date("2025-06-01"), nil, date("2025-01-01"), ptr("2025-05-31"), false},
		{"both open ended", date("2025-01-01"), nil, date("2030-01-01"), nil, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DateRangesIntersect(tc.aFrom, tc.aTo, tc.bFrom, tc.bTo); got != tc.want {
				t.Fatalf("DateRangesIntersect = %v, want %v", got, tc.want)
			}
			if got := DateRangesIntersect(tc.bFrom, tc.bTo, tc.aFrom, tc.aTo); got != tc.want {
				t.Fatalf("DateRangesIntersect is not symmetric for %q", tc.name)
			}
		})
	}
}

func TestPatternsCanCoincide(t *testing.T) {
	t.Parallel()

	from, err := ParseDate("2025-01-01")
	if err != nil {
		t.Fatalf("bad date: %v", err)
	}

	base := Pattern{Weekdays: mustSet(t, Monday, Wednesday), Start: 540, End: 600, EffectiveFrom: from}

	t.Run("disjoint weekdays never coincide", func(t *testing.T) {
		t.Parallel()
		other := base
		other.Weekdays = mustSet(t, Tuesday, Thursday)
		if PatternsCanCoincide(base, other) {
			t.Fatal("patterns with disjoint weekdays reported as coinciding")
		}
	})

	t.Run("disjoint effective ranges never coincide", func(t *testing.T) {
		t.Parallel()
		aTo := from.AddDate(0, 0, 13)
		a := base
		a.EffectiveTo = &aTo

		b := base
		b.EffectiveFrom = from.AddDate(0, 0, 14)
		if PatternsCanCoincide(a, b) {
			t.Fatal("patterns with disjoint effective ranges reported as coinciding")
		}
	})

	t.Run("shared weekday and range coincide", func(t *testing.T) {
		t.Parallel()
		other := base
		other.Weekdays = mustSet(t, Wednesday, Friday)
		if !PatternsCanCoincide(base, other) {
			t.Fatal("patterns sharing Wednesday reported as never coinciding")
		}
	})
}

func TestDateLocalizes(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 23:30 UTC on Jan 1 is already Jan 2 in Tokyo.
	instant := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)

	utcDate := Date(instant, time.UTC)
	if got := FormatDate(utcDate); got != "2025-01-01" {
		t.Fatalf("UTC date = %s, want 2025-01-01", got)
	}

	tokyoDate := Date(instant, tokyo)
	if got := FormatDate(tokyoDate); got != "2025-01-02" {
		t.Fatalf("Tokyo date = %s, want 2025-01-02", got)
	}
	if tokyoDate.Location() != time.UTC {
		t.Fatal("dates must be normalized to midnight UTC")
	}
}

func mustSet(t *testing.T, days ...Weekday) WeekdaySet {
	t.Helper()
	set, err := NewWeekdaySet(days...)
	if err != nil {
		t.Fatalf("failed to build weekday set: %v", err)
	}
	return set
}
