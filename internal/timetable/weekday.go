package timetable

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weekday numbers days Monday=1 through Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// ErrEmptyWeekdaySet indicates a recurrence pattern selects no weekdays.
var ErrEmptyWeekdaySet = errors.New("timetable: weekday set is empty")

// FromTime converts the standard library weekday to the Monday=1..Sunday=7
// numbering. time.Weekday counts Sunday as 0, so Sunday maps to 7.
func FromTime(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekday(d)
}

// Valid reports whether the weekday falls within Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the English day name.
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	return names[d-1]
}

// WeekdaySet is a bitset over the seven weekdays. Bit d-1 is set when
// weekday d is selected.
type WeekdaySet uint8

// NewWeekdaySet builds a set from the provided days, rejecting values
// outside Monday..Sunday and empty selections.
func NewWeekdaySet(days ...Weekday) (WeekdaySet, error) {
	var set WeekdaySet
	for _, d := range days {
		if !d.Valid() {
			return 0, fmt.Errorf("timetable: weekday %d out of range 1..7", int(d))
		}
		set |= 1 << (d - 1)
	}
	if set == 0 {
		return 0, ErrEmptyWeekdaySet
	}
	return set, nil
}

// WeekdaySetFromInts builds a set from raw 1..7 values, as supplied by callers.
func WeekdaySetFromInts(days []int) (WeekdaySet, error) {
	converted := make([]Weekday, len(days))
	for i, d := range days {
		converted[i] = Weekday(d)
	}
	return NewWeekdaySet(converted...)
}

// Contains reports whether the set selects the given weekday.
func (s WeekdaySet) Contains(d Weekday) bool {
	if !d.Valid() {
		return false
	}
	return s&(1<<(d-1)) != 0
}

// Intersects reports whether two sets share at least one weekday.
func (s WeekdaySet) Intersects(other WeekdaySet) bool {
	return s&other&allWeekdays != 0
}

// IsEmpty reports whether the set selects no weekdays.
func (s WeekdaySet) IsEmpty() bool {
	return s&allWeekdays == 0
}

// Valid reports whether the set is non-empty and uses only the seven day bits.
func (s WeekdaySet) Valid() bool {
	return !s.IsEmpty() && s&^allWeekdays == 0
}

// Days returns the selected weekdays in Monday-first order.
func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Ints returns the selected weekdays as raw 1..7 values.
func (s WeekdaySet) Ints() []int {
	days := s.Days()
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}

// String lists the selected day names separated by commas.
func (s WeekdaySet) String() string {
	days := s.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}

const allWeekdays WeekdaySet = 1<<7 - 1
