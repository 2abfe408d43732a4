package timetable

import (
	"errors"
	"time"
)

// Status tracks a lesson through its lifecycle. Lessons start Planned and
// move to Completed, Cancelled, or Moved; a cancelled lesson is retained,
// never deleted.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusMoved     Status = "moved"
)

// Valid reports whether the status is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusCompleted, StatusCancelled, StatusMoved:
		return true
	}
	return false
}

var (
	// ErrNotYetHeld rejects completing a lesson whose calendar date has not
	// arrived. The comparison is by date only, independent of time of day.
	ErrNotYetHeld = errors.New("timetable: lesson has not yet been held")
	// ErrRescheduleCompleted rejects moving a lesson that already took place.
	ErrRescheduleCompleted = errors.New("timetable: completed lessons cannot be rescheduled")
	// ErrStartsInPast rejects moving a lesson to an instant that has passed.
	ErrStartsInPast = errors.New("timetable: new start time is in the past")
)

// CompleteTransition validates marking a lesson complete. lessonDate and
// today are calendar dates (midnight UTC); today must be computed in the
// organization's timezone.
func CompleteTransition(current Status, lessonDate, today time.Time) (Status, error) {
	if lessonDate.After(today) {
		return current, ErrNotYetHeld
	}
	return StatusCompleted, nil
}

// CancelTransition validates cancelling a lesson. Cancellation is permitted
// from any state; the lesson row is kept with its reason.
func CancelTransition(current Status) (Status, error) {
	return StatusCancelled, nil
}

// RescheduleTransition validates moving a lesson to a new start instant.
// newStart is the absolute start of the moved occurrence and now the
// organization-local current time.
func RescheduleTransition(current Status, newStart, now time.Time) (Status, error) {
	if current == StatusCompleted {
		return current, ErrRescheduleCompleted
	}
	if newStart.Before(now) {
		return current, ErrStartsInPast
	}
	return StatusMoved, nil
}
