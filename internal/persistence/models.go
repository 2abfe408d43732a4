package persistence

import (
	"time"

	"github.com/example/classtime/internal/timetable"
)

// Organization is a tenant of the education center platform. Every other
// entity is scoped to exactly one organization.
type Organization struct {
	ID        string
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User roles recognised by the directory.
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
)

// User is a staff account within an organization.
type User struct {
	ID          string
	OrgID       string
	DisplayName string
	Email       string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Room is a physical classroom with a seating capacity.
type Room struct {
	ID        string
	OrgID     string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Group is a student group studying one subject. EnrolledCount is the
// current number of enrolled students, checked against room capacity.
type Group struct {
	ID            string
	OrgID         string
	Name          string
	SubjectID     string
	EnrolledCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Schedule is a recurring weekly pattern assigning a teacher, room, and
// group to a time slot. Patterns are immutable once created; corrections
// happen at the lesson level.
type Schedule struct {
	ID            string
	OrgID         string
	GroupID       string
	TeacherID     string
	RoomID        string
	Weekdays      timetable.WeekdaySet
	Start         timetable.TimeOfDay
	End           timetable.TimeOfDay
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Pattern adapts the schedule to the recurrence engine's value type.
func (s Schedule) Pattern() timetable.Pattern {
	return timetable.Pattern{
		Weekdays:      s.Weekdays,
		Start:         s.Start,
		End:           s.End,
		EffectiveFrom: s.EffectiveFrom,
		EffectiveTo:   s.EffectiveTo,
	}
}

// Lesson is one concrete dated occurrence, generated from a schedule or
// created ad hoc (nil ScheduleID). Date is a calendar date at midnight UTC.
type Lesson struct {
	ID         string
	OrgID      string
	ScheduleID *string
	GroupID    string
	TeacherID  string
	RoomID     string
	SubjectID  string
	Date       time.Time
	Start      timetable.TimeOfDay
	End        timetable.TimeOfDay
	Status     timetable.Status
	Reason     *string
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
