package application

import (
	"time"

	"github.com/example/classtime/internal/timetable"
)

// ScheduleInput captures caller provided fields for a new recurring schedule.
// Weekdays use the Monday=1..Sunday=7 numbering.
type ScheduleInput struct {
	OrgID         string
	GroupID       string
	TeacherID     string
	RoomID        string
	Weekdays      []int
	Start         timetable.TimeOfDay
	End           timetable.TimeOfDay
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

// ListSchedulesParams narrows and pages a schedule listing. Page numbering
// starts at 1.
type ListSchedulesParams struct {
	OrgID     string
	GroupID   string
	TeacherID string
	RoomID    string
	SubjectID string
	Page      int
	PageSize  int
}

// LessonInput captures caller provided fields for an ad-hoc lesson.
type LessonInput struct {
	OrgID     string
	GroupID   string
	TeacherID string
	RoomID    string
	Date      time.Time
	Start     timetable.TimeOfDay
	End       timetable.TimeOfDay
	Note      *string
}

// RescheduleInput captures the target slot and mandatory reason for moving
// a lesson.
type RescheduleInput struct {
	Date   time.Time
	Start  timetable.TimeOfDay
	End    timetable.TimeOfDay
	Reason string
}
