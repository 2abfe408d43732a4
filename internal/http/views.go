package http

import (
	"fmt"
	"time"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/timetable"
)

type scheduleView struct {
	ID            string `json:"id"`
	OrgID         string `json:"org_id"`
	GroupID       string `json:"group_id"`
	TeacherID     string `json:"teacher_id"`
	RoomID        string `json:"room_id"`
	Weekdays      []int  `json:"weekdays"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	EffectiveFrom string `json:"effective_from"`
	EffectiveTo   string `json:"effective_to,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func newScheduleView(schedule persistence.Schedule) scheduleView {
	view := scheduleView{
		ID:            schedule.ID,
		OrgID:         schedule.OrgID,
		GroupID:       schedule.GroupID,
		TeacherID:     schedule.TeacherID,
		RoomID:        schedule.RoomID,
		Weekdays:      schedule.Weekdays.Ints(),
		StartTime:     schedule.Start.String(),
		EndTime:       schedule.End.String(),
		EffectiveFrom: timetable.FormatDate(schedule.EffectiveFrom),
		CreatedAt:     schedule.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     schedule.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if schedule.EffectiveTo != nil {
		view.EffectiveTo = timetable.FormatDate(*schedule.EffectiveTo)
	}
	return view
}

type lessonView struct {
	ID         string `json:"id"`
	OrgID      string `json:"org_id"`
	ScheduleID string `json:"schedule_id,omitempty"`
	GroupID    string `json:"group_id"`
	TeacherID  string `json:"teacher_id"`
	RoomID     string `json:"room_id"`
	SubjectID  string `json:"subject_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Note       string `json:"note,omitempty"`
}

func newLessonView(lesson persistence.Lesson) lessonView {
	view := lessonView{
		ID:        lesson.ID,
		OrgID:     lesson.OrgID,
		GroupID:   lesson.GroupID,
		TeacherID: lesson.TeacherID,
		RoomID:    lesson.RoomID,
		SubjectID: lesson.SubjectID,
		Date:      timetable.FormatDate(lesson.Date),
		StartTime: lesson.Start.String(),
		EndTime:   lesson.End.String(),
		Status:    string(lesson.Status),
	}
	if lesson.ScheduleID != nil {
		view.ScheduleID = *lesson.ScheduleID
	}
	if lesson.Reason != nil {
		view.Reason = *lesson.Reason
	}
	if lesson.Note != nil {
		view.Note = *lesson.Note
	}
	return view
}

func newLessonViews(lessons []persistence.Lesson) []lessonView {
	views := make([]lessonView, 0, len(lessons))
	for _, lesson := range lessons {
		views = append(views, newLessonView(lesson))
	}
	return views
}

type organizationView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

func newOrganizationView(org persistence.Organization) organizationView {
	return organizationView{
		ID:        org.ID,
		Name:      org.Name,
		Timezone:  org.Timezone,
		CreatedAt: org.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type userView struct {
	ID          string `json:"id"`
	OrgID       string `json:"org_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}

func newUserView(user persistence.User) userView {
	return userView{
		ID:          user.ID,
		OrgID:       user.OrgID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type roomView struct {
	ID        string `json:"id"`
	OrgID     string `json:"org_id"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	CreatedAt string `json:"created_at"`
}

func newRoomView(room persistence.Room) roomView {
	return roomView{
		ID:        room.ID,
		OrgID:     room.OrgID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type groupView struct {
	ID            string `json:"id"`
	OrgID         string `json:"org_id"`
	Name          string `json:"name"`
	SubjectID     string `json:"subject_id"`
	EnrolledCount int    `json:"enrolled_count"`
	CreatedAt     string `json:"created_at"`
}

func newGroupView(group persistence.Group) groupView {
	return groupView{
		ID:            group.ID,
		OrgID:         group.OrgID,
		Name:          group.Name,
		SubjectID:     group.SubjectID,
		EnrolledCount: group.EnrolledCount,
		CreatedAt:     group.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// parseClockTime parses a "15:04" request field.
func parseClockTime(field, value string) (timetable.TimeOfDay, error) {
	parsed, err := timetable.ParseTimeOfDay(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a clock time formatted as 15:04", field)
	}
	return parsed, nil
}

// parseDateField parses a "2006-01-02" request field.
func parseDateField(field, value string) (time.Time, error) {
	parsed, err := timetable.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date formatted as 2006-01-02", field)
	}
	return parsed, nil
}
