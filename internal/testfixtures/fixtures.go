package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/timetable"
)

var (
	orgCounter      uint64
	userCounter     uint64
	roomCounter     uint64
	groupCounter    uint64
	scheduleCounter uint64
	lessonCounter   uint64
)

var referenceTime = time.Date(2024, time.December, 16, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Weekdays builds a weekday set, panicking on invalid input. Fixture data is
// hardcoded, so a failure is a test bug.
func Weekdays(days ...timetable.Weekday) timetable.WeekdaySet {
	set, err := timetable.NewWeekdaySet(days...)
	if err != nil {
		panic(err)
	}
	return set
}

// OrganizationOption configures a generated organization.
type OrganizationOption func(*persistence.Organization)

// NewOrganization returns a deterministic organization with optional
// overrides.
func NewOrganization(opts ...OrganizationOption) persistence.Organization {
	idx := atomic.AddUint64(&orgCounter, 1)
	org := persistence.Organization{
		ID:        fmt.Sprintf("org-%03d", idx),
		Name:      fmt.Sprintf("Center %03d", idx),
		Timezone:  "UTC",
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&org)
	}
	return org
}

// WithOrgID overrides the generated organization ID.
func WithOrgID(id string) OrganizationOption {
	return func(o *persistence.Organization) {
		o.ID = id
	}
}

// WithOrgTimezone overrides the organization timezone.
func WithOrgTimezone(tz string) OrganizationOption {
	return func(o *persistence.Organization) {
		o.Timezone = tz
	}
}

// UserOption configures a generated user.
type UserOption func(*persistence.User)

// NewTeacher returns a deterministic user holding the teacher role.
func NewTeacher(orgID string, opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("teacher-%03d", idx)
	user := persistence.User{
		ID:          id,
		OrgID:       orgID,
		DisplayName: fmt.Sprintf("Teacher %03d", idx),
		Email:       fmt.Sprintf("%s@example.com", id),
		Role:        persistence.RoleTeacher,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(u *persistence.User) {
		u.ID = id
	}
}

// WithUserRole overrides the generated role.
func WithUserRole(role string) UserOption {
	return func(u *persistence.User) {
		u.Role = role
	}
}

// RoomOption configures a generated room.
type RoomOption func(*persistence.Room)

// NewRoom returns a deterministic room with optional overrides.
func NewRoom(orgID string, opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	room := persistence.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		OrgID:     orgID,
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  12,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *persistence.Room) {
		r.ID = id
	}
}

// WithRoomCapacity overrides the seating capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) {
		r.Capacity = capacity
	}
}

// GroupOption configures a generated group.
type GroupOption func(*persistence.Group)

// NewGroup returns a deterministic student group with optional overrides.
func NewGroup(orgID string, opts ...GroupOption) persistence.Group {
	idx := atomic.AddUint64(&groupCounter, 1)
	group := persistence.Group{
		ID:            fmt.Sprintf("group-%03d", idx),
		OrgID:         orgID,
		Name:          fmt.Sprintf("Group %03d", idx),
		SubjectID:     fmt.Sprintf("subject-%03d", idx),
		EnrolledCount: 8,
		CreatedAt:     referenceTime,
		UpdatedAt:     referenceTime,
	}
	for _, opt := range opts {
		opt(&group)
	}
	return group
}

// WithGroupID overrides the generated group ID.
func WithGroupID(id string) GroupOption {
	return func(g *persistence.Group) {
		g.ID = id
	}
}

// WithGroupEnrolledCount overrides the enrolled student count.
func WithGroupEnrolledCount(count int) GroupOption {
	return func(g *persistence.Group) {
		g.EnrolledCount = count
	}
}

// WithGroupSubject overrides the subject reference.
func WithGroupSubject(subjectID string) GroupOption {
	return func(g *persistence.Group) {
		g.SubjectID = subjectID
	}
}

// ScheduleOption configures a generated schedule.
type ScheduleOption func(*persistence.Schedule)

// NewSchedule returns a deterministic Monday/Wednesday 09:00-10:00 schedule
// effective from the reference date, with optional overrides.
func NewSchedule(orgID, groupID, teacherID, roomID string, opts ...ScheduleOption) persistence.Schedule {
	idx := atomic.AddUint64(&scheduleCounter, 1)
	schedule := persistence.Schedule{
		ID:            fmt.Sprintf("schedule-%03d", idx),
		OrgID:         orgID,
		GroupID:       groupID,
		TeacherID:     teacherID,
		RoomID:        roomID,
		Weekdays:      Weekdays(timetable.Monday, timetable.Wednesday),
		Start:         timetable.TimeOfDay(9 * 60),
		End:           timetable.TimeOfDay(10 * 60),
		EffectiveFrom: timetable.Date(referenceTime, time.UTC),
		CreatedAt:     referenceTime,
		UpdatedAt:     referenceTime,
	}
	for _, opt := range opts {
		opt(&schedule)
	}
	return schedule
}

// WithScheduleID overrides the generated schedule ID.
func WithScheduleID(id string) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.ID = id
	}
}

// WithScheduleWeekdays overrides the weekday pattern.
func WithScheduleWeekdays(days ...timetable.Weekday) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.Weekdays = Weekdays(days...)
	}
}

// WithScheduleSlot overrides the daily time slot.
func WithScheduleSlot(start, end timetable.TimeOfDay) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.Start = start
		s.End = end
	}
}

// WithScheduleEffective overrides the effective date range. A nil to leaves
// the schedule open ended.
func WithScheduleEffective(from time.Time, to *time.Time) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.EffectiveFrom = from
		s.EffectiveTo = to
	}
}

// LessonOption configures a generated lesson.
type LessonOption func(*persistence.Lesson)

// NewLesson returns a deterministic ad-hoc Planned lesson on the reference
// date at 09:00-10:00, with optional overrides.
func NewLesson(orgID, groupID, teacherID, roomID string, opts ...LessonOption) persistence.Lesson {
	idx := atomic.AddUint64(&lessonCounter, 1)
	lesson := persistence.Lesson{
		ID:        fmt.Sprintf("lesson-%03d", idx),
		OrgID:     orgID,
		GroupID:   groupID,
		TeacherID: teacherID,
		RoomID:    roomID,
		SubjectID: "subject-001",
		Date:      timetable.Date(referenceTime, time.UTC),
		Start:     timetable.TimeOfDay(9 * 60),
		End:       timetable.TimeOfDay(10 * 60),
		Status:    timetable.StatusPlanned,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&lesson)
	}
	return lesson
}

// WithLessonID overrides the generated lesson ID.
func WithLessonID(id string) LessonOption {
	return func(l *persistence.Lesson) {
		l.ID = id
	}
}

// WithLessonSchedule links the lesson to an owning schedule.
func WithLessonSchedule(scheduleID string) LessonOption {
	return func(l *persistence.Lesson) {
		l.ScheduleID = &scheduleID
	}
}

// WithLessonDate overrides the calendar date.
func WithLessonDate(date time.Time) LessonOption {
	return func(l *persistence.Lesson) {
		l.Date = date
	}
}

// WithLessonSlot overrides the time slot.
func WithLessonSlot(start, end timetable.TimeOfDay) LessonOption {
	return func(l *persistence.Lesson) {
		l.Start = start
		l.End = end
	}
}

// WithLessonStatus overrides the lifecycle status.
func WithLessonStatus(status timetable.Status) LessonOption {
	return func(l *persistence.Lesson) {
		l.Status = status
	}
}

// WithLessonSubject overrides the subject reference.
func WithLessonSubject(subjectID string) LessonOption {
	return func(l *persistence.Lesson) {
		l.SubjectID = subjectID
	}
}
