package persistence

import (
	"context"
	"time"
)

// ScheduleFilter narrows schedule queries. OrgID is mandatory; the remaining
// dimensions are applied only when non-empty. SubjectID filters through the
// owning group. Limit 0 means no paging.
type ScheduleFilter struct {
	OrgID     string
	GroupID   string
	TeacherID string
	RoomID    string
	SubjectID string
	Limit     int
	Offset    int
}

// ScheduleRepository stores recurring schedule definitions together with the
// lessons materialized from them.
type ScheduleRepository interface {
	// CreateScheduleLessons persists the schedule and its generated lesson
	// batch as a single unit: either all rows land or none do. The write
	// transaction re-verifies that no existing schedule double-books the
	// candidate's teacher, room, or group and returns ErrOverlap otherwise.
	CreateScheduleLessons(ctx context.Context, schedule Schedule, lessons []Lesson) error
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]Schedule, int, error)
	// DeleteSchedule removes the definition and cascades to its generated
	// lessons that are still planned; held or cancelled lessons are kept.
	DeleteSchedule(ctx context.Context, id string) error
}

// LessonRepository stores concrete lesson occurrences.
type LessonRepository interface {
	// CreateLesson persists one ad-hoc lesson. The write transaction
	// re-verifies non-overlap and returns ErrOverlap on a double booking.
	CreateLesson(ctx context.Context, lesson Lesson) error
	GetLesson(ctx context.Context, id string) (Lesson, error)
	// UpdateLesson rewrites status, reason, and note. Timing is not touched;
	// use MoveLesson for date or time changes.
	UpdateLesson(ctx context.Context, lesson Lesson) error
	// MoveLesson rewrites the lesson's date, times, status, and reason,
	// re-verifying non-overlap against all other lessons inside the write
	// transaction. Returns ErrOverlap on a double booking.
	MoveLesson(ctx context.Context, lesson Lesson) error
	ListLessonsOnDate(ctx context.Context, orgID string, date time.Time) ([]Lesson, error)
	ListLessonsBySchedule(ctx context.Context, scheduleID string, from, to *time.Time) ([]Lesson, error)
}

// DirectoryRepository stores the organizations, users, rooms, and groups the
// timetabling core resolves its references against.
type DirectoryRepository interface {
	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id string) (Organization, error)
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	CreateGroup(ctx context.Context, group Group) error
	GetGroup(ctx context.Context, id string) (Group, error)
}
