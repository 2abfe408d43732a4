package application

import (
	"context"
	"time"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/timetable"
)

// scheduleConflictSource is the read surface the detector needs from the
// schedule repository.
type scheduleConflictSource interface {
	ListSchedules(ctx context.Context, filter persistence.ScheduleFilter) ([]persistence.Schedule, int, error)
}

// lessonConflictSource is the read surface the detector needs from the
// lesson repository.
type lessonConflictSource interface {
	ListLessonsOnDate(ctx context.Context, orgID string, date time.Time) ([]persistence.Lesson, error)
}

// ConflictDetector decides whether a proposed schedule or lesson would
// double-book a teacher, room, or group within one organization. A slot is
// invalid when any of the three resource dimensions matches, not all three.
//
// The checks are advisory: they re-read current persisted state but run
// outside the write transaction. The repositories repeat the decision inside
// the write, which is the authoritative guard under concurrency.
type ConflictDetector struct {
	schedules scheduleConflictSource
	lessons   lessonConflictSource
}

// NewConflictDetector wires the detector to its repositories.
func NewConflictDetector(schedules scheduleConflictSource, lessons lessonConflictSource) *ConflictDetector {
	return &ConflictDetector{schedules: schedules, lessons: lessons}
}

// WouldScheduleConflict reports whether the candidate pattern collides with
// any existing schedule of the same organization: shared teacher, room, or
// group, intersecting weekday sets and effective ranges, and overlapping
// half-open time slots. Short-circuits on the first collision.
func (d *ConflictDetector) WouldScheduleConflict(ctx context.Context, candidate persistence.Schedule) (bool, error) {
	existing, _, err := d.schedules.ListSchedules(ctx, persistence.ScheduleFilter{OrgID: candidate.OrgID})
	if err != nil {
		return false, mapRepoError(err)
	}

	for _, schedule := range existing {
		if !sharesResource(schedule.TeacherID, schedule.RoomID, schedule.GroupID,
			candidate.TeacherID, candidate.RoomID, candidate.GroupID) {
			continue
		}
		if !timetable.PatternsCanCoincide(schedule.Pattern(), candidate.Pattern()) {
			continue
		}
		if timetable.Overlaps(schedule.Start, schedule.End, candidate.Start, candidate.End) {
			return true, nil
		}
	}
	return false, nil
}

// WouldLessonConflict reports whether the candidate slot collides with
// another lesson of the same organization on the same calendar date.
// excludeLessonID skips the lesson being rescheduled so it never conflicts
// with itself.
func (d *ConflictDetector) WouldLessonConflict(ctx context.Context, candidate persistence.Lesson, excludeLessonID string) (bool, error) {
	lessons, err := d.lessons.ListLessonsOnDate(ctx, candidate.OrgID, candidate.Date)
	if err != nil {
		return false, mapRepoError(err)
	}

	for _, lesson := range lessons {
		if lesson.ID == excludeLessonID {
			continue
		}
		if !sharesResource(lesson.TeacherID, lesson.RoomID, lesson.GroupID,
			candidate.TeacherID, candidate.RoomID, candidate.GroupID) {
			continue
		}
		if timetable.Overlaps(lesson.Start, lesson.End, candidate.Start, candidate.End) {
			return true, nil
		}
	}
	return false, nil
}

func sharesResource(teacherA, roomA, groupA, teacherB, roomB, groupB string) bool {
	return teacherA == teacherB || roomA == roomB || groupA == groupB
}
