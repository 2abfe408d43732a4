package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/timetable"
)

// LessonService orchestrates single-lesson mutations: ad-hoc creation,
// rescheduling, completion, cancellation, and note updates. Every temporal
// guard is evaluated against the organization-local clock, never against
// ambient server time.
type LessonService struct {
	lessons     persistence.LessonRepository
	schedules   persistence.ScheduleRepository
	directory   persistence.DirectoryRepository
	detector    *ConflictDetector
	idGenerator func() string
	now         func() time.Time
	location    *time.Location
	logger      *zap.Logger
}

// NewLessonService wires dependencies for lesson operations. A nil
// idGenerator falls back to UUIDs, a nil now to time.Now, a nil location
// to UTC.
func NewLessonService(lessons persistence.LessonRepository, schedules persistence.ScheduleRepository, directory persistence.DirectoryRepository, detector *ConflictDetector, idGenerator func() string, now func() time.Time, location *time.Location, logger *zap.Logger) *LessonService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{
		lessons:     lessons,
		schedules:   schedules,
		directory:   directory,
		detector:    detector,
		idGenerator: idGenerator,
		now:         now,
		location:    location,
		logger:      logger,
	}
}

// today returns the organization-local calendar date.
func (s *LessonService) today() time.Time {
	return timetable.Date(s.now(), s.location)
}

// CreateAdHocLesson creates a single lesson outside any recurring schedule.
// The date must be today or later, the room must seat the group, and the
// slot must not double-book the teacher, room, or group.
func (s *LessonService) CreateAdHocLesson(ctx context.Context, input LessonInput) (persistence.Lesson, error) {
	vErr := &ValidationError{}
	if input.Date.IsZero() {
		vErr.add("date", "lesson date is required")
	}
	if !input.Start.Valid() || !input.End.Valid() || !input.Start.Before(input.End) {
		vErr.add("time", "start time must be before end time")
	}
	if vErr.HasErrors() {
		return persistence.Lesson{}, vErr
	}

	if input.Date.Before(s.today()) {
		return persistence.Lesson{}, conflictf("lesson date %s is in the past", timetable.FormatDate(input.Date))
	}

	group, err := lookupGroup(ctx, s.directory, input.OrgID, input.GroupID)
	if err != nil {
		return persistence.Lesson{}, err
	}
	if _, err := lookupTeacher(ctx, s.directory, input.OrgID, input.TeacherID); err != nil {
		return persistence.Lesson{}, err
	}
	room, err := lookupRoom(ctx, s.directory, input.OrgID, input.RoomID)
	if err != nil {
		return persistence.Lesson{}, err
	}
	if room.Capacity < group.EnrolledCount {
		return persistence.Lesson{}, conflictf("room %s seats %d but group %s has %d enrolled students",
			room.ID, room.Capacity, group.ID, group.EnrolledCount)
	}

	createdAt := s.now()
	lesson := persistence.Lesson{
		ID:        s.idGenerator(),
		OrgID:     input.OrgID,
		GroupID:   input.GroupID,
		TeacherID: input.TeacherID,
		RoomID:    input.RoomID,
		SubjectID: group.SubjectID,
		Date:      input.Date,
		Start:     input.Start,
		End:       input.End,
		Status:    timetable.StatusPlanned,
		Note:      input.Note,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	conflicts, err := s.detector.WouldLessonConflict(ctx, lesson, "")
	if err != nil {
		return persistence.Lesson{}, err
	}
	if conflicts {
		return persistence.Lesson{}, conflictf(
			"the teacher, room, or group already has a lesson overlapping %s %s-%s",
			timetable.FormatDate(lesson.Date), lesson.Start, lesson.End)
	}

	if err := s.lessons.CreateLesson(ctx, lesson); err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	s.logger.Info("ad-hoc lesson created",
		zap.String("lesson_id", lesson.ID),
		zap.String("org_id", lesson.OrgID),
		zap.String("date", timetable.FormatDate(lesson.Date)))
	return lesson, nil
}

// RescheduleLesson moves a lesson to a new slot. The same row is mutated,
// its status becomes Moved, and the mandatory reason is recorded. Completed
// lessons cannot be moved, and the target slot may not lie in the past.
func (s *LessonService) RescheduleLesson(ctx context.Context, lessonID string, input RescheduleInput) (persistence.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Reason) == "" {
		vErr.add("reason", "a reason is required to reschedule a lesson")
	}
	if input.Date.IsZero() {
		vErr.add("date", "target date is required")
	}
	if !input.Start.Valid() || !input.End.Valid() || !input.Start.Before(input.End) {
		vErr.add("time", "start time must be before end time")
	}
	if vErr.HasErrors() {
		return persistence.Lesson{}, vErr
	}

	newStart := input.Start.At(input.Date, s.location)
	status, err := timetable.RescheduleTransition(lesson.Status, newStart, s.now().In(s.location))
	if err != nil {
		return persistence.Lesson{}, guardConflict(err)
	}

	reason := strings.TrimSpace(input.Reason)
	moved := lesson
	moved.Date = input.Date
	moved.Start = input.Start
	moved.End = input.End
	moved.Status = status
	moved.Reason = &reason
	moved.UpdatedAt = s.now()

	conflicts, err := s.detector.WouldLessonConflict(ctx, moved, lesson.ID)
	if err != nil {
		return persistence.Lesson{}, err
	}
	if conflicts {
		return persistence.Lesson{}, conflictf(
			"the teacher, room, or group already has a lesson overlapping %s %s-%s",
			timetable.FormatDate(moved.Date), moved.Start, moved.End)
	}

	if err := s.lessons.MoveLesson(ctx, moved); err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	s.logger.Info("lesson rescheduled",
		zap.String("lesson_id", moved.ID),
		zap.String("date", timetable.FormatDate(moved.Date)))
	return moved, nil
}

// CompleteLesson marks a lesson as held. Lessons dated after the
// organization-local today are rejected.
func (s *LessonService) CompleteLesson(ctx context.Context, lessonID string) (persistence.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	status, err := timetable.CompleteTransition(lesson.Status, lesson.Date, s.today())
	if err != nil {
		return persistence.Lesson{}, guardConflict(err)
	}

	lesson.Status = status
	lesson.UpdatedAt = s.now()
	if err := s.lessons.UpdateLesson(ctx, lesson); err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	s.logger.Info("lesson completed", zap.String("lesson_id", lesson.ID))
	return lesson, nil
}

// CancelLesson marks a lesson as cancelled, keeping the row and recording
// the reason. Past and future lessons alike may be cancelled.
func (s *LessonService) CancelLesson(ctx context.Context, lessonID, reason string) (persistence.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	status, err := timetable.CancelTransition(lesson.Status)
	if err != nil {
		return persistence.Lesson{}, guardConflict(err)
	}

	lesson.Status = status
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		lesson.Reason = &trimmed
	}
	lesson.UpdatedAt = s.now()
	if err := s.lessons.UpdateLesson(ctx, lesson); err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	s.logger.Info("lesson cancelled", zap.String("lesson_id", lesson.ID))
	return lesson, nil
}

// UpdateLessonNote attaches free text to a lesson in any status.
func (s *LessonService) UpdateLessonNote(ctx context.Context, lessonID, note string) (persistence.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}

	lesson.Note = &note
	lesson.UpdatedAt = s.now()
	if err := s.lessons.UpdateLesson(ctx, lesson); err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}
	return lesson, nil
}

// GetLesson retrieves one lesson.
func (s *LessonService) GetLesson(ctx context.Context, lessonID string) (persistence.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		return persistence.Lesson{}, mapRepoError(err)
	}
	return lesson, nil
}

// ListLessonsBySchedule returns the lessons generated from a schedule,
// optionally clipped to an inclusive date range.
func (s *LessonService) ListLessonsBySchedule(ctx context.Context, scheduleID string, from, to *time.Time) ([]persistence.Lesson, error) {
	if _, err := s.schedules.GetSchedule(ctx, scheduleID); err != nil {
		return nil, mapRepoError(err)
	}
	lessons, err := s.lessons.ListLessonsBySchedule(ctx, scheduleID, from, to)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return lessons, nil
}

// guardConflict converts a lifecycle guard failure into the user-facing
// conflict taxonomy.
func guardConflict(err error) error {
	switch {
	case errors.Is(err, timetable.ErrNotYetHeld):
		return conflictf("the lesson has not yet been held and cannot be completed")
	case errors.Is(err, timetable.ErrRescheduleCompleted):
		return conflictf("a completed lesson cannot be rescheduled")
	case errors.Is(err, timetable.ErrStartsInPast):
		return conflictf("the new start time is in the past")
	default:
		return err
	}
}
