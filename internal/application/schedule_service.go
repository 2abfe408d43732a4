package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/timetable"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ScheduleService orchestrates recurring schedule creation: structural
// validation, directory checks, the advisory conflict check, and atomic
// persistence of the schedule together with its materialized lessons.
type ScheduleService struct {
	schedules     persistence.ScheduleRepository
	directory     persistence.DirectoryRepository
	detector      *ConflictDetector
	idGenerator   func() string
	now           func() time.Time
	horizonMonths int
	logger        *zap.Logger
}

// NewScheduleService wires dependencies for schedule operations. A nil
// idGenerator falls back to UUIDs, a nil now to time.Now, a non-positive
// horizon to the default two months.
func NewScheduleService(schedules persistence.ScheduleRepository, directory persistence.DirectoryRepository, detector *ConflictDetector, idGenerator func() string, now func() time.Time, horizonMonths int, logger *zap.Logger) *ScheduleService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	if horizonMonths <= 0 {
		horizonMonths = timetable.DefaultHorizonMonths
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		schedules:     schedules,
		directory:     directory,
		detector:      detector,
		idGenerator:   idGenerator,
		now:           now,
		horizonMonths: horizonMonths,
		logger:        logger,
	}
}

// CreateSchedule validates the proposal, checks it against every existing
// schedule of the organization, and on success persists the definition
// together with one Planned lesson per matching date in the effective
// horizon. Returns the stored schedule and the number of lessons created.
func (s *ScheduleService) CreateSchedule(ctx context.Context, input ScheduleInput) (persistence.Schedule, int, error) {
	vErr := &ValidationError{}

	weekdays, err := timetable.WeekdaySetFromInts(input.Weekdays)
	if err != nil {
		vErr.add("weekdays", "weekdays must be a non-empty set of values 1 (Monday) through 7 (Sunday)")
	}
	if !input.Start.Valid() || !input.End.Valid() || !input.Start.Before(input.End) {
		vErr.add("time", "start time must be before end time")
	}
	if input.EffectiveFrom.IsZero() {
		vErr.add("effective_from", "effective-from date is required")
	}
	if input.EffectiveTo != nil && input.EffectiveTo.Before(input.EffectiveFrom) {
		vErr.add("effective_to", "effective-to must not precede effective-from")
	}
	if vErr.HasErrors() {
		return persistence.Schedule{}, 0, vErr
	}

	group, err := lookupGroup(ctx, s.directory, input.OrgID, input.GroupID)
	if err != nil {
		return persistence.Schedule{}, 0, err
	}
	if _, err := lookupTeacher(ctx, s.directory, input.OrgID, input.TeacherID); err != nil {
		return persistence.Schedule{}, 0, err
	}
	if _, err := lookupRoom(ctx, s.directory, input.OrgID, input.RoomID); err != nil {
		return persistence.Schedule{}, 0, err
	}

	createdAt := s.now()
	schedule := persistence.Schedule{
		ID:            s.idGenerator(),
		OrgID:         input.OrgID,
		GroupID:       input.GroupID,
		TeacherID:     input.TeacherID,
		RoomID:        input.RoomID,
		Weekdays:      weekdays,
		Start:         input.Start,
		End:           input.End,
		EffectiveFrom: input.EffectiveFrom,
		EffectiveTo:   input.EffectiveTo,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	conflicts, err := s.detector.WouldScheduleConflict(ctx, schedule)
	if err != nil {
		return persistence.Schedule{}, 0, err
	}
	if conflicts {
		return persistence.Schedule{}, 0, conflictf(
			"the teacher, room, or group is already scheduled for an intersecting weekly slot")
	}

	lessons := s.materializeLessons(schedule, group.SubjectID, createdAt)

	if err := s.schedules.CreateScheduleLessons(ctx, schedule, lessons); err != nil {
		return persistence.Schedule{}, 0, mapRepoError(err)
	}

	s.logger.Info("schedule created",
		zap.String("schedule_id", schedule.ID),
		zap.String("org_id", schedule.OrgID),
		zap.Int("lessons", len(lessons)))
	return schedule, len(lessons), nil
}

// ListSchedules returns the requested page of the organization's schedules.
func (s *ScheduleService) ListSchedules(ctx context.Context, params ListSchedulesParams) ([]persistence.Schedule, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	schedules, total, err := s.schedules.ListSchedules(ctx, persistence.ScheduleFilter{
		OrgID:     params.OrgID,
		GroupID:   params.GroupID,
		TeacherID: params.TeacherID,
		RoomID:    params.RoomID,
		SubjectID: params.SubjectID,
		Limit:     size,
		Offset:    (page - 1) * size,
	})
	if err != nil {
		return nil, 0, mapRepoError(err)
	}
	return schedules, total, nil
}

// GetSchedule retrieves one schedule definition.
func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	schedule, err := s.schedules.GetSchedule(ctx, id)
	if err != nil {
		return persistence.Schedule{}, mapRepoError(err)
	}
	return schedule, nil
}

// DeleteSchedule removes a definition, cascading to its still-planned
// lessons.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	if err := s.schedules.DeleteSchedule(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.logger.Info("schedule deleted", zap.String("schedule_id", id))
	return nil
}

// materializeLessons expands the schedule into one Planned lesson per
// matching date. The subject is resolved once via the owning group, not
// re-resolved per lesson.
func (s *ScheduleService) materializeLessons(schedule persistence.Schedule, subjectID string, createdAt time.Time) []persistence.Lesson {
	dates := timetable.Materialize(schedule.Pattern(), s.horizonMonths)

	lessons := make([]persistence.Lesson, 0, len(dates))
	for _, date := range dates {
		scheduleID := schedule.ID
		lessons = append(lessons, persistence.Lesson{
			ID:         s.idGenerator(),
			OrgID:      schedule.OrgID,
			ScheduleID: &scheduleID,
			GroupID:    schedule.GroupID,
			TeacherID:  schedule.TeacherID,
			RoomID:     schedule.RoomID,
			SubjectID:  subjectID,
			Date:       date,
			Start:      schedule.Start,
			End:        schedule.End,
			Status:     timetable.StatusPlanned,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		})
	}
	return lessons
}
