package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/classtime/internal/application"
	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/testfixtures"
	"github.com/example/classtime/internal/timetable"
)

// serviceEnv bundles the services under test with their seeded directory
// rows and a controllable clock.
type serviceEnv struct {
	harness   *testfixtures.SQLiteHarness
	clock     *testfixtures.Clock
	schedules *application.ScheduleService
	lessons   *application.LessonService
	org       persistence.Organization
	teacher   persistence.User
	room      persistence.Room
	group     persistence.Group
}

func newServiceEnv(t *testing.T, location *time.Location) *serviceEnv {
	t.Helper()
	ctx := context.Background()

	h := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(time.Date(2024, time.December, 20, 9, 0, 0, 0, time.UTC))
	ids := testfixtures.NewIDGenerator("test")

	org := testfixtures.NewOrganization()
	if err := h.Directory.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}
	teacher := testfixtures.NewTeacher(org.ID)
	if err := h.Directory.CreateUser(ctx, teacher); err != nil {
		t.Fatalf("failed to create teacher: %v", err)
	}
	room := testfixtures.NewRoom(org.ID)
	if err := h.Directory.CreateRoom(ctx, room); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	group := testfixtures.NewGroup(org.ID)
	if err := h.Directory.CreateGroup(ctx, group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	detector := application.NewConflictDetector(h.Schedules, h.Lessons)
	return &serviceEnv{
		harness: h,
		clock:   clock,
		schedules: application.NewScheduleService(
			h.Schedules, h.Directory, detector, ids.NextFunc(), clock.NowFunc(), 2, nil),
		lessons: application.NewLessonService(
			h.Lessons, h.Schedules, h.Directory, detector, ids.NextFunc(), clock.NowFunc(), location, nil),
		org:     org,
		teacher: teacher,
		room:    room,
		group:   group,
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := timetable.ParseDate(value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return parsed
}

func datePtr(t *testing.T, value string) *time.Time {
	d := mustDate(t, value)
	return &d
}

func (e *serviceEnv) scheduleInput(t *testing.T) application.ScheduleInput {
	t.Helper()
	return application.ScheduleInput{
		OrgID:         e.org.ID,
		GroupID:       e.group.ID,
		TeacherID:     e.teacher.ID,
		RoomID:        e.room.ID,
		Weekdays:      []int{1, 3, 5},
		Start:         600,
		End:           660,
		EffectiveFrom: mustDate(t, "2025-01-01"),
		EffectiveTo:   datePtr(t, "2025-01-14"),
	}
}

func TestCreateScheduleMaterializesLessons(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)
	ctx := context.Background()

	// Mon/Wed/Fri between Jan 1 (a Wednesday) and Jan 14, 2025.
	schedule, created, err := env.schedules.CreateSchedule(ctx, env.scheduleInput(t))
	if err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}
	if created != 6 {
		t.Fatalf("created %d lessons, want 6", created)
	}

	lessons, err := env.lessons.ListLessonsBySchedule(ctx, schedule.ID, nil, nil)
	if err != nil {
		t.Fatalf("failed to list lessons: %v", err)
	}
	want := []string{"2025-01-01", "2025-01-03", "2025-01-06", "2025-01-08", "2025-01-10", "2025-01-13"}
	if len(lessons) != len(want) {
		t.Fatalf("listed %d lessons, want %d", len(lessons), len(want))
	}
	for i, lesson := range lessons {
		if got := timetable.FormatDate(lesson.Date); got != want[i] {
			t.Fatalf("lesson[%d] date = %s, want %s", i, got, want[i])
		}
		if lesson.Status != timetable.StatusPlanned {
			t.Fatalf("lesson[%d] status = %s, want %s", i, lesson.Status, timetable.StatusPlanned)
		}
		if lesson.SubjectID != env.group.SubjectID {
			t.Fatalf("lesson[%d] subject = %s, want %s", i, lesson.SubjectID, env.group.SubjectID)
		}
		if lesson.Start != 600 || lesson.End != 660 {
			t.Fatalf("lesson[%d] slot = %s-%s", i, lesson.Start, lesson.End)
		}
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)

	input := env.scheduleInput(t)
	input.Weekdays = nil
	input.Start, input.End = 660, 600
	input.EffectiveTo = datePtr(t, "2024-12-01")

	_, _, err := env.schedules.CreateSchedule(context.Background(), input)
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"weekdays", "time", "effective_to"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected field error for %q, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestCreateScheduleRejectsConflict(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)
	ctx := context.Background()

	if _, _, err := env.schedules.CreateSchedule(ctx, env.scheduleInput(t)); err != nil {
		t.Fatalf("failed to create first schedule: %v", err)
	}

	// Different group and room, same teacher, Wednesday 10:30-11:30 against
	// the existing Wednesday 10:00-11:00.
	otherRoom := testfixtures.NewRoom(env.org.ID)
	if err := env.harness.Directory.CreateRoom(ctx, otherRoom); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	otherGroup := testfixtures.NewGroup(env.org.ID)
	if err := env.harness.Directory.CreateGroup(ctx, otherGroup); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	conflicting := application.ScheduleInput{
		OrgID:         env.org.ID,
		GroupID:       otherGroup.ID,
		TeacherID:     env.teacher.ID,
		RoomID:        otherRoom.ID,
		Weekdays:      []int{3},
		Start:         630,
		End:           690,
		EffectiveFrom: mustDate(t, "2025-01-08"),
	}

	var cErr *application.ConflictError
	if _, _, err := env.schedules.CreateSchedule(ctx, conflicting); !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// Retrying the identical request fails the same way.
	if _, _, err := env.schedules.CreateSchedule(ctx, conflicting); !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError on retry, got %v", err)
	}

	schedules, total, err := env.schedules.ListSchedules(ctx, application.ListSchedulesParams{OrgID: env.org.ID})
	if err != nil {
		t.Fatalf("failed to list schedules: %v", err)
	}
	if total != 1 || len(schedules) != 1 {
		t.Fatalf("rejected schedule left traces: %d schedules (total %d)", len(schedules), total)
	}
}

func TestCreateScheduleRejectsAdHocLessonCollision(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)
	ctx := context.Background()

	// The teacher is already booked ad hoc on Monday Jan 6, 10:00-11:00.
	adHoc, err := env.lessons.CreateAdHocLesson(ctx, env.lessonInput(t, "2025-01-06", 600, 660))
	if err != nil {
		t.Fatalf("failed to create ad-hoc lesson: %v", err)
	}

	otherRoom := testfixtures.NewRoom(env.org.ID)
	if err := env.harness.Directory.CreateRoom(ctx, otherRoom); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	otherGroup := testfixtures.NewGroup(env.org.ID)
	if err := env.harness.Directory.CreateGroup(ctx, otherGroup); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	// A Monday pattern whose materialization would land on the booked slot.
	covering := application.ScheduleInput{
		OrgID:         env.org.ID,
		GroupID:       otherGroup.ID,
		TeacherID:     env.teacher.ID,
		RoomID:        otherRoom.ID,
		Weekdays:      []int{1},
		Start:         600,
		End:           660,
		EffectiveFrom: mustDate(t, "2025-01-01"),
		EffectiveTo:   datePtr(t, "2025-01-14"),
	}

	var cErr *application.ConflictError
	if _, _, err := env.schedules.CreateSchedule(ctx, covering); !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// No materialized lesson may have joined the ad-hoc booking.
	onDate, err := env.harness.Lessons.ListLessonsOnDate(ctx, env.org.ID, adHoc.Date)
	if err != nil {
		t.Fatalf("failed to list lessons: %v", err)
	}
	if len(onDate) != 1 || onDate[0].ID != adHoc.ID {
		t.Fatalf("booked date holds %d lessons, want only the ad-hoc one", len(onDate))
	}
	if _, total, err := env.schedules.ListSchedules(ctx, application.ListSchedulesParams{OrgID: env.org.ID}); err != nil {
		t.Fatalf("failed to list schedules: %v", err)
	} else if total != 0 {
		t.Fatalf("rejected schedule was persisted, total = %d", total)
	}
}

func TestCreateScheduleDisjointPatternsCoexist(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)
	ctx := context.Background()

	if _, _, err := env.schedules.CreateSchedule(ctx, env.scheduleInput(t)); err != nil {
		t.Fatalf("failed to create first schedule: %v", err)
	}

	otherRoom := testfixtures.NewRoom(env.org.ID)
	if err := env.harness.Directory.CreateRoom(ctx, otherRoom); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	otherGroup := testfixtures.NewGroup(env.org.ID)
	if err := env.harness.Directory.CreateGroup(ctx, otherGroup); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	// Same teacher and clock times, but Tuesday/Thursday only.
	disjoint := application.ScheduleInput{
		OrgID:         env.org.ID,
		GroupID:       otherGroup.ID,
		TeacherID:     env.teacher.ID,
		RoomID:        otherRoom.ID,
		Weekdays:      []int{2, 4},
		Start:         600,
		End:           660,
		EffectiveFrom: mustDate(t, "2025-01-01"),
		EffectiveTo:   datePtr(t, "2025-01-14"),
	}
	if _, created, err := env.schedules.CreateSchedule(ctx, disjoint); err != nil {
		t.Fatalf("disjoint schedule rejected: %v", err)
	} else if created != 4 {
		// Tue/Thu between Jan 1 and Jan 14: Jan 2, 7, 9, 14.
		t.Fatalf("created %d lessons, want 4", created)
	}
}

func TestCreateScheduleDirectoryChecks(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)
	ctx := context.Background()

	t.Run("unknown group", func(t *testing.T) {
		input := env.scheduleInput(t)
		input.GroupID = "no-such-group"
		if _, _, err := env.schedules.CreateSchedule(ctx, input); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("group of another organization", func(t *testing.T) {
		foreignOrg := testfixtures.NewOrganization()
		if err := env.harness.Directory.CreateOrganization(ctx, foreignOrg); err != nil {
			t.Fatalf("failed to create organization: %v", err)
		}
		foreignGroup := testfixtures.NewGroup(foreignOrg.ID)
		if err := env.harness.Directory.CreateGroup(ctx, foreignGroup); err != nil {
			t.Fatalf("failed to create group: %v", err)
		}

		input := env.scheduleInput(t)
		input.GroupID = foreignGroup.ID
		if _, _, err := env.schedules.CreateSchedule(ctx, input); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for cross-tenant group, got %v", err)
		}
	})

	t.Run("assignee without the teacher role", func(t *testing.T) {
		staff := testfixtures.NewTeacher(env.org.ID, testfixtures.WithUserRole(persistence.RoleStaff))
		if err := env.harness.Directory.CreateUser(ctx, staff); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		input := env.scheduleInput(t)
		input.TeacherID = staff.ID
		var cErr *application.ConflictError
		if _, _, err := env.schedules.CreateSchedule(ctx, input); !errors.As(err, &cErr) {
			t.Fatalf("expected ConflictError for role mismatch, got %v", err)
		}
	})
}

func TestListSchedulesPaging(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)
	ctx := context.Background()

	// Three teachers so the schedules never collide.
	for i := 0; i < 3; i++ {
		teacher := testfixtures.NewTeacher(env.org.ID)
		if err := env.harness.Directory.CreateUser(ctx, teacher); err != nil {
			t.Fatalf("failed to create teacher: %v", err)
		}
		room := testfixtures.NewRoom(env.org.ID)
		if err := env.harness.Directory.CreateRoom(ctx, room); err != nil {
			t.Fatalf("failed to create room: %v", err)
		}
		group := testfixtures.NewGroup(env.org.ID)
		if err := env.harness.Directory.CreateGroup(ctx, group); err != nil {
			t.Fatalf("failed to create group: %v", err)
		}

		input := env.scheduleInput(t)
		input.TeacherID = teacher.ID
		input.RoomID = room.ID
		input.GroupID = group.ID
		if _, _, err := env.schedules.CreateSchedule(ctx, input); err != nil {
			t.Fatalf("failed to create schedule %d: %v", i, err)
		}
	}

	schedules, total, err := env.schedules.ListSchedules(ctx, application.ListSchedulesParams{
		OrgID:    env.org.ID,
		Page:     2,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("failed to list schedules: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(schedules) != 1 {
		t.Fatalf("page 2 holds %d schedules, want 1", len(schedules))
	}

	// Page and size default when out of range.
	schedules, total, err = env.schedules.ListSchedules(ctx, application.ListSchedulesParams{
		OrgID: env.org.ID,
		Page:  -1,
	})
	if err != nil {
		t.Fatalf("failed to list schedules: %v", err)
	}
	if total != 3 || len(schedules) != 3 {
		t.Fatalf("defaulted listing returned %d of %d", len(schedules), total)
	}
}

func TestDeleteScheduleMissing(t *testing.T) {
	t.Parallel()
	env := newServiceEnv(t, time.UTC)

	if err := env.schedules.DeleteSchedule(context.Background(), "no-such-schedule"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
