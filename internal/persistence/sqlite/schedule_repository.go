package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/timetable"
)

// ScheduleRepository implements persistence.ScheduleRepository on SQLite.
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository wires a schedule repository to the database.
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// scheduleBookingGuard rejects a candidate pattern when any stored schedule
// of the same organization shares a teacher, room, or group, intersects its
// weekday set and effective range, and overlaps its half-open time slot.
const scheduleBookingGuard = `
	SELECT COUNT(1)
	FROM schedules
	WHERE org_id = ?
	  AND (teacher_id = ? OR room_id = ? OR group_id = ?)
	  AND (weekdays & ?) <> 0
	  AND start_minutes < ? AND ? < end_minutes
	  AND effective_from <= COALESCE(?, '9999-12-31')
	  AND (effective_to IS NULL OR effective_to >= ?)
`

// CreateScheduleLessons persists the schedule and its materialized lessons
// in one transaction. The schedule booking guard runs inside the same
// transaction, so a concurrent writer that slipped past the advisory check
// still loses here with persistence.ErrOverlap. Each materialized lesson
// additionally passes the lesson booking guard before insert, since ad-hoc
// lessons have no owning pattern and are invisible to the schedule guard.
func (r *ScheduleRepository) CreateScheduleLessons(ctx context.Context, schedule persistence.Schedule, lessons []persistence.Lesson) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		var booked int
		err := tx.QueryRowContext(ctx, scheduleBookingGuard,
			schedule.OrgID,
			schedule.TeacherID, schedule.RoomID, schedule.GroupID,
			int(schedule.Weekdays),
			schedule.End.Minutes(), schedule.Start.Minutes(),
			nullDate(schedule.EffectiveTo),
			timetable.FormatDate(schedule.EffectiveFrom),
		).Scan(&booked)
		if err != nil {
			return mapError(err)
		}
		if booked > 0 {
			return persistence.ErrOverlap
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO schedules (id, org_id, group_id, teacher_id, room_id, weekdays,
				start_minutes, end_minutes, effective_from, effective_to, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			schedule.ID,
			schedule.OrgID,
			schedule.GroupID,
			schedule.TeacherID,
			schedule.RoomID,
			int(schedule.Weekdays),
			schedule.Start.Minutes(),
			schedule.End.Minutes(),
			timetable.FormatDate(schedule.EffectiveFrom),
			nullDate(schedule.EffectiveTo),
			schedule.CreatedAt.UTC().Format(time.RFC3339),
			schedule.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapError(err)
		}

		for _, lesson := range lessons {
			if err := bookingGuardTx(ctx, tx, lesson); err != nil {
				return err
			}
			if err := insertLessonTx(ctx, tx, lesson); err != nil {
				return err
			}
		}
		return nil
	})
}

const scheduleColumns = `s.id, s.org_id, s.group_id, s.teacher_id, s.room_id, s.weekdays,
	s.start_minutes, s.end_minutes, s.effective_from, s.effective_to, s.created_at, s.updated_at`

// GetSchedule retrieves a schedule by ID.
func (r *ScheduleRepository) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules s WHERE s.id = ?`, id)
	return scanSchedule(row)
}

// ListSchedules returns the filtered page of schedules ordered by effective
// start and ID, together with the unpaged total.
func (r *ScheduleRepository) ListSchedules(ctx context.Context, filter persistence.ScheduleFilter) ([]persistence.Schedule, int, error) {
	where, args := buildScheduleFilter(filter)

	var total int
	countQuery := `SELECT COUNT(1) FROM schedules s` + scheduleFilterJoin(filter) + where
	if err := r.db.sql.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + scheduleColumns + ` FROM schedules s` + scheduleFilterJoin(filter) + where +
		` ORDER BY s.effective_from ASC, s.id ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var schedules []persistence.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err)
	}
	return schedules, total, nil
}

// DeleteSchedule removes the definition, deletes its still-planned lessons,
// and detaches lessons that already completed, moved, or were cancelled.
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id string) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM lessons WHERE schedule_id = ? AND status = ?`,
			id, string(timetable.StatusPlanned)); err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE lessons SET schedule_id = NULL WHERE schedule_id = ?`, id); err != nil {
			return mapError(err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func scheduleFilterJoin(filter persistence.ScheduleFilter) string {
	if filter.SubjectID != "" {
		return ` JOIN groups g ON g.id = s.group_id`
	}
	return ""
}

func buildScheduleFilter(filter persistence.ScheduleFilter) (string, []any) {
	conditions := []string{"s.org_id = ?"}
	args := []any{filter.OrgID}

	if filter.GroupID != "" {
		conditions = append(conditions, "s.group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, "s.teacher_id = ?")
		args = append(args, filter.TeacherID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, "s.room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, "g.subject_id = ?")
		args = append(args, filter.SubjectID)
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (persistence.Schedule, error) {
	var (
		schedule                 persistence.Schedule
		weekdays, startM, endM   int
		effectiveFrom            string
		effectiveTo              sql.NullString
		createdAtStr, updatedStr string
	)

	err := row.Scan(
		&schedule.ID,
		&schedule.OrgID,
		&schedule.GroupID,
		&schedule.TeacherID,
		&schedule.RoomID,
		&weekdays,
		&startM,
		&endM,
		&effectiveFrom,
		&effectiveTo,
		&createdAtStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Schedule{}, mapError(err)
	}

	schedule.Weekdays = timetable.WeekdaySet(weekdays)
	schedule.Start = timetable.TimeOfDay(startM)
	schedule.End = timetable.TimeOfDay(endM)

	if schedule.EffectiveFrom, err = timetable.ParseDate(effectiveFrom); err != nil {
		return persistence.Schedule{}, fmt.Errorf("sqlite: parse effective_from: %w", err)
	}
	if effectiveTo.Valid {
		to, err := timetable.ParseDate(effectiveTo.String)
		if err != nil {
			return persistence.Schedule{}, fmt.Errorf("sqlite: parse effective_to: %w", err)
		}
		schedule.EffectiveTo = &to
	}
	if schedule.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Schedule{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if schedule.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.Schedule{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return schedule, nil
}

func nullDate(date *time.Time) sql.NullString {
	if date == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: timetable.FormatDate(*date), Valid: true}
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
