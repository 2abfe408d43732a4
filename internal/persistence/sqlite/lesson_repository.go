package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/timetable"
)

// LessonRepository implements persistence.LessonRepository on SQLite.
type LessonRepository struct {
	db *DB
}

// NewLessonRepository wires a lesson repository to the database.
func NewLessonRepository(db *DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// lessonBookingGuard rejects a candidate slot when another lesson of the
// same organization on the same date shares a teacher, room, or group and
// overlaps the half-open time interval.
const lessonBookingGuard = `
	SELECT COUNT(1)
	FROM lessons
	WHERE org_id = ?
	  AND date = ?
	  AND id <> ?
	  AND (teacher_id = ? OR room_id = ? OR group_id = ?)
	  AND start_minutes < ? AND ? < end_minutes
`

func bookingGuardTx(ctx context.Context, tx *sql.Tx, lesson persistence.Lesson) error {
	var booked int
	err := tx.QueryRowContext(ctx, lessonBookingGuard,
		lesson.OrgID,
		timetable.FormatDate(lesson.Date),
		lesson.ID,
		lesson.TeacherID, lesson.RoomID, lesson.GroupID,
		lesson.End.Minutes(), lesson.Start.Minutes(),
	).Scan(&booked)
	if err != nil {
		return mapError(err)
	}
	if booked > 0 {
		return persistence.ErrOverlap
	}
	return nil
}

func insertLessonTx(ctx context.Context, tx *sql.Tx, lesson persistence.Lesson) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO lessons (id, org_id, schedule_id, group_id, teacher_id, room_id, subject_id,
			date, start_minutes, end_minutes, status, reason, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lesson.ID,
		lesson.OrgID,
		nullString(lesson.ScheduleID),
		lesson.GroupID,
		lesson.TeacherID,
		lesson.RoomID,
		lesson.SubjectID,
		timetable.FormatDate(lesson.Date),
		lesson.Start.Minutes(),
		lesson.End.Minutes(),
		string(lesson.Status),
		nullString(lesson.Reason),
		nullString(lesson.Note),
		lesson.CreatedAt.UTC().Format(time.RFC3339),
		lesson.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// CreateLesson persists one ad-hoc lesson, re-verifying non-overlap inside
// the write transaction.
func (r *LessonRepository) CreateLesson(ctx context.Context, lesson persistence.Lesson) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := bookingGuardTx(ctx, tx, lesson); err != nil {
			return err
		}
		return insertLessonTx(ctx, tx, lesson)
	})
}

const lessonColumns = `id, org_id, schedule_id, group_id, teacher_id, room_id, subject_id,
	date, start_minutes, end_minutes, status, reason, note, created_at, updated_at`

// GetLesson retrieves a lesson by ID.
func (r *LessonRepository) GetLesson(ctx context.Context, id string) (persistence.Lesson, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id)
	return scanLesson(row)
}

// UpdateLesson rewrites the lesson's status, reason, and note.
func (r *LessonRepository) UpdateLesson(ctx context.Context, lesson persistence.Lesson) error {
	result, err := r.db.sql.ExecContext(ctx, `
		UPDATE lessons SET status = ?, reason = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		string(lesson.Status),
		nullString(lesson.Reason),
		nullString(lesson.Note),
		lesson.UpdatedAt.UTC().Format(time.RFC3339),
		lesson.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(result)
}

// MoveLesson rewrites the lesson's slot and status after re-verifying
// non-overlap against every other lesson inside the write transaction.
func (r *LessonRepository) MoveLesson(ctx context.Context, lesson persistence.Lesson) error {
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := bookingGuardTx(ctx, tx, lesson); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE lessons SET date = ?, start_minutes = ?, end_minutes = ?, status = ?, reason = ?, updated_at = ?
			WHERE id = ?`,
			timetable.FormatDate(lesson.Date),
			lesson.Start.Minutes(),
			lesson.End.Minutes(),
			string(lesson.Status),
			nullString(lesson.Reason),
			lesson.UpdatedAt.UTC().Format(time.RFC3339),
			lesson.ID,
		)
		if err != nil {
			return mapError(err)
		}
		return requireAffected(result)
	})
}

// ListLessonsOnDate returns every lesson of the organization on the given
// calendar date, ordered by start time.
func (r *LessonRepository) ListLessonsOnDate(ctx context.Context, orgID string, date time.Time) ([]persistence.Lesson, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons
		 WHERE org_id = ? AND date = ?
		 ORDER BY start_minutes ASC, id ASC`,
		orgID, timetable.FormatDate(date))
	if err != nil {
		return nil, mapError(err)
	}
	return collectLessons(rows)
}

// ListLessonsBySchedule returns the lessons generated from a schedule,
// optionally clipped to an inclusive date range, in chronological order.
func (r *LessonRepository) ListLessonsBySchedule(ctx context.Context, scheduleID string, from, to *time.Time) ([]persistence.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE schedule_id = ?`
	args := []any{scheduleID}

	if from != nil {
		query += ` AND date >= ?`
		args = append(args, timetable.FormatDate(*from))
	}
	if to != nil {
		query += ` AND date <= ?`
		args = append(args, timetable.FormatDate(*to))
	}
	query += ` ORDER BY date ASC, start_minutes ASC, id ASC`

	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return collectLessons(rows)
}

func collectLessons(rows *sql.Rows) ([]persistence.Lesson, error) {
	defer rows.Close()

	var lessons []persistence.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return lessons, nil
}

func scanLesson(row rowScanner) (persistence.Lesson, error) {
	var (
		lesson                     persistence.Lesson
		scheduleID, reason, note   sql.NullString
		dateStr, status            string
		startM, endM               int
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&lesson.ID,
		&lesson.OrgID,
		&scheduleID,
		&lesson.GroupID,
		&lesson.TeacherID,
		&lesson.RoomID,
		&lesson.SubjectID,
		&dateStr,
		&startM,
		&endM,
		&status,
		&reason,
		&note,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Lesson{}, mapError(err)
	}

	if scheduleID.Valid {
		lesson.ScheduleID = &scheduleID.String
	}
	if reason.Valid {
		lesson.Reason = &reason.String
	}
	if note.Valid {
		lesson.Note = &note.String
	}
	lesson.Start = timetable.TimeOfDay(startM)
	lesson.End = timetable.TimeOfDay(endM)
	lesson.Status = timetable.Status(status)

	if lesson.Date, err = timetable.ParseDate(dateStr); err != nil {
		return persistence.Lesson{}, fmt.Errorf("sqlite: parse date: %w", err)
	}
	if lesson.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Lesson{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if lesson.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Lesson{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return lesson, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
