package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a write collides with an existing key.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrForeignKeyViolation is returned when a write references a missing record.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrConstraintViolation is returned when a write breaks a check constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrOverlap is returned when the storage-level booking guard rejects a
	// write that would double-book a teacher, room, or group. The advisory
	// conflict check runs before the write; this error is the authoritative
	// rejection inside the write transaction.
	ErrOverlap = errors.New("persistence: overlapping booking")
)
