package application

import (
	"errors"
	"fmt"

	"github.com/example/classtime/internal/persistence"
)

// ErrNotFound is returned when a referenced schedule, lesson, group, teacher,
// or room does not exist. Callers render it differently from a conflict.
var ErrNotFound = errors.New("application: not found")

// ConflictError reports an operation rejected because of existing state:
// a double booking, a lifecycle guard, or exceeded room capacity. Retrying
// with the same input fails identically, so callers must not retry.
type ConflictError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil || e.Reason == "" {
		return "conflict"
	}
	return "conflict: " + e.Reason
}

func conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// mapRepoError translates persistence sentinels into the application error
// taxonomy. A storage-level booking rejection surfaces as a ConflictError so
// the caller sees "conflicting booking" rather than an opaque fault.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	case errors.Is(err, persistence.ErrOverlap):
		return conflictf("the teacher, room, or group is already booked for an overlapping slot")
	case errors.Is(err, persistence.ErrDuplicate):
		return conflictf("a record with the same identifier already exists")
	default:
		return err
	}
}
