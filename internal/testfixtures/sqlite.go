package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/classtime/internal/persistence"
	"github.com/example/classtime/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary, migrated
// SQLite database for integration-style tests.
type SQLiteHarness struct {
	Schedules persistence.ScheduleRepository
	Lessons   persistence.LessonRepository
	Directory persistence.DirectoryRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary database file
// that is migrated automatically. A cleanup callback is registered with the
// provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "classtime.db")

	storage, err := sqlite.Open(path + "?_pragma=foreign_keys(1)")
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Schedules: sqlite.NewScheduleRepository(storage),
		Lessons:   sqlite.NewLessonRepository(storage),
		Directory: sqlite.NewDirectoryRepository(storage),
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
