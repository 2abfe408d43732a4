package timetable

import (
	"errors"
	"testing"
	"time"
)

func TestCompleteTransition(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	t.Run("rejects a future lesson", func(t *testing.T) {
		t.Parallel()
		_, err := CompleteTransition(StatusPlanned, today.AddDate(0, 0, 1), today)
		if !errors.Is(err, ErrNotYetHeld) {
			t.Fatalf("expected ErrNotYetHeld, got %v", err)
		}
	})

	t.Run("accepts a lesson dated today", func(t *testing.T) {
		t.Parallel()
		status, err := CompleteTransition(StatusPlanned, today, today)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != StatusCompleted {
			t.Fatalf("status = %s, want %s", status, StatusCompleted)
		}
	})

	t.Run("accepts a past lesson", func(t *testing.T) {
		t.Parallel()
		status, err := CompleteTransition(StatusMoved, today.AddDate(0, 0, -7), today)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != StatusCompleted {
			t.Fatalf("status = %s, want %s", status, StatusCompleted)
		}
	})
}

func TestCancelTransition(t *testing.T) {
	t.Parallel()

	for _, current := range []Status{StatusPlanned, StatusCompleted, StatusMoved, StatusCancelled} {
		status, err := CancelTransition(current)
		if err != nil {
			t.Fatalf("CancelTransition(%s) returned %v", current, err)
		}
		if status != StatusCancelled {
			t.Fatalf("CancelTransition(%s) = %s, want %s", current, status, StatusCancelled)
		}
	}
}

func TestRescheduleTransition(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

	t.Run("rejects a completed lesson", func(t *testing.T) {
		t.Parallel()
		_, err := RescheduleTransition(StatusCompleted, now.Add(24*time.Hour), now)
		if !errors.Is(err, ErrRescheduleCompleted) {
			t.Fatalf("expected ErrRescheduleCompleted, got %v", err)
		}
	})

	t.Run("rejects a past start", func(t *testing.T) {
		t.Parallel()
		_, err := RescheduleTransition(StatusPlanned, now.Add(-time.Minute), now)
		if !errors.Is(err, ErrStartsInPast) {
			t.Fatalf("expected ErrStartsInPast, got %v", err)
		}
	})

	t.Run("moves a planned lesson", func(t *testing.T) {
		t.Parallel()
		status, err := RescheduleTransition(StatusPlanned, now.Add(48*time.Hour), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != StatusMoved {
			t.Fatalf("status = %s, want %s", status, StatusMoved)
		}
	})

	t.Run("moves an already moved lesson again", func(t *testing.T) {
		t.Parallel()
		status, err := RescheduleTransition(StatusMoved, now.Add(48*time.Hour), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != StatusMoved {
			t.Fatalf("status = %s, want %s", status, StatusMoved)
		}
	})
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, status := range []Status{StatusPlanned, StatusCompleted, StatusCancelled, StatusMoved} {
		if !status.Valid() {
			t.Fatalf("status %s reported invalid", status)
		}
	}
	if Status("archived").Valid() {
		t.Fatal("unknown status reported valid")
	}
}
