package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Write weekly review",
		State:     TaskStatePlanned,
		Priority:  PriorityHigh,
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateDoneRequiresCompletedAt(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Done task",
		State:     TaskStateDone,
		Priority:  PriorityMedium,
		CreatedAt: now,
	}
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: completed_at is required when task state is Done" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Bad state",
		State:     TaskState("Invalid"),
		Priority:  PriorityLow,
		CreatedAt: now,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got: %v", err)
	}

	task.State = TaskStateOpen
	task.Priority = Priority("Bad")
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestTaskEventProjection(t *testing.T) {
	due := time.Date(2026, 2, 9, 14, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Dentist",
		State:     TaskStatePlanned,
		Priority:  PriorityMedium,
		DueAt:     &due,
		CreatedAt: due.Add(-48 * time.Hour),
	}

	ev, ok := task.Event()
	if !ok {
		t.Fatal("expected event projection for task with due time")
	}
	if !ev.Start.Equal(due) {
		t.Fatalf("unexpected start: %v", ev.Start)
	}
	if got := ev.End.Sub(ev.Start); got != 30*time.Minute {
		t.Fatalf("expected default 30m span, got %v", got)
	}
	if ev.TaskID != task.ID {
		t.Fatalf("expected task id carried through, got %q", ev.TaskID)
	}

	task.DueAt = nil
	if _, ok := task.Event(); ok {
		t.Fatal("expected no event for task without due time")
	}
}
