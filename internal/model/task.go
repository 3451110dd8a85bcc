package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidState    = errors.New("model: invalid task state")
	ErrInvalidPriority = errors.New("model: invalid task priority")
)

type TaskState string

const (
	TaskStateOpen    TaskState = "Open"
	TaskStatePlanned TaskState = "Planned"
	TaskStateDone    TaskState = "Done"
)

func (s TaskState) IsValid() bool {
	switch s {
	case TaskStateOpen, TaskStatePlanned, TaskStateDone:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          string
	Title       string
	Description string
	State       TaskState
	Priority    Priority
	Tags        []string
	DueAt       *time.Time
	DueDuration time.Duration
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, t.State)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.State == TaskStateDone && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task state is Done")
	}
	if t.State != TaskStateDone && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task state is not Done")
	}
	return nil
}

// Event projects a task with a due time onto the calendar grid. Tasks
// without a due time have no grid presence.
func (t Task) Event() (Event, bool) {
	if t.DueAt == nil {
		return Event{}, false
	}
	span := t.DueDuration
	if span <= 0 {
		span = 30 * time.Minute
	}
	return Event{
		ID:     "task-" + t.ID,
		Title:  t.Title,
		Start:  *t.DueAt,
		End:    t.DueAt.Add(span),
		TaskID: t.ID,
	}, true
}
