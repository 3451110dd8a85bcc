package storage

import "time"

type Event struct {
	ID        string
	Title     string
	StartAt   time.Time
	EndAt     time.Time
	Color     string
	AllDay    bool
	TaskID    string
	CreatedAt time.Time
}

type Habit struct {
	ID              string
	Title           string
	Rule            string
	StartAt         time.Time
	DurationMinutes int
	Color           string
	Enabled         bool
	CreatedAt       time.Time
}

type Task struct {
	ID          string
	Title       string
	Description string
	State       string
	Priority    string
	Tags        string
	DueAt       *time.Time
	DueMinutes  int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type FocusSession struct {
	ID              string
	TaskID          string
	Mode            string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	Completed       bool
}

type EventListFilter struct {
	From   *time.Time
	Until  *time.Time
	TaskID string
	Limit  int
	Offset int
}

type HabitListFilter struct {
	Enabled *bool
	Limit   int
	Offset  int
}

type TaskListFilter struct {
	State   string
	DueOnly bool
	Limit   int
	Offset  int
}

type SessionListFilter struct {
	TaskID string
	From   *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}
