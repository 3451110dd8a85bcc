package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "daygrid-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestEventCRUDAndWindowList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	start := parseRFC3339(t, "2026-02-09T10:00:00Z")

	ev := Event{
		ID:        "evt-1",
		Title:     "Standup",
		StartAt:   start,
		EndAt:     start.Add(30 * time.Minute),
		Color:     "#3788d8",
		CreatedAt: start.Add(-24 * time.Hour),
	}
	if err := repo.CreateEvent(ctx, ev); err != nil {
		t.Fatalf("create event: %v", err)
	}

	got, err := repo.GetEvent(ctx, ev.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Title != ev.Title || !got.StartAt.Equal(start) {
		t.Fatalf("unexpected event get result: %#v", got)
	}

	ev.Title = "Standup (moved)"
	ev.StartAt = start.Add(time.Hour)
	ev.EndAt = ev.StartAt.Add(30 * time.Minute)
	if err := repo.UpdateEvent(ctx, ev); err != nil {
		t.Fatalf("update event: %v", err)
	}

	// A second event outside the query window.
	other := Event{
		ID:        "evt-2",
		Title:     "Next week",
		StartAt:   start.AddDate(0, 0, 8),
		EndAt:     start.AddDate(0, 0, 8).Add(time.Hour),
		CreatedAt: start,
	}
	if err := repo.CreateEvent(ctx, other); err != nil {
		t.Fatalf("create other event: %v", err)
	}

	from := parseRFC3339(t, "2026-02-09T00:00:00Z")
	until := from.AddDate(0, 0, 7)
	inWindow, err := repo.ListEvents(ctx, EventListFilter{From: &from, Until: &until})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(inWindow) != 1 || inWindow[0].ID != "evt-1" {
		t.Fatalf("unexpected window list: %#v", inWindow)
	}

	if err := repo.DeleteEvent(ctx, ev.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if _, err := repo.GetEvent(ctx, ev.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestHabitCRUDAndEnabledFilter(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T07:00:00Z")

	enabledHabit := Habit{
		ID:              "habit-1",
		Title:           "Morning run",
		Rule:            "FREQ=DAILY",
		StartAt:         now,
		DurationMinutes: 45,
		Enabled:         true,
		CreatedAt:       now,
	}
	pausedHabit := Habit{
		ID:              "habit-2",
		Title:           "Journal",
		Rule:            "FREQ=WEEKLY;BYDAY=SU",
		StartAt:         now,
		DurationMinutes: 15,
		Enabled:         false,
		CreatedAt:       now.Add(time.Minute),
	}
	if err := repo.CreateHabit(ctx, enabledHabit); err != nil {
		t.Fatalf("create habit: %v", err)
	}
	if err := repo.CreateHabit(ctx, pausedHabit); err != nil {
		t.Fatalf("create paused habit: %v", err)
	}

	onlyEnabled := true
	habits, err := repo.ListHabits(ctx, HabitListFilter{Enabled: &onlyEnabled})
	if err != nil {
		t.Fatalf("list habits: %v", err)
	}
	if len(habits) != 1 || habits[0].ID != "habit-1" {
		t.Fatalf("unexpected enabled habits: %#v", habits)
	}

	pausedHabit.Enabled = true
	if err := repo.UpdateHabit(ctx, pausedHabit); err != nil {
		t.Fatalf("update habit: %v", err)
	}
	habits, err = repo.ListHabits(ctx, HabitListFilter{Enabled: &onlyEnabled})
	if err != nil {
		t.Fatalf("list habits after update: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("expected 2 enabled habits, got %d", len(habits))
	}

	if err := repo.DeleteHabit(ctx, "habit-2"); err != nil {
		t.Fatalf("delete habit: %v", err)
	}
	if _, err := repo.GetHabit(ctx, "habit-2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestTaskCRUDAndDueFilter(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-02-09T08:00:00Z")
	due := parseRFC3339(t, "2026-02-10T16:30:00Z")

	timed := Task{
		ID:         "task-1",
		Title:      "Write weekly report",
		State:      "Planned",
		Priority:   "High",
		Tags:       "work,writing",
		DueAt:      &due,
		DueMinutes: 60,
		CreatedAt:  created,
	}
	someday := Task{
		ID:        "task-2",
		Title:     "Clean garage",
		State:     "Open",
		Priority:  "Low",
		CreatedAt: created.Add(time.Minute),
	}
	if err := repo.CreateTask(ctx, timed); err != nil {
		t.Fatalf("create timed task: %v", err)
	}
	if err := repo.CreateTask(ctx, someday); err != nil {
		t.Fatalf("create someday task: %v", err)
	}

	got, err := repo.GetTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.DueAt == nil || !got.DueAt.Equal(due) || got.DueMinutes != 60 {
		t.Fatalf("unexpected due fields: %#v", got)
	}
	if got.Tags != "work,writing" {
		t.Fatalf("unexpected tags: %q", got.Tags)
	}

	got, err = repo.GetTask(ctx, "task-2")
	if err != nil {
		t.Fatalf("get undated task: %v", err)
	}
	if got.DueAt != nil || got.CompletedAt != nil {
		t.Fatalf("expected nil due and completed, got %#v", got)
	}

	dued, err := repo.ListTasks(ctx, TaskListFilter{DueOnly: true})
	if err != nil {
		t.Fatalf("list due tasks: %v", err)
	}
	if len(dued) != 1 || dued[0].ID != "task-1" {
		t.Fatalf("unexpected due-only list: %#v", dued)
	}

	completedAt := due.Add(time.Hour)
	timed.State = "Done"
	timed.CompletedAt = &completedAt
	if err := repo.UpdateTask(ctx, timed); err != nil {
		t.Fatalf("update task: %v", err)
	}
	done, err := repo.ListTasks(ctx, TaskListFilter{State: "Done"})
	if err != nil {
		t.Fatalf("list done tasks: %v", err)
	}
	if len(done) != 1 || done[0].CompletedAt == nil || !done[0].CompletedAt.Equal(completedAt) {
		t.Fatalf("unexpected done list: %#v", done)
	}

	if err := repo.DeleteTask(ctx, "task-2"); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, "task-2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestSessionHistoryWindowQuery(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	morning := parseRFC3339(t, "2026-02-09T09:00:00Z")

	sessions := []FocusSession{
		{ID: "sess-1", TaskID: "task-1", Mode: "focus", StartedAt: morning, EndedAt: morning.Add(25 * time.Minute), DurationSeconds: 1500, Completed: true},
		{ID: "sess-2", TaskID: "task-1", Mode: "focus", StartedAt: morning.Add(time.Hour), EndedAt: morning.Add(85 * time.Minute), DurationSeconds: 1500, Completed: true},
		{ID: "sess-3", TaskID: "task-2", Mode: "focus", StartedAt: morning.AddDate(0, 0, 1), EndedAt: morning.AddDate(0, 0, 1).Add(10 * time.Minute), DurationSeconds: 600, Completed: false},
	}
	for _, s := range sessions {
		if err := repo.CreateSession(ctx, s); err != nil {
			t.Fatalf("create session %s: %v", s.ID, err)
		}
	}

	dayStart := parseRFC3339(t, "2026-02-09T00:00:00Z")
	dayEnd := dayStart.AddDate(0, 0, 1)
	today, err := repo.ListSessions(ctx, SessionListFilter{From: &dayStart, Until: &dayEnd})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(today) != 2 {
		t.Fatalf("expected 2 sessions on the day, got %d", len(today))
	}
	// Most recent first.
	if today[0].ID != "sess-2" || today[1].ID != "sess-1" {
		t.Fatalf("unexpected order: %s, %s", today[0].ID, today[1].ID)
	}

	byTask, err := repo.ListSessions(ctx, SessionListFilter{TaskID: "task-2"})
	if err != nil {
		t.Fatalf("list sessions by task: %v", err)
	}
	if len(byTask) != 1 || byTask[0].Completed {
		t.Fatalf("unexpected task sessions: %#v", byTask)
	}
}
