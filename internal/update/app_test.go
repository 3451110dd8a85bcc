package update

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daygrid/internal/guest"
	"github.com/sandeepkv93/daygrid/internal/layout"
	"github.com/sandeepkv93/daygrid/internal/model"
	"github.com/sandeepkv93/daygrid/internal/scheduler"
	"github.com/sandeepkv93/daygrid/internal/storage"
	"github.com/sandeepkv93/daygrid/internal/timer"
)

func testModel(t *testing.T) Model {
	t.Helper()
	store := guest.NewStore()
	eng := timer.NewEngine(model.DefaultTimerSettings())
	return NewModel(store, eng)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func applyKey(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := m.Update(keyMsg(s))
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = applyKey(t, m, string(r))
	}
	return m
}

func pressEnter(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestViewSwitching(t *testing.T) {
	m := testModel(t)
	if m.CurrentView != ViewGrid {
		t.Fatalf("initial view = %s, want %s", m.CurrentView, ViewGrid)
	}

	m = applyKey(t, m, "2")
	if m.CurrentView != ViewFocus {
		t.Fatalf("view after '2' = %s, want %s", m.CurrentView, ViewFocus)
	}
	m = applyKey(t, m, "3")
	if m.CurrentView != ViewHistory {
		t.Fatalf("view after '3' = %s, want %s", m.CurrentView, ViewHistory)
	}
	m = applyKey(t, m, "1")
	if m.CurrentView != ViewGrid {
		t.Fatalf("view after '1' = %s, want %s", m.CurrentView, ViewGrid)
	}
}

func TestQuitKeySetsQuitting(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "q")
	if !m.Quitting {
		t.Fatal("expected Quitting after 'q'")
	}
}

func TestGridKeysShiftWindow(t *testing.T) {
	m := testModel(t)
	start := m.Grid.Start

	m = applyKey(t, m, "l")
	if !m.Grid.Start.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("grid start after 'l' = %v, want next day", m.Grid.Start)
	}
	m = applyKey(t, m, "h")
	m = applyKey(t, m, "h")
	if !m.Grid.Start.Equal(start.AddDate(0, 0, -1)) {
		t.Fatalf("grid start after 'h h' = %v, want previous day", m.Grid.Start)
	}
	m = applyKey(t, m, "t")
	if !m.Grid.Start.Equal(start) {
		t.Fatalf("grid start after 't' = %v, want today %v", m.Grid.Start, start)
	}
}

func TestPaletteCreatesEvent(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "/")
	if !m.Palette.Active {
		t.Fatal("palette should be active after '/'")
	}

	m = typeString(t, m, "event Lunch at 12:30 for 45m")
	m = pressEnter(t, m)

	if m.Palette.Active {
		t.Fatal("palette should close after enter")
	}
	if m.Status.IsError {
		t.Fatalf("command failed: %s", m.Status.Text)
	}

	events, err := m.Repo.ListEvents(context.Background(), storage.EventListFilter{})
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("stored events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Title != "Lunch" {
		t.Errorf("event title = %q, want %q", ev.Title, "Lunch")
	}
	if ev.StartAt.Hour() != 12 || ev.StartAt.Minute() != 30 {
		t.Errorf("event start = %v, want 12:30", ev.StartAt)
	}
	if got := ev.EndAt.Sub(ev.StartAt); got != 45*time.Minute {
		t.Errorf("event duration = %v, want 45m", got)
	}
}

func TestPaletteRejectsUnknownCommand(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "/")
	m = typeString(t, m, "frobnicate now")
	m = pressEnter(t, m)
	if !m.Status.IsError {
		t.Fatal("expected error status for unknown command")
	}
}

func TestPaletteGotoMovesGrid(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "/")
	m = typeString(t, m, "goto 2026-03-02")
	m = pressEnter(t, m)

	if m.Status.IsError {
		t.Fatalf("goto failed: %s", m.Status.Text)
	}
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, m.Grid.Start.Location())
	if !m.Grid.Start.Equal(want) {
		t.Fatalf("grid start = %v, want %v", m.Grid.Start, want)
	}
	if m.CurrentView != ViewGrid {
		t.Fatalf("view = %s, want %s", m.CurrentView, ViewGrid)
	}
}

func TestFocusKeysDriveTimer(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "2")

	m = applyKey(t, m, "s")
	if !m.TimerState.Running {
		t.Fatal("timer should run after 's'")
	}
	m = applyKey(t, m, " ")
	if m.TimerState.Running {
		t.Fatal("timer should pause after space")
	}
	m = applyKey(t, m, " ")
	if !m.TimerState.Running {
		t.Fatal("timer should resume after second space")
	}
	m = applyKey(t, m, "x")
	if m.TimerState.Running {
		t.Fatal("timer should stop after 'x'")
	}

	m = applyKey(t, m, "n")
	if m.TimerState.Mode != model.TimerModeShortBreak {
		t.Fatalf("mode after skip = %s, want %s", m.TimerState.Mode, model.TimerModeShortBreak)
	}
}

func TestPaletteSetUpdatesTimerSettings(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "/")
	m = typeString(t, m, "set focus 50")
	m = pressEnter(t, m)

	if m.Status.IsError {
		t.Fatalf("set failed: %s", m.Status.Text)
	}
	if got := m.Timer.Settings().FocusMinutes; got != 50 {
		t.Fatalf("focus minutes = %d, want 50", got)
	}
}

func TestPaletteSetRejectsOutOfRange(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "/")
	m = typeString(t, m, "set focus 500")
	m = pressEnter(t, m)
	if !m.Status.IsError {
		t.Fatal("expected error for out-of-range focus minutes")
	}
	if got := m.Timer.Settings().FocusMinutes; got != 25 {
		t.Fatalf("focus minutes = %d, want unchanged 25", got)
	}
}

func TestGridLoadedClampsCursor(t *testing.T) {
	m := testModel(t)
	m.Grid.CursorDay = 9
	m.Grid.Cursor = 9

	start := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	next, _ := m.Update(GridLoadedMsg{Start: start, Columns: layout.LayoutDayRange(nil, layout.DayRange(start, 3))})
	m = next.(Model)

	if m.Grid.CursorDay != 0 {
		t.Fatalf("cursor day = %d, want 0", m.Grid.CursorDay)
	}
	if m.Grid.Cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.Grid.Cursor)
	}
}

func TestCollectEventsMergesSources(t *testing.T) {
	store := guest.NewStore()
	from := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 1)

	if err := store.CreateEvent(context.Background(), storage.Event{
		ID:      "stored-1",
		Title:   "Design review",
		StartAt: from.Add(11 * time.Hour),
		EndAt:   from.Add(12 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if err := store.CreateHabit(context.Background(), storage.Habit{
		ID:              "habit-1",
		Title:           "Morning run",
		Rule:            "FREQ=DAILY",
		StartAt:         from.Add(7 * time.Hour),
		DurationMinutes: 30,
		Enabled:         true,
	}); err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	feed := []model.Event{{
		ID:    "ics-work-1",
		Title: "Imported standup",
		Start: from.Add(9 * time.Hour),
		End:   from.Add(9*time.Hour + 15*time.Minute),
	}}

	events, err := collectEvents(store, feed, from, until)
	if err != nil {
		t.Fatalf("collectEvents() error = %v", err)
	}
	titles := make(map[string]bool, len(events))
	for _, ev := range events {
		titles[ev.Title] = true
	}
	for _, want := range []string{"Design review", "Morning run", "Imported standup"} {
		if !titles[want] {
			t.Errorf("collectEvents() missing %q (got %v)", want, titles)
		}
	}
}

func TestCollectEventsProjectsDueTasks(t *testing.T) {
	store := guest.NewStore()
	from := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 1)

	due := from.Add(16*time.Hour + 30*time.Minute)
	if err := store.CreateTask(context.Background(), storage.Task{
		ID: "task-1", Title: "Write weekly report", State: "Planned", Priority: "High",
		DueAt: &due, DueMinutes: 60, CreatedAt: from,
	}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	completed := due.Add(time.Hour)
	if err := store.CreateTask(context.Background(), storage.Task{
		ID: "task-2", Title: "Old chore", State: "Done", Priority: "Low",
		DueAt: &due, DueMinutes: 30, CreatedAt: from, CompletedAt: &completed,
	}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if err := store.CreateTask(context.Background(), storage.Task{
		ID: "task-3", Title: "Clean garage", State: "Open", Priority: "Low", CreatedAt: from,
	}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	events, err := collectEvents(store, nil, from, until)
	if err != nil {
		t.Fatalf("collectEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected only the due open task on the grid, got %d: %#v", len(events), events)
	}
	ev := events[0]
	if ev.TaskID != "task-1" {
		t.Fatalf("projected TaskID = %q, want %q", ev.TaskID, "task-1")
	}
	if !ev.Start.Equal(due) {
		t.Fatalf("projected start = %v, want %v", ev.Start, due)
	}
	if got := ev.End.Sub(ev.Start); got != time.Hour {
		t.Fatalf("projected span = %v, want 1h", got)
	}
}

func TestPaletteCreatesTask(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "/")
	m = typeString(t, m, "task Write report at 16:30 for 1h")
	m = pressEnter(t, m)

	if m.Status.IsError {
		t.Fatalf("command failed: %s", m.Status.Text)
	}

	tasks, err := m.Repo.ListTasks(context.Background(), storage.TaskListFilter{DueOnly: true})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("stored tasks = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Title != "Write report" {
		t.Errorf("task title = %q, want %q", task.Title, "Write report")
	}
	if task.State != string(model.TaskStatePlanned) {
		t.Errorf("task state = %q, want %q", task.State, model.TaskStatePlanned)
	}
	if task.DueAt == nil || task.DueAt.Hour() != 16 || task.DueAt.Minute() != 30 {
		t.Errorf("task due = %v, want 16:30", task.DueAt)
	}
	if task.DueMinutes != 60 {
		t.Errorf("task due minutes = %d, want 60", task.DueMinutes)
	}
}

func noticeFixture() scheduler.Notice {
	return scheduler.Notice{
		Title:     "daygrid",
		Body:      "Focus session complete",
		Mode:      string(model.TimerModeFocus),
		TriggerAt: time.Date(2026, 2, 9, 9, 25, 0, 0, time.UTC),
	}
}

func TestNoticeMsgRecordsNotification(t *testing.T) {
	m := testModel(t)
	next, _ := m.Update(NoticeMsg{Notice: noticeFixture()})
	m = next.(Model)
	if len(m.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(m.Notifications))
	}
	if m.Status.Text != "Focus session complete" {
		t.Fatalf("status = %q, want notice body", m.Status.Text)
	}
}

func TestHistoryScreenShowsLoadedSessions(t *testing.T) {
	m := testModel(t)
	m = applyKey(t, m, "3")

	started := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	next, _ := m.Update(HistoryLoadedMsg{Sessions: []storage.FocusSession{{
		ID:              "session-1",
		TaskID:          "task-42",
		Mode:            "focus",
		StartedAt:       started,
		EndedAt:         started.Add(25 * time.Minute),
		DurationSeconds: 1500,
		Completed:       true,
	}}})
	m = next.(Model)

	out := m.View()
	if !strings.Contains(out, "task-42") {
		t.Fatalf("history view missing loaded session task, got:\n%s", out)
	}
	if !strings.Contains(out, "2026-02-09 09:00") {
		t.Fatalf("history view missing session start time, got:\n%s", out)
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	m := testModel(t)
	for _, view := range []View{ViewGrid, ViewFocus, ViewHistory} {
		m.CurrentView = view
		if out := m.View(); out == "" {
			t.Fatalf("View() empty for %s", view)
		}
	}
}
