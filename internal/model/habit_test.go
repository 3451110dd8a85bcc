package model

import (
	"errors"
	"testing"
	"time"
)

func TestHabitOccurrencesDaily(t *testing.T) {
	start := time.Date(2026, 2, 9, 7, 0, 0, 0, time.UTC)
	habit := Habit{
		ID:        "habit-1",
		Title:     "Morning run",
		Rule:      "FREQ=DAILY",
		StartAt:   start,
		Duration:  45 * time.Minute,
		Enabled:   true,
		CreatedAt: start,
	}
	if err := habit.Validate(); err != nil {
		t.Fatalf("expected valid habit, got: %v", err)
	}

	from := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, 3)
	events, err := habit.Occurrences(from, until)
	if err != nil {
		t.Fatalf("occurrences: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(events))
	}
	for i, ev := range events {
		want := start.AddDate(0, 0, i)
		if !ev.Start.Equal(want) {
			t.Fatalf("occurrence %d: expected %v, got %v", i, want, ev.Start)
		}
		if got := ev.End.Sub(ev.Start); got != 45*time.Minute {
			t.Fatalf("occurrence %d: expected 45m span, got %v", i, got)
		}
	}
}

func TestHabitOccurrencesWeekly(t *testing.T) {
	start := time.Date(2026, 2, 9, 18, 30, 0, 0, time.UTC) // a Monday
	habit := Habit{
		ID:       "habit-2",
		Title:    "Gym",
		Rule:     "FREQ=WEEKLY;BYDAY=MO,WE",
		StartAt:  start,
		Duration: time.Hour,
	}

	from := start.AddDate(0, 0, -1)
	until := start.AddDate(0, 0, 7)
	events, err := habit.Occurrences(from, until)
	if err != nil {
		t.Fatalf("occurrences: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected Monday and Wednesday occurrences, got %d", len(events))
	}
	if events[0].Start.Weekday() != time.Monday || events[1].Start.Weekday() != time.Wednesday {
		t.Fatalf("unexpected weekdays: %v %v", events[0].Start.Weekday(), events[1].Start.Weekday())
	}
}

func TestHabitValidateRejectsBadRule(t *testing.T) {
	habit := Habit{
		ID:       "habit-3",
		Title:    "Broken",
		Rule:     "FREQ=NOPE",
		StartAt:  time.Date(2026, 2, 9, 7, 0, 0, 0, time.UTC),
		Duration: time.Minute,
	}
	if err := habit.Validate(); !errors.Is(err, ErrInvalidHabitRule) {
		t.Fatalf("expected ErrInvalidHabitRule, got: %v", err)
	}
}
