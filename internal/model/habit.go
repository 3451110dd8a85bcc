package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var ErrInvalidHabitRule = errors.New("model: invalid habit recurrence rule")

// Habit is a recurring commitment described by an RFC 5545 RRULE. Each
// occurrence inside the visible window becomes a fixed-length calendar
// event so habits share the grid with one-off events.
type Habit struct {
	ID        string
	Title     string
	Rule      string
	StartAt   time.Time
	Duration  time.Duration
	Color     string
	Enabled   bool
	CreatedAt time.Time
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.Title) == "" {
		return errors.New("model: habit title is required")
	}
	if h.StartAt.IsZero() {
		return errors.New("model: habit start_at is required")
	}
	if h.Duration <= 0 {
		return errors.New("model: habit duration must be positive")
	}
	if _, err := h.rule(); err != nil {
		return err
	}
	return nil
}

func (h Habit) rule() (*rrule.RRule, error) {
	opts, err := rrule.StrToROption(strings.TrimSpace(h.Rule))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHabitRule, err)
	}
	opts.Dtstart = h.StartAt
	rule, err := rrule.NewRRule(*opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHabitRule, err)
	}
	return rule, nil
}

// Occurrences expands the habit into events between from (inclusive) and
// until (exclusive).
func (h Habit) Occurrences(from, until time.Time) ([]Event, error) {
	rule, err := h.rule()
	if err != nil {
		return nil, err
	}
	times := rule.Between(from, until, true)
	out := make([]Event, 0, len(times))
	for _, start := range times {
		if !start.Before(until) {
			continue
		}
		out = append(out, Event{
			ID:    fmt.Sprintf("habit-%s-%d", h.ID, start.Unix()),
			Title: h.Title,
			Start: start,
			End:   start.Add(h.Duration),
			Color: h.Color,
		})
	}
	return out, nil
}
