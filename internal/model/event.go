package model

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidEventSpan = errors.New("model: event end before start")

// Event is a time-stamped calendar entry. Events usually originate from
// tasks with due times or from imported ICS feeds; the layout engine only
// cares about the Start/End span and the AllDay flag.
type Event struct {
	ID     string
	Title  string
	Start  time.Time
	End    time.Time
	Color  string
	AllDay bool
	TaskID string
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if e.Start.IsZero() {
		return errors.New("model: event start is required")
	}
	if e.End.IsZero() {
		return errors.New("model: event end is required")
	}
	if e.End.Before(e.Start) {
		return ErrInvalidEventSpan
	}
	return nil
}

// Duration reports the event span, clamped to zero for malformed events
// whose end precedes their start.
func (e Event) Duration() time.Duration {
	if e.End.Before(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start)
}
