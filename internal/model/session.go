package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimerMode = errors.New("model: invalid timer mode")

type TimerMode string

const (
	TimerModeFocus      TimerMode = "focus"
	TimerModeShortBreak TimerMode = "shortBreak"
	TimerModeLongBreak  TimerMode = "longBreak"
)

func (m TimerMode) IsValid() bool {
	switch m {
	case TimerModeFocus, TimerModeShortBreak, TimerModeLongBreak:
		return true
	default:
		return false
	}
}

func (m TimerMode) IsBreak() bool {
	return m == TimerModeShortBreak || m == TimerModeLongBreak
}

// FocusSession is one completed (or skipped-early) focus block, recorded
// for history and daily stats.
type FocusSession struct {
	ID              string
	TaskID          string
	Mode            TimerMode
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	Completed       bool
}

func (s FocusSession) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: session id is required")
	}
	if !s.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTimerMode, s.Mode)
	}
	if s.StartedAt.IsZero() {
		return errors.New("model: session started_at is required")
	}
	if s.EndedAt.IsZero() {
		return errors.New("model: session ended_at is required")
	}
	if s.EndedAt.Before(s.StartedAt) {
		return errors.New("model: session ended_at before started_at")
	}
	if s.DurationSeconds < 0 {
		return errors.New("model: session duration must be non-negative")
	}
	return nil
}
