package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrFocusDurationOutOfRange      = errors.New("model: focus duration out of range")
	ErrShortBreakDurationOutOfRange = errors.New("model: short break duration out of range")
	ErrLongBreakDurationOutOfRange  = errors.New("model: long break duration out of range")
	ErrSessionsOutOfRange           = errors.New("model: sessions before long break out of range")
)

// Validated bounds for timer settings, in minutes.
const (
	MinFocusMinutes            = 1
	MaxFocusMinutes            = 120
	MinShortBreakMinutes       = 1
	MaxShortBreakMinutes       = 30
	MinLongBreakMinutes        = 5
	MaxLongBreakMinutes        = 60
	MinSessionsBeforeLongBreak = 2
	MaxSessionsBeforeLongBreak = 10
)

type TimerSettings struct {
	FocusMinutes            int
	ShortBreakMinutes       int
	LongBreakMinutes        int
	SessionsBeforeLongBreak int
	AutoStartBreak          bool
	AutoStartFocus          bool
}

func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		FocusMinutes:            25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		SessionsBeforeLongBreak: 4,
	}
}

func (s TimerSettings) Validate() error {
	if s.FocusMinutes < MinFocusMinutes || s.FocusMinutes > MaxFocusMinutes {
		return fmt.Errorf("%w: %d", ErrFocusDurationOutOfRange, s.FocusMinutes)
	}
	if s.ShortBreakMinutes < MinShortBreakMinutes || s.ShortBreakMinutes > MaxShortBreakMinutes {
		return fmt.Errorf("%w: %d", ErrShortBreakDurationOutOfRange, s.ShortBreakMinutes)
	}
	if s.LongBreakMinutes < MinLongBreakMinutes || s.LongBreakMinutes > MaxLongBreakMinutes {
		return fmt.Errorf("%w: %d", ErrLongBreakDurationOutOfRange, s.LongBreakMinutes)
	}
	if s.SessionsBeforeLongBreak < MinSessionsBeforeLongBreak || s.SessionsBeforeLongBreak > MaxSessionsBeforeLongBreak {
		return fmt.Errorf("%w: %d", ErrSessionsOutOfRange, s.SessionsBeforeLongBreak)
	}
	return nil
}

// Duration reports the configured countdown length for the given mode.
func (s TimerSettings) Duration(mode TimerMode) time.Duration {
	switch mode {
	case TimerModeShortBreak:
		return time.Duration(s.ShortBreakMinutes) * time.Minute
	case TimerModeLongBreak:
		return time.Duration(s.LongBreakMinutes) * time.Minute
	default:
		return time.Duration(s.FocusMinutes) * time.Minute
	}
}
