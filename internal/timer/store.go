package timer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/daygrid/internal/model"
)

// StateStore persists timer state and settings across restarts.
type StateStore interface {
	Load() (State, model.TimerSettings, bool, error)
	Save(s State, settings model.TimerSettings) error
}

type NoopStateStore struct{}

func (NoopStateStore) Load() (State, model.TimerSettings, bool, error) {
	return State{}, model.TimerSettings{}, false, nil
}

func (NoopStateStore) Save(State, model.TimerSettings) error { return nil }

type persistedTimer struct {
	Mode              string `json:"mode"`
	RemainingSeconds  int    `json:"remaining_seconds"`
	CompletedSessions int    `json:"completed_sessions"`
	ActiveTaskID      string `json:"active_task_id,omitempty"`

	FocusMinutes            int  `json:"focus_minutes"`
	ShortBreakMinutes       int  `json:"short_break_minutes"`
	LongBreakMinutes        int  `json:"long_break_minutes"`
	SessionsBeforeLongBreak int  `json:"sessions_before_long_break"`
	AutoStartBreak          bool `json:"auto_start_break"`
	AutoStartFocus          bool `json:"auto_start_focus"`
}

// FileStateStore keeps the timer state in a small JSON file, written
// atomically via a temp file rename.
type FileStateStore struct {
	Path string
}

func (f FileStateStore) Load() (State, model.TimerSettings, bool, error) {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return State{}, model.TimerSettings{}, false, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, model.TimerSettings{}, false, nil
		}
		return State{}, model.TimerSettings{}, false, err
	}
	var p persistedTimer
	if err := json.Unmarshal(raw, &p); err != nil {
		return State{}, model.TimerSettings{}, false, err
	}
	state := State{
		Mode:              model.TimerMode(p.Mode),
		RemainingSeconds:  p.RemainingSeconds,
		CompletedSessions: p.CompletedSessions,
		ActiveTaskID:      p.ActiveTaskID,
	}
	settings := model.TimerSettings{
		FocusMinutes:            p.FocusMinutes,
		ShortBreakMinutes:       p.ShortBreakMinutes,
		LongBreakMinutes:        p.LongBreakMinutes,
		SessionsBeforeLongBreak: p.SessionsBeforeLongBreak,
		AutoStartBreak:          p.AutoStartBreak,
		AutoStartFocus:          p.AutoStartFocus,
	}
	return state, settings, true, nil
}

func (f FileStateStore) Save(s State, settings model.TimerSettings) error {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(persistedTimer{
		Mode:              string(s.Mode),
		RemainingSeconds:  s.RemainingSeconds,
		CompletedSessions: s.CompletedSessions,
		ActiveTaskID:      s.ActiveTaskID,

		FocusMinutes:            settings.FocusMinutes,
		ShortBreakMinutes:       settings.ShortBreakMinutes,
		LongBreakMinutes:        settings.LongBreakMinutes,
		SessionsBeforeLongBreak: settings.SessionsBeforeLongBreak,
		AutoStartBreak:          settings.AutoStartBreak,
		AutoStartFocus:          settings.AutoStartFocus,
	}, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
