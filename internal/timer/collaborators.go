package timer

import (
	"time"

	"github.com/sandeepkv93/daygrid/internal/model"
)

// Cue names a sound effect the engine asks its player for at transition
// points. Playback is non-blocking; a player that cannot play simply does
// nothing.
type Cue string

const (
	CueFocusStart      Cue = "focusStart"
	CueSessionComplete Cue = "sessionComplete"
	CueBreakEnd        Cue = "breakEnd"
	CueSessionWarning  Cue = "sessionWarning"
	CueBreakWarning    Cue = "breakWarning"
)

// Notice is the payload for a scheduled completion notification.
type Notice struct {
	Title  string
	Body   string
	Mode   model.TimerMode
	TaskID string
}

// Notifier schedules a completion notification and can cancel it by the
// returned handle. Cancel must tolerate unknown and already-fired handles.
type Notifier interface {
	Schedule(after time.Duration, n Notice) (int64, error)
	Cancel(handle int64)
}

// HistoryLogger records completed focus sessions. Failures are the
// logger's problem; the engine never retries or rolls back.
type HistoryLogger interface {
	LogSession(s model.FocusSession) error
}

// CuePlayer plays a named sound cue without blocking.
type CuePlayer interface {
	Play(c Cue)
}

type NoopNotifier struct{}

func (NoopNotifier) Schedule(time.Duration, Notice) (int64, error) { return 0, nil }
func (NoopNotifier) Cancel(int64)                                  {}

type NoopHistoryLogger struct{}

func (NoopHistoryLogger) LogSession(model.FocusSession) error { return nil }

type NoopCuePlayer struct{}

func (NoopCuePlayer) Play(Cue) {}
