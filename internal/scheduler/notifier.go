package scheduler

import (
	"time"

	"github.com/sandeepkv93/daygrid/internal/timer"
)

// TimerNotifier adapts the engine to the focus timer's notifier
// contract: relative delays become absolute trigger times.
type TimerNotifier struct {
	Engine *Engine
	Clock  timer.Clock
}

func NewTimerNotifier(engine *Engine, clock timer.Clock) TimerNotifier {
	if clock == nil {
		clock = timer.SystemClock()
	}
	return TimerNotifier{Engine: engine, Clock: clock}
}

func (n TimerNotifier) Schedule(after time.Duration, notice timer.Notice) (int64, error) {
	return n.Engine.Schedule(Notice{
		Title:     notice.Title,
		Body:      notice.Body,
		Mode:      string(notice.Mode),
		TaskID:    notice.TaskID,
		TriggerAt: n.Clock.Now().Add(after),
	})
}

func (n TimerNotifier) Cancel(handle int64) {
	n.Engine.Cancel(handle)
}

var _ timer.Notifier = TimerNotifier{}
