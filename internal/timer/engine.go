// Package timer implements the pomodoro countdown state machine: a single
// engine per process cycles focus and break modes, derives remaining time
// from a wall-clock target timestamp, and fires collaborator side effects
// at transition points without ever letting their failures touch the
// state transition itself.
package timer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daygrid/internal/model"
)

// warningSeconds is how far from the end the warning cue fires.
const warningSeconds = 60

// State is an immutable snapshot of the countdown. External callers read
// snapshots and issue intents through the engine's operations; nothing
// else mutates timer state.
type State struct {
	Mode              model.TimerMode
	Running           bool
	RemainingSeconds  int
	CompletedSessions int
	ActiveTaskID      string
}

type Engine struct {
	mu       sync.Mutex
	settings model.TimerSettings
	state    State

	// targetEnd anchors the countdown to the wall clock while running so
	// missed ticks cannot desynchronize the display from real time. Zero
	// while paused.
	targetEnd    time.Time
	sessionStart time.Time
	noticeHandle int64
	warned       bool

	clock    Clock
	notifier Notifier
	history  HistoryLogger
	cues     CuePlayer
	store    StateStore
	log      *logrus.Entry

	subs []func(State)
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithHistory(h HistoryLogger) Option {
	return func(e *Engine) { e.history = h }
}

func WithCuePlayer(p CuePlayer) Option {
	return func(e *Engine) { e.cues = p }
}

func WithStateStore(s StateStore) Option {
	return func(e *Engine) { e.store = s }
}

func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine builds an engine with the given settings and restores any
// persisted state from the state store. The restored countdown is always
// paused: a running countdown cannot survive a dead process.
func NewEngine(settings model.TimerSettings, opts ...Option) *Engine {
	e := &Engine{
		settings: settings,
		clock:    SystemClock(),
		notifier: NoopNotifier{},
		history:  NoopHistoryLogger{},
		cues:     NoopCuePlayer{},
		store:    NoopStateStore{},
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.state = State{
		Mode:             model.TimerModeFocus,
		RemainingSeconds: int(settings.Duration(model.TimerModeFocus).Seconds()),
	}
	if restored, restoredSettings, ok, err := e.store.Load(); err != nil {
		e.log.WithError(err).Warn("timer state restore failed; starting fresh")
	} else if ok {
		restored.Running = false
		if restored.Mode.IsValid() && restored.RemainingSeconds >= 0 {
			e.state = restored
		}
		if restoredSettings.Validate() == nil {
			e.settings = restoredSettings
		}
	}
	return e
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Settings returns the active timer settings.
func (e *Engine) Settings() model.TimerSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Subscribe registers a callback invoked with a state snapshot after
// every mutation. Callbacks run outside the engine lock.
func (e *Engine) Subscribe(fn func(State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// Start begins or resumes the countdown. Starting an already-running
// timer only updates the active task. The task id is opaque to the
// engine; no validation is performed on it.
func (e *Engine) Start(taskID string) {
	e.mu.Lock()
	if taskID != "" {
		e.state.ActiveTaskID = taskID
	}
	if e.state.Running {
		e.finishMutationLocked()
		return
	}
	if e.state.RemainingSeconds <= 0 {
		e.state.RemainingSeconds = int(e.settings.Duration(e.state.Mode).Seconds())
	}
	now := e.clock.Now()
	e.state.Running = true
	e.targetEnd = now.Add(time.Duration(e.state.RemainingSeconds) * time.Second)
	if e.state.Mode == model.TimerModeFocus && e.sessionStart.IsZero() {
		e.sessionStart = now
	}
	e.scheduleNoticeLocked()
	if e.state.Mode == model.TimerModeFocus {
		e.cues.Play(CueFocusStart)
	}
	e.finishMutationLocked()
}

// Pause suspends the countdown, freezing the remaining time as derived
// from the wall clock, and cancels the pending completion notification.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.state.Running {
		e.mu.Unlock()
		return
	}
	e.state.RemainingSeconds = e.remainingLocked()
	e.state.Running = false
	e.targetEnd = time.Time{}
	e.cancelNoticeLocked()
	e.finishMutationLocked()
}

// Stop resets the current mode to its full configured duration without
// changing mode or session count.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.state.Running = false
	e.state.RemainingSeconds = int(e.settings.Duration(e.state.Mode).Seconds())
	e.targetEnd = time.Time{}
	e.sessionStart = time.Time{}
	e.warned = false
	e.cancelNoticeLocked()
	e.finishMutationLocked()
}

// Skip advances to the next mode immediately, running the same transition
// logic a natural completion would.
func (e *Engine) Skip() {
	e.mu.Lock()
	e.advanceLocked(false)
	e.finishMutationLocked()
}

// Tick re-derives the remaining time from the wall clock and completes
// the countdown when it reaches zero. Callers drive it about once per
// second while the timer runs; jitter and missed ticks are harmless.
func (e *Engine) Tick() {
	e.mu.Lock()
	if !e.state.Running {
		e.mu.Unlock()
		return
	}
	remaining := e.remainingLocked()
	e.state.RemainingSeconds = remaining
	if remaining <= 0 {
		e.advanceLocked(true)
		e.finishMutationLocked()
		return
	}
	if !e.warned && remaining <= warningSeconds {
		e.warned = true
		if e.state.Mode == model.TimerModeFocus {
			e.cues.Play(CueSessionWarning)
		} else {
			e.cues.Play(CueBreakWarning)
		}
	}
	e.finishMutationLocked()
}

// UpdateSettings replaces the timer settings. Bounds checking happens at
// the edges (config, palette); the engine trusts its input. A paused
// timer picks up a changed duration for the current mode immediately; a
// running countdown is untouched until its next transition.
func (e *Engine) UpdateSettings(s model.TimerSettings) {
	e.mu.Lock()
	prev := e.settings.Duration(e.state.Mode)
	e.settings = s
	if !e.state.Running && e.settings.Duration(e.state.Mode) != prev {
		e.state.RemainingSeconds = int(e.settings.Duration(e.state.Mode).Seconds())
	}
	e.finishMutationLocked()
}

func (e *Engine) remainingLocked() int {
	if e.targetEnd.IsZero() {
		return e.state.RemainingSeconds
	}
	left := e.targetEnd.Sub(e.clock.Now())
	if left <= 0 {
		return 0
	}
	// Round up so the display reads 1 until the final second elapses.
	return int((left + time.Second - 1) / time.Second)
}

// advanceLocked is the shared completion path for natural countdown-to-
// zero and manual skip. Side effects are fire-and-forget: a failed
// notification schedule or history write degrades silently and never
// reverts the transition.
func (e *Engine) advanceLocked(natural bool) {
	e.cancelNoticeLocked()
	now := e.clock.Now()

	// A skip can arrive without an intervening Tick, so the stored
	// remaining may be stale. Re-derive it before it feeds the session
	// record.
	if e.state.Running {
		e.state.RemainingSeconds = e.remainingLocked()
	}

	var next model.TimerMode
	var autoStart bool
	if e.state.Mode == model.TimerModeFocus {
		e.state.CompletedSessions++
		e.logSessionLocked(now, natural)
		e.cues.Play(CueSessionComplete)
		if e.state.CompletedSessions%e.settings.SessionsBeforeLongBreak == 0 {
			next = model.TimerModeLongBreak
		} else {
			next = model.TimerModeShortBreak
		}
		autoStart = e.settings.AutoStartBreak
	} else {
		next = model.TimerModeFocus
		e.cues.Play(CueBreakEnd)
		autoStart = e.settings.AutoStartFocus
	}

	e.state.Mode = next
	e.state.RemainingSeconds = int(e.settings.Duration(next).Seconds())
	e.warned = false
	e.sessionStart = time.Time{}

	if autoStart {
		e.state.Running = true
		e.targetEnd = now.Add(time.Duration(e.state.RemainingSeconds) * time.Second)
		if next == model.TimerModeFocus {
			e.sessionStart = now
		}
		e.scheduleNoticeLocked()
	} else {
		e.state.Running = false
		e.targetEnd = time.Time{}
	}
}

func (e *Engine) logSessionLocked(now time.Time, natural bool) {
	configured := int(e.settings.Duration(model.TimerModeFocus).Seconds())
	duration := configured
	if !natural {
		duration = configured - e.state.RemainingSeconds
	}
	if duration < 0 {
		duration = 0
	}
	started := e.sessionStart
	if started.IsZero() {
		started = now.Add(-time.Duration(duration) * time.Second)
	}
	session := model.FocusSession{
		ID:              uuid.NewString(),
		TaskID:          e.state.ActiveTaskID,
		Mode:            model.TimerModeFocus,
		StartedAt:       started,
		EndedAt:         now,
		DurationSeconds: duration,
		Completed:       natural,
	}
	if err := e.history.LogSession(session); err != nil {
		e.log.WithError(err).WithField("task_id", session.TaskID).Warn("focus session log failed")
	}
}

func (e *Engine) scheduleNoticeLocked() {
	n := Notice{
		Mode:   e.state.Mode,
		TaskID: e.state.ActiveTaskID,
	}
	if e.state.Mode == model.TimerModeFocus {
		n.Title = "Focus session complete"
		n.Body = "Time for a break."
	} else {
		n.Title = "Break over"
		n.Body = "Back to focus."
	}
	after := time.Duration(e.state.RemainingSeconds) * time.Second
	handle, err := e.notifier.Schedule(after, n)
	if err != nil {
		e.log.WithError(err).Warn("completion notification schedule failed")
		e.noticeHandle = 0
		return
	}
	e.noticeHandle = handle
}

func (e *Engine) cancelNoticeLocked() {
	if e.noticeHandle == 0 {
		return
	}
	e.notifier.Cancel(e.noticeHandle)
	e.noticeHandle = 0
}

// finishMutationLocked persists the state, releases the lock, and fans
// out the snapshot to subscribers.
func (e *Engine) finishMutationLocked() {
	snap := e.state
	settings := e.settings
	subs := e.subs
	if err := e.store.Save(snap, settings); err != nil {
		e.log.WithError(err).Warn("timer state persist failed")
	}
	e.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}
