package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daygrid/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Timer == nil {
		return m, nil
	}
	switch msg.String() {
	case "s":
		taskID := ""
		if ev, ok := m.selectedGridEvent(); ok {
			taskID = ev.TaskID
		}
		m.Timer.Start(taskID)
		m.TimerState = m.Timer.Snapshot()
		m.Status = StatusBar{Text: "focus started", IsError: false}
		return m, nil
	case " ":
		if m.TimerState.Running {
			m.Timer.Pause()
			m.Status = StatusBar{Text: "timer paused", IsError: false}
		} else {
			m.Timer.Start(m.TimerState.ActiveTaskID)
			m.Status = StatusBar{Text: "timer resumed", IsError: false}
		}
		m.TimerState = m.Timer.Snapshot()
		return m, nil
	case "x":
		m.Timer.Stop()
		m.TimerState = m.Timer.Snapshot()
		m.Status = StatusBar{Text: "timer stopped", IsError: false}
		return m, nil
	case "n":
		m.Timer.Skip()
		m.TimerState = m.Timer.Snapshot()
		m.Status = StatusBar{Text: "skipped to next session", IsError: false}
		return m, m.loadHistoryCmd()
	}
	return m, nil
}

func (m Model) renderFocusView() string {
	if m.Timer == nil {
		return "focus:\n(timer not configured)"
	}
	total := m.currentSessionTotal()
	pct := 0
	if total > 0 {
		pct = (total - m.TimerState.RemainingSeconds) * 100 / total
	}
	settings := m.Timer.Settings()
	untilLong := 0
	if settings.SessionsBeforeLongBreak > 0 {
		untilLong = settings.SessionsBeforeLongBreak - m.TimerState.CompletedSessions%settings.SessionsBeforeLongBreak
	}
	return views.RenderFocusPanel(views.FocusPanelData{
		Mode:              string(m.TimerState.Mode),
		TaskID:            m.TimerState.ActiveTaskID,
		Timer:             formatDuration(m.TimerState.RemainingSeconds),
		Running:           m.TimerState.Running,
		ProgressView:      m.focusProgress.View(),
		ProgressPct:       pct,
		CompletedSessions: m.TimerState.CompletedSessions,
		SessionsUntilLong: untilLong,
	})
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}
