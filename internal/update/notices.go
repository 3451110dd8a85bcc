package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daygrid/internal/scheduler"
	"github.com/sandeepkv93/daygrid/internal/timer"
)

func waitForNoticeCmd(ch <-chan scheduler.Notice) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	}
}

func waitForTimerStateCmd(ch <-chan timer.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return TimerStateMsg{State: s}
	}
}
