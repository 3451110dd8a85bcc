package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daygrid/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadGridCmd(),
		waitForTimerStateCmd(m.timerStates),
		focusTickCmd(),
	}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForNoticeCmd(m.Scheduler.C()))
	}
	if m.feeds != nil && len(m.feedCfgs) > 0 {
		cmds = append(cmds, m.fetchFeedsCmd())
	}
	if m.Repo != nil {
		cmds = append(cmds, m.loadHistoryCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.Grid:
			m.CurrentView = ViewGrid
			return m, m.loadGridCmd()
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			return m, nil
		case m.Keys.History:
			m.CurrentView = ViewHistory
			return m, m.loadHistoryCmd()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "S":
			if m.feeds != nil && len(m.feedCfgs) > 0 && !m.spinnerActive {
				m.spinnerActive = true
				m.Status = StatusBar{Text: "feed sync started", IsError: false}
				return m, tea.Batch(m.feedSpinner.Tick, m.fetchFeedsCmd())
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewGrid:
			return m.handleGridKey(typed)
		case ViewFocus:
			return m.handleFocusKey(typed)
		case ViewHistory:
			return m.handleHistoryKey(typed)
		}
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.feedSpinner, cmd = m.feedSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case FocusTickMsg:
		if m.Timer != nil {
			m.Timer.Tick()
			m.TimerState = m.Timer.Snapshot()
		}
		return m, focusTickCmd()
	case TimerStateMsg:
		m.TimerState = typed.State
		return m, waitForTimerStateCmd(m.timerStates)
	case NoticeMsg:
		m.notify(typed.Notice.Title, typed.Notice.Body, "info")
		m.Status = StatusBar{Text: typed.Notice.Body, IsError: false}
		if m.Scheduler != nil {
			return m, waitForNoticeCmd(m.Scheduler.C())
		}
		return m, nil
	case GridLoadedMsg:
		m.Grid.Start = typed.Start
		m.Grid.Columns = typed.Columns
		m.clampGridCursor()
		return m, nil
	case HistoryLoadedMsg:
		m.History.Sessions = typed.Sessions
		return m, nil
	case FeedEventsMsg:
		m.spinnerActive = false
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.feedEvents = typed.Events
		m.Status = StatusBar{Text: fmt.Sprintf("imported %d feed event(s)", len(typed.Events)), IsError: false}
		return m, m.loadGridCmd()
	case RefreshFeedsMsg:
		if m.feeds != nil && len(m.feedCfgs) > 0 {
			return m, m.fetchFeedsCmd()
		}
		return m, m.loadGridCmd()
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	mainPane := ""
	sidePane := ""
	switch m.CurrentView {
	case ViewGrid:
		mainPane = m.renderGridView()
		sidePane = m.renderFocusSidebar() + m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewFocus:
		mainPane = m.renderFocusView()
		sidePane = m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewHistory:
		mainPane = m.renderHistoryView()
		sidePane = m.renderCommandPalette() + m.renderHelpIfVisible()
	}

	notificationView := m.renderNotificationsView()
	if m.spinnerActive {
		spin := m.feedSpinner.View()
		notificationView = strings.TrimSpace(strings.Join([]string{notificationView, "feed sync: " + spin + " running"}, "\n"))
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("daygrid | view: %s | %s", m.CurrentView, m.Grid.Start.Format("2006-01-02")),
		MainPane:     mainPane,
		SidePane:     strings.TrimSpace(sidePane),
		StatusLine:   status,
		Notification: strings.TrimSpace(notificationView),
		Footer:       fmt.Sprintf("keys: %s grid | %s focus | %s history | / cmd | S sync | %s help | %s quit", m.Keys.Grid, m.Keys.Focus, m.Keys.History, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{Title: title, Body: body, Level: level, At: m.clock.Now()}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}

func isKnownView(v View) bool {
	switch v {
	case ViewGrid, ViewFocus, ViewHistory:
		return true
	default:
		return false
	}
}
