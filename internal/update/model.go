package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daygrid/internal/config"
	"github.com/sandeepkv93/daygrid/internal/ics"
	"github.com/sandeepkv93/daygrid/internal/layout"
	"github.com/sandeepkv93/daygrid/internal/model"
	"github.com/sandeepkv93/daygrid/internal/scheduler"
	"github.com/sandeepkv93/daygrid/internal/storage"
	"github.com/sandeepkv93/daygrid/internal/timer"
)

type View string

const (
	ViewGrid    View = "Grid"
	ViewFocus   View = "Focus"
	ViewHistory View = "History"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Grid    string
	Focus   string
	History string
	Help    string
	Quit    string
}

type GridState struct {
	Start     time.Time
	Days      int
	Columns   []layout.DayColumn
	CursorDay int
	Cursor    int
}

type HistoryState struct {
	Sessions []storage.FocusSession
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	CurrentView    View
	Grid           GridState
	Timer          *timer.Engine
	TimerState     timer.State
	Scheduler      *scheduler.Engine
	Repo           storage.Repository
	History        HistoryState
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	feeds      *ics.Client
	feedCfgs   []config.FeedConfig
	feedEvents []model.Event
	log        *logrus.Entry
	clock      timer.Clock

	// Bubble components used for rich TUI controls
	commandInput  textinput.Model
	focusProgress progress.Model
	feedSpinner   spinner.Model
	helpModel     help.Model
	historyTable  table.Model
	spinnerActive bool
	timerStates   chan timer.State
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct{}

type TimerStateMsg struct {
	State timer.State
}

type NoticeMsg struct {
	Notice scheduler.Notice
}

type GridLoadedMsg struct {
	Start   time.Time
	Columns []layout.DayColumn
}

type HistoryLoadedMsg struct {
	Sessions []storage.FocusSession
}

type FeedEventsMsg struct {
	Events []model.Event
	Err    error
}

// RefreshFeedsMsg is injected by the cron job to re-fetch ICS feeds.
type RefreshFeedsMsg struct{}

func NewModel(repo storage.Repository, eng *timer.Engine) Model {
	m := Model{
		CurrentView: ViewGrid,
		Repo:        repo,
		Timer:       eng,
		Grid: GridState{
			Days: 3,
		},
		notifier: NoopDesktopNotifier{},
		clock:    timer.SystemClock(),
		Keys: GlobalKeyMap{
			Grid:    "1",
			Focus:   "2",
			History: "3",
			Help:    "?",
			Quit:    "q",
		},
		timerStates: make(chan timer.State, 16),
	}
	if eng != nil {
		m.TimerState = eng.Snapshot()
		states := m.timerStates
		eng.Subscribe(func(s timer.State) {
			select {
			case states <- s:
			default:
			}
		})
	}
	m.Grid.Start = startOfDay(m.clock.Now())
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func NewModelWithScheduler(repo storage.Repository, eng *timer.Engine, sched *scheduler.Engine) Model {
	m := NewModel(repo, eng)
	m.Scheduler = sched
	return m
}

func NewModelWithRuntime(repo storage.Repository, eng *timer.Engine, sched *scheduler.Engine, cfg config.Config, notifier DesktopNotifier, log *logrus.Entry) Model {
	m := NewModelWithScheduler(repo, eng, sched)
	if cfg.GridDays > 0 {
		m.Grid.Days = cfg.GridDays
	}
	if notifier != nil {
		m.notifier = notifier
		m.DesktopEnabled = true
	}
	if log != nil {
		m.log = log
		m.feeds = ics.NewClient(log)
	}
	m.feedCfgs = cfg.Feeds
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.focusProgress = progress.New(progress.WithDefaultGradient())

	m.feedSpinner = spinner.New()
	m.feedSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()

	cols := []table.Column{
		{Title: "Started", Width: 17},
		{Title: "Mode", Width: 11},
		{Title: "Length", Width: 7},
		{Title: "Task", Width: 16},
		{Title: "Done", Width: 5},
	}
	m.historyTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))
}

func (m *Model) syncBubbleData() {
	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	rows := make([]table.Row, 0, len(m.History.Sessions))
	for _, s := range m.History.Sessions {
		done := "no"
		if s.Completed {
			done = "yes"
		}
		rows = append(rows, table.Row{
			s.StartedAt.Format("2006-01-02 15:04"),
			s.Mode,
			formatDuration(s.DurationSeconds),
			s.TaskID,
			done,
		})
	}
	m.historyTable.SetRows(rows)

	total := m.currentSessionTotal()
	pct := 0.0
	if total > 0 {
		pct = float64(total-m.TimerState.RemainingSeconds) / float64(total)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	_ = m.focusProgress.SetPercent(pct)
}

func (m Model) currentSessionTotal() int {
	if m.Timer == nil {
		return 0
	}
	return int(m.Timer.Settings().Duration(m.TimerState.Mode) / time.Second)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
