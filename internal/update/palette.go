package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/sandeepkv93/daygrid/internal/commands"
	"github.com/sandeepkv93/daygrid/internal/model"
	"github.com/sandeepkv93/daygrid/internal/storage"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Event: func(a commands.EventArgs) (commands.Result, error) {
			created, err := m.createEvent(a)
			if err != nil {
				return commands.Result{}, err
			}
			followUp = m.loadGridCmd()
			return commands.Result{Message: fmt.Sprintf("event added: %s at %s", created.Title, created.Start.Format("15:04"))}, nil
		},
		Task: func(a commands.TaskArgs) (commands.Result, error) {
			created, err := m.createTask(a)
			if err != nil {
				return commands.Result{}, err
			}
			if created.DueAt != nil {
				followUp = m.loadGridCmd()
				return commands.Result{Message: fmt.Sprintf("task added: %s due %s", created.Title, created.DueAt.Format("15:04"))}, nil
			}
			return commands.Result{Message: fmt.Sprintf("task added: %s", created.Title)}, nil
		},
		Focus: func(a commands.FocusArgs) (commands.Result, error) {
			if m.Timer == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "timer not configured"}
			}
			switch a.Action {
			case "start":
				m.Timer.Start(a.TaskID)
			case "pause":
				m.Timer.Pause()
			case "stop":
				m.Timer.Stop()
			case "skip":
				m.Timer.Skip()
			}
			m.TimerState = m.Timer.Snapshot()
			m.CurrentView = ViewFocus
			return commands.Result{Message: fmt.Sprintf("focus %s", a.Action)}, nil
		},
		Set: func(a commands.SetArgs) (commands.Result, error) {
			if m.Timer == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "timer not configured"}
			}
			return m.applySetting(a)
		},
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			when, err := m.parseGotoDate(a.When)
			if err != nil {
				return commands.Result{}, err
			}
			m.Grid.Start = when
			m.CurrentView = ViewGrid
			followUp = m.loadGridCmd()
			return commands.Result{Message: fmt.Sprintf("grid moved to %s", when.Format("2006-01-02"))}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch a.Subject {
			case "grid":
				m.CurrentView = ViewGrid
				followUp = m.loadGridCmd()
			case "focus":
				m.CurrentView = ViewFocus
			case "history":
				m.CurrentView = ViewHistory
				followUp = m.loadHistoryCmd()
			default:
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown screen: %s", a.Subject)}
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", a.Subject)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	m.notify("Command", res.Message, "info")
	return m, followUp
}

func (m *Model) createEvent(a commands.EventArgs) (model.Event, error) {
	if m.Repo == nil {
		return model.Event{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no storage configured"}
	}

	day := m.Grid.Start
	if m.Grid.CursorDay < len(m.Grid.Columns) {
		day = m.Grid.Columns[m.Grid.CursorDay].Date
	}
	start := day.Add(9 * time.Hour)
	if a.At != "" {
		clock, err := parseClock(a.At)
		if err != nil {
			return model.Event{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
		}
		start = day.Add(clock)
	}
	duration := 30 * time.Minute
	if a.For != "" {
		d, err := time.ParseDuration(a.For)
		if err != nil || d <= 0 {
			return model.Event{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("bad duration: %s", a.For)}
		}
		duration = d
	}

	ev := model.Event{
		ID:    uuid.NewString(),
		Title: a.Title,
		Start: start,
		End:   start.Add(duration),
	}
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}
	stored := storage.Event{
		ID:        ev.ID,
		Title:     ev.Title,
		StartAt:   ev.Start,
		EndAt:     ev.End,
		CreatedAt: m.clock.Now(),
	}
	if err := m.Repo.CreateEvent(context.Background(), stored); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (m *Model) createTask(a commands.TaskArgs) (model.Task, error) {
	if m.Repo == nil {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no storage configured"}
	}

	task := model.Task{
		ID:        uuid.NewString(),
		Title:     a.Title,
		State:     model.TaskStateOpen,
		Priority:  model.PriorityMedium,
		CreatedAt: m.clock.Now(),
	}
	if a.At != "" {
		day := m.Grid.Start
		if m.Grid.CursorDay < len(m.Grid.Columns) {
			day = m.Grid.Columns[m.Grid.CursorDay].Date
		}
		clock, err := parseClock(a.At)
		if err != nil {
			return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
		}
		due := day.Add(clock)
		task.DueAt = &due
		task.State = model.TaskStatePlanned
	}
	if a.For != "" {
		d, err := time.ParseDuration(a.For)
		if err != nil || d <= 0 {
			return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("bad duration: %s", a.For)}
		}
		task.DueDuration = d
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	stored := storage.Task{
		ID:         task.ID,
		Title:      task.Title,
		State:      string(task.State),
		Priority:   string(task.Priority),
		DueAt:      task.DueAt,
		DueMinutes: int(task.DueDuration / time.Minute),
		CreatedAt:  task.CreatedAt,
	}
	if err := m.Repo.CreateTask(context.Background(), stored); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (m *Model) applySetting(a commands.SetArgs) (commands.Result, error) {
	v, err := strconv.Atoi(a.Value)
	if err != nil {
		switch a.Field {
		case "autobreak", "autofocus":
		default:
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("bad value: %s", a.Value)}
		}
	}

	settings := m.Timer.Settings()
	switch a.Field {
	case "focus":
		settings.FocusMinutes = v
	case "shortbreak", "short":
		settings.ShortBreakMinutes = v
	case "longbreak", "long":
		settings.LongBreakMinutes = v
	case "sessions":
		settings.SessionsBeforeLongBreak = v
	case "autobreak":
		settings.AutoStartBreak = a.Value == "on" || a.Value == "true"
	case "autofocus":
		settings.AutoStartFocus = a.Value == "on" || a.Value == "true"
	default:
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown setting: %s", a.Field)}
	}
	if err := settings.Validate(); err != nil {
		return commands.Result{}, err
	}
	m.Timer.UpdateSettings(settings)
	m.TimerState = m.Timer.Snapshot()
	return commands.Result{Message: fmt.Sprintf("setting applied: %s=%s", a.Field, a.Value)}, nil
}

func (m Model) parseGotoDate(when string) (time.Time, error) {
	switch when {
	case "today":
		return startOfDay(m.clock.Now()), nil
	case "tomorrow":
		return startOfDay(m.clock.Now()).AddDate(0, 0, 1), nil
	}
	t, err := time.ParseInLocation("2006-01-02", when, m.clock.Now().Location())
	if err != nil {
		return time.Time{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("bad date: %s", when)}
	}
	return t, nil
}
