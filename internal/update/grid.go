package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daygrid/internal/layout"
	"github.com/sandeepkv93/daygrid/internal/model"
	"github.com/sandeepkv93/daygrid/internal/storage"
	"github.com/sandeepkv93/daygrid/internal/views"
)

func (m Model) handleGridKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h":
		m.Grid.Start = m.Grid.Start.AddDate(0, 0, -1)
		return m, m.loadGridCmd()
	case "l":
		m.Grid.Start = m.Grid.Start.AddDate(0, 0, 1)
		return m, m.loadGridCmd()
	case "t":
		m.Grid.Start = startOfDay(m.clock.Now())
		return m, m.loadGridCmd()
	case "j":
		m.moveGridCursor(1)
		return m, nil
	case "k":
		m.moveGridCursor(-1)
		return m, nil
	case "tab":
		if len(m.Grid.Columns) > 0 {
			m.Grid.CursorDay = (m.Grid.CursorDay + 1) % len(m.Grid.Columns)
			m.Grid.Cursor = 0
			m.clampGridCursor()
		}
		return m, nil
	case "d":
		if ev, ok := m.selectedGridEvent(); ok {
			return m, m.deleteEventCmd(ev.ID)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) moveGridCursor(delta int) {
	if len(m.Grid.Columns) == 0 {
		return
	}
	day := m.Grid.Columns[m.Grid.CursorDay]
	m.Grid.Cursor += delta
	if m.Grid.Cursor < 0 {
		m.Grid.Cursor = 0
	}
	if m.Grid.Cursor >= len(day.Events) {
		m.Grid.Cursor = len(day.Events) - 1
	}
	if m.Grid.Cursor < 0 {
		m.Grid.Cursor = 0
	}
}

func (m *Model) clampGridCursor() {
	if m.Grid.CursorDay >= len(m.Grid.Columns) {
		m.Grid.CursorDay = 0
	}
	m.moveGridCursor(0)
}

func (m Model) selectedGridEvent() (layout.PositionedEvent, bool) {
	if m.Grid.CursorDay >= len(m.Grid.Columns) {
		return layout.PositionedEvent{}, false
	}
	day := m.Grid.Columns[m.Grid.CursorDay]
	if m.Grid.Cursor >= len(day.Events) {
		return layout.PositionedEvent{}, false
	}
	return day.Events[m.Grid.Cursor], true
}

func (m Model) loadGridCmd() tea.Cmd {
	repo := m.Repo
	feedEvents := m.feedEvents
	start := m.Grid.Start
	days := m.Grid.Days
	return func() tea.Msg {
		dates := layout.DayRange(start, days)
		until := start.AddDate(0, 0, days)
		events, err := collectEvents(repo, feedEvents, start, until)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return GridLoadedMsg{Start: start, Columns: layout.LayoutDayRange(events, dates)}
	}
}

// collectEvents merges stored events, habit occurrences, and imported
// feed events for the visible window.
func collectEvents(repo storage.Repository, feedEvents []model.Event, from, until time.Time) ([]model.Event, error) {
	out := make([]model.Event, 0)
	if repo != nil {
		ctx := context.Background()
		stored, err := repo.ListEvents(ctx, storage.EventListFilter{From: &from, Until: &until})
		if err != nil {
			return nil, err
		}
		for _, ev := range stored {
			out = append(out, eventFromStorage(ev))
		}

		enabled := true
		habits, err := repo.ListHabits(ctx, storage.HabitListFilter{Enabled: &enabled})
		if err != nil {
			return nil, err
		}
		for _, h := range habits {
			occurrences, err := habitFromStorage(h).Occurrences(from, until)
			if err != nil {
				continue
			}
			out = append(out, occurrences...)
		}

		tasks, err := repo.ListTasks(ctx, storage.TaskListFilter{DueOnly: true})
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			if t.State == string(model.TaskStateDone) {
				continue
			}
			ev, ok := taskFromStorage(t).Event()
			if !ok {
				continue
			}
			if ev.Start.Before(until) && !ev.Start.Before(from) {
				out = append(out, ev)
			}
		}
	}
	for _, ev := range feedEvents {
		if ev.Start.Before(until) && !ev.Start.Before(from) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func eventFromStorage(ev storage.Event) model.Event {
	return model.Event{
		ID:     ev.ID,
		Title:  ev.Title,
		Start:  ev.StartAt,
		End:    ev.EndAt,
		Color:  ev.Color,
		AllDay: ev.AllDay,
		TaskID: ev.TaskID,
	}
}

func taskFromStorage(t storage.Task) model.Task {
	out := model.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       model.TaskState(t.State),
		Priority:    model.Priority(t.Priority),
		DueAt:       t.DueAt,
		DueDuration: time.Duration(t.DueMinutes) * time.Minute,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
	if t.Tags != "" {
		out.Tags = strings.Split(t.Tags, ",")
	}
	return out
}

func habitFromStorage(h storage.Habit) model.Habit {
	return model.Habit{
		ID:       h.ID,
		Title:    h.Title,
		Rule:     h.Rule,
		StartAt:  h.StartAt,
		Duration: time.Duration(h.DurationMinutes) * time.Minute,
		Color:    h.Color,
		Enabled:  h.Enabled,
	}
}

func (m Model) deleteEventCmd(id string) tea.Cmd {
	repo := m.Repo
	reload := m.loadGridCmd()
	return func() tea.Msg {
		if repo == nil {
			return SetStatusMsg{Text: "no storage configured", IsError: true}
		}
		if err := repo.DeleteEvent(context.Background(), id); err != nil {
			return AppErrorMsg{Err: err}
		}
		return reload()
	}
}

func (m Model) fetchFeedsCmd() tea.Cmd {
	client := m.feeds
	feedCfgs := m.feedCfgs
	from := m.Grid.Start.AddDate(0, 0, -7)
	until := m.Grid.Start.AddDate(0, 0, 31)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		all := make([]model.Event, 0)
		for _, cfg := range feedCfgs {
			feed := feedFromConfig(cfg)
			events, err := client.Events(ctx, feed, from, until)
			if err != nil {
				return FeedEventsMsg{Err: err}
			}
			all = append(all, events...)
		}
		return FeedEventsMsg{Events: all}
	}
}

func (m Model) renderGridView() string {
	days := make([]views.GridDayData, 0, len(m.Grid.Columns))
	selectedID := ""
	if ev, ok := m.selectedGridEvent(); ok {
		selectedID = ev.ID
	}
	for _, col := range m.Grid.Columns {
		day := views.GridDayData{Date: col.Date.Format("Mon 2006-01-02")}
		for _, ev := range col.Events {
			day.Events = append(day.Events, views.GridEventData{
				ID:     ev.ID,
				Title:  ev.Title,
				Start:  ev.Start.Format("15:04"),
				End:    ev.End.Format("15:04"),
				AllDay: ev.AllDay,
				Left:   ev.Left,
				Width:  ev.Width,
				Column: ev.Column,
			})
		}
		days = append(days, day)
	}
	return views.RenderGridPanel(views.GridPanelData{Days: days, SelectedID: selectedID})
}

func (m Model) renderFocusSidebar() string {
	if m.Timer == nil {
		return ""
	}
	return fmt.Sprintf("focus: %s %s\n", m.TimerState.Mode, formatDuration(m.TimerState.RemainingSeconds))
}
