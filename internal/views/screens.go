package views

import (
	"fmt"
	"strings"
)

type GridEventData struct {
	ID     string
	Title  string
	Start  string
	End    string
	AllDay bool
	Left   float64
	Width  float64
	Column int
}

type GridDayData struct {
	Date   string
	Events []GridEventData
}

type GridPanelData struct {
	Days       []GridDayData
	SelectedID string
}

type FocusPanelData struct {
	Mode              string
	TaskID            string
	Timer             string
	Running           bool
	ProgressView      string
	ProgressPct       int
	CompletedSessions int
	SessionsUntilLong int
}

type SessionRowData struct {
	StartedAt string
	Mode      string
	Duration  string
	TaskID    string
	Completed bool
}

type HistoryPanelData struct {
	TableView string
	Rows      []SessionRowData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

// laneWidth is how many characters the indent scale spans: an event at
// left 50% starts half a lane in, which makes overlap columns visible in
// plain text.
const laneWidth = 24

func RenderGridPanel(data GridPanelData) string {
	var b strings.Builder
	b.WriteString("grid:\n")
	b.WriteString("actions: [h/l]shift day [t]today [j/k]select [d]delete\n")
	if len(data.Days) == 0 {
		b.WriteString("(no days in range)")
		return strings.TrimSpace(b.String())
	}
	for _, day := range data.Days {
		b.WriteString(fmt.Sprintf("\n%s:\n", day.Date))
		if len(day.Events) == 0 {
			b.WriteString("  (free)\n")
			continue
		}
		for _, ev := range day.Events {
			cursor := " "
			if data.SelectedID != "" && data.SelectedID == ev.ID {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, gridLane(ev), gridLabel(ev)))
		}
	}
	return strings.TrimSpace(b.String())
}

func gridLane(ev GridEventData) string {
	indent := int(ev.Left / 100 * laneWidth)
	if indent < 0 {
		indent = 0
	}
	if indent > laneWidth {
		indent = laneWidth
	}
	bar := int(ev.Width / 100 * laneWidth)
	if bar < 1 {
		bar = 1
	}
	if indent+bar > laneWidth {
		bar = laneWidth - indent
	}
	return strings.Repeat(" ", indent) + strings.Repeat("█", bar) + strings.Repeat(" ", laneWidth-indent-bar)
}

func gridLabel(ev GridEventData) string {
	if ev.AllDay {
		return fmt.Sprintf("all-day %s", ev.Title)
	}
	label := fmt.Sprintf("%s-%s %s", ev.Start, ev.End, ev.Title)
	if ev.Width < 100 {
		label += fmt.Sprintf(" [lane %d]", ev.Column+1)
	}
	return label
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskID != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskID))
	} else {
		b.WriteString("task: (none)\n")
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("mode: %s (%s)\n", strings.ToUpper(data.Mode), state))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("sessions completed: %d\n", data.CompletedSessions))
	if data.SessionsUntilLong > 0 {
		b.WriteString(fmt.Sprintf("long break in: %d session(s)\n", data.SessionsUntilLong))
	}
	b.WriteString("actions: [s]start [space]pause/resume [x]stop [n]skip")
	return strings.TrimSpace(b.String())
}

func RenderHistoryPanel(data HistoryPanelData) string {
	var b strings.Builder
	b.WriteString("history:\n")
	b.WriteString("actions: [j/k]scroll [r]reload\n")
	b.WriteString(data.TableView)
	if len(data.Rows) == 0 {
		b.WriteString("\n(no sessions recorded)")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
