package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/daygrid/internal/storage"
	"github.com/sandeepkv93/daygrid/internal/views"
)

func (m Model) handleHistoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, m.loadHistoryCmd()
	case "j", "k", "up", "down":
		var cmd tea.Cmd
		m.historyTable, cmd = m.historyTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) loadHistoryCmd() tea.Cmd {
	repo := m.Repo
	return func() tea.Msg {
		if repo == nil {
			return HistoryLoadedMsg{}
		}
		sessions, err := repo.ListSessions(context.Background(), storage.SessionListFilter{Limit: 50})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return HistoryLoadedMsg{Sessions: sessions}
	}
}

func (m Model) renderHistoryView() string {
	rows := make([]views.SessionRowData, 0, len(m.History.Sessions))
	for _, s := range m.History.Sessions {
		rows = append(rows, views.SessionRowData{
			StartedAt: s.StartedAt.Format("2006-01-02 15:04"),
			Mode:      s.Mode,
			Duration:  formatDuration(s.DurationSeconds),
			TaskID:    s.TaskID,
			Completed: s.Completed,
		})
	}
	return views.RenderHistoryPanel(views.HistoryPanelData{
		TableView: m.historyTable.View(),
		Rows:      rows,
	})
}
