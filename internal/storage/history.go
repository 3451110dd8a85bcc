package storage

import (
	"context"

	"github.com/sandeepkv93/daygrid/internal/model"
)

// SessionRecorder persists completed focus sessions through a
// Repository.
type SessionRecorder struct {
	repo Repository
}

func NewSessionRecorder(repo Repository) SessionRecorder {
	return SessionRecorder{repo: repo}
}

func (r SessionRecorder) LogSession(s model.FocusSession) error {
	return r.repo.CreateSession(context.Background(), FocusSession{
		ID:              s.ID,
		TaskID:          s.TaskID,
		Mode:            string(s.Mode),
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		DurationSeconds: s.DurationSeconds,
		Completed:       s.Completed,
	})
}
