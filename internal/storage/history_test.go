package storage

import (
	"context"
	"testing"
	"time"

	"github.com/sandeepkv93/daygrid/internal/model"
)

func TestSessionRecorderPersistsSession(t *testing.T) {
	repo := setupRepo(t)
	recorder := NewSessionRecorder(repo)

	started := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	err := recorder.LogSession(model.FocusSession{
		ID:              "session-1",
		TaskID:          "task-1",
		Mode:            model.TimerModeFocus,
		StartedAt:       started,
		EndedAt:         started.Add(25 * time.Minute),
		DurationSeconds: 1500,
		Completed:       true,
	})
	if err != nil {
		t.Fatalf("LogSession() error = %v", err)
	}

	got, err := repo.GetSession(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Mode != string(model.TimerModeFocus) {
		t.Errorf("mode = %q, want %q", got.Mode, model.TimerModeFocus)
	}
	if got.DurationSeconds != 1500 {
		t.Errorf("duration = %d, want 1500", got.DurationSeconds)
	}
	if !got.Completed {
		t.Error("session should be marked completed")
	}
}
