package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if cfg.Timer.FocusMinutes != 25 {
		t.Errorf("default focus minutes = %d, want 25", cfg.Timer.FocusMinutes)
	}
	if cfg.GridDays != 3 {
		t.Errorf("default grid days = %d, want 3", cfg.GridDays)
	}
	if !cfg.SoundEnabled {
		t.Error("sound should be enabled by default")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.GuestMode = true
	cfg.GridDays = 5
	cfg.Timer.FocusMinutes = 50
	cfg.Feeds = []FeedConfig{{Name: "work", URL: "https://calendar.example/work.ics", Color: "4"}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.GuestMode {
		t.Error("guest mode not persisted")
	}
	if loaded.GridDays != 5 {
		t.Errorf("grid days = %d, want 5", loaded.GridDays)
	}
	if loaded.Timer.FocusMinutes != 50 {
		t.Errorf("focus minutes = %d, want 50", loaded.Timer.FocusMinutes)
	}
	if len(loaded.Feeds) != 1 || loaded.Feeds[0].Name != "work" {
		t.Errorf("feeds = %+v, want the work feed", loaded.Feeds)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("DAYGRID_FOCUS_MINUTES", "45")
	t.Setenv("DAYGRID_GUEST_MODE", "yes")
	t.Setenv("DAYGRID_SOUND", "off")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timer.FocusMinutes != 45 {
		t.Errorf("focus minutes = %d, want 45 from env", cfg.Timer.FocusMinutes)
	}
	if !cfg.GuestMode {
		t.Error("guest mode not applied from env")
	}
	if cfg.SoundEnabled {
		t.Error("sound should be disabled via env")
	}
}

func TestLoadRejectsInvalidTimerSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Timer.FocusMinutes = 999
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want validation error for focus minutes")
	}
}

func TestLoadRejectsFeedWithoutURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Feeds = []FeedConfig{{Name: "broken"}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want error for feed without url")
	}
}

func TestNormalizeClampsGridDays(t *testing.T) {
	cfg := Default()
	cfg.GridDays = 30
	cfg.normalize()
	if cfg.GridDays != 7 {
		t.Errorf("grid days = %d, want clamp to 7", cfg.GridDays)
	}
}
