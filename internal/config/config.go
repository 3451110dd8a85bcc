// Package config loads the daygrid configuration from a YAML file in the
// user config directory and overlays DAYGRID_* environment variables on
// top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/daygrid/internal/model"
)

// FeedConfig describes one subscribed ICS calendar feed.
type FeedConfig struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Color string `yaml:"color"`
}

// TimerConfig mirrors model.TimerSettings in the config file.
type TimerConfig struct {
	FocusMinutes            int  `yaml:"focus_minutes"`
	ShortBreakMinutes       int  `yaml:"short_break_minutes"`
	LongBreakMinutes        int  `yaml:"long_break_minutes"`
	SessionsBeforeLongBreak int  `yaml:"sessions_before_long_break"`
	AutoStartBreak          bool `yaml:"auto_start_break"`
	AutoStartFocus          bool `yaml:"auto_start_focus"`
}

// Config is the top-level application configuration.
type Config struct {
	DBPath          string       `yaml:"db_path"`
	GuestMode       bool         `yaml:"guest_mode"`
	GridDays        int          `yaml:"grid_days"`
	SoundEnabled    bool         `yaml:"sound_enabled"`
	SchedulerBuffer int          `yaml:"scheduler_buffer"`
	FeedRefreshCron string       `yaml:"feed_refresh"`
	Timer           TimerConfig  `yaml:"timer"`
	Feeds           []FeedConfig `yaml:"feeds"`
}

type envOverrides struct {
	DBPath          string `env:"DAYGRID_DB_PATH"`
	GuestMode       string `env:"DAYGRID_GUEST_MODE"`
	GridDays        int    `env:"DAYGRID_GRID_DAYS"`
	SoundEnabled    string `env:"DAYGRID_SOUND"`
	SchedulerBuffer int    `env:"DAYGRID_SCHEDULER_BUFFER"`
	FocusMinutes    int    `env:"DAYGRID_FOCUS_MINUTES"`
	ShortBreak      int    `env:"DAYGRID_SHORT_BREAK_MINUTES"`
	LongBreak       int    `env:"DAYGRID_LONG_BREAK_MINUTES"`
	Sessions        int    `env:"DAYGRID_SESSIONS_BEFORE_LONG_BREAK"`
	AutoStartBreak  string `env:"DAYGRID_AUTO_START_BREAK"`
	AutoStartFocus  string `env:"DAYGRID_AUTO_START_FOCUS"`
}

func Default() Config {
	settings := model.DefaultTimerSettings()
	return Config{
		DBPath:          defaultDBPath(),
		GridDays:        3,
		SoundEnabled:    true,
		SchedulerBuffer: 64,
		FeedRefreshCron: "*/30 * * * *",
		Timer: TimerConfig{
			FocusMinutes:            settings.FocusMinutes,
			ShortBreakMinutes:       settings.ShortBreakMinutes,
			LongBreakMinutes:        settings.LongBreakMinutes,
			SessionsBeforeLongBreak: settings.SessionsBeforeLongBreak,
		},
		Feeds: []FeedConfig{},
	}
}

// Load reads the config file at path, creating it with defaults on first
// run, then overlays environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			return Config{}, err
		}
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	overrides := envOverrides{}
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("config: parse environment: %w", err)
	}

	if overrides.DBPath != "" {
		c.DBPath = overrides.DBPath
	}
	if v, ok := parseBool(overrides.GuestMode); ok {
		c.GuestMode = v
	}
	if overrides.GridDays > 0 {
		c.GridDays = overrides.GridDays
	}
	if v, ok := parseBool(overrides.SoundEnabled); ok {
		c.SoundEnabled = v
	}
	if overrides.SchedulerBuffer > 0 {
		c.SchedulerBuffer = overrides.SchedulerBuffer
	}
	if overrides.FocusMinutes > 0 {
		c.Timer.FocusMinutes = overrides.FocusMinutes
	}
	if overrides.ShortBreak > 0 {
		c.Timer.ShortBreakMinutes = overrides.ShortBreak
	}
	if overrides.LongBreak > 0 {
		c.Timer.LongBreakMinutes = overrides.LongBreak
	}
	if overrides.Sessions > 0 {
		c.Timer.SessionsBeforeLongBreak = overrides.Sessions
	}
	if v, ok := parseBool(overrides.AutoStartBreak); ok {
		c.Timer.AutoStartBreak = v
	}
	if v, ok := parseBool(overrides.AutoStartFocus); ok {
		c.Timer.AutoStartFocus = v
	}
	return nil
}

func (c *Config) normalize() {
	if c.DBPath == "" {
		c.DBPath = defaultDBPath()
	}
	if c.GridDays <= 0 {
		c.GridDays = 3
	}
	if c.GridDays > 7 {
		c.GridDays = 7
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = 64
	}
	if c.FeedRefreshCron == "" {
		c.FeedRefreshCron = "*/30 * * * *"
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
}

func (c Config) Validate() error {
	if err := c.TimerSettings().Validate(); err != nil {
		return err
	}
	for _, feed := range c.Feeds {
		if strings.TrimSpace(feed.URL) == "" {
			return fmt.Errorf("config: feed %q has no url", feed.Name)
		}
	}
	return nil
}

// TimerSettings converts the file shape to the engine's settings type.
func (c Config) TimerSettings() model.TimerSettings {
	return model.TimerSettings{
		FocusMinutes:            c.Timer.FocusMinutes,
		ShortBreakMinutes:       c.Timer.ShortBreakMinutes,
		LongBreakMinutes:        c.Timer.LongBreakMinutes,
		SessionsBeforeLongBreak: c.Timer.SessionsBeforeLongBreak,
		AutoStartBreak:          c.Timer.AutoStartBreak,
		AutoStartFocus:          c.Timer.AutoStartFocus,
	}
}

// DefaultPath is the config file location under the user config dir.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "daygrid", "config.yaml")
	}
	return filepath.Join(base, "daygrid", "config.yaml")
}

func defaultDBPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "daygrid", "daygrid.db")
	}
	return filepath.Join(base, "daygrid", "daygrid.db")
}

func parseBool(raw string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
