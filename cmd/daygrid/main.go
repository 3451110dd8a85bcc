package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/daygrid/internal/applog"
	"github.com/sandeepkv93/daygrid/internal/config"
	"github.com/sandeepkv93/daygrid/internal/guest"
	"github.com/sandeepkv93/daygrid/internal/scheduler"
	"github.com/sandeepkv93/daygrid/internal/sound"
	"github.com/sandeepkv93/daygrid/internal/storage"
	"github.com/sandeepkv93/daygrid/internal/timer"
	"github.com/sandeepkv93/daygrid/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "daygrid failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}

	dataDir := filepath.Dir(cfg.DBPath)
	logger := applog.New(filepath.Join(dataDir, "daygrid.log"), os.Getenv("DAYGRID_DEBUG") != "")
	log := applog.Component(logger, "main")

	var repo storage.Repository
	if cfg.GuestMode {
		store := guest.NewStore()
		store.Seed(time.Now())
		repo = store
		log.Info("running in guest mode, nothing will be persisted")
	} else {
		sqlRepo, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer sqlRepo.Close()
		if err := storage.MigrateUp(sqlRepo.DB()); err != nil {
			return err
		}
		repo = sqlRepo
	}

	sched := scheduler.NewEngine(cfg.SchedulerBuffer)
	sched.Start()
	defer sched.Stop()

	var cues timer.CuePlayer = timer.NoopCuePlayer{}
	if cfg.SoundEnabled {
		cues = sound.NewPlayer(applog.Component(logger, "sound"))
	}

	eng := timer.NewEngine(cfg.TimerSettings(),
		timer.WithNotifier(scheduler.NewTimerNotifier(sched, timer.SystemClock())),
		timer.WithHistory(storage.NewSessionRecorder(repo)),
		timer.WithCuePlayer(cues),
		timer.WithStateStore(timer.FileStateStore{Path: filepath.Join(dataDir, "timer.json")}),
		timer.WithLogger(applog.Component(logger, "timer")),
	)

	m := update.NewModelWithRuntime(repo, eng, sched, cfg, update.ExecDesktopNotifier{}, applog.Component(logger, "ui"))
	program := tea.NewProgram(m)

	jobs := cron.New()
	if len(cfg.Feeds) > 0 {
		if _, err := jobs.AddFunc(cfg.FeedRefreshCron, func() {
			program.Send(update.RefreshFeedsMsg{})
		}); err != nil {
			log.WithError(err).Warn("invalid feed refresh schedule")
		}
	}
	// Midnight reload keeps the grid window anchored on the current day.
	if _, err := jobs.AddFunc("0 0 * * *", func() {
		program.Send(update.RefreshFeedsMsg{})
	}); err != nil {
		log.WithError(err).Warn("invalid midnight refresh schedule")
	}
	jobs.Start()
	defer jobs.Stop()

	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
