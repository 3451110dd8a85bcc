// Package applog builds the shared logrus logger. The TUI owns the
// terminal, so log output goes to a file next to the database rather
// than stderr.
package applog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing JSON lines to logPath. If the file cannot
// be opened the logger is silenced instead of failing startup.
func New(logPath string, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return logger
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return logger
	}
	logger.SetOutput(f)
	return logger
}

// Component returns the entry used by one subsystem.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("component", name)
}
