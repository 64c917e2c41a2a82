package notifier

import (
	"log/slog"
	"os"
	"sync"
)

// Package-level logger instance for the transient notification queue.
var (
	notifierLogger     *slog.Logger
	notifierLevelVar   = new(slog.LevelVar)
	notifierLoggerOnce sync.Once
)

// getLogger returns the notifier logger instance. The debug parameter
// controls the log level (debug vs info). Returns a singleton.
func getLogger(debug bool) *slog.Logger {
	notifierLoggerOnce.Do(func() {
		if debug {
			notifierLevelVar.Set(slog.LevelDebug)
		} else {
			notifierLevelVar.Set(slog.LevelInfo)
		}

		handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: notifierLevelVar,
		})

		notifierLogger = slog.New(handler).With("module", "notifier")
	})

	return notifierLogger
}

// SetLogLevel dynamically changes the logging level for the notifier logger.
func SetLogLevel(level slog.Level) {
	notifierLevelVar.Set(level)
}
