package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sonobird/sonobird/cmd"
	"github.com/sonobird/sonobird/internal/conf"
	"github.com/sonobird/sonobird/internal/logging"
)

func main() {
	os.Exit(run())
}

// run is separated from main so deferred cleanup happens before the exit code
// is returned.
func run() int {
	settings, err := conf.Load()
	if err != nil {
		logging.Init(slog.LevelInfo)
		logging.Error("error loading configuration", "error", err)
		return 1
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(level)

	if settings.Log.Enabled {
		closeLog, err := logging.EnableFileLog(settings.Log.Path, level)
		if err != nil {
			logging.Error("error enabling file log", "error", err)
			return 1
		}
		defer func() { _ = closeLog() }()
	}

	// Ctrl-C cancels an in-flight download or analysis.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error("command failed", "error", err)
		return 1
	}
	return 0
}
