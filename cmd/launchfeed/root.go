package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchfeed/internal/config"
	"launchfeed/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "launchfeed",
	Short:         "Launch telemetry ingest and analytics pipeline",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// setup resolves configuration and builds the process logger. When the log
// file cannot be opened the run continues console-only rather than failing.
func setup() (config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, flush, err := logging.New(cfg.LogFile)
	if err != nil {
		logger = logging.Console()
		flush = func() { _ = logger.Sync() }
		logger.Warn("log file unavailable, console only", zap.Error(err))
	}
	return cfg, logger, flush, nil
}
