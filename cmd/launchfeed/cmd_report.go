package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchfeed/internal/report"
	"launchfeed/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the fixed analytical reports against stored launches",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, logger, flush, err := setup()
	if err != nil {
		return err
	}
	defer flush()
	ctx := cmd.Context()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("storage unavailable", zap.Error(err))
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = st.Close() }()

	runner := report.NewRunner(st, logger, cmd.OutOrStdout())
	if failed := runner.RunAll(ctx); failed > 0 {
		return fmt.Errorf("%d report(s) failed", failed)
	}
	return nil
}
