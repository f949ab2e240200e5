package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchfeed/internal/format"
	"launchfeed/internal/store"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Rebuild the aggregate view and print the summary row",
	RunE:  runAggregate,
}

func runAggregate(cmd *cobra.Command, _ []string) error {
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

	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error("schema creation failed", zap.Error(err))
		return err
	}
	if err := st.RebuildAggregates(ctx); err != nil {
		logger.Error("aggregate rebuild failed", zap.Error(err))
		return err
	}
	agg, err := st.Aggregates(ctx)
	if err != nil {
		logger.Error("aggregate read failed", zap.Error(err))
		return err
	}
	logger.Info("aggregate view rebuilt",
		zap.Int64("total_launches", agg.TotalLaunches),
		zap.Int64("successful_launches", agg.SuccessfulLaunches))

	tbl := format.NewTable()
	tbl.Header("total_launches", "successful_launches", "avg_payload_mass_kg", "avg_delay_minutes")
	tbl.Row(
		strconv.FormatInt(agg.TotalLaunches, 10),
		strconv.FormatInt(agg.SuccessfulLaunches, 10),
		formatMeasure(agg.AvgPayloadMassKg),
		formatMeasure(agg.AvgDelayMinutes),
	)
	fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return nil
}

func formatMeasure(v *float64) string {
	if v == nil {
		return "NULL"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
