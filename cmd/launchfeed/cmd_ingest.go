package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"launchfeed/internal/archive"
	"launchfeed/internal/fetch"
	"launchfeed/internal/launch"
	"launchfeed/internal/metrics"
	"launchfeed/internal/pipeline"
	"launchfeed/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch, validate, store, aggregate, and report on the latest launch",
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, logger, flush, err := setup()
	if err != nil {
		return err
	}
	defer flush()
	ctx := cmd.Context()

	policy, ok := launch.ParseMeasurePolicy(cfg.Measures)
	if !ok {
		return fmt.Errorf("unknown measure policy %q", cfg.Measures)
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("storage unavailable", zap.Error(err))
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = st.Close() }()

	blobs, err := archive.Open(ctx, cfg)
	if err != nil {
		// Archival is a supplement; a misconfigured archive must not block
		// ingestion.
		logger.Warn("archive unavailable", zap.Error(err))
	}

	rec := metrics.New()
	if cfg.MetricsAddr != "" {
		stop := rec.Serve(cfg.MetricsAddr, func(err error) {
			logger.Warn("metrics listener failed", zap.Error(err))
		})
		defer stop()
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(rec),
		pipeline.WithMeasurePolicy(policy),
		pipeline.WithOutput(cmd.OutOrStdout()),
	}
	if blobs != nil {
		opts = append(opts, pipeline.WithArchive(blobs))
	}

	fetcher := fetch.New(cfg.APIURL, cfg.HTTPTimeout)
	p := pipeline.New(fetcher, st, opts...)
	if err := p.Run(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
		return err
	}
	return nil
}
