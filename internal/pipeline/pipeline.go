// Package pipeline wires the five ingest stages into one synchronous run:
// fetch, validate, upsert, aggregate rebuild, reports. Fetch and validation
// failures abort the run before any storage mutation; storage-stage failures
// are logged and surfaced without crashing the process, so a later run's
// rebuild catches up on anything this run left behind.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"launchfeed/internal/archive"
	"launchfeed/internal/launch"
	"launchfeed/internal/metrics"
	"launchfeed/internal/report"
	"launchfeed/internal/store"
)

// Stage names used in logs and metrics.
const (
	StageFetch     = "fetch"
	StageValidate  = "validate"
	StageUpsert    = "upsert"
	StageAggregate = "aggregate"
	StageReport    = "report"
	StageArchive   = "archive"
)

// DocumentSource yields the single document of a run.
type DocumentSource interface {
	Latest(ctx context.Context) (launch.Document, time.Time, error)
}

// Storage is the slice of the store the pipeline drives.
type Storage interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, rec launch.Record) (bool, error)
	RebuildAggregates(ctx context.Context) error
	report.Querier
}

// Pipeline executes one ingest-and-aggregate run.
type Pipeline struct {
	source  DocumentSource
	storage Storage
	blobs   archive.Store
	policy  launch.MeasurePolicy
	rng     *rand.Rand
	log     *zap.Logger
	rec     *metrics.Recorder
	out     io.Writer
}

// Option adjusts Pipeline construction.
type Option func(*Pipeline)

// WithArchive enables raw-document archival after first-time inserts.
func WithArchive(blobs archive.Store) Option {
	return func(p *Pipeline) { p.blobs = blobs }
}

// WithMeasurePolicy selects the ingest measure policy for the run.
func WithMeasurePolicy(policy launch.MeasurePolicy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// WithRand overrides the RNG used by the simulated measure policy (tests).
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) { p.rng = rng }
}

// WithLogger overrides the default nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithMetrics overrides the default recorder.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(p *Pipeline) { p.rec = rec }
}

// WithOutput redirects report tables and user-facing messages (tests).
func WithOutput(out io.Writer) Option {
	return func(p *Pipeline) { p.out = out }
}

// New constructs a Pipeline over a document source and a storage backend.
func New(source DocumentSource, storage Storage, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:  source,
		storage: storage,
		policy:  launch.PolicyDerived,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     zap.NewNop(),
		rec:     metrics.New(),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline once. The returned error is non-nil only for
// fetch and validation failures; storage-stage failures are logged and
// absorbed, matching the exit-code contract.
func (p *Pipeline) Run(ctx context.Context) error {
	doc, fetchedAt, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	if err := p.validate(doc); err != nil {
		return err
	}

	rec := launch.Record{
		ID:        doc.ID(),
		FetchedAt: fetchedAt,
		Raw:       doc,
	}
	rec.PayloadMassKg, rec.DelayMinutes = p.policy.Measures(doc, p.rng)

	created, upsertErr := p.upsert(ctx, rec)
	if upsertErr == nil && created {
		p.archiveRaw(ctx, rec)
	}

	p.aggregate(ctx)
	p.reports(ctx)

	p.log.Info("run finished",
		zap.String("id", rec.ID),
		zap.Bool("inserted", upsertErr == nil && created))
	return nil
}

func (p *Pipeline) fetch(ctx context.Context) (launch.Document, time.Time, error) {
	start := time.Now()
	doc, fetchedAt, err := p.source.Latest(ctx)
	if err != nil {
		p.rec.Observe(StageFetch, "error", time.Since(start))
		p.log.Error("fetch failed", zap.Error(err))
		fmt.Fprintf(p.out, "launch data fetch failed: %v\n", err)
		return nil, time.Time{}, fmt.Errorf("fetch stage: %w", err)
	}
	p.rec.Observe(StageFetch, "ok", time.Since(start))
	p.log.Info("fetched latest launch", zap.String("id", doc.ID()))
	return doc, fetchedAt, nil
}

func (p *Pipeline) validate(doc launch.Document) error {
	start := time.Now()
	if err := launch.Validate(doc); err != nil {
		p.rec.Observe(StageValidate, "error", time.Since(start))
		p.log.Error("validation failed", zap.Error(err))
		fmt.Fprintf(p.out, "launch data invalid: %v\n", err)
		return fmt.Errorf("validate stage: %w", err)
	}
	p.rec.Observe(StageValidate, "ok", time.Since(start))
	p.log.Info("validated launch document", zap.String("id", doc.ID()))
	return nil
}

func (p *Pipeline) upsert(ctx context.Context, rec launch.Record) (bool, error) {
	start := time.Now()
	if err := p.storage.EnsureSchema(ctx); err != nil {
		p.rec.Observe(StageUpsert, "error", time.Since(start))
		p.log.Error("schema creation failed", zap.Error(err))
		return false, err
	}
	created, err := p.storage.Upsert(ctx, rec)
	if err != nil {
		p.rec.Observe(StageUpsert, "error", time.Since(start))
		p.log.Error("upsert failed", zap.String("id", rec.ID), zap.Error(err))
		return false, err
	}
	p.rec.Observe(StageUpsert, "ok", time.Since(start))
	if created {
		p.log.Info("launch inserted", zap.String("id", rec.ID))
	} else {
		p.log.Info("launch already exists, no insertion needed", zap.String("id", rec.ID))
	}
	return created, nil
}

func (p *Pipeline) archiveRaw(ctx context.Context, rec launch.Record) {
	if p.blobs == nil {
		return
	}
	start := time.Now()
	data, err := json.Marshal(rec.Raw)
	if err != nil {
		p.rec.Observe(StageArchive, "error", time.Since(start))
		p.log.Warn("archive encode failed", zap.String("id", rec.ID), zap.Error(err))
		return
	}
	err = p.blobs.Put(ctx, archive.Key(rec.ID), data, "application/json")
	switch {
	case errors.Is(err, archive.ErrExists):
		p.rec.Observe(StageArchive, "skipped", time.Since(start))
		p.log.Info("raw document already archived", zap.String("id", rec.ID))
	case err != nil:
		p.rec.Observe(StageArchive, "error", time.Since(start))
		p.log.Warn("archive failed", zap.String("id", rec.ID), zap.Error(err))
	default:
		p.rec.Observe(StageArchive, "ok", time.Since(start))
		p.log.Info("raw document archived", zap.String("key", archive.Key(rec.ID)))
	}
}

func (p *Pipeline) aggregate(ctx context.Context) {
	start := time.Now()
	if err := p.storage.RebuildAggregates(ctx); err != nil {
		p.rec.Observe(StageAggregate, "error", time.Since(start))
		p.log.Error("aggregate rebuild failed", zap.Error(err))
		return
	}
	p.rec.Observe(StageAggregate, "ok", time.Since(start))
	p.log.Info("aggregate view rebuilt")
}

func (p *Pipeline) reports(ctx context.Context) {
	start := time.Now()
	runner := report.NewRunner(p.storage, p.log, p.out)
	if failed := runner.RunAll(ctx); failed > 0 {
		p.rec.Observe(StageReport, "error", time.Since(start))
		return
	}
	p.rec.Observe(StageReport, "ok", time.Since(start))
}

// Store exposes the storage backend, for commands that run a subset of the
// pipeline.
func (p *Pipeline) Store() Storage { return p.storage }

var _ Storage = (*store.SQLStore)(nil)
