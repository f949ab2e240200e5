// Package metrics records per-stage pipeline outcomes and durations in
// Prometheus collectors. The job is single-run, so the optional /metrics
// listener exists mainly for daemonized schedulers that scrape between
// invocations.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder aggregates stage timing and result counters.
type Recorder struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	stageResults  *prometheus.CounterVec
}

// New constructs a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "launchfeed",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchfeed",
			Name:      "stage_results_total",
			Help:      "Pipeline stage outcomes.",
		}, []string{"stage", "outcome"}),
	}
	reg.MustRegister(r.stageDuration, r.stageResults)
	return r
}

// Observe records one stage execution.
func (r *Recorder) Observe(stage, outcome string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	r.stageResults.WithLabelValues(stage, outcome).Inc()
}

// Registry exposes the underlying registry for scrape handlers and tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Serve exposes /metrics on addr until the returned shutdown func runs.
// A listen failure is reported through errFn rather than crashing the run.
func (r *Recorder) Serve(addr string, errFn func(error)) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errFn(err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
