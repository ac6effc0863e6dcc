// Package metrics exposes import counters in Prometheus format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Record outcomes used as the "outcome" label.
const (
	OutcomeSaved           = "saved"
	OutcomeInvalid         = "invalid"
	OutcomeDuplicateLocal  = "duplicate_local"
	OutcomeDuplicateServer = "duplicate_server"
	OutcomeFailed          = "failed"
)

// Run is what one import run contributes to the counters.
type Run struct {
	Saved           int
	Invalid         int
	DuplicateLocal  int
	DuplicateServer int
	Failed          int
	FailedGroups    int
	DegradedGroups  int
	Duration        time.Duration
}

// Registry holds the import metrics. A nil *Registry ignores observations.
type Registry struct {
	reg           *prometheus.Registry
	Runs          prometheus.Counter
	Records       *prometheus.CounterVec
	GroupFailures prometheus.Counter
	Degraded      prometheus.Counter
	RunDuration   prometheus.Histogram
}

// NewRegistry creates the import collectors on a private registry.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "autoshop_import_runs_total",
		Help: "Import runs that got past parsing.",
	})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autoshop_import_records_total",
		Help: "Imported rows by outcome.",
	}, []string{"outcome"})
	groupFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "autoshop_import_group_failures_total",
		Help: "Customer groups that could not be resolved or submitted.",
	})
	degraded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "autoshop_reconcile_degraded_total",
		Help: "Server duplicate checks that failed and were treated as empty.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "autoshop_import_run_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(runs, records, groupFailures, degraded, duration)
	return &Registry{
		reg:           r,
		Runs:          runs,
		Records:       records,
		GroupFailures: groupFailures,
		Degraded:      degraded,
		RunDuration:   duration,
	}
}

// ObserveRun adds one run's counts.
func (r *Registry) ObserveRun(run Run) {
	if r == nil {
		return
	}
	r.Runs.Inc()
	r.Records.WithLabelValues(OutcomeSaved).Add(float64(run.Saved))
	r.Records.WithLabelValues(OutcomeInvalid).Add(float64(run.Invalid))
	r.Records.WithLabelValues(OutcomeDuplicateLocal).Add(float64(run.DuplicateLocal))
	r.Records.WithLabelValues(OutcomeDuplicateServer).Add(float64(run.DuplicateServer))
	r.Records.WithLabelValues(OutcomeFailed).Add(float64(run.Failed))
	r.GroupFailures.Add(float64(run.FailedGroups))
	r.Degraded.Add(float64(run.DegradedGroups))
	r.RunDuration.Observe(run.Duration.Seconds())
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes the metrics in text exposition format for the node
// exporter's textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
