package metrics

import (
	"time"

	"weftworks/weft/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline runs are local file processing, so the duration buckets sit well
// below the ones used for provider calls.
var runDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}

// PipelineMetrics tracks metrics for playbook pipeline runs.
//
// Metrics:
//   - weft_playbook_runs_total: Total run count by status
//   - weft_playbook_run_duration_seconds: Run duration histogram
//   - weft_playbook_stage_failures_total: Failures by stage and error kind
//   - weft_playbook_includes_total: Total include directives spliced
type PipelineMetrics struct {
	// Total run count
	runsTotal *prometheus.CounterVec

	// Run duration histogram
	runDuration *prometheus.HistogramVec

	// Failures attributed to a pipeline stage
	stageFailures *prometheus.CounterVec

	// Include directives spliced
	includesTotal prometheus.Counter
}

// NewPipelineMetrics creates and registers pipeline metrics with the provided registry.
func NewPipelineMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PipelineMetrics {
	pm := &PipelineMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "playbook_runs_total",
				Help:      "Total number of playbook pipeline runs",
			},
			[]string{"status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "playbook_run_duration_seconds",
				Help:      "Duration of playbook pipeline runs in seconds",
				Buckets:   runDurationBuckets,
			},
			[]string{"status"},
		),

		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "playbook_stage_failures_total",
				Help:      "Total number of pipeline failures by stage and error kind",
			},
			[]string{"stage", "kind"},
		),

		includesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "playbook_includes_total",
				Help:      "Total number of include directives spliced into playbooks",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		pm.runsTotal,
		pm.runDuration,
		pm.stageFailures,
		pm.includesTotal,
	)

	return pm
}

// RecordRun records metrics for a completed pipeline run.
//
// Parameters:
//   - status: Run outcome ("success" or "failure")
//   - duration: Total pipeline duration
//   - includes: Number of include directives spliced
func (pm *PipelineMetrics) RecordRun(status string, duration time.Duration, includes int) {
	pm.runsTotal.WithLabelValues(status).Inc()
	pm.runDuration.WithLabelValues(status).Observe(duration.Seconds())
	if includes > 0 {
		pm.includesTotal.Add(float64(includes))
	}
}

// RecordStageFailure records a pipeline failure by stage and error kind.
//
// Both labels are bounded: stages come from the fixed pipeline order and
// kinds from the closed error-kind set.
func (pm *PipelineMetrics) RecordStageFailure(stage, kind string) {
	pm.stageFailures.WithLabelValues(stage, kind).Inc()
}
