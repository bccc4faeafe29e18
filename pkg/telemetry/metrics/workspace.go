package metrics

import (
	"weftworks/weft/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkspaceMetrics tracks the variable environment that watch mode keeps
// loaded from the workspace vars files.
//
// Metrics:
//   - weft_workspace_env_reloads_total: Reload count by outcome
//   - weft_workspace_variables: Variables currently in the environment
type WorkspaceMetrics struct {
	// Reload counter by outcome
	reloadsTotal *prometheus.CounterVec

	// Current variable count. Drops to zero after a failed reload because
	// the environment resets rather than serving stale values.
	variables prometheus.Gauge
}

// NewWorkspaceMetrics creates and registers workspace metrics with the provided registry.
func NewWorkspaceMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WorkspaceMetrics {
	wm := &WorkspaceMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "workspace_env_reloads_total",
				Help:      "Total number of variable environment reloads by outcome",
			},
			[]string{"outcome"},
		),

		variables: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "workspace_variables",
				Help:      "Number of variables currently loaded from the workspace vars files",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		wm.reloadsTotal,
		wm.variables,
	)

	return wm
}

// RecordReload records a variable environment reload and the variable count
// it produced.
//
// Parameters:
//   - outcome: "success" or "failure"
//   - variables: Number of variables after the reload
func (wm *WorkspaceMetrics) RecordReload(outcome string, variables int) {
	wm.reloadsTotal.WithLabelValues(outcome).Inc()
	wm.variables.Set(float64(variables))
}
