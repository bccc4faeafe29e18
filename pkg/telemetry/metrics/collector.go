package metrics

import (
	"fmt"
	"sync"
	"time"

	"weftworks/weft/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric Weft exposes and provides a unified
// recording interface for the commands that drive playbooks.
//
// A nil *Collector is valid and records nothing, so callers wire metrics
// unconditionally and only the watch command ever constructs one. All
// recording methods are safe for concurrent use.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Pipeline metrics
	pipelineMetrics *PipelineMetrics

	// Provider metrics
	providerMetrics *ProviderMetrics

	// Workspace metrics
	workspaceMetrics *WorkspaceMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "weft",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = "weft"
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000), // Max 1K unique label sets
	}

	// Initialize metric subsystems
	c.pipelineMetrics = NewPipelineMetrics(cfg, registry)
	c.providerMetrics = NewProviderMetrics(cfg, registry)
	c.workspaceMetrics = NewWorkspaceMetrics(cfg, registry)

	return c
}

// Enabled reports whether this collector actually records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordRun records metrics for a completed pipeline run.
//
// Parameters:
//   - status: Run outcome ("success" or "failure")
//   - duration: Total pipeline duration across all stages
//   - includes: Number of include directives spliced during the run
func (c *Collector) RecordRun(status string, duration time.Duration, includes int) {
	if !c.Enabled() {
		return
	}

	c.pipelineMetrics.RecordRun(status, duration, includes)
}

// RecordStageFailure records which pipeline stage rejected a document and why.
//
// Parameters:
//   - stage: Pipeline stage name ("parsing", "variable-resolution",
//     "include-processing", "structural-validation")
//   - kind: Error kind reported by the stage (e.g., "syntax",
//     "unresolved-variable", "security-violation")
func (c *Collector) RecordStageFailure(stage, kind string) {
	if !c.Enabled() {
		return
	}

	c.pipelineMetrics.RecordStageFailure(stage, kind)
}

// RecordProviderRequest records a request to a provider.
//
// Model names come from user configuration, so the cardinality limiter
// aggregates overflow into "other" rather than letting the label set grow
// without bound.
func (c *Collector) RecordProviderRequest(provider, model string) {
	if !c.Enabled() {
		return
	}

	labelSet := fmt.Sprintf("provider:%s:%s", provider, model)
	if !c.cardinalityLimiter.Allow(labelSet) {
		model = "other"
	}

	c.providerMetrics.RecordRequest(provider, model)
}

// RecordProviderLatency records the latency of a provider API call.
func (c *Collector) RecordProviderLatency(provider, model string, latency time.Duration) {
	if !c.Enabled() {
		return
	}

	c.providerMetrics.RecordLatency(provider, model, latency.Seconds())
}

// RecordProviderError records an error from a provider.
//
// Parameters:
//   - provider: Provider name
//   - errorType: Type of error (e.g., "rate_limit", "timeout", "auth",
//     "server_error", "network")
func (c *Collector) RecordProviderError(provider, errorType string) {
	if !c.Enabled() {
		return
	}

	c.providerMetrics.RecordError(provider, errorType)
}

// RecordProviderTokens records token usage reported by a provider response.
func (c *Collector) RecordProviderTokens(provider, model string, promptTokens, completionTokens int) {
	if !c.Enabled() {
		return
	}

	c.providerMetrics.RecordTokens(provider, model, promptTokens, completionTokens)
}

// RecordEnvReload records the outcome of a workspace variable reload and the
// variable count it left behind. A failed reload resets the environment, so
// callers report zero variables for it.
//
// Parameters:
//   - outcome: "success" or "failure"
//   - variables: Number of variables in the environment after the reload
func (c *Collector) RecordEnvReload(outcome string, variables int) {
	if !c.Enabled() {
		return
	}

	c.workspaceMetrics.RecordReload(outcome, variables)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
