package metrics

import (
	"weftworks/weft/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Completion calls ride on remote LLM APIs; latencies run from a few hundred
// milliseconds to a minute for long generations.
var providerLatencyBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0}

// ProviderMetrics tracks metrics for LLM provider calls made by playbook runs.
//
// Metrics:
//   - weft_provider_requests_total: Total requests by provider and model
//   - weft_provider_latency_seconds: Provider API latency
//   - weft_provider_errors_total: Provider error count by type
//   - weft_provider_tokens_total: Token usage by provider, model, and type
type ProviderMetrics struct {
	// Total requests to provider
	requests *prometheus.CounterVec

	// Provider API latency histogram
	latency *prometheus.HistogramVec

	// Provider error counter
	errors *prometheus.CounterVec

	// Token usage reported by provider responses
	tokens *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of requests to each provider",
			},
			[]string{"provider", "model"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_latency_seconds",
				Help:      "Provider API call latency in seconds",
				Buckets:   providerLatencyBuckets,
			},
			[]string{"provider", "model"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by type",
			},
			[]string{"provider", "error_type"},
		),

		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_tokens_total",
				Help:      "Total number of tokens reported by provider responses",
			},
			[]string{"provider", "model", "type"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		pm.requests,
		pm.latency,
		pm.errors,
		pm.tokens,
	)

	return pm
}

// RecordRequest records a request to a provider.
func (pm *ProviderMetrics) RecordRequest(provider, model string) {
	pm.requests.WithLabelValues(provider, model).Inc()
}

// RecordLatency records the latency of a provider API call in seconds.
func (pm *ProviderMetrics) RecordLatency(provider, model string, latencySeconds float64) {
	pm.latency.WithLabelValues(provider, model).Observe(latencySeconds)
}

// RecordError records an error from a provider.
//
// Common error types:
//   - "rate_limit": Provider rate limit exceeded
//   - "timeout": Request timeout
//   - "auth": Authentication/authorization error
//   - "server_error": Provider server error (5xx)
//   - "client_error": Client error (4xx)
//   - "network": Network connectivity error
//   - "parse": Response parsing error
func (pm *ProviderMetrics) RecordError(provider, errorType string) {
	pm.errors.WithLabelValues(provider, errorType).Inc()
}

// RecordTokens records token counts separately for prompt and completion.
func (pm *ProviderMetrics) RecordTokens(provider, model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		pm.tokens.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		pm.tokens.WithLabelValues(provider, model, "completion").Add(float64(completionTokens))
	}
}
