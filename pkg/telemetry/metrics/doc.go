// Package metrics provides Prometheus metrics collection for Weft watch mode.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring playbook
// pipeline runs, provider calls, and the workspace variable environment. One
// Collector owns a private registry; the recording methods are the only write
// path, so components never touch Prometheus types directly.
//
// # Metrics Categories
//
//   - Pipeline Metrics: Run count, duration, stage failures, includes spliced
//   - Provider Metrics: Request count, latency, errors, and token usage
//   - Workspace Metrics: Variable reload outcomes and current variable count
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(cfg, nil)
//
//	// Record a pipeline run
//	collector.RecordRun("success", 12*time.Millisecond, 3)
//	collector.RecordStageFailure("include-processing", "security-violation")
//
//	// Record provider activity
//	collector.RecordProviderRequest("anthropic", "claude-sonnet-4-5")
//	collector.RecordProviderLatency("anthropic", "claude-sonnet-4-5", 900*time.Millisecond)
//
// A nil *Collector records nothing, so code paths that run without watch mode
// pass nil instead of branching on configuration.
//
// # Prometheus Endpoint
//
// Collector.Handler serves the registry in standard exposition format:
//
//	# HELP weft_playbook_runs_total Total number of playbook pipeline runs
//	# TYPE weft_playbook_runs_total counter
//	weft_playbook_runs_total{status="success"} 42
//
// # Cardinality Management
//
// Model names come from user configuration, so provider metrics run behind a
// cardinality limiter that aggregates overflow label sets into "other".
package metrics
