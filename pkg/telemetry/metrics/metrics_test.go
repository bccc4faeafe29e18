package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"weftworks/weft/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
	}
}

func TestNewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.registry != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestNewCollector_NilRegistry(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	if collector.Registry() == nil {
		t.Error("Expected collector to create its own registry")
	}
}

func TestNewCollector_DefaultNamespace(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, prometheus.NewRegistry())
	if cfg.Namespace != "weft" {
		t.Errorf("Namespace = %q, want weft", cfg.Namespace)
	}
}

func TestCollector_RecordRun(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	tests := []struct {
		name     string
		status   string
		duration time.Duration
		includes int
	}{
		{
			name:     "success with includes",
			status:   "success",
			duration: 8 * time.Millisecond,
			includes: 3,
		},
		{
			name:     "failure without includes",
			status:   "failure",
			duration: 2 * time.Millisecond,
			includes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordRun(tt.status, tt.duration, tt.includes)

			count := testutil.ToFloat64(collector.pipelineMetrics.runsTotal.WithLabelValues(tt.status))
			if count < 1 {
				t.Errorf("Expected run counter >= 1, got %f", count)
			}
		})
	}

	includes := testutil.ToFloat64(collector.pipelineMetrics.includesTotal)
	if includes != 3 {
		t.Errorf("Expected includes total = 3, got %f", includes)
	}
}

func TestCollector_RecordStageFailure(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.RecordStageFailure("include-processing", "security-violation")
	collector.RecordStageFailure("include-processing", "security-violation")
	collector.RecordStageFailure("parsing", "syntax")

	count := testutil.ToFloat64(collector.pipelineMetrics.stageFailures.WithLabelValues("include-processing", "security-violation"))
	if count != 2 {
		t.Errorf("Expected stage failure count = 2, got %f", count)
	}
}

func TestCollector_ProviderMetrics(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	t.Run("record request", func(t *testing.T) {
		collector.RecordProviderRequest("anthropic", "claude-sonnet-4-5")
		count := testutil.ToFloat64(collector.providerMetrics.requests.WithLabelValues("anthropic", "claude-sonnet-4-5"))
		if count < 1 {
			t.Errorf("Expected request count >= 1, got %f", count)
		}
	})

	t.Run("record latency", func(t *testing.T) {
		collector.RecordProviderLatency("anthropic", "claude-sonnet-4-5", 950*time.Millisecond)
		// Just verify it doesn't panic
	})

	t.Run("record error", func(t *testing.T) {
		collector.RecordProviderError("anthropic", "rate_limit")
		count := testutil.ToFloat64(collector.providerMetrics.errors.WithLabelValues("anthropic", "rate_limit"))
		if count < 1 {
			t.Errorf("Expected error count >= 1, got %f", count)
		}
	})

	t.Run("record tokens", func(t *testing.T) {
		collector.RecordProviderTokens("anthropic", "claude-sonnet-4-5", 1000, 500)

		prompt := testutil.ToFloat64(collector.providerMetrics.tokens.WithLabelValues("anthropic", "claude-sonnet-4-5", "prompt"))
		if prompt < 1000 {
			t.Errorf("Expected prompt tokens >= 1000, got %f", prompt)
		}
		completion := testutil.ToFloat64(collector.providerMetrics.tokens.WithLabelValues("anthropic", "claude-sonnet-4-5", "completion"))
		if completion < 500 {
			t.Errorf("Expected completion tokens >= 500, got %f", completion)
		}
	})
}

func TestCollector_RecordEnvReload(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.RecordEnvReload("success", 12)
	count := testutil.ToFloat64(collector.workspaceMetrics.reloadsTotal.WithLabelValues("success"))
	if count != 1 {
		t.Errorf("Expected reload count = 1, got %f", count)
	}
	vars := testutil.ToFloat64(collector.workspaceMetrics.variables)
	if vars != 12 {
		t.Errorf("Expected variables gauge = 12, got %f", vars)
	}

	// A failed reload resets the environment, so the gauge drops to zero.
	collector.RecordEnvReload("failure", 0)
	vars = testutil.ToFloat64(collector.workspaceMetrics.variables)
	if vars != 0 {
		t.Errorf("Expected variables gauge = 0 after failure, got %f", vars)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	// These should not record anything
	collector.RecordRun("success", time.Millisecond, 1)
	collector.RecordStageFailure("parsing", "syntax")
	collector.RecordProviderRequest("anthropic", "claude-sonnet-4-5")
	collector.RecordEnvReload("success", 5)

	if collector.Enabled() {
		t.Error("Enabled() = true for a disabled collector")
	}
	count := testutil.ToFloat64(collector.pipelineMetrics.runsTotal.WithLabelValues("success"))
	if count != 0 {
		t.Errorf("Expected no runs recorded while disabled, got %f", count)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var collector *Collector

	// All recording methods must be no-ops on a nil collector.
	collector.RecordRun("success", time.Millisecond, 1)
	collector.RecordStageFailure("parsing", "syntax")
	collector.RecordProviderRequest("anthropic", "claude-sonnet-4-5")
	collector.RecordProviderLatency("anthropic", "claude-sonnet-4-5", time.Second)
	collector.RecordProviderError("anthropic", "timeout")
	collector.RecordProviderTokens("anthropic", "claude-sonnet-4-5", 10, 20)
	collector.RecordEnvReload("success", 3)

	if collector.Enabled() {
		t.Error("Enabled() = true for a nil collector")
	}
}

func TestCollector_CardinalityOverflow(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordProviderRequest("anthropic", "claude-sonnet-4-5")
	collector.RecordProviderRequest("anthropic", "some-novel-model")

	// The second model overflows the limiter and aggregates into "other".
	count := testutil.ToFloat64(collector.providerMetrics.requests.WithLabelValues("anthropic", "other"))
	if count != 1 {
		t.Errorf("Expected overflow request under \"other\", got %f", count)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	// First 3 should be allowed
	if !limiter.Allow("label1") {
		t.Error("Expected first label to be allowed")
	}
	if !limiter.Allow("label2") {
		t.Error("Expected second label to be allowed")
	}
	if !limiter.Allow("label3") {
		t.Error("Expected third label to be allowed")
	}

	// Fourth should be rejected
	if limiter.Allow("label4") {
		t.Error("Expected fourth label to be rejected")
	}

	// Existing labels should still be allowed
	if !limiter.Allow("label1") {
		t.Error("Expected existing label to be allowed")
	}

	// Check count
	if limiter.Count() != 3 {
		t.Errorf("Expected count=3, got %d", limiter.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	collector.RecordRun("success", 5*time.Millisecond, 2)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "test_playbook_runs_total") {
		t.Errorf("exposition missing run counter:\n%s", body)
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	done := make(chan bool)

	// Spawn multiple goroutines recording metrics
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				collector.RecordRun("success", time.Millisecond, 1)
				collector.RecordProviderRequest("anthropic", "claude-sonnet-4-5")
				collector.RecordEnvReload("success", 4)
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	// Verify we got all runs recorded
	count := testutil.ToFloat64(collector.pipelineMetrics.runsTotal.WithLabelValues("success"))
	if count != 1000 {
		t.Errorf("Expected 1000 runs, got %f", count)
	}
}
