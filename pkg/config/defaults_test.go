package config

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Workspace.Root != DefaultWorkspaceRoot {
		t.Errorf("expected root %q, got %q", DefaultWorkspaceRoot, cfg.Workspace.Root)
	}
	if cfg.Workspace.DebounceInterval != DefaultDebounceInterval {
		t.Errorf("expected debounce %v, got %v", DefaultDebounceInterval, cfg.Workspace.DebounceInterval)
	}
	if cfg.Workspace.MaxIncludeSize != DefaultMaxIncludeSize {
		t.Errorf("expected max include size %d, got %d", DefaultMaxIncludeSize, cfg.Workspace.MaxIncludeSize)
	}
	if cfg.Run.MaxTokens != DefaultRunMaxTokens {
		t.Errorf("expected max tokens %d, got %d", DefaultRunMaxTokens, cfg.Run.MaxTokens)
	}
	if cfg.Runlog.Enabled {
		t.Error("runlog should default to disabled")
	}
	if cfg.Runlog.SQLite.Path != DefaultRunlogSQLitePath {
		t.Errorf("expected sqlite path %q, got %q", DefaultRunlogSQLitePath, cfg.Runlog.SQLite.Path)
	}
	if !cfg.Runlog.SQLite.WALMode {
		t.Error("expected WAL mode default true")
	}
	if cfg.Runlog.Retention.Days != DefaultRunlogRetentionDays {
		t.Errorf("expected retention days %d, got %d", DefaultRunlogRetentionDays, cfg.Runlog.Retention.Days)
	}
	if cfg.Library.Enabled {
		t.Error("library should default to disabled")
	}
	if cfg.Library.Branch != DefaultLibraryBranch {
		t.Errorf("expected branch %q, got %q", DefaultLibraryBranch, cfg.Library.Branch)
	}
	if cfg.Library.Poll.Enabled {
		t.Error("library polling should default to disabled")
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("expected level %q, got %q", DefaultLoggingLevel, cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Logging.Format != DefaultLoggingFormat {
		t.Errorf("expected format %q, got %q", DefaultLoggingFormat, cfg.Telemetry.Logging.Format)
	}
	if !cfg.Telemetry.Logging.RedactSecrets {
		t.Error("expected secret redaction default true")
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should default to disabled")
	}
}

func TestApplyDefaults_ProviderDefaults(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"anthropic": {APIKey: "key"},
			"openai":    {APIKey: "key"},
			"internal": {
				Type:    "openai",
				BaseURL: "https://llm.internal.example.com/v1",
			},
		},
	}
	ApplyDefaults(cfg)

	anthropic := cfg.Providers["anthropic"]
	if anthropic.Type != "anthropic" {
		t.Errorf("expected type from map key, got %q", anthropic.Type)
	}
	if anthropic.BaseURL != DefaultAnthropicBaseURL {
		t.Errorf("expected well-known base URL, got %q", anthropic.BaseURL)
	}
	if anthropic.Timeout != DefaultProviderTimeout {
		t.Errorf("expected default timeout, got %v", anthropic.Timeout)
	}
	if anthropic.MaxRetries != DefaultProviderMaxRetries {
		t.Errorf("expected default retries, got %d", anthropic.MaxRetries)
	}

	openai := cfg.Providers["openai"]
	if openai.BaseURL != DefaultOpenAIBaseURL {
		t.Errorf("expected well-known base URL, got %q", openai.BaseURL)
	}

	internal := cfg.Providers["internal"]
	if internal.Type != "openai" {
		t.Errorf("explicit type should survive, got %q", internal.Type)
	}
	if internal.BaseURL != "https://llm.internal.example.com/v1" {
		t.Errorf("explicit base URL should survive, got %q", internal.BaseURL)
	}
}

func TestApplyDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{
		Workspace: WorkspaceConfig{
			Root:             "/srv/playbooks",
			DebounceInterval: time.Second,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Level: "error", Format: "json"},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Workspace.Root != "/srv/playbooks" {
		t.Errorf("explicit root overridden: %q", cfg.Workspace.Root)
	}
	if cfg.Workspace.DebounceInterval != time.Second {
		t.Errorf("explicit debounce overridden: %v", cfg.Workspace.DebounceInterval)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("explicit level overridden: %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("explicit format overridden: %q", cfg.Telemetry.Logging.Format)
	}
}

func TestApplyDefaults_SingleProviderBecomesRunDefault(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"anthropic": {APIKey: "key"},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Run.Provider != "anthropic" {
		t.Errorf("expected sole provider as run default, got %q", cfg.Run.Provider)
	}
}

func TestApplyDefaults_AmbiguousProvidersLeaveRunUnset(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"anthropic": {APIKey: "key"},
			"openai":    {APIKey: "key"},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Run.Provider != "" {
		t.Errorf("expected no run default with two providers, got %q", cfg.Run.Provider)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if !reflect.DeepEqual(*cfg, first) {
		t.Error("second ApplyDefaults changed the config")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}
