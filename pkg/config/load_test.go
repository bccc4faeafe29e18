package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weft.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfigFile(t, `
workspace:
  root: "/srv/playbooks"
  debounce_interval: "250ms"

providers:
  anthropic:
    api_key: "test-key-123"
    model: "claude-sonnet-4-5"
    timeout: "30s"
    max_retries: 5

run:
  provider: "anthropic"
  max_tokens: 2048

runlog:
  enabled: true

telemetry:
  logging:
    level: "debug"
    format: "json"
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Workspace.Root != "/srv/playbooks" {
		t.Errorf("expected workspace root %q, got %q", "/srv/playbooks", cfg.Workspace.Root)
	}
	if cfg.Workspace.DebounceInterval != 250*time.Millisecond {
		t.Errorf("expected debounce interval %v, got %v", 250*time.Millisecond, cfg.Workspace.DebounceInterval)
	}

	anthropic, exists := cfg.Providers["anthropic"]
	if !exists {
		t.Fatal("expected anthropic provider")
	}
	if anthropic.APIKey != "test-key-123" {
		t.Errorf("expected API key %q, got %q", "test-key-123", anthropic.APIKey)
	}
	if anthropic.Timeout != 30*time.Second {
		t.Errorf("expected timeout %v, got %v", 30*time.Second, anthropic.Timeout)
	}
	// Type and base URL come from defaulting, not the file.
	if anthropic.Type != "anthropic" {
		t.Errorf("expected type %q, got %q", "anthropic", anthropic.Type)
	}
	if anthropic.BaseURL != DefaultAnthropicBaseURL {
		t.Errorf("expected base URL %q, got %q", DefaultAnthropicBaseURL, anthropic.BaseURL)
	}

	if cfg.Run.MaxTokens != 2048 {
		t.Errorf("expected max tokens 2048, got %d", cfg.Run.MaxTokens)
	}
	if !cfg.Runlog.Enabled {
		t.Error("expected runlog enabled")
	}
	if cfg.Runlog.SQLite.Path != DefaultRunlogSQLitePath {
		t.Errorf("expected default sqlite path %q, got %q", DefaultRunlogSQLitePath, cfg.Runlog.SQLite.Path)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/weft.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to read configuration file") {
		t.Errorf("expected read failure message, got: %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	configPath := writeConfigFile(t, `
workspace:
  root: "."
  invalid yaml here: [
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	configPath := writeConfigFile(t, `
run:
  provider: "anthropic"

telemetry:
  logging:
    level: "loud"
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError in error chain, got %T: %v", err, err)
	}
	if len(validationErr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(validationErr.Errors), validationErr)
	}
}

func TestLoadConfigWithEnvOverrides_BasicOverrides(t *testing.T) {
	configPath := writeConfigFile(t, `
workspace:
  root: "/srv/playbooks"

providers:
  anthropic:
    api_key: "file-key"

telemetry:
  logging:
    level: "info"
`)

	t.Setenv("WEFT_WORKSPACE_ROOT", "/srv/other")
	t.Setenv("WEFT_PROVIDERS_ANTHROPIC_API_KEY", "env-key-override")
	t.Setenv("WEFT_TELEMETRY_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Workspace.Root != "/srv/other" {
		t.Errorf("expected workspace root %q from env, got %q", "/srv/other", cfg.Workspace.Root)
	}
	if got := cfg.Providers["anthropic"].APIKey; got != "env-key-override" {
		t.Errorf("expected API key %q from env, got %q", "env-key-override", got)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q from env, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_DurationParsing(t *testing.T) {
	configPath := writeConfigFile(t, `
workspace:
  debounce_interval: "100ms"

providers:
  anthropic:
    api_key: "test-key"
`)

	t.Setenv("WEFT_WORKSPACE_DEBOUNCE_INTERVAL", "2s")
	t.Setenv("WEFT_PROVIDERS_ANTHROPIC_TIMEOUT", "45s")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Workspace.DebounceInterval != 2*time.Second {
		t.Errorf("expected debounce interval 2s, got %v", cfg.Workspace.DebounceInterval)
	}
	if got := cfg.Providers["anthropic"].Timeout; got != 45*time.Second {
		t.Errorf("expected provider timeout 45s, got %v", got)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValueIgnored(t *testing.T) {
	configPath := writeConfigFile(t, `
workspace:
  debounce_interval: "100ms"
`)

	t.Setenv("WEFT_WORKSPACE_DEBOUNCE_INTERVAL", "not-a-duration")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Workspace.DebounceInterval != 100*time.Millisecond {
		t.Errorf("expected file value to survive unparseable env, got %v", cfg.Workspace.DebounceInterval)
	}
}

func TestLoadConfigWithEnvOverrides_ProviderFromEnvOnly(t *testing.T) {
	configPath := writeConfigFile(t, `
workspace:
  root: "."
`)

	t.Setenv("WEFT_PROVIDERS_ANTHROPIC_API_KEY", "env-only-key")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	anthropic, exists := cfg.Providers["anthropic"]
	if !exists {
		t.Fatal("expected provider created from environment")
	}
	if anthropic.APIKey != "env-only-key" {
		t.Errorf("expected API key %q, got %q", "env-only-key", anthropic.APIKey)
	}
	// The env-created entry still gets the defaulting pass.
	if anthropic.Type != "anthropic" {
		t.Errorf("expected type %q, got %q", "anthropic", anthropic.Type)
	}
	if anthropic.BaseURL != DefaultAnthropicBaseURL {
		t.Errorf("expected base URL %q, got %q", DefaultAnthropicBaseURL, anthropic.BaseURL)
	}
	if anthropic.Timeout != DefaultProviderTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultProviderTimeout, anthropic.Timeout)
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "weft.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got error: %v", err)
	}
	if cfg.Workspace.Root != DefaultWorkspaceRoot {
		t.Errorf("expected default root %q, got %q", DefaultWorkspaceRoot, cfg.Workspace.Root)
	}
	if len(cfg.Providers) != 0 {
		t.Errorf("expected no providers, got %d", len(cfg.Providers))
	}
}

func TestLoadOrDefault_MissingFileWithEnv(t *testing.T) {
	t.Setenv("WEFT_TELEMETRY_LOGGING_FORMAT", "json")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "weft.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("expected env override on defaults, got format %q", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadOrDefault_ExistingFile(t *testing.T) {
	configPath := writeConfigFile(t, `
workspace:
  root: "/srv/playbooks"
`)

	cfg, err := LoadOrDefault(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workspace.Root != "/srv/playbooks" {
		t.Errorf("expected root from file, got %q", cfg.Workspace.Root)
	}
}
