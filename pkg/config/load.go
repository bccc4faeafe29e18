package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(&cfg)

	// Validate
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention WEFT_SECTION_FIELD (e.g., WEFT_WORKSPACE_ROOT).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads configuration from the given path when the file
// exists, and otherwise falls back to pure defaults. Environment variable
// overrides apply in both cases. A workspace does not need a weft.yaml to
// lint or render playbooks, so a missing file is not an error; any other
// read or parse failure still is.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadConfigWithEnvOverrides(path)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat configuration file %q: %w", path, err)
		}
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format WEFT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Workspace overrides
	if val := os.Getenv("WEFT_WORKSPACE_ROOT"); val != "" {
		cfg.Workspace.Root = val
	}
	if val := os.Getenv("WEFT_WORKSPACE_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Workspace.DebounceInterval = d
		}
	}
	if val := os.Getenv("WEFT_WORKSPACE_MAX_INCLUDE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Workspace.MaxIncludeSize = i
		}
	}

	// Provider overrides - the well-known names are always checked so an
	// environment-only provider needs no file entry; file-declared names
	// are checked as well.
	names := map[string]bool{"anthropic": true, "openai": true}
	for name := range cfg.Providers {
		names[name] = true
	}
	for name := range names {
		applyProviderEnvOverrides(cfg, name)
	}

	// Run overrides
	if val := os.Getenv("WEFT_RUN_PROVIDER"); val != "" {
		cfg.Run.Provider = val
	}
	if val := os.Getenv("WEFT_RUN_MODEL"); val != "" {
		cfg.Run.Model = val
	}
	if val := os.Getenv("WEFT_RUN_MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Run.MaxTokens = i
		}
	}

	// Runlog overrides
	if val := os.Getenv("WEFT_RUNLOG_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Runlog.Enabled = b
		}
	}
	if val := os.Getenv("WEFT_RUNLOG_SQLITE_PATH"); val != "" {
		cfg.Runlog.SQLite.Path = val
	}
	if val := os.Getenv("WEFT_RUNLOG_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Runlog.Retention.Days = i
		}
	}
	if val := os.Getenv("WEFT_RUNLOG_RETENTION_PRUNE_SCHEDULE"); val != "" {
		cfg.Runlog.Retention.PruneSchedule = val
	}

	// Library overrides
	if val := os.Getenv("WEFT_LIBRARY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Library.Enabled = b
		}
	}
	if val := os.Getenv("WEFT_LIBRARY_REPOSITORY"); val != "" {
		cfg.Library.Repository = val
	}
	if val := os.Getenv("WEFT_LIBRARY_BRANCH"); val != "" {
		cfg.Library.Branch = val
	}
	if val := os.Getenv("WEFT_LIBRARY_PATH"); val != "" {
		cfg.Library.Path = val
	}
	if val := os.Getenv("WEFT_LIBRARY_DIR"); val != "" {
		cfg.Library.Dir = val
	}
	if val := os.Getenv("WEFT_LIBRARY_AUTH_TYPE"); val != "" {
		cfg.Library.Auth.Type = val
	}
	if val := os.Getenv("WEFT_LIBRARY_AUTH_TOKEN"); val != "" {
		cfg.Library.Auth.Token = val
	}
	if val := os.Getenv("WEFT_LIBRARY_AUTH_SSH_KEY_PATH"); val != "" {
		cfg.Library.Auth.SSHKeyPath = val
	}
	if val := os.Getenv("WEFT_LIBRARY_POLL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Library.Poll.Enabled = b
		}
	}
	if val := os.Getenv("WEFT_LIBRARY_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Library.Poll.Interval = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("WEFT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("WEFT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("WEFT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("WEFT_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("WEFT_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}

// applyProviderEnvOverrides applies environment variable overrides for a
// specific provider. Provider environment variables follow the format
// WEFT_PROVIDERS_<NAME>_<FIELD> where NAME is the uppercase provider name.
func applyProviderEnvOverrides(cfg *Config, providerName string) {
	// Initialize providers map if nil
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	// Get existing provider config or create new one
	provider, exists := cfg.Providers[providerName]
	if !exists {
		provider = ProviderConfig{}
	}

	// Build environment variable prefix
	prefix := fmt.Sprintf("WEFT_PROVIDERS_%s_", strings.ToUpper(providerName))

	// Check for overrides
	modified := false

	if val := os.Getenv(prefix + "TYPE"); val != "" {
		provider.Type = val
		modified = true
	}
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
		modified = true
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		provider.Model = val
		modified = true
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			provider.MaxRetries = i
			modified = true
		}
	}

	// Only update the map if we found at least one override
	if modified || exists {
		cfg.Providers[providerName] = provider
	}

	// A provider created purely from environment variables missed the
	// defaulting pass that ran at load time.
	if modified && !exists {
		provider = cfg.Providers[providerName]
		if provider.Type == "" {
			provider.Type = providerName
		}
		if provider.BaseURL == "" {
			if url, ok := wellKnownBaseURLs[provider.Type]; ok {
				provider.BaseURL = url
			}
		}
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		if provider.MaxRetries == 0 {
			provider.MaxRetries = DefaultProviderMaxRetries
		}
		cfg.Providers[providerName] = provider
	}
}
