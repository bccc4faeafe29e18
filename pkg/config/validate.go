package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "workspace.root").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// validProviderTypes lists the wire protocols the provider layer implements.
var validProviderTypes = map[string]bool{
	"anthropic": true,
	"openai":    true,
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateWorkspace(&cfg.Workspace)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateRun(&cfg.Run, cfg.Providers)...)
	errs = append(errs, validateRunlog(&cfg.Runlog)...)
	errs = append(errs, validateLibrary(&cfg.Library)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateWorkspace validates workspace configuration.
func validateWorkspace(cfg *WorkspaceConfig) []FieldError {
	var errs []FieldError

	if cfg.Root == "" {
		errs = append(errs, FieldError{
			Field:   "workspace.root",
			Message: "workspace root is required",
		})
	}
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "workspace.debounce_interval",
			Message: "debounce interval must be non-negative",
		})
	}
	if cfg.MaxIncludeSize < 0 {
		errs = append(errs, FieldError{
			Field:   "workspace.max_include_size",
			Message: "max include size must be non-negative",
		})
	}

	return errs
}

// validateProviders validates provider configurations. An empty providers
// map is valid: lint and render never contact a provider.
func validateProviders(providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	for name, provider := range providers {
		prefix := fmt.Sprintf("providers.%s", name)

		// Validate provider type
		if !validProviderTypes[provider.Type] {
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: fmt.Sprintf("invalid type %q: must be 'anthropic' or 'openai'", provider.Type),
			})
		}

		// Validate base URL
		if provider.BaseURL == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".base_url",
				Message: "base URL is required",
			})
		} else {
			// Validate URL format
			if u, err := url.Parse(provider.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: fmt.Sprintf("invalid URL %q: expected scheme://host", provider.BaseURL),
				})
			}
		}

		// API keys may be injected later via environment variables, so an
		// empty key is allowed here and fails at request time instead.

		// Validate timeout
		if provider.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".timeout",
				Message: "timeout must be positive",
			})
		}

		// Validate max retries
		if provider.MaxRetries < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_retries",
				Message: "max retries must be non-negative",
			})
		}
		if provider.MaxRetries > 10 {
			errs = append(errs, FieldError{
				Field:   prefix + ".max_retries",
				Message: "max retries exceeds reasonable limit (10)",
			})
		}
	}

	return errs
}

// validateRun validates run defaults against the configured providers.
func validateRun(cfg *RunConfig, providers map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	if cfg.Provider != "" {
		if _, ok := providers[cfg.Provider]; !ok {
			errs = append(errs, FieldError{
				Field:   "run.provider",
				Message: fmt.Sprintf("provider %q is not configured in the providers section", cfg.Provider),
			})
		}
	}
	if cfg.MaxTokens < 0 {
		errs = append(errs, FieldError{
			Field:   "run.max_tokens",
			Message: "max tokens must be non-negative",
		})
	}

	return errs
}

// validateRunlog validates run history configuration.
func validateRunlog(cfg *RunlogConfig) []FieldError {
	var errs []FieldError

	if cfg.Enabled && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "runlog.sqlite.path",
			Message: "sqlite path is required when runlog is enabled",
		})
	}
	if cfg.SQLite.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "runlog.sqlite.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.SQLite.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "runlog.sqlite.busy_timeout",
			Message: "busy timeout must be non-negative",
		})
	}
	if cfg.Recorder.AsyncBuffer < 0 {
		errs = append(errs, FieldError{
			Field:   "runlog.recorder.async_buffer",
			Message: "async buffer must be non-negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "runlog.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "runlog.retention.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.Enabled && cfg.Retention.PruneSchedule == "" && (cfg.Retention.Days > 0 || cfg.Retention.MaxRecords > 0) {
		errs = append(errs, FieldError{
			Field:   "runlog.retention.prune_schedule",
			Message: "prune schedule is required when a retention limit is set",
		})
	}

	return errs
}

// validateLibrary validates module library configuration. Most rules only
// apply when the library is enabled, so a zero-value section is valid.
func validateLibrary(cfg *LibraryConfig) []FieldError {
	var errs []FieldError

	if cfg.Depth < 0 {
		errs = append(errs, FieldError{
			Field:   "library.depth",
			Message: "clone depth must be non-negative",
		})
	}

	if !cfg.Enabled {
		return errs
	}

	if cfg.Repository == "" {
		errs = append(errs, FieldError{
			Field:   "library.repository",
			Message: "repository is required when library is enabled",
		})
	}
	if cfg.Branch == "" {
		errs = append(errs, FieldError{
			Field:   "library.branch",
			Message: "branch is required when library is enabled",
		})
	}
	if cfg.Dir == "" {
		errs = append(errs, FieldError{
			Field:   "library.dir",
			Message: "dir is required when library is enabled",
		})
	}

	switch cfg.Auth.Type {
	case "none":
	case "token":
		if cfg.Auth.Token == "" {
			errs = append(errs, FieldError{
				Field:   "library.auth.token",
				Message: "token is required when auth type is 'token'",
			})
		}
	case "ssh":
		if cfg.Auth.SSHKeyPath == "" {
			errs = append(errs, FieldError{
				Field:   "library.auth.ssh_key_path",
				Message: "ssh key path is required when auth type is 'ssh'",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "library.auth.type",
			Message: fmt.Sprintf("invalid auth type %q: must be 'none', 'token', or 'ssh'", cfg.Auth.Type),
		})
	}

	if cfg.Poll.Enabled && cfg.Poll.Interval <= 0 {
		errs = append(errs, FieldError{
			Field:   "library.poll.interval",
			Message: "poll interval must be positive when polling is enabled",
		})
	}
	if cfg.Poll.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "library.poll.timeout",
			Message: "poll timeout must be non-negative",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: "listen address is required when metrics are enabled",
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with '/'",
			})
		}
	}

	return errs
}
