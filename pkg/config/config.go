package config

import "time"

// Config is the root configuration structure for Weft.
// It contains all configuration sections for the workspace, provider
// integrations, run defaults, run history, the shared module library,
// and telemetry.
type Config struct {
	// Workspace contains configuration for the playbook workspace including
	// the root directory, variables-watch debouncing, and include limits.
	Workspace WorkspaceConfig `yaml:"workspace"`

	// Providers contains configuration for all LLM provider integrations.
	// Keys are provider names (e.g., "anthropic", "openai").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Run contains defaults applied when executing playbooks: the provider
	// and model used by steps that do not name their own.
	Run RunConfig `yaml:"run"`

	// Runlog contains configuration for run history recording including
	// storage location and retention settings.
	Runlog RunlogConfig `yaml:"runlog"`

	// Library contains configuration for syncing a shared playbook-module
	// Git repository into the workspace.
	Library LibraryConfig `yaml:"library"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WorkspaceConfig contains configuration for the playbook workspace.
type WorkspaceConfig struct {
	// Root is the workspace root directory. All playbooks, variables files,
	// and includable modules live under this directory; includes may not
	// read outside it.
	// Default: "."
	Root string `yaml:"root"`

	// DebounceInterval is how long the variables watcher waits after the
	// last filesystem event before reloading, coalescing editor write
	// bursts into a single reload.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// MaxIncludeSize is the maximum size in bytes of a single included
	// file. Larger files are rejected before parsing.
	// Default: 10485760 (10MB)
	MaxIncludeSize int64 `yaml:"max_include_size"`
}

// ProviderConfig contains configuration for a single LLM provider.
type ProviderConfig struct {
	// Type selects the wire protocol for this provider.
	// Options: "anthropic", "openai"
	// Default: the provider's name in the providers map, so the common
	// entries need no explicit type.
	Type string `yaml:"type"`

	// BaseURL is the base URL for the provider's API endpoint.
	// Example: "https://api.anthropic.com"
	// Default: the well-known endpoint for the provider type.
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication key for the provider.
	// This should typically be loaded from an environment variable.
	APIKey string `yaml:"api_key"`

	// Model is the default model for this provider, used when neither the
	// step nor the run section names one.
	Model string `yaml:"model"`

	// Timeout is the maximum duration for requests to this provider.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the maximum number of retry attempts for failed requests.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`
}

// RunConfig contains defaults for playbook execution.
type RunConfig struct {
	// Provider is the name of the provider used by steps that do not name
	// their own. Must be a key of the providers map when set.
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model for this workspace.
	Model string `yaml:"model"`

	// MaxTokens is the completion token limit sent with each step request.
	// Default: 1024
	MaxTokens int `yaml:"max_tokens"`
}

// RunlogConfig contains configuration for run history recording.
type RunlogConfig struct {
	// Enabled controls whether runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains recorder configuration.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database; relative paths are
	// resolved against the workspace root.
	// Default: ".weft/runlog.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains run recorder configuration.
type RecorderConfig struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 256
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains retention policy configuration.
type RetentionConfig struct {
	// Days is the number of days to retain run records.
	// Records older than this are eligible for deletion.
	// 0 means keep records forever (no pruning).
	// Default: 90
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// LibraryConfig configures syncing of a shared playbook-module repository.
type LibraryConfig struct {
	// Enabled determines if library syncing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Repository URL (HTTPS or SSH).
	// Example: "https://github.com/company/playbook-modules.git"
	// Required when Enabled is true.
	Repository string `yaml:"repository"`

	// Branch to track.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Path within the repository to the module files.
	// Default: "" (repository root)
	Path string `yaml:"path"`

	// Dir is the directory under the workspace root where the library is
	// checked out. It must stay inside the workspace so included modules
	// remain readable under the traversal rules.
	// Default: "modules"
	Dir string `yaml:"dir"`

	// Depth for shallow clones (0 = full clone).
	// Default: 1
	Depth int `yaml:"depth"`

	// Auth configures Git authentication.
	Auth GitAuthConfig `yaml:"auth"`

	// Poll configures change detection.
	Poll GitPollConfig `yaml:"poll"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type: "token", "ssh", "none"
	// - "token": HTTPS with personal access token
	// - "ssh": SSH with public key
	// - "none": public repositories
	// Default: "none"
	Type string `yaml:"type"`

	// Token for HTTPS authentication.
	// Required when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath for SSH authentication.
	// Example: "/home/user/.ssh/id_rsa"
	// Required when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	// Optional, leave empty if the key is not encrypted.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// GitPollConfig configures change detection.
type GitPollConfig struct {
	// Enabled determines if polling is active. When false, the library is
	// synced once and not re-checked; watch mode repeats the sync on the
	// interval when enabled.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Interval between polls (e.g., "1m", "5m").
	// Default: 5m
	Interval time.Duration `yaml:"interval"`

	// Timeout for Git operations.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets enables redaction of API keys and tokens in logs.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served. Only watch
	// mode serves metrics; one-shot commands ignore this section.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address and port for the metrics endpoint.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "weft"
	Namespace string `yaml:"namespace"`
}
