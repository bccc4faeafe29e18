package config

import "time"

// Default values for configuration fields.
const (
	// Workspace defaults
	DefaultWorkspaceRoot    = "."
	DefaultDebounceInterval = 100 * time.Millisecond
	DefaultMaxIncludeSize   = int64(10 * 1024 * 1024) // 10MB

	// Provider defaults
	DefaultProviderTimeout    = 60 * time.Second
	DefaultProviderMaxRetries = 3
	DefaultAnthropicBaseURL   = "https://api.anthropic.com"
	DefaultOpenAIBaseURL      = "https://api.openai.com/v1"

	// Run defaults
	DefaultRunMaxTokens = 1024

	// Runlog defaults
	DefaultRunlogSQLitePath        = ".weft/runlog.db"
	DefaultRunlogSQLiteMaxConns    = 4
	DefaultRunlogSQLiteWALMode     = true
	DefaultRunlogSQLiteBusyTimeout = 5 * time.Second
	DefaultRunlogAsyncBuffer       = 256
	DefaultRunlogWriteTimeout      = 5 * time.Second
	DefaultRunlogRetentionDays     = 90
	DefaultRunlogRetentionSchedule = "0 3 * * *"
	DefaultRunlogRetentionMaxRecs  = int64(0)

	// Library defaults
	DefaultLibraryBranch       = "main"
	DefaultLibraryDir          = "modules"
	DefaultLibraryCloneDepth   = 1
	DefaultLibraryAuthType     = "none"
	DefaultLibraryPollInterval = 5 * time.Minute
	DefaultLibraryPollTimeout  = 30 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "text"
	DefaultLoggingRedactSecrets = true
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "weft"
)

// wellKnownBaseURLs maps provider types to their public API endpoints,
// applied when a provider entry leaves base_url empty.
var wellKnownBaseURLs = map[string]string{
	"anthropic": DefaultAnthropicBaseURL,
	"openai":    DefaultOpenAIBaseURL,
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Workspace defaults
	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = DefaultWorkspaceRoot
	}
	if cfg.Workspace.DebounceInterval == 0 {
		cfg.Workspace.DebounceInterval = DefaultDebounceInterval
	}
	if cfg.Workspace.MaxIncludeSize == 0 {
		cfg.Workspace.MaxIncludeSize = DefaultMaxIncludeSize
	}

	// Provider defaults - applied to each provider
	for name, provider := range cfg.Providers {
		if provider.Type == "" {
			provider.Type = name
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
		// Update the provider in the map
		cfg.Providers[name] = provider
	}

	// Run defaults
	if cfg.Run.MaxTokens == 0 {
		cfg.Run.MaxTokens = DefaultRunMaxTokens
	}
	if cfg.Run.Provider == "" && len(cfg.Providers) == 1 {
		// A single configured provider is unambiguous.
		for name := range cfg.Providers {
			cfg.Run.Provider = name
		}
	}

	// Runlog defaults
	if cfg.Runlog.SQLite.Path == "" {
		cfg.Runlog.SQLite.Path = DefaultRunlogSQLitePath
	}
	if cfg.Runlog.SQLite.MaxOpenConns == 0 {
		cfg.Runlog.SQLite.MaxOpenConns = DefaultRunlogSQLiteMaxConns
	}
	if !cfg.Runlog.SQLite.WALMode {
		cfg.Runlog.SQLite.WALMode = DefaultRunlogSQLiteWALMode
	}
	if cfg.Runlog.SQLite.BusyTimeout == 0 {
		cfg.Runlog.SQLite.BusyTimeout = DefaultRunlogSQLiteBusyTimeout
	}
	if cfg.Runlog.Recorder.AsyncBuffer == 0 {
		cfg.Runlog.Recorder.AsyncBuffer = DefaultRunlogAsyncBuffer
	}
	if cfg.Runlog.Recorder.WriteTimeout == 0 {
		cfg.Runlog.Recorder.WriteTimeout = DefaultRunlogWriteTimeout
	}
	if cfg.Runlog.Retention.Days == 0 {
		cfg.Runlog.Retention.Days = DefaultRunlogRetentionDays
	}
	if cfg.Runlog.Retention.PruneSchedule == "" {
		cfg.Runlog.Retention.PruneSchedule = DefaultRunlogRetentionSchedule
	}

	// Library defaults
	if cfg.Library.Branch == "" {
		cfg.Library.Branch = DefaultLibraryBranch
	}
	if cfg.Library.Dir == "" {
		cfg.Library.Dir = DefaultLibraryDir
	}
	if cfg.Library.Depth == 0 {
		cfg.Library.Depth = DefaultLibraryCloneDepth
	}
	if cfg.Library.Auth.Type == "" {
		cfg.Library.Auth.Type = DefaultLibraryAuthType
	}
	if cfg.Library.Poll.Interval == 0 {
		cfg.Library.Poll.Interval = DefaultLibraryPollInterval
	}
	if cfg.Library.Poll.Timeout == 0 {
		cfg.Library.Poll.Timeout = DefaultLibraryPollTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if !cfg.Telemetry.Logging.RedactSecrets {
		cfg.Telemetry.Logging.RedactSecrets = DefaultLoggingRedactSecrets
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Default returns a Config populated entirely from defaults. It is what a
// workspace without a weft.yaml runs on: no providers, runlog and library
// disabled, local workspace root.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
