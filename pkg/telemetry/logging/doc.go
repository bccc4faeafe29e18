// Package logging builds the application's structured loggers with secret
// redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Automatic secret redaction (API keys, bearer and Git tokens)
//   - Configurable log levels (debug, info, warn, error)
//
// The package returns plain *slog.Logger values, so every component takes
// the standard logger type and redaction stays a handler concern.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("provider request",
//	    "provider", "anthropic",
//	    "api_key", "sk-abc123xyz",  // Automatically redacted
//	    "duration_ms", 1234,
//	)
//
// # Secret Redaction
//
// Values under sensitive keys (api_key, token, password, ...) are masked
// entirely. Other string values are scrubbed for embedded patterns:
//
//   - API keys: sk-abc123xyz → sk-***
//   - Bearer headers: Bearer eyJh... → Bearer ***
//   - Git access tokens: ghp_... → gh-***
package logging
