// Package config provides configuration management for Weft.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("weft.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("weft.yaml")
//
//  3. From a YAML file if present, otherwise pure defaults (what the CLI
//     does, since a workspace needs no weft.yaml to lint or render):
//     cfg, err := config.LoadOrDefault("weft.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention WEFT_SECTION_FIELD.
// For example:
//
//   - WEFT_WORKSPACE_ROOT overrides workspace.root
//   - WEFT_PROVIDERS_ANTHROPIC_API_KEY overrides providers.anthropic.api_key
//   - WEFT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("weft.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Workspace.Root)
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., provider base URLs)
//   - Range validation (e.g., retries must be 0-10)
//   - Format validation (e.g., valid URL format)
//   - Logical validation (e.g., run.provider must name a configured provider)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - providers.anthropic.base_url: base URL is required
//	  - run.provider: provider "openai" is not configured in the providers section
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	workspace:
//	  root: "."
//
//	providers:
//	  anthropic:
//	    model: "claude-sonnet-4-5"
//
//	run:
//	  provider: "anthropic"
//
// Secrets should stay out of the file; set WEFT_PROVIDERS_ANTHROPIC_API_KEY
// in the environment instead.
//
//	runlog:
//	  enabled: true
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "text"
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton pattern uses read-write
// locks to allow concurrent reads while protecting against concurrent writes.
package config
