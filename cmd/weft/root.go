package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"weftworks/weft/pkg/cli"
	"weftworks/weft/pkg/config"
	"weftworks/weft/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft - prompt playbook workspace tool",
	Long: `Weft resolves, validates, and executes LLM prompt playbooks.

A playbook is a YAML document with two extensions: ${...} placeholders
interpolated from the workspace variables file, and include: directives
that splice other documents from inside the workspace. Weft runs every
playbook through a staged pipeline (parsing, variable resolution, include
processing, structural validation) before anything is sent to a provider.

For more information, visit: https://github.com/weftworks/weft`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "weft.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}

// initRuntime loads the configuration and installs the default logger.
// Every command calls it first. Logs go to stderr so run and render can
// reserve stdout for their actual output.
func initRuntime() (*config.Config, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		if err := config.Initialize(cfgFile); err != nil {
			return nil, cli.NewConfigError("", err.Error())
		}
		cfg = config.GetConfig()
	}

	logCfg := cfg.Telemetry.Logging
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.FromConfig(logCfg, os.Stderr)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	return cfg, nil
}
