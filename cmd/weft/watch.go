package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"weftworks/weft/pkg/cli"
	"weftworks/weft/pkg/diagnostics"
	"weftworks/weft/pkg/library"
	"weftworks/weft/pkg/playbook/pipeline"
	"weftworks/weft/pkg/telemetry/health"
	"weftworks/weft/pkg/telemetry/metrics"
	"weftworks/weft/pkg/workspace"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace and re-validate on change",
	Long: `Watch the workspace and re-validate playbooks as files change.

Three sources of change are tracked:
  - Playbook edits re-lint the changed file
  - Variables file edits reload the environment and re-lint everything
  - Library module changes (when polling is enabled) re-lint everything

When metrics are enabled in weft.yaml, a Prometheus endpoint is served
for the duration of the watch, along with liveness and readiness probes
(/healthz, /readyz) and build information (/version).

Example:
  weft watch`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := initRuntime()
	if err != nil {
		return err
	}
	logger := slog.Default()

	ws, err := workspace.Open(cfg.Workspace.Root, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	pipe := pipeline.New(logger).WithMaxIncludeSize(cfg.Workspace.MaxIncludeSize)

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lintOne := func(path string) {
		report := diagnostics.NewReport(path, pipe.RunFile(path, ws.Env()))
		if !report.Valid && len(report.Diagnostics) > 0 {
			d := report.Diagnostics[0]
			collector.RecordStageFailure(d.Stage, d.Kind)
		}
		printWatchReport(report)
	}
	lintAll := func() {
		files, err := listPlaybooks(ws.Root(), libraryDir(ws.Root(), cfg))
		if err != nil {
			logger.Error("workspace walk failed", "error", err)
			return
		}
		for _, file := range files {
			lintOne(file)
		}
	}

	// Variables watcher: reloads replace the environment wholesale, so
	// every playbook needs re-checking.
	ws.OnReload(func(err error) {
		if err != nil {
			logger.Error("variables reload failed, environment reset", "error", err)
			collector.RecordEnvReload("failure", 0)
			return
		}
		env := ws.Env()
		logger.Info("variables reloaded", "variables", len(env))
		collector.RecordEnvReload("success", len(env))
		lintAll()
	})
	go func() {
		if err := ws.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Error("variables watcher stopped", "error", err)
		}
	}()

	// Document watcher: a changed playbook only re-lints itself.
	dwConfig := workspace.DefaultDocWatcherConfig(ws.Root())
	if cfg.Workspace.DebounceInterval > 0 {
		dwConfig.DebounceInterval = cfg.Workspace.DebounceInterval
	}
	dw, err := workspace.NewDocWatcher(dwConfig, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- dw.Watch(ctx, lintOne)
	}()
	defer dw.Stop()

	// Library poller: module changes can break any include, so the whole
	// workspace is re-checked.
	var lib *library.Library
	if cfg.Library.Enabled {
		lib, err = library.NewLibrary(ws.Root(), &cfg.Library)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		if _, err := lib.Sync(ctx); err != nil {
			logger.Warn("library sync failed", "repository", cfg.Library.Repository, "error", err)
		} else if cfg.Library.Poll.Enabled {
			poller := library.NewPoller(lib, cfg.Library.Poll.Interval, func(changed []string) {
				logger.Info("library modules changed", "files", len(changed))
				lintAll()
			})
			if err := poller.Start(ctx); err != nil {
				logger.Warn("library poller not started", "error", err)
			} else {
				defer poller.Stop()
			}
		}
	}

	var metricsSrv *http.Server
	if collector != nil {
		mux := http.NewServeMux()
		path := cfg.Telemetry.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))

		// Probe endpoints ride the metrics listener.
		checker := health.New(0)
		checker.RegisterCheck("workspace", func(ctx context.Context) error {
			return ws.LastError()
		})
		if lib != nil {
			checker.RegisterCheck("library", func(ctx context.Context) error {
				_, err := lib.CurrentCommit()
				return err
			})
		}
		mux.HandleFunc("/healthz", checker.LivenessHandler())
		mux.HandleFunc("/readyz", checker.ReadinessHandler())
		mux.HandleFunc("/version", health.VersionHandler(health.VersionInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildDate: BuildDate,
		}))

		metricsSrv = &http.Server{
			Addr:    cfg.Telemetry.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics endpoint started",
			"address", cfg.Telemetry.Metrics.ListenAddress,
			"path", path,
		)
	}

	lintAll()
	fmt.Printf("Watching %s (press Ctrl+C to stop)\n", ws.Root())

	select {
	case sig := <-cli.WaitForShutdown():
		logger.Info("shutting down", "signal", sig.String())
	case err := <-watchErr:
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
	}
	cancel()

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
	return nil
}

func printWatchReport(report diagnostics.Report) {
	if report.Valid {
		fmt.Printf("✓ %s\n", report.File)
		return
	}
	fmt.Printf("✗ %s\n", report.File)
	for _, d := range report.Diagnostics {
		fmt.Printf("  %s\n", d)
	}
}
