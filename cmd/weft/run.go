package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weftworks/weft/pkg/cli"
	"weftworks/weft/pkg/config"
	"weftworks/weft/pkg/diagnostics"
	"weftworks/weft/pkg/playbook/pipeline"
	"weftworks/weft/pkg/playbook/vars"
	"weftworks/weft/pkg/providerfactory"
	"weftworks/weft/pkg/providers"
	"weftworks/weft/pkg/runlog/recorder"
	"weftworks/weft/pkg/runner"
	"weftworks/weft/pkg/workspace"
)

var runFlags struct {
	provider  string
	model     string
	maxTokens int
	vars      []string
	format    string
	dryRun    bool
}

var runCmd = &cobra.Command{
	Use:   "run <playbook>",
	Short: "Execute a playbook",
	Long: `Execute a playbook against the configured LLM providers.

The playbook is first resolved through the document pipeline: placeholders
are interpolated from the workspace variables file, include directives are
spliced, and the result is validated. Steps are then executed in order;
the first failing step aborts the run. When run recording is enabled the
outcome is written to the run history.

Examples:
  # Execute with workspace defaults
  weft run deploy.yaml

  # Override the provider and model for this run
  weft run deploy.yaml --provider anthropic --model claude-sonnet-4-5

  # Override a workspace variable
  weft run deploy.yaml --var region=eu-west-1

  # Resolve and validate without calling providers
  weft run deploy.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaybook,
}

func init() {
	runCmd.Flags().StringVar(&runFlags.provider, "provider", "", "provider for steps that do not name one")
	runCmd.Flags().StringVar(&runFlags.model, "model", "", "model for steps that do not name one")
	runCmd.Flags().IntVar(&runFlags.maxTokens, "max-tokens", 0, "completion token limit per step")
	runCmd.Flags().StringArrayVar(&runFlags.vars, "var", nil, "workspace variable override as key=value (repeatable)")
	runCmd.Flags().StringVar(&runFlags.format, "format", "text", "output format (text, json)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "resolve and validate without calling providers")
	rootCmd.AddCommand(runCmd)
}

func runPlaybook(cmd *cobra.Command, args []string) error {
	cfg, err := initRuntime()
	if err != nil {
		return err
	}

	ws, err := workspace.Open(cfg.Workspace.Root, slog.Default())
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	env, err := mergeVarFlags(ws.Env(), runFlags.vars)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	pipe := pipeline.New(slog.Default()).WithMaxIncludeSize(cfg.Workspace.MaxIncludeSize)
	playbookPath := args[0]

	if runFlags.dryRun {
		return dryRunPlaybook(pipe, playbookPath, env)
	}

	registry := providerfactory.NewRegistry()
	defer registry.Close()
	if err := registry.LoadFromConfig(providerConfigs(cfg)); err != nil {
		slog.Warn("some providers failed to initialize", "error", err)
	}
	if registry.Count() == 0 {
		return cli.NewCommandError("run",
			fmt.Errorf("no providers available; check the providers section of %s", cfgFile))
	}

	r := runner.New(pipe, registry, runnerConfig(cfg))

	if cfg.Runlog.Enabled {
		store, err := openRunStorage(cfg, ws.Root())
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer store.Close()

		rec := recorder.NewRecorder(store, &recorder.Config{
			Enabled:      true,
			AsyncBuffer:  cfg.Runlog.Recorder.AsyncBuffer,
			WriteTimeout: cfg.Runlog.Recorder.WriteTimeout,
		})
		defer rec.Close()
		r = r.WithRecorder(rec)
	}

	ctx := cli.SetupSignalHandler()

	result, err := r.Run(ctx, playbookPath, env)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	switch runFlags.format {
	case "json":
		if err := (&cli.JSONFormatter{Indent: true}).FormatTo(os.Stdout, result); err != nil {
			return cli.NewCommandError("run", err)
		}
	default:
		printRunText(result)
	}
	return nil
}

// dryRunPlaybook resolves the playbook through the pipeline and reports the
// outcome without touching any provider.
func dryRunPlaybook(pipe *pipeline.Pipeline, path string, env vars.Environment) error {
	res := pipe.RunFile(path, env)
	if !res.OK() {
		for _, d := range diagnostics.FromResult(path, res) {
			fmt.Fprintf(os.Stderr, "%s\n", d)
		}
		return cli.NewCommandError("run", fmt.Errorf("%s failed at the %s stage", path, res.Stage))
	}

	steps, skipped, err := runner.ExtractSteps(res.Doc)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Printf("✓ %s: %d step(s)", path, len(steps))
	if skipped > 0 {
		fmt.Printf(", %d without a prompt", skipped)
	}
	if res.Includes > 0 {
		fmt.Printf(", %d include(s)", res.Includes)
	}
	fmt.Println()
	return nil
}

func printRunText(result *runner.RunResult) {
	for _, step := range result.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", step.Index)
		}
		fmt.Printf("── %s (%s/%s, %d tokens, %s)\n",
			name, step.Provider, step.Model,
			step.Usage.TotalTokens, step.Latency.Round(time.Millisecond))
		fmt.Println(step.Output)
		fmt.Println()
	}

	fmt.Printf("✓ Run %s complete: %d step(s), %d token(s), %s\n",
		shortID(result.RunID), len(result.Steps),
		result.Usage.TotalTokens, result.Duration().Round(time.Millisecond))
	if result.Skipped > 0 {
		fmt.Printf("  %d step(s) without a prompt were skipped\n", result.Skipped)
	}
}

// mergeVarFlags layers --var overrides over the workspace environment.
// The workspace snapshot is never mutated; overrides set top-level keys.
func mergeVarFlags(env vars.Environment, overrides []string) (vars.Environment, error) {
	if len(overrides) == 0 {
		return env, nil
	}

	merged := make(vars.Environment, len(env)+len(overrides))
	for k, v := range env {
		merged[k] = v
	}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", kv)
		}
		merged[key] = value
	}
	return merged, nil
}

// providerConfigs flattens the providers map for registry loading, sorted
// by name so initialization order and log output are deterministic.
func providerConfigs(cfg *config.Config) []providers.Config {
	configs := make([]providers.Config, 0, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		typ := pc.Type
		if typ == "" {
			typ = name
		}
		configs = append(configs, providers.Config{
			Name:       name,
			Type:       typ,
			BaseURL:    pc.BaseURL,
			APIKey:     pc.APIKey,
			Timeout:    pc.Timeout,
			MaxRetries: pc.MaxRetries,
		})
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs
}

// runnerConfig builds the execution defaults from weft.yaml, with command
// flags taking precedence.
func runnerConfig(cfg *config.Config) *runner.Config {
	models := make(map[string]string, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		if pc.Model != "" {
			models[name] = pc.Model
		}
	}

	rc := &runner.Config{
		DefaultProvider: cfg.Run.Provider,
		DefaultModel:    cfg.Run.Model,
		ProviderModels:  models,
		MaxTokens:       cfg.Run.MaxTokens,
	}
	if runFlags.provider != "" {
		rc.DefaultProvider = runFlags.provider
	}
	if runFlags.model != "" {
		rc.DefaultModel = runFlags.model
	}
	if runFlags.maxTokens > 0 {
		rc.MaxTokens = runFlags.maxTokens
	}
	return rc
}

// shortID truncates a run UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
