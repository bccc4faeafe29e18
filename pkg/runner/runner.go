package runner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	pbErrors "weftworks/weft/pkg/playbook/errors"
	"weftworks/weft/pkg/playbook/node"
	"weftworks/weft/pkg/playbook/pipeline"
	"weftworks/weft/pkg/playbook/vars"
	"weftworks/weft/pkg/providerfactory"
	"weftworks/weft/pkg/providers"
	"weftworks/weft/pkg/runlog"
	"weftworks/weft/pkg/runlog/recorder"
	"weftworks/weft/pkg/telemetry/metrics"
)

// Config carries the workspace-level execution defaults from the run and
// providers sections of weft.yaml.
type Config struct {
	// DefaultProvider is used by steps that do not name their own provider.
	DefaultProvider string

	// DefaultModel overrides provider default models for every step that
	// does not name its own model.
	DefaultModel string

	// ProviderModels maps provider names to their configured default models,
	// consulted when neither the step nor DefaultModel names one.
	ProviderModels map[string]string

	// MaxTokens is the completion token limit sent with steps that do not
	// set their own.
	MaxTokens int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxTokens: 1024,
	}
}

// Runner resolves a playbook through the document pipeline and executes its
// steps against the provider registry. Each run is assigned a run ID that
// appears in logs and on the runlog record.
//
// Runner is stateless across runs and safe for concurrent use.
type Runner struct {
	pipeline *pipeline.Pipeline
	registry *providerfactory.Registry
	config   *Config
	recorder *recorder.Recorder
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// New creates a runner over the given pipeline and provider registry.
// A nil config uses DefaultConfig().
func New(pipe *pipeline.Pipeline, registry *providerfactory.Registry, config *Config) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Runner{
		pipeline: pipe,
		registry: registry,
		config:   config,
		logger:   slog.Default().With("component", "runner"),
	}
}

// WithRecorder wires a runlog recorder. Without one, runs are not recorded.
func (r *Runner) WithRecorder(rec *recorder.Recorder) *Runner {
	r.recorder = rec
	return r
}

// WithMetrics wires a metrics collector. A nil collector records nothing.
func (r *Runner) WithMetrics(collector *metrics.Collector) *Runner {
	r.metrics = collector
	return r
}

// Run resolves the playbook at path against env and executes its steps in
// order. Steps that carry a prompt are sent to their resolved provider; the
// first failure aborts the run. Both outcomes are recorded to the runlog.
//
// The returned error is the pipeline failure, a *StepError wrapping the
// provider failure, or ctx's error if the run was cancelled.
func (r *Runner) Run(ctx context.Context, path string, env vars.Environment) (*RunResult, error) {
	runID := uuid.New().String()
	startTime := time.Now()
	logger := r.logger.With("run_id", runID, "playbook", path)

	rec := &runlog.Record{
		RunID:     runID,
		StartTime: startTime,
		Playbook:  path,
	}

	res := r.pipeline.RunFile(path, env)
	if !res.OK() {
		logger.Error("playbook resolution failed",
			"stage", res.Stage,
			"error", res.Err,
		)
		rec.Stage = string(res.Stage)
		r.finishError(ctx, rec, res.Err)
		r.metrics.RecordRun("failure", time.Since(startTime), res.Includes)
		r.metrics.RecordStageFailure(string(res.Stage), errorKind(res.Err))
		return nil, res.Err
	}

	rec.Includes = res.Includes
	if data, err := node.Marshal(res.Doc); err == nil {
		rec.DocumentHash = recorder.HashContent(data)
	} else {
		logger.Warn("failed to marshal resolved document for hashing", "error", err)
	}

	steps, skipped, err := ExtractSteps(res.Doc)
	if err != nil {
		logger.Error("playbook steps are not executable", "error", err)
		r.finishError(ctx, rec, err)
		r.metrics.RecordRun("failure", time.Since(startTime), res.Includes)
		return nil, err
	}
	rec.Steps = len(steps)

	logger.Info("starting run",
		"steps", len(steps),
		"skipped", skipped,
		"includes", res.Includes,
	)

	result := &RunResult{
		RunID:     runID,
		Playbook:  path,
		StartTime: startTime,
		Includes:  res.Includes,
		Skipped:   skipped,
		Steps:     make([]StepResult, 0, len(steps)),
	}

	var outputs strings.Builder
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			stepErr := &StepError{Index: step.Index, Name: step.Name, Err: err}
			logger.Warn("run cancelled", "step", step.Index, "error", err)
			r.finishPartial(ctx, rec, result, stepErr)
			r.metrics.RecordRun("failure", time.Since(startTime), res.Includes)
			return nil, stepErr
		}

		stepResult, err := r.runStep(ctx, logger, step)
		if err != nil {
			stepErr := &StepError{Index: step.Index, Name: step.Name, Err: err}
			r.finishPartial(ctx, rec, result, stepErr)
			r.metrics.RecordRun("failure", time.Since(startTime), res.Includes)
			return nil, stepErr
		}

		// First executed step pins the provider and model the record reports.
		if rec.Provider == "" {
			rec.Provider = stepResult.Provider
			rec.Model = stepResult.Model
		}

		result.Steps = append(result.Steps, *stepResult)
		result.Usage.PromptTokens += stepResult.Usage.PromptTokens
		result.Usage.CompletionTokens += stepResult.Usage.CompletionTokens
		result.Usage.TotalTokens += stepResult.Usage.TotalTokens
		result.ProviderLatency += stepResult.Latency
		rec.FinishReason = stepResult.FinishReason
		outputs.WriteString(stepResult.Output)
	}

	result.EndTime = time.Now()

	rec.EndTime = result.EndTime
	rec.StepsCompleted = len(result.Steps)
	rec.PromptTokens = result.Usage.PromptTokens
	rec.CompletionTokens = result.Usage.CompletionTokens
	rec.TotalTokens = result.Usage.TotalTokens
	rec.ProviderLatency = result.ProviderLatency
	rec.OutputHash = recorder.HashString(outputs.String())
	rec.Status = runlog.StatusSuccess
	r.record(ctx, rec)

	r.metrics.RecordRun("success", result.Duration(), res.Includes)

	logger.Info("run completed",
		"steps_completed", len(result.Steps),
		"total_tokens", result.Usage.TotalTokens,
		"provider_latency_ms", result.ProviderLatency.Milliseconds(),
		"duration_ms", result.Duration().Milliseconds(),
	)

	return result, nil
}

// runStep sends one step's prompt to its resolved provider.
func (r *Runner) runStep(ctx context.Context, logger *slog.Logger, step Step) (*StepResult, error) {
	provider, err := r.resolveProvider(step)
	if err != nil {
		logger.Error("provider resolution failed",
			"step", step.Index,
			"name", step.Name,
			"error", err,
		)
		return nil, err
	}

	req := r.buildRequest(step, provider.Name())

	stepStart := time.Now()
	resp, err := provider.SendCompletion(ctx, req)
	latency := time.Since(stepStart)

	r.metrics.RecordProviderRequest(provider.Name(), req.Model)
	r.metrics.RecordProviderLatency(provider.Name(), req.Model, latency)

	if err != nil {
		r.metrics.RecordProviderError(provider.Name(), providers.ErrorType(err))
		logger.Error("step failed",
			"step", step.Index,
			"name", step.Name,
			"provider", provider.Name(),
			"model", req.Model,
			"error", err,
			"provider_latency_ms", latency.Milliseconds(),
		)
		return nil, err
	}

	r.metrics.RecordProviderTokens(provider.Name(), req.Model,
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	logger.Info("step completed",
		"step", step.Index,
		"name", step.Name,
		"provider", provider.Name(),
		"model", req.Model,
		"finish_reason", resp.FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
		"provider_latency_ms", latency.Milliseconds(),
	)

	return &StepResult{
		Index:        step.Index,
		Name:         step.Name,
		Provider:     provider.Name(),
		Model:        req.Model,
		Output:       resp.Content,
		FinishReason: resp.FinishReason,
		Usage:        resp.Usage,
		Latency:      latency,
	}, nil
}

// resolveProvider picks the provider for a step: the step's own, then the
// run default.
func (r *Runner) resolveProvider(step Step) (providers.Provider, error) {
	name := step.Provider
	if name == "" {
		name = r.config.DefaultProvider
	}
	if name == "" {
		return nil, &providers.ConfigError{
			Provider: "default",
			Field:    "provider",
			Message:  "step names no provider and run.provider is not set",
		}
	}

	provider, err := r.registry.Get(name)
	if err != nil {
		return nil, &providers.ConfigError{
			Provider: name,
			Field:    "provider",
			Message:  "not registered",
		}
	}

	return provider, nil
}

// buildRequest assembles the completion request for a step, applying the
// model and token-limit fallback chains.
func (r *Runner) buildRequest(step Step, providerName string) *providers.CompletionRequest {
	model := step.Model
	if model == "" {
		model = r.config.DefaultModel
	}
	if model == "" {
		model = r.config.ProviderModels[providerName]
	}

	maxTokens := step.MaxTokens
	if maxTokens <= 0 {
		maxTokens = r.config.MaxTokens
	}

	messages := make([]providers.Message, 0, 2)
	if step.System != "" {
		messages = append(messages, providers.Message{
			Role:    providers.RoleSystem,
			Content: step.System,
		})
	}
	messages = append(messages, providers.Message{
		Role:    providers.RoleUser,
		Content: step.Prompt,
	})

	return &providers.CompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: step.Temperature,
	}
}

// finishPartial closes out the record for a run that failed mid-execution,
// keeping the counts and tokens of the steps that did complete.
func (r *Runner) finishPartial(ctx context.Context, rec *runlog.Record, result *RunResult, err error) {
	rec.StepsCompleted = len(result.Steps)
	rec.PromptTokens = result.Usage.PromptTokens
	rec.CompletionTokens = result.Usage.CompletionTokens
	rec.TotalTokens = result.Usage.TotalTokens
	rec.ProviderLatency = result.ProviderLatency
	r.finishError(ctx, rec, err)
}

// finishError stamps the failure fields and records.
func (r *Runner) finishError(ctx context.Context, rec *runlog.Record, err error) {
	rec.EndTime = time.Now()
	rec.Status = runlog.StatusError
	rec.ErrorKind = errorKind(err)
	rec.Error = err.Error()
	r.record(ctx, rec)
}

// record hands the run record to the recorder. Recording failures are
// logged, never surfaced: run history is best-effort.
func (r *Runner) record(ctx context.Context, rec *runlog.Record) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, rec); err != nil {
		r.logger.Warn("failed to record run",
			"run_id", rec.RunID,
			"error", err,
		)
	}
}

// errorKind maps a run failure to a bounded kind label for records and
// metrics. Document errors keep their own kinds; provider errors use the
// provider classification.
func errorKind(err error) string {
	var pbErr *pbErrors.Error
	if errors.As(err, &pbErr) {
		return string(pbErr.Kind)
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return providers.ErrorType(err)
}
