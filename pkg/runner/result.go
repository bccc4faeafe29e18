package runner

import (
	"time"

	"weftworks/weft/pkg/providers"
)

// StepResult is the outcome of one executed step.
type StepResult struct {
	// Index is the step's 1-based position in the steps sequence.
	Index int `json:"index"`

	// Name is the step name, empty if the step had none.
	Name string `json:"name,omitempty"`

	// Provider is the resolved provider name the step ran against.
	Provider string `json:"provider"`

	// Model is the resolved model the completion was requested from.
	Model string `json:"model"`

	// Output is the completion content returned by the provider.
	Output string `json:"output"`

	// FinishReason indicates why generation stopped.
	FinishReason string `json:"finish_reason"`

	// Usage is the token consumption reported for this step.
	Usage providers.Usage `json:"usage"`

	// Latency is the wall-clock duration of the provider call.
	Latency time.Duration `json:"latency"`
}

// RunResult aggregates a completed playbook run.
type RunResult struct {
	// RunID is the identifier assigned to this run. It also appears on the
	// runlog record and in every log line the run emitted.
	RunID string `json:"run_id"`

	// Playbook is the path of the executed playbook file.
	Playbook string `json:"playbook"`

	// StartTime and EndTime bound the run, pipeline stages included.
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Includes counts the include directives spliced while resolving the
	// document.
	Includes int `json:"includes"`

	// Skipped counts steps without a prompt, which are never executed.
	Skipped int `json:"skipped,omitempty"`

	// Steps holds the per-step outcomes in execution order.
	Steps []StepResult `json:"steps"`

	// Usage is the token consumption summed across all steps.
	Usage providers.Usage `json:"usage"`

	// ProviderLatency is the wall-clock time spent inside provider calls,
	// summed across all steps.
	ProviderLatency time.Duration `json:"provider_latency"`
}

// Duration returns the total wall-clock duration of the run.
func (r *RunResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
