// Package runner executes playbooks: it resolves a document through the
// pipeline, sends each step's prompt to its provider, and records the run.
//
// # Run lifecycle
//
// A run owns everything between "weft run" and its exit code:
//
//  1. A run ID is assigned and attached to every log line.
//  2. The pipeline resolves the playbook (parse, variables, includes,
//     validation). A stage failure ends the run immediately.
//  3. Steps are extracted from the resolved document. Entries without a
//     prompt are skipped; a prompt of the wrong type is a structural error.
//  4. Each step is sent to its resolved provider in sequence. The first
//     provider failure aborts the run; later steps never execute.
//  5. The outcome, success or failure, is recorded to the runlog with
//     token totals, timings, and document/output hashes.
//
// # Step resolution
//
// Steps inherit workspace defaults for anything they do not set themselves.
// The provider falls back from the step to run.provider; the model from the
// step to run.model to the provider's configured model; the token limit from
// the step to run.max_tokens.
//
// # Basic Usage
//
//	pipe := pipeline.New(nil)
//	run := runner.New(pipe, registry, &runner.Config{
//		DefaultProvider: "anthropic",
//		MaxTokens:       1024,
//	}).WithRecorder(rec)
//
//	result, err := run.Run(ctx, "deploy.yaml", env)
//	if err != nil {
//		return err
//	}
//	for _, step := range result.Steps {
//		fmt.Println(step.Output)
//	}
//
// # Thread Safety
//
// Runner holds no per-run state; concurrent Run calls are safe as long as
// the wired registry and recorder are, which they are.
package runner
