// Weft is a workspace tool for LLM prompt playbooks.
//
// It resolves YAML playbooks through a staged document pipeline, providing:
//   - Placeholder interpolation from workspace variables files
//   - Secure include splicing confined to the workspace
//   - Structural validation with editor-style diagnostics
//   - Step execution against configured LLM providers
//   - A durable run history with retention pruning
//
// Usage:
//
//	# Execute a playbook
//	weft run deploy.yaml
//
//	# Resolve and validate without calling providers
//	weft run deploy.yaml --dry-run
//
//	# Lint every playbook in the workspace
//	weft lint
//
//	# Print the fully resolved document
//	weft render deploy.yaml
//
//	# Watch the workspace and re-validate on change
//	weft watch
//
//	# List recorded runs
//	weft runs --status error --limit 20
//
//	# Show version information
//	weft version
//
// For complete documentation, see: https://github.com/weftworks/weft
package main

func main() {
	Execute()
}
