// Package playbook provides parsing, resolution, and validation for Weft
// playbooks.
//
// A playbook is a YAML document with two extensions: ${...} placeholders
// that substitute values from the workspace variables file, and include
// directives that splice static fragments from other files in the workspace.
// The package turns raw playbook text into a fully resolved, validated,
// static document that the runner and the serializer can consume.
//
// # Architecture
//
// The package is organized into subpackages:
//
// - node: the untyped document model and markup parsing
// - vars: path expressions, the variable environment, interpolation
// - include: workspace-confined include resolution
// - validate: structural checks over the resolved document
// - pipeline: staged orchestration with stage-tagged failures
// - errors: rich error types with location and suggestions
//
// # Basic Usage
//
// Resolve a playbook file against an environment:
//
//	import (
//	    "weftworks/weft/pkg/playbook"
//	    "weftworks/weft/pkg/playbook/vars"
//	)
//
//	env := vars.Environment{"model": "claude-sonnet-4"}
//	result := playbook.ProcessFile("plays/review.yaml", env)
//	if !result.OK() {
//	    log.Fatalf("%s stage failed: %s", result.Stage, result.Message())
//	}
//
//	fmt.Println("Resolved:", result.Doc)
//
// # Playbook Structure
//
// A playbook is ordinary markup plus placeholders and includes:
//
//	title: "code review"
//	steps:
//	  - name: "system"
//	    val: "You are reviewing ${project.name}"
//	  - include: shared/style-rules.yaml
//	  - name: "user"
//	    val: "Review this diff with ${reviewer.effort} effort"
//
// # Processing Stages
//
// Every document passes through four ordered stages; the first failure
// short-circuits and is tagged with its stage:
//
//  1. parsing: markup text to document graph
//  2. variable-resolution: every ${expr} substituted from the environment
//  3. include-processing: directives spliced, confined to the workspace
//  4. structural-validation: resolved graph checked against the data model
//
// Variables resolve before includes, so an include path may carry a
// placeholder. Included content itself must be static: a placeholder or a
// nested directive inside an included file is a hard failure, never a
// silent second substitution pass.
//
// # Variables
//
// The environment comes from a *.vars.yaml file at the workspace root. Its
// top-level keys become variable names; values nest arbitrarily. Path
// expressions reach into the tree with dots and brackets:
//
//	${model}
//	${project.name}
//	${reviewers[0].email}
//
// # Error Handling
//
// Failures are *errors.Error values with a kind, a location, and often a
// suggestion:
//
//	[unresolved-variable] Unresolved variable expression "mdoel"
//	  --> plays/review.yaml:1:1
//	  = suggestion: Did you mean 'model'?
//
// # Security
//
// Include targets are confined to the including document's directory tree.
// Traversal segments, absolute paths outside the workspace, and symlink
// escapes are all rejected with a security-violation error after path
// normalization, regardless of how the target string is spelled.
package playbook
