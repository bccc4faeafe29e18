package main

import (
	"testing"
)

func resetVarsFlags(t *testing.T) {
	t.Helper()
	orig := varsFlags
	varsFlags.format = "text"
	t.Cleanup(func() { varsFlags = orig })
}

func TestRunVarsList(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "workspace.vars.yaml", "region: us-east-1\nuser:\n  name: Ada\n")

	testWorkspaceConfig(t, root)
	resetVarsFlags(t)

	if err := runVars(nil, nil); err != nil {
		t.Errorf("runVars() failed: %v", err)
	}
}

func TestRunVarsListEmptyWorkspace(t *testing.T) {
	root := t.TempDir()

	testWorkspaceConfig(t, root)
	resetVarsFlags(t)

	if err := runVars(nil, nil); err != nil {
		t.Errorf("runVars() with no variables file failed: %v", err)
	}
}

func TestRunVarsExpression(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "workspace.vars.yaml", "user:\n  name: Ada\nservers:\n  - host: alpha\n")

	testWorkspaceConfig(t, root)
	resetVarsFlags(t)

	if err := runVars(nil, []string{"user.name"}); err != nil {
		t.Errorf("runVars(user.name) failed: %v", err)
	}
	if err := runVars(nil, []string{"servers[0].host"}); err != nil {
		t.Errorf("runVars(servers[0].host) failed: %v", err)
	}
}

func TestRunVarsUndefinedExpression(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "workspace.vars.yaml", "region: us-east-1\n")

	testWorkspaceConfig(t, root)
	resetVarsFlags(t)

	if err := runVars(nil, []string{"user.name"}); err == nil {
		t.Error("runVars() with undefined expression should return error")
	}
}

func TestRunVarsJSONFormat(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "workspace.vars.yaml", "region: us-east-1\n")

	testWorkspaceConfig(t, root)
	resetVarsFlags(t)
	varsFlags.format = "json"

	if err := runVars(nil, nil); err != nil {
		t.Errorf("runVars() with JSON format failed: %v", err)
	}
}
