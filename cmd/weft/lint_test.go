package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"weftworks/weft/pkg/config"
)

func writeWorkspaceFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

// testWorkspaceConfig installs a default config rooted at root as the
// global singleton for the duration of the test.
func testWorkspaceConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Workspace.Root = root
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(nil) })
	return cfg
}

func resetLintFlags(t *testing.T) {
	t.Helper()
	orig := lintFlags
	lintFlags.file = ""
	lintFlags.dir = ""
	lintFlags.format = "text"
	t.Cleanup(func() { lintFlags = orig })
}

func TestListPlaybooks(t *testing.T) {
	root := t.TempDir()

	wantA := writeWorkspaceFile(t, root, "deploy.yaml", "name: deploy\n")
	wantB := writeWorkspaceFile(t, root, "flows/review.yml", "name: review\n")
	writeWorkspaceFile(t, root, "modules/greeting.yaml", "prompt: hello\n")
	writeWorkspaceFile(t, root, ".hidden/skipped.yaml", "name: skipped\n")
	writeWorkspaceFile(t, root, "workspace.vars.yaml", "region: us-east-1\n")
	writeWorkspaceFile(t, root, "notes.txt", "not a playbook\n")

	files, err := listPlaybooks(root, filepath.Join(root, "modules"))
	if err != nil {
		t.Fatalf("listPlaybooks() failed: %v", err)
	}

	want := []string{wantA, wantB}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("listPlaybooks() = %v, want %v", files, want)
	}
}

func TestListPlaybooksNoSkipDir(t *testing.T) {
	root := t.TempDir()

	writeWorkspaceFile(t, root, "deploy.yaml", "name: deploy\n")
	writeWorkspaceFile(t, root, "modules/greeting.yaml", "prompt: hello\n")

	files, err := listPlaybooks(root, "")
	if err != nil {
		t.Fatalf("listPlaybooks() failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("listPlaybooks() returned %d files, want 2", len(files))
	}
}

func TestLibraryDir(t *testing.T) {
	root := "/workspace"

	cfg := config.Default()
	if got := libraryDir(root, cfg); got != "" {
		t.Errorf("libraryDir() with library disabled = %q, want empty", got)
	}

	cfg.Library.Enabled = true
	if got := libraryDir(root, cfg); got != filepath.Join(root, "modules") {
		t.Errorf("libraryDir() = %q, want %q", got, filepath.Join(root, "modules"))
	}

	cfg.Library.Dir = "shared"
	if got := libraryDir(root, cfg); got != filepath.Join(root, "shared") {
		t.Errorf("libraryDir() = %q, want %q", got, filepath.Join(root, "shared"))
	}
}

func TestRunLintValidWorkspace(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "workspace.vars.yaml", "user:\n  name: Ada\n")
	writeWorkspaceFile(t, root, "greet.yaml",
		"name: greeting\nsteps:\n  - name: greet\n    prompt: Say hello to ${user.name}\n")

	testWorkspaceConfig(t, root)
	resetLintFlags(t)

	if err := runLint(nil, nil); err != nil {
		t.Errorf("runLint() with valid workspace returned error: %v", err)
	}
}

func TestRunLintUnresolvedVariable(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "greet.yaml",
		"steps:\n  - name: greet\n    prompt: Say hello to ${user.name}\n")

	testWorkspaceConfig(t, root)
	resetLintFlags(t)

	if err := runLint(nil, nil); err == nil {
		t.Error("runLint() with unresolved variable should return error")
	}
}

func TestRunLintSingleFile(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "broken.yaml", "steps: {not: a sequence}\n")
	valid := writeWorkspaceFile(t, root, "plain.yaml", "name: plain\n")

	testWorkspaceConfig(t, root)
	resetLintFlags(t)
	lintFlags.file = valid

	// Only the named file is linted, so the broken one is never seen.
	if err := runLint(nil, nil); err != nil {
		t.Errorf("runLint() with --file returned error: %v", err)
	}
}

func TestRunLintNonexistentFile(t *testing.T) {
	root := t.TempDir()

	testWorkspaceConfig(t, root)
	resetLintFlags(t)
	lintFlags.file = filepath.Join(root, "missing.yaml")

	if err := runLint(nil, nil); err == nil {
		t.Error("runLint() with nonexistent file should return error")
	}
}

func TestRunLintJSONFormat(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "plain.yaml", "name: plain\n")

	testWorkspaceConfig(t, root)
	resetLintFlags(t)
	lintFlags.format = "json"

	if err := runLint(nil, nil); err != nil {
		t.Errorf("runLint() with JSON format returned error: %v", err)
	}
}

func TestRunLintSkipsLibraryCheckout(t *testing.T) {
	root := t.TempDir()
	// The module fragment carries a placeholder that no workspace variable
	// resolves; lint must not treat it as a standalone playbook.
	writeWorkspaceFile(t, root, "modules/fragment.yaml", "prompt: ${module.only}\n")
	writeWorkspaceFile(t, root, "plain.yaml", "name: plain\n")

	cfg := testWorkspaceConfig(t, root)
	cfg.Library.Enabled = true
	resetLintFlags(t)

	if err := runLint(nil, nil); err != nil {
		t.Errorf("runLint() should skip the library checkout: %v", err)
	}
}
