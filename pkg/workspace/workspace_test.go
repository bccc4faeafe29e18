package workspace

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestOpenWithoutVarsFile(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if got := len(w.Env()); got != 0 {
		t.Errorf("Env() has %d variables, want 0", got)
	}
	if w.VarsFile() != "" {
		t.Errorf("VarsFile() = %q, want empty", w.VarsFile())
	}
	if w.LastError() != nil {
		t.Errorf("LastError() = %v, want nil", w.LastError())
	}
}

func TestOpenLoadsVarsFile(t *testing.T) {
	tmpDir := t.TempDir()
	varsPath := filepath.Join(tmpDir, "project.vars.yaml")
	content := "name: World\nuser:\n  email: iris@example.com\nitems:\n  - a\n  - b\n"
	if err := os.WriteFile(varsPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	env := w.Env()
	if env["name"] != "World" {
		t.Errorf("env[name] = %v, want World", env["name"])
	}
	user, ok := env["user"].(map[string]any)
	if !ok || user["email"] != "iris@example.com" {
		t.Errorf("env[user] = %v, want nested mapping", env["user"])
	}
	if w.VarsFile() != varsPath {
		t.Errorf("VarsFile() = %q, want %q", w.VarsFile(), varsPath)
	}
	if w.LastLoad().IsZero() {
		t.Error("LastLoad() is zero after a successful load")
	}
}

func TestOpenRejectsNonDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(file, nil); err == nil {
		t.Error("Open(file) should fail")
	}
	if _, err := Open(filepath.Join(tmpDir, "missing"), nil); err == nil {
		t.Error("Open(missing) should fail")
	}
}

func TestReloadReplacesWholesale(t *testing.T) {
	tmpDir := t.TempDir()
	varsPath := filepath.Join(tmpDir, "w.vars.yaml")
	if err := os.WriteFile(varsPath, []byte("a: 1\nb: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// Rewrite with a disjoint key set; the old keys must vanish
	if err := os.WriteFile(varsPath, []byte("c: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := w.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	want := map[string]any{"c": 3}
	if !reflect.DeepEqual(map[string]any(w.Env()), want) {
		t.Errorf("Env() = %v, want %v (no partial merge)", w.Env(), want)
	}
}

func TestFailedReloadResetsToEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	varsPath := filepath.Join(tmpDir, "w.vars.yaml")
	if err := os.WriteFile(varsPath, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(w.Env()) != 1 {
		t.Fatalf("Env() has %d variables, want 1", len(w.Env()))
	}

	// Corrupt the file: the environment must reset, not keep stale values
	if err := os.WriteFile(varsPath, []byte("a: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := w.Reload(); err == nil {
		t.Fatal("Reload() on corrupt file should fail")
	}
	if got := len(w.Env()); got != 0 {
		t.Errorf("Env() has %d variables after failed reload, want 0", got)
	}
	if w.LastError() == nil {
		t.Error("LastError() = nil after failed reload")
	}

	// Fix the file: the environment comes back
	if err := os.WriteFile(varsPath, []byte("a: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := w.Reload(); err != nil {
		t.Fatalf("Reload() after fix error = %v", err)
	}
	if w.Env()["a"] != 2 {
		t.Errorf("env[a] = %v, want 2", w.Env()["a"])
	}
	if w.LastError() != nil {
		t.Errorf("LastError() = %v after recovery, want nil", w.LastError())
	}
}

func TestNonMappingVarsFileFailsReload(t *testing.T) {
	tmpDir := t.TempDir()
	varsPath := filepath.Join(tmpDir, "w.vars.yaml")
	if err := os.WriteFile(varsPath, []byte("- just\n- a\n- list\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if w.LastError() == nil {
		t.Error("LastError() = nil, want structural failure")
	}
	if len(w.Env()) != 0 {
		t.Errorf("Env() has %d variables, want 0", len(w.Env()))
	}
}

func TestOnReloadHook(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	var calls int
	var lastErr error
	w.OnReload(func(err error) {
		calls++
		lastErr = err
	})

	if err := w.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("hook called %d times, want 1", calls)
	}
	if lastErr != nil {
		t.Errorf("hook error = %v, want nil", lastErr)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	varsPath := filepath.Join(tmpDir, "w.vars.yaml")
	if err := os.WriteFile(varsPath, []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	reloaded := make(chan error, 10)
	w.OnReload(func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx)
	}()

	// Wait for watcher to start
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(varsPath, []byte("x: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-reloaded:
		if err != nil {
			t.Fatalf("reload error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reload not triggered after file modification")
	}

	if w.Env()["x"] != 2 {
		t.Errorf("env[x] = %v, want 2", w.Env()["x"])
	}
}

func TestWatchIgnoresUnrelatedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := Open(tmpDir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	reloaded := make(chan error, 10)
	w.OnReload(func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Watch(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	// A playbook write is not a variables change
	if err := os.WriteFile(filepath.Join(tmpDir, "play.yaml"), []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
		t.Error("reload triggered by an unrelated file")
	case <-time.After(300 * time.Millisecond):
		// Expected: no reload
	}
}
