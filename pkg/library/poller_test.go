package library

import (
	"context"
	"testing"
	"time"
)

func TestPoller_StartRequiresClonedLibrary(t *testing.T) {
	lib, err := NewLibrary(t.TempDir(), testLibraryConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("NewLibrary() failed: %v", err)
	}

	poller := NewPoller(lib, time.Hour, nil)
	if err := poller.Start(context.Background()); err == nil {
		poller.Stop()
		t.Fatal("Start() on an uncloned library succeeded, want error")
	}
}

func TestPoller_StartStop(t *testing.T) {
	lib, _, _ := clonedLibrary(t)

	poller := NewPoller(lib, time.Hour, nil)
	if err := poller.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !poller.IsRunning() {
		t.Error("IsRunning() = false after Start()")
	}

	if err := poller.Start(context.Background()); err == nil {
		t.Error("second Start() succeeded, want error")
	}

	poller.Stop()
	if poller.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}

	// Stop is idempotent.
	poller.Stop()
}

func TestPoller_ForceSyncReportsModuleChanges(t *testing.T) {
	lib, source, sourceDir := clonedLibrary(t)

	var got []string
	poller := NewPoller(lib, time.Hour, func(changed []string) {
		got = changed
	})

	writeSourceFile(t, sourceDir, "incident.yaml", "steps:\n  - name: triage\n    prompt: Summarize the incident.\n")
	commitFile(t, source, "incident.yaml", "Add incident module")

	if err := poller.ForceSync(context.Background()); err != nil {
		t.Fatalf("ForceSync() failed: %v", err)
	}

	if len(got) != 1 || got[0] != "incident.yaml" {
		t.Errorf("callback received %v, want [incident.yaml]", got)
	}

	metrics := poller.Metrics()
	if metrics.Polls != 1 {
		t.Errorf("Polls = %d, want 1", metrics.Polls)
	}
	if metrics.ModuleSyncs != 1 {
		t.Errorf("ModuleSyncs = %d, want 1", metrics.ModuleSyncs)
	}
}

func TestPoller_IgnoresNonModuleChanges(t *testing.T) {
	lib, source, sourceDir := clonedLibrary(t)

	called := false
	poller := NewPoller(lib, time.Hour, func(changed []string) {
		called = true
	})

	writeSourceFile(t, sourceDir, "README.md", "# Modules\n")
	commitFile(t, source, "README.md", "Add readme")

	if err := poller.ForceSync(context.Background()); err != nil {
		t.Fatalf("ForceSync() failed: %v", err)
	}

	if called {
		t.Error("callback invoked for a commit touching no module files")
	}
	if metrics := poller.Metrics(); metrics.SkippedSyncs != 1 {
		t.Errorf("SkippedSyncs = %d, want 1", metrics.SkippedSyncs)
	}
}

func TestPoller_UpToDateSyncDoesNothing(t *testing.T) {
	lib, _, _ := clonedLibrary(t)

	called := false
	poller := NewPoller(lib, time.Hour, func(changed []string) {
		called = true
	})

	if err := poller.ForceSync(context.Background()); err != nil {
		t.Fatalf("ForceSync() failed: %v", err)
	}

	if called {
		t.Error("callback invoked without upstream changes")
	}
	metrics := poller.Metrics()
	if metrics.ModuleSyncs != 0 || metrics.SkippedSyncs != 0 {
		t.Errorf("ModuleSyncs = %d, SkippedSyncs = %d, want 0 and 0",
			metrics.ModuleSyncs, metrics.SkippedSyncs)
	}
}

func TestPoller_PollLoopDetectsChanges(t *testing.T) {
	lib, source, sourceDir := clonedLibrary(t)

	ch := make(chan []string, 1)
	poller := NewPoller(lib, 50*time.Millisecond, func(changed []string) {
		select {
		case ch <- changed:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer poller.Stop()

	writeSourceFile(t, sourceDir, "rollout.yml", "steps:\n  - name: rollout\n    prompt: Draft the rollout announcement.\n")
	commitFile(t, source, "rollout.yml", "Add rollout module")

	select {
	case changed := <-ch:
		if len(changed) != 1 || changed[0] != "rollout.yml" {
			t.Errorf("callback received %v, want [rollout.yml]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poll loop did not report the upstream commit")
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	lib, _, _ := clonedLibrary(t)

	poller := NewPoller(lib, 0, nil)
	if poller.interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", poller.interval)
	}
}
