package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDocWatcher_EventFilter(t *testing.T) {
	dw, err := NewDocWatcher(DefaultDocWatcherConfig(t.TempDir()), nil)
	if err != nil {
		t.Fatalf("NewDocWatcher() failed: %v", err)
	}
	defer dw.watcher.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "playbook write",
			event: fsnotify.Event{Name: "/ws/deploy.yaml", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "yml extension",
			event: fsnotify.Event{Name: "/ws/flows/review.yml", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "removal counts",
			event: fsnotify.Event{Name: "/ws/deploy.yaml", Op: fsnotify.Remove},
			want:  true,
		},
		{
			name:  "chmod ignored",
			event: fsnotify.Event{Name: "/ws/deploy.yaml", Op: fsnotify.Chmod},
			want:  false,
		},
		{
			name:  "variables file belongs to the env watcher",
			event: fsnotify.Event{Name: "/ws/team.vars.yaml", Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "non-markup ignored",
			event: fsnotify.Event{Name: "/ws/notes.txt", Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "hidden file ignored",
			event: fsnotify.Event{Name: "/ws/.draft.yaml", Op: fsnotify.Write},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dw.shouldProcessEvent(tt.event); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestDocWatcher_ReportsChangedDocuments(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "flows"), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}

	config := DefaultDocWatcherConfig(root)
	config.DebounceInterval = 20 * time.Millisecond

	dw, err := NewDocWatcher(config, nil)
	if err != nil {
		t.Fatalf("NewDocWatcher() failed: %v", err)
	}

	ch := make(chan string, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- dw.Watch(ctx, func(path string) {
			ch <- path
		})
	}()

	// Give the watcher a moment to register the tree.
	time.Sleep(100 * time.Millisecond)

	rootDoc := filepath.Join(root, "deploy.yaml")
	nestedDoc := filepath.Join(root, "flows", "review.yml")
	if err := os.WriteFile(rootDoc, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.WriteFile(nestedDoc, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	seen := make(map[string]bool)
	timeout := time.After(5 * time.Second)
	for len(seen) < 2 {
		select {
		case path := <-ch:
			seen[path] = true
		case <-timeout:
			t.Fatalf("watcher reported %v, want both %s and %s", seen, rootDoc, nestedDoc)
		}
	}

	if !seen[rootDoc] || !seen[nestedDoc] {
		t.Errorf("watcher reported %v, want both %s and %s", seen, rootDoc, nestedDoc)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch() returned error: %v", err)
	}
}

func TestDocWatcher_WatchesCreatedDirectories(t *testing.T) {
	root := t.TempDir()

	config := DefaultDocWatcherConfig(root)
	config.DebounceInterval = 20 * time.Millisecond

	dw, err := NewDocWatcher(config, nil)
	if err != nil {
		t.Fatalf("NewDocWatcher() failed: %v", err)
	}

	ch := make(chan string, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- dw.Watch(ctx, func(path string) {
			ch <- path
		})
	}()

	time.Sleep(100 * time.Millisecond)

	// A directory created after the watcher started must still be covered.
	newDir := filepath.Join(root, "prompts")
	if err := os.MkdirAll(newDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	doc := filepath.Join(newDir, "greet.yaml")
	if err := os.WriteFile(doc, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	select {
	case path := <-ch:
		if path != doc {
			t.Errorf("watcher reported %q, want %q", path, doc)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report a document in a newly created directory")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch() returned error: %v", err)
	}
}
