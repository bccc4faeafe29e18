// Package workspace ties a root directory to its variable environment:
// discovery of the *.vars.yaml file, wholesale reloads on change, and an
// atomically replaced environment shared by concurrent pipeline runs.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"weftworks/weft/pkg/playbook/vars"
)

// Workspace is the unit of variable scoping: one root directory, one
// variables file, one environment.
type Workspace struct {
	root   string
	store  *Store
	logger *slog.Logger

	mu       sync.Mutex // serializes reloads
	varsFile string     // discovered variables file, empty when absent
	lastErr  error
	lastLoad time.Time
	onReload func(error)
}

// Open binds a workspace to a root directory and performs the initial
// variables load. A missing variables file yields an empty environment; a
// broken one logs the failure and leaves the environment empty, so Open
// itself only fails when the root is not a usable directory.
func Open(root string, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %q is not a directory", absRoot)
	}

	w := &Workspace{
		root:   absRoot,
		store:  NewStore(),
		logger: logger.With("component", "workspace"),
	}

	if err := w.Reload(); err != nil {
		w.logger.Warn("Workspace opened with a broken variables file",
			"root", absRoot,
			"error", err,
		)
	}
	return w, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Env returns the current variable environment snapshot.
func (w *Workspace) Env() vars.Environment {
	return w.store.Snapshot()
}

// VarsFile returns the path of the discovered variables file, empty when
// the workspace has none.
func (w *Workspace) VarsFile() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.varsFile
}

// LastError returns the error from the most recent reload, nil when it
// succeeded.
func (w *Workspace) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// LastLoad returns when the environment was last successfully loaded.
func (w *Workspace) LastLoad() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastLoad
}

// OnReload registers a hook invoked after every reload with its outcome.
// The hook must not call back into Reload.
func (w *Workspace) OnReload(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// Reload rediscovers the variables file and replaces the environment
// wholesale. A failed load resets the environment to empty rather than
// keeping a stale or partial one.
func (w *Workspace) Reload() error {
	w.mu.Lock()
	err := w.reloadLocked()
	fn := w.onReload
	w.mu.Unlock()

	if fn != nil {
		fn(err)
	}
	return err
}

func (w *Workspace) reloadLocked() error {
	path, err := DiscoverVarsFile(w.root)
	if err != nil {
		w.store.Reset()
		w.lastErr = err
		w.logger.Error("Variables discovery failed", "root", w.root, "error", err)
		return err
	}
	w.varsFile = path

	if path == "" {
		w.store.Replace(nil)
		w.lastErr = nil
		w.lastLoad = time.Now()
		w.logger.Debug("No variables file in workspace", "root", w.root)
		return nil
	}

	env, err := LoadEnvFile(path)
	if err != nil {
		w.store.Reset()
		w.lastErr = err
		w.logger.Error("Variables reload failed, environment reset",
			"path", path,
			"error", err,
		)
		return err
	}

	w.store.Replace(env)
	w.lastErr = nil
	w.lastLoad = time.Now()
	w.logger.Info("Variables loaded",
		"path", path,
		"variables", len(env),
	)
	return nil
}

// Watch blocks watching the workspace root for variables-file changes,
// reloading on each. It returns when the context is cancelled or the
// underlying watcher fails.
func (w *Workspace) Watch(ctx context.Context) error {
	watcher, err := NewEnvWatcher(DefaultEnvWatcherConfig(w.root), w.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	return watcher.Watch(ctx, func() error {
		return w.Reload()
	})
}
