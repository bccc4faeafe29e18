package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"weftworks/weft/pkg/playbook/include"
)

// DocWatcher watches the workspace tree for playbook document changes and
// reports each changed file. Variables files are excluded; those belong to
// the EnvWatcher. Changes debounce per path, so saving several documents at
// once reports each of them exactly once.
type DocWatcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	config  *DocWatcherConfig

	// State
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	debounceMu sync.Mutex
	debouncers map[string]*Debouncer
}

// DocWatcherConfig contains configuration for the document watcher.
type DocWatcherConfig struct {
	// Root is the workspace directory to watch, including subdirectories.
	Root string

	// DebounceInterval is the quiet period after the last event on a path
	// before that path is reported (default: 100ms)
	DebounceInterval time.Duration

	// SkipHidden controls whether hidden files and directories are ignored
	SkipHidden bool
}

// DefaultDocWatcherConfig returns the default watcher configuration.
func DefaultDocWatcherConfig(root string) *DocWatcherConfig {
	return &DocWatcherConfig{
		Root:             root,
		DebounceInterval: 100 * time.Millisecond,
		SkipHidden:       true,
	}
}

// NewDocWatcher creates a new document watcher.
func NewDocWatcher(config *DocWatcherConfig, logger *slog.Logger) (*DocWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &DocWatcher{
		watcher:    watcher,
		logger:     logger.With("component", "doc-watcher"),
		config:     config,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		debouncers: make(map[string]*Debouncer),
	}, nil
}

// Watch starts watching for document changes and invokes onChange with each
// changed path after its debounce window closes. This is a blocking
// operation that runs until the context is cancelled or Stop is called.
func (dw *DocWatcher) Watch(ctx context.Context, onChange func(path string)) error {
	dw.mu.Lock()
	if dw.running {
		dw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	dw.running = true
	dw.mu.Unlock()

	defer func() {
		dw.mu.Lock()
		dw.running = false
		dw.mu.Unlock()
		close(dw.doneCh)
	}()

	if err := dw.addTree(dw.config.Root); err != nil {
		return fmt.Errorf("failed to watch workspace tree: %w", err)
	}

	dw.logger.Info("Document watcher started",
		"root", dw.config.Root,
		"debounce_ms", dw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			dw.logger.Info("Document watcher stopped (context cancelled)")
			return nil

		case <-dw.stopCh:
			dw.logger.Info("Document watcher stopped")
			return nil

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// A directory created under the root needs watching too,
			// or documents added to it go unseen.
			if event.Op&fsnotify.Create != 0 && dw.isWatchableDir(event.Name) {
				if err := dw.addTree(event.Name); err != nil {
					dw.logger.Error("Failed to watch new directory",
						"path", event.Name,
						"error", err,
					)
				}
				continue
			}

			if !dw.shouldProcessEvent(event) {
				continue
			}

			dw.logger.Debug("Document event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			path := event.Name
			dw.debounceFor(path).Trigger(func() {
				onChange(path)
			})

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}

			dw.logger.Error("Document watcher error", "error", err)
			// Continue watching despite errors
		}
	}
}

// Stop stops the document watcher.
func (dw *DocWatcher) Stop() error {
	dw.mu.Lock()
	if !dw.running {
		dw.mu.Unlock()
		return nil
	}
	dw.mu.Unlock()

	close(dw.stopCh)
	<-dw.doneCh

	dw.debounceMu.Lock()
	for _, d := range dw.debouncers {
		d.Stop()
	}
	dw.debounceMu.Unlock()

	if err := dw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addTree watches a directory and all its subdirectories.
func (dw *DocWatcher) addTree(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if dw.config.SkipHidden && path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := dw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		dw.logger.Debug("Watching directory", "path", path)
		return nil
	})
}

// shouldProcessEvent keeps only events on playbook documents: markup files
// that are not variables files and not hidden.
func (dw *DocWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if dw.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if IsVarsFile(event.Name) {
		return false
	}
	return include.IsMarkupFile(event.Name)
}

// isWatchableDir reports whether the path is a directory worth watching.
func (dw *DocWatcher) isWatchableDir(path string) bool {
	if dw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// debounceFor returns the per-path debouncer, creating it on first use.
func (dw *DocWatcher) debounceFor(path string) *Debouncer {
	dw.debounceMu.Lock()
	defer dw.debounceMu.Unlock()

	d, ok := dw.debouncers[path]
	if !ok {
		d = NewDebouncer(dw.config.DebounceInterval)
		dw.debouncers[path] = d
	}
	return d
}
