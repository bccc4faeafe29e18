package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EnvWatcher watches a workspace root for variables-file changes and
// triggers reloads. It debounces bursts so editors that write through
// temp-file renames cause a single reload.
type EnvWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *EnvWatcherConfig
	debounce *Debouncer

	// State
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// EnvWatcherConfig contains configuration for the environment watcher.
type EnvWatcherConfig struct {
	// Root is the workspace directory to watch (non-recursive; the
	// variables file lives at the root by convention)
	Root string

	// DebounceInterval is the time to wait before triggering a reload
	// after detecting file changes (default: 100ms)
	DebounceInterval time.Duration
}

// DefaultEnvWatcherConfig returns the default watcher configuration.
func DefaultEnvWatcherConfig(root string) *EnvWatcherConfig {
	return &EnvWatcherConfig{
		Root:             root,
		DebounceInterval: 100 * time.Millisecond,
	}
}

// NewEnvWatcher creates a new environment watcher.
func NewEnvWatcher(config *EnvWatcherConfig, logger *slog.Logger) (*EnvWatcher, error) {
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

	return &EnvWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "env-watcher"),
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch starts watching for variables-file changes and invokes onReload
// after each debounced burst. This is a blocking operation that runs until
// the context is cancelled or Stop is called.
func (ew *EnvWatcher) Watch(ctx context.Context, onReload func() error) error {
	ew.mu.Lock()
	if ew.running {
		ew.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	ew.running = true
	ew.mu.Unlock()

	defer func() {
		ew.mu.Lock()
		ew.running = false
		ew.mu.Unlock()
		close(ew.doneCh)
	}()

	if err := ew.watcher.Add(ew.config.Root); err != nil {
		return fmt.Errorf("failed to watch workspace root: %w", err)
	}

	ew.logger.Info("Environment watcher started",
		"root", ew.config.Root,
		"debounce_ms", ew.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			ew.logger.Info("Environment watcher stopped (context cancelled)")
			return nil

		case <-ew.stopCh:
			ew.logger.Info("Environment watcher stopped")
			return nil

		case event, ok := <-ew.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !ew.shouldProcessEvent(event) {
				continue
			}

			ew.logger.Debug("Variables file event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			ew.debounce.Trigger(func() {
				ew.logger.Info("Reloading variables",
					"path", event.Name,
					"op", event.Op.String(),
				)

				if err := onReload(); err != nil {
					ew.logger.Error("Variables reload failed",
						"error", err,
					)
				}
			})

		case err, ok := <-ew.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}

			ew.logger.Error("Environment watcher error", "error", err)
			// Continue watching despite errors
		}
	}
}

// Stop stops the environment watcher.
func (ew *EnvWatcher) Stop() error {
	ew.mu.Lock()
	if !ew.running {
		ew.mu.Unlock()
		return nil
	}
	ew.mu.Unlock()

	close(ew.stopCh)
	<-ew.doneCh

	ew.debounce.Stop()

	if err := ew.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// shouldProcessEvent keeps only events that can change the environment:
// writes, creates, removes, and renames of variables files. Deleting the
// file matters as much as editing it, since absence means an empty
// environment.
func (ew *EnvWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return IsVarsFile(event.Name)
}

// Debouncer collapses rapid event bursts and triggers the callback only
// after a quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger arms the debouncer with a new event.
// The callback runs after the debounce interval if no new events occur.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
