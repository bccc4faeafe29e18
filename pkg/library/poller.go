package library

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"weftworks/weft/pkg/playbook/include"
)

// ChangeCallback receives repository-relative paths of module files that
// changed in a sync.
type ChangeCallback func(changed []string)

// PollMetrics tracks poller activity.
type PollMetrics struct {
	Polls        int64
	ModuleSyncs  int64
	SkippedSyncs int64
	LastPollTime time.Time
}

// Poller periodically pulls the library repository and notifies a callback
// when module files change. Commits that touch no markup files are pulled
// but not reported.
type Poller struct {
	library  *Library
	interval time.Duration
	onChange ChangeCallback

	stopCh  chan struct{}
	mu      sync.RWMutex
	running bool

	logger  *slog.Logger
	metrics *PollMetrics
}

// NewPoller creates a poller over a synced library. The callback runs on the
// poll goroutine; it must not block for long or polls back up.
func NewPoller(lib *Library, interval time.Duration, onChange ChangeCallback) *Poller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Poller{
		library:  lib,
		interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		logger:   slog.With("component", "library-poller"),
		metrics:  &PollMetrics{},
	}
}

// Start begins polling. The library must already be cloned.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("poller already running")
	}

	commit, err := p.library.CurrentCommit()
	if err != nil {
		return fmt.Errorf("library not synced: %w", err)
	}

	p.running = true
	p.logger.Info("starting library poller",
		"interval", p.interval,
		"commit", commit.SHA[:8],
		"branch", commit.Branch)

	go p.pollLoop(ctx)
	return nil
}

// Stop halts polling.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
	p.logger.Info("library poller stopped")
}

// IsRunning reports whether the poll loop is active.
func (p *Poller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// ForceSync runs one poll cycle immediately.
func (p *Poller) ForceSync(ctx context.Context) error {
	return p.checkOnce(ctx)
}

// Metrics returns a copy of the poll metrics.
func (p *Poller) Metrics() PollMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return *p.metrics
}

func (p *Poller) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("library poller stopping due to context cancellation")
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.checkOnce(ctx); err != nil {
				p.logger.Error("library poll failed", "error", err)
			}
		}
	}
}

// checkOnce pulls and reports changed module files, if any.
func (p *Poller) checkOnce(ctx context.Context) error {
	p.mu.Lock()
	p.metrics.Polls++
	p.metrics.LastPollTime = time.Now()
	p.mu.Unlock()

	result, err := p.library.Pull(ctx)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	if !result.HadChanges {
		return nil
	}

	changed := moduleFiles(result.ChangedFiles)
	if len(changed) == 0 {
		p.mu.Lock()
		p.metrics.SkippedSyncs++
		p.mu.Unlock()
		p.logger.Debug("library updated without module changes",
			"from", result.FromSHA[:8],
			"to", result.ToSHA[:8],
			"files", len(result.ChangedFiles))
		return nil
	}

	p.mu.Lock()
	p.metrics.ModuleSyncs++
	p.mu.Unlock()

	p.logger.Info("library modules changed",
		"from", result.FromSHA[:8],
		"to", result.ToSHA[:8],
		"modules", len(changed))

	if p.onChange != nil {
		p.onChange(changed)
	}
	return nil
}

// moduleFiles filters a change set down to markup files.
func moduleFiles(paths []string) []string {
	var out []string
	for _, path := range paths {
		if include.IsMarkupFile(path) {
			out = append(out, path)
		}
	}
	return out
}
