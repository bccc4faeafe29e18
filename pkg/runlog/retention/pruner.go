package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"weftworks/weft/pkg/runlog"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain run records.
	// 0 means keep records forever (no pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ArchiveBeforeDelete enables archiving records before deletion.
	ArchiveBeforeDelete bool

	// ArchivePath is the directory to store archived records.
	ArchivePath string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:       90,
		PruneSchedule:       "0 3 * * *",
		ArchiveBeforeDelete: false,
		ArchivePath:         ".weft/archives/",
		MaxRecords:          0,
	}
}

// Pruner enforces retention policies on run records.
type Pruner struct {
	storage   runlog.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage runlog.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "runlog.retention"),
	}

	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes run records older than the retention period or exceeding the
// max record count.
//
// Pruning happens in two phases:
//  1. Age-based: delete records older than RetentionDays
//  2. Count-based: if total records > MaxRecords, delete oldest
//
// Both can run together. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	// Phase 1: prune by retention period
	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
	}

	// Phase 2: prune by max record count
	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
	}

	if totalDeleted > 0 {
		p.logger.Info("run history pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Debug("no run records pruned",
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	p.logger.Debug("pruning by age",
		"cutoff_time", cutoff,
		"retention_days", p.config.RetentionDays,
	)

	// Records whose run started before the cutoff
	query := &runlog.Query{
		EndTime: &cutoff,
	}

	// Archive before delete if configured
	if p.config.ArchiveBeforeDelete {
		if err := p.archiveQuery(ctx, query); err != nil {
			return 0, runlog.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.storage.Delete(ctx, query)
	if err != nil {
		return 0, runlog.NewRetentionError(p.config.RetentionDays, err)
	}

	return deleted, nil
}

// pruneByCount deletes oldest records if total count exceeds MaxRecords.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &runlog.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	if count <= p.config.MaxRecords {
		return 0, nil
	}

	p.logger.Debug("record count exceeds limit, pruning oldest",
		"current_count", count,
		"max_records", p.config.MaxRecords,
	)

	// Query everything; the backend is not required to sort, so sort here.
	allRecords, err := p.storage.Query(ctx, &runlog.Query{Limit: int(count)})
	if err != nil {
		return 0, fmt.Errorf("failed to query records: %w", err)
	}

	if len(allRecords) == 0 {
		return 0, nil
	}

	// Oldest first
	sort.Slice(allRecords, func(i, j int) bool {
		return allRecords[i].StartTime.Before(allRecords[j].StartTime)
	})

	toDelete := len(allRecords) - int(p.config.MaxRecords)
	if toDelete <= 0 {
		return 0, nil
	}
	if toDelete > len(allRecords) {
		toDelete = len(allRecords)
	}

	// Cutoff is the start time of the newest record being deleted
	cutoffTime := allRecords[toDelete-1].StartTime

	deleteQuery := &runlog.Query{
		EndTime: &cutoffTime,
	}

	if p.config.ArchiveBeforeDelete {
		if err := p.archiveRecords(allRecords[:toDelete], countArchiveName()); err != nil {
			return 0, fmt.Errorf("archive failed: %w", err)
		}
	}

	deleted, err := p.storage.Delete(ctx, deleteQuery)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	return deleted, nil
}

// archiveQuery exports the records matching the query to a JSON archive file.
func (p *Pruner) archiveQuery(ctx context.Context, query *runlog.Query) error {
	records, err := p.storage.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query records for archiving: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	return p.archiveRecords(records, ageArchiveName())
}

// archiveRecords writes run records to a JSON file under ArchivePath.
func (p *Pruner) archiveRecords(records []*runlog.Record, filename string) error {
	if len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records for archive: %w", err)
	}

	archiveFile := filepath.Join(p.config.ArchivePath, filename)
	if err := os.WriteFile(archiveFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}

	p.logger.Info("run records archived",
		"archive_file", archiveFile,
		"record_count", len(records),
	)

	return nil
}

func ageArchiveName() string {
	return fmt.Sprintf("runs-%s.json", time.Now().Format("2006-01-02"))
}

func countArchiveName() string {
	return fmt.Sprintf("runs-count-%s.json", time.Now().Format("2006-01-02-150405"))
}

// Start starts the automatic pruning scheduler.
// Call this when starting a long-lived process such as weft watch.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
