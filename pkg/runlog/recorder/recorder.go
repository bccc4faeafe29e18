package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"weftworks/weft/pkg/runlog"
)

// Config contains configuration for the run recorder.
type Config struct {
	// Enabled enables run recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 64
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// MaxErrorLength is the maximum length for stored error messages
	// before truncation.
	// Default: 500
	MaxErrorLength int
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		AsyncBuffer:    64,
		WriteTimeout:   5 * time.Second,
		MaxErrorLength: 500,
	}
}

// Recorder records run history for playbook executions. Records are written
// asynchronously so the runner never blocks on storage.
type Recorder struct {
	storage    runlog.Storage
	config     *Config
	recordChan chan *runlog.Record
	wg         sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger
}

// NewRecorder creates a new run recorder with the provided storage backend
// and configuration.
func NewRecorder(storage runlog.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *runlog.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "runlog.recorder"),
	}

	// Start background worker to drain channel
	r.wg.Add(1)
	go r.worker()

	r.logger.Debug("run recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues a run record for async writing to storage. The record's ID
// and RecordedTime are assigned here; the error message is truncated to
// MaxErrorLength.
//
// This method returns immediately and does not block on storage writes.
func (r *Recorder) Record(ctx context.Context, record *runlog.Record) error {
	if !r.config.Enabled {
		return nil
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.RecordedTime = time.Now()
	record.Error = TruncateString(record.Error, r.config.MaxErrorLength)

	select {
	case r.recordChan <- record:
		r.logger.Debug("run record enqueued for writing",
			"record_id", record.ID,
			"run_id", record.RunID,
			"playbook", record.Playbook,
		)
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("run record channel full, dropping record",
			"record_id", record.ID,
			"run_id", record.RunID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return runlog.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
			"run_id", record.RunID,
		)
		return runlog.NewRecorderError(record.ID, context.Canceled)
	}

	return nil
}

// Close gracefully shuts down the recorder by draining the async channel and
// waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	// Signal shutdown
	close(r.done)

	// Wait for worker to finish draining channel
	r.wg.Wait()

	r.logger.Debug("run recorder shut down")
	return nil
}

// worker is the background goroutine that drains the record channel and
// writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records from channel before exit
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					// Channel is empty, we can exit
					return
				}
			}
		}
	}
}

// writeRecord writes a single run record to storage.
func (r *Recorder) writeRecord(record *runlog.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	err := r.storage.Store(ctx, record)
	if err != nil {
		r.logger.Error("failed to store run record",
			"record_id", record.ID,
			"run_id", record.RunID,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("run recorded",
		"record_id", record.ID,
		"run_id", record.RunID,
		"playbook", record.Playbook,
		"status", record.Status,
		"duration_ms", duration.Milliseconds(),
	)

	// Warn if write was slow
	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow run record write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

// TruncateString shortens s to at most max characters, appending "..." when
// truncation occurred. A max of zero or less disables truncation.
func TruncateString(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
