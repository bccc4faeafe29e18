package runlog

import (
	"context"
	"time"
)

// Run status values stored in Record.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record is the durable history entry for a single playbook run. It captures
// what was executed (playbook path, document hash), where it was sent
// (provider, model), what it cost (token usage, latency), and how it ended
// (status, stage, error). Records are immutable once stored.
type Record struct {
	// Identity
	ID    string `json:"id"`     // UUID v4, assigned by the recorder
	RunID string `json:"run_id"` // Correlates with runner log lines

	// Timestamps
	StartTime    time.Time `json:"start_time"`    // When the run began
	EndTime      time.Time `json:"end_time"`      // When the run finished
	RecordedTime time.Time `json:"recorded_time"` // When the record was written

	// Playbook
	Playbook     string `json:"playbook"`      // Playbook file path
	DocumentHash string `json:"document_hash"` // SHA-256 of the resolved document
	Includes     int    `json:"includes"`      // Include directives spliced

	// Provider
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Steps
	Steps          int `json:"steps"`           // Steps in the playbook
	StepsCompleted int `json:"steps_completed"` // Steps that received a completion

	// Actual usage, summed over steps
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Provider info
	ProviderLatency time.Duration `json:"provider_latency"` // Summed round-trip time
	FinishReason    string        `json:"finish_reason"`    // Last step's finish reason
	OutputHash      string        `json:"output_hash"`      // SHA-256 of concatenated step outputs

	// Outcome
	Status    string `json:"status"`     // "success" or "error"
	Stage     string `json:"stage"`      // Pipeline stage, set for document failures
	ErrorKind string `json:"error_kind"` // Document error kind or provider error type
	Error     string `json:"error"`      // Error message if the run failed
}

// Query defines filter parameters for querying run records.
type Query struct {
	// Time range, applied to StartTime
	StartTime *time.Time `json:"start_time,omitempty"` // Inclusive start time
	EndTime   *time.Time `json:"end_time,omitempty"`   // Inclusive end time

	// Filters
	RunID    string `json:"run_id,omitempty"`   // Filter by run ID
	Playbook string `json:"playbook,omitempty"` // Filter by playbook path
	Provider string `json:"provider,omitempty"` // Filter by provider
	Model    string `json:"model,omitempty"`    // Filter by model

	// Thresholds
	MinTokens *int `json:"min_tokens,omitempty"` // Minimum total tokens
	MaxTokens *int `json:"max_tokens,omitempty"` // Maximum total tokens

	// Outcome
	Status string `json:"status,omitempty"` // "success", "error"
	Stage  string `json:"stage,omitempty"`  // Pipeline stage of failed runs

	// Pagination
	Limit  int `json:"limit,omitempty"`  // Max records to return
	Offset int `json:"offset,omitempty"` // Skip N records

	// Sorting
	SortBy    string `json:"sort_by,omitempty"`    // "start_time", "total_tokens", "provider_latency"
	SortOrder string `json:"sort_order,omitempty"` // "asc", "desc"
}

// Storage defines the interface for run history backends.
// Implementations must be thread-safe and support concurrent access.
type Storage interface {
	// Store persists a run record.
	// Returns an error if the record cannot be written.
	Store(ctx context.Context, record *Record) error

	// Query retrieves run records matching the query filters.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of run records matching the query filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes run records matching the query filters.
	// Returns the number of records deleted.
	// Used for retention policy enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the storage backend.
	Close() error
}
