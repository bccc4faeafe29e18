package recorder

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"weftworks/weft/pkg/runlog"
	"weftworks/weft/pkg/runlog/storage"
)

// TestRecorder_Record tests that a record flows through the async channel
// into storage.
func TestRecorder_Record(t *testing.T) {
	store := storage.NewMemoryStorage()
	config := DefaultConfig()
	config.AsyncBuffer = 10
	config.WriteTimeout = 1 * time.Second

	rec := NewRecorder(store, config)
	defer rec.Close()

	ctx := context.Background()
	now := time.Now()

	record := &runlog.Record{
		RunID:            "run-123",
		StartTime:        now,
		EndTime:          now.Add(2 * time.Second),
		Playbook:         "deploy.playbook.yaml",
		DocumentHash:     HashString("steps: []"),
		Includes:         2,
		Provider:         "anthropic",
		Model:            "claude-sonnet-4-5",
		Steps:            3,
		StepsCompleted:   3,
		PromptTokens:     50,
		CompletionTokens: 20,
		TotalTokens:      70,
		ProviderLatency:  400 * time.Millisecond,
		FinishReason:     "stop",
		Status:           runlog.StatusSuccess,
	}

	if err := rec.Record(ctx, record); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	// Wait for async write to complete
	time.Sleep(100 * time.Millisecond)

	results, err := store.Query(ctx, &runlog.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 stored record, got %d", len(results))
	}

	got := results[0]
	if got.ID == "" {
		t.Error("Expected record ID to be assigned")
	}
	if got.RecordedTime.IsZero() {
		t.Error("Expected RecordedTime to be stamped")
	}
	if got.RunID != "run-123" {
		t.Errorf("Expected RunID 'run-123', got '%s'", got.RunID)
	}
	if got.Playbook != "deploy.playbook.yaml" {
		t.Errorf("Expected Playbook 'deploy.playbook.yaml', got '%s'", got.Playbook)
	}
	if got.TotalTokens != 70 {
		t.Errorf("Expected TotalTokens 70, got %d", got.TotalTokens)
	}
	if got.Status != runlog.StatusSuccess {
		t.Errorf("Expected Status '%s', got '%s'", runlog.StatusSuccess, got.Status)
	}
}

// TestRecorder_AssignsUniqueIDs tests that each record gets its own UUID.
func TestRecorder_AssignsUniqueIDs(t *testing.T) {
	store := storage.NewMemoryStorage()
	rec := NewRecorder(store, nil)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = rec.Record(ctx, &runlog.Record{
			RunID:    fmt.Sprintf("run-%d", i),
			Playbook: "a.playbook.yaml",
			Status:   runlog.StatusSuccess,
		})
	}
	rec.Close()

	results, err := store.Query(ctx, &runlog.Query{})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("Expected 5 stored records, got %d", len(results))
	}

	seen := make(map[string]bool)
	for _, r := range results {
		if len(r.ID) != 36 || strings.Count(r.ID, "-") != 4 {
			t.Errorf("Record ID %q is not a UUID", r.ID)
		}
		if seen[r.ID] {
			t.Errorf("Duplicate record ID %q", r.ID)
		}
		seen[r.ID] = true
	}
}

// TestRecorder_TruncatesError tests that long error messages are truncated.
func TestRecorder_TruncatesError(t *testing.T) {
	store := storage.NewMemoryStorage()
	config := DefaultConfig()
	config.MaxErrorLength = 20

	rec := NewRecorder(store, config)

	ctx := context.Background()
	_ = rec.Record(ctx, &runlog.Record{
		RunID:    "run-err",
		Playbook: "a.playbook.yaml",
		Status:   runlog.StatusError,
		Error:    strings.Repeat("x", 100),
	})
	rec.Close()

	results, _ := store.Query(ctx, &runlog.Query{})
	if len(results) != 1 {
		t.Fatalf("Expected 1 stored record, got %d", len(results))
	}
	if len(results[0].Error) != 20 {
		t.Errorf("Expected error truncated to 20 chars, got %d", len(results[0].Error))
	}
	if !strings.HasSuffix(results[0].Error, "...") {
		t.Errorf("Expected truncated error to end with ellipsis, got %q", results[0].Error)
	}
}

// TestRecorder_GracefulShutdown tests that Close drains the channel.
func TestRecorder_GracefulShutdown(t *testing.T) {
	store := storage.NewMemoryStorage()
	config := DefaultConfig()
	config.AsyncBuffer = 100

	rec := NewRecorder(store, config)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_ = rec.Record(ctx, &runlog.Record{
			RunID:    fmt.Sprintf("run-%d", i),
			Playbook: "a.playbook.yaml",
			Status:   runlog.StatusSuccess,
		})
	}

	// Close immediately (should drain channel)
	rec.Close()

	count, _ := store.Count(ctx, &runlog.Query{})
	if count != 10 {
		t.Errorf("Expected 10 stored records after graceful shutdown, got %d", count)
	}
}

// TestRecorder_Disabled tests that recording can be disabled.
func TestRecorder_Disabled(t *testing.T) {
	store := storage.NewMemoryStorage()
	config := DefaultConfig()
	config.Enabled = false

	rec := NewRecorder(store, config)
	defer rec.Close()

	ctx := context.Background()
	if err := rec.Record(ctx, &runlog.Record{RunID: "run-1"}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	count, _ := store.Count(ctx, &runlog.Query{})
	if count != 0 {
		t.Errorf("Expected 0 stored records when disabled, got %d", count)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			max:      10,
			expected: "",
		},
		{
			name:     "short string",
			input:    "hello",
			max:      10,
			expected: "hello",
		},
		{
			name:     "exact length",
			input:    "helloworld",
			max:      10,
			expected: "helloworld",
		},
		{
			name:     "needs truncation",
			input:    "hello world this is a long string",
			max:      20,
			expected: "hello world this ...",
		},
		{
			name:     "very short max",
			input:    "hello",
			max:      3,
			expected: "hel",
		},
		{
			name:     "zero max disables truncation",
			input:    "hello",
			max:      0,
			expected: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateString(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("TruncateString() = %v, want %v", result, tt.expected)
			}
		})
	}
}
