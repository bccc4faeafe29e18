package storage

import (
	"context"
	"sync"

	"weftworks/weft/pkg/runlog"
)

// MemoryStorage implements the Storage interface using an in-memory map.
// This implementation is intended for testing only and should not be used in production.
type MemoryStorage struct {
	records map[string]*runlog.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*runlog.Record),
	}
}

// Store persists a run record to memory.
func (s *MemoryStorage) Store(ctx context.Context, record *runlog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create a copy to avoid mutation
	recordCopy := *record
	s.records[record.ID] = &recordCopy

	return nil
}

// Query retrieves run records matching the query filters.
// Results are unsorted; callers that need ordering sort themselves.
func (s *MemoryStorage) Query(ctx context.Context, query *runlog.Query) ([]*runlog.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*runlog.Record

	for _, record := range s.records {
		if s.matchesQuery(record, query) {
			// Create a copy to avoid mutation
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	// Apply pagination
	start := query.Offset
	if start > len(results) {
		return []*runlog.Record{}, nil
	}

	end := start + query.Limit
	if end > len(results) {
		end = len(results)
	}

	if query.Limit > 0 {
		results = results[start:end]
	}

	return results, nil
}

// Count returns the number of run records matching the query filters.
func (s *MemoryStorage) Count(ctx context.Context, query *runlog.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64

	for _, record := range s.records {
		if s.matchesQuery(record, query) {
			count++
		}
	}

	return count, nil
}

// Delete removes run records matching the query filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *runlog.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64

	toDelete := []string{}
	for id, record := range s.records {
		if s.matchesQuery(record, query) {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(s.records, id)
		deleted++
	}

	return deleted, nil
}

// Close releases resources held by the storage backend.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*runlog.Record)
	return nil
}

// matchesQuery checks if a record matches the query filters.
func (s *MemoryStorage) matchesQuery(record *runlog.Record, query *runlog.Query) bool {
	// Time range filter
	if query.StartTime != nil && record.StartTime.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && record.StartTime.After(*query.EndTime) {
		return false
	}

	// Identity filters
	if query.RunID != "" && record.RunID != query.RunID {
		return false
	}
	if query.Playbook != "" && record.Playbook != query.Playbook {
		return false
	}

	// Provider/model filter
	if query.Provider != "" && record.Provider != query.Provider {
		return false
	}
	if query.Model != "" && record.Model != query.Model {
		return false
	}

	// Token thresholds
	if query.MinTokens != nil && record.TotalTokens < *query.MinTokens {
		return false
	}
	if query.MaxTokens != nil && record.TotalTokens > *query.MaxTokens {
		return false
	}

	// Outcome filters
	if query.Status != "" && record.Status != query.Status {
		return false
	}
	if query.Stage != "" && record.Stage != query.Stage {
		return false
	}

	return true
}

// Clear removes all records from storage (for testing).
func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*runlog.Record)
}

// GetByID retrieves a single run record by ID (for testing).
func (s *MemoryStorage) GetByID(id string) *runlog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil
	}

	// Return a copy
	recordCopy := *record
	return &recordCopy
}

// Size returns the number of records in storage (for testing).
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
