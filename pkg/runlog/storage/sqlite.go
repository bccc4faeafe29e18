package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"weftworks/weft/pkg/runlog"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         ".weft/runlog.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	// Apply defaults for unset pool settings
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 10
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = 5
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "runlog.storage.sqlite")

	// Open database connection. Pragmas ride the DSN so every pooled
	// connection picks them up, not just the first.
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", config.Path, config.BusyTimeout.Milliseconds())
	if config.WALMode {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, runlog.NewStorageError("sqlite", "open", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	// Initialize database
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("SQLite run storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize creates the schema and verifies its version.
func (s *SQLiteStorage) initialize() error {
	// Create schema
	_, err := s.db.Exec(Schema)
	if err != nil {
		return runlog.NewStorageError("sqlite", "create_schema", err)
	}

	// Insert schema version
	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return runlog.NewStorageError("sqlite", "insert_schema_version", err)
	}

	// Verify schema version
	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return runlog.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return runlog.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists a run record to the database.
func (s *SQLiteStorage) Store(ctx context.Context, record *runlog.Record) error {
	query := `
		INSERT INTO runs (
			id, run_id,
			start_time, end_time, recorded_time,
			playbook, document_hash, includes,
			provider, model,
			steps, steps_completed,
			prompt_tokens, completion_tokens, total_tokens,
			provider_latency, finish_reason, output_hash,
			status, stage, error_kind, error
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	// Convert empty strings to NULL for optional outcome fields
	var stageVal, errorKindVal, errorVal interface{}
	if record.Stage != "" {
		stageVal = record.Stage
	}
	if record.ErrorKind != "" {
		errorKindVal = record.ErrorKind
	}
	if record.Error != "" {
		errorVal = record.Error
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.RunID,
		record.StartTime, record.EndTime, record.RecordedTime,
		record.Playbook, record.DocumentHash, record.Includes,
		record.Provider, record.Model,
		record.Steps, record.StepsCompleted,
		record.PromptTokens, record.CompletionTokens, record.TotalTokens,
		record.ProviderLatency.Milliseconds(), record.FinishReason, record.OutputHash,
		record.Status, stageVal, errorKindVal, errorVal,
	)

	if err != nil {
		return runlog.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves run records matching the query filters.
func (s *SQLiteStorage) Query(ctx context.Context, query *runlog.Query) ([]*runlog.Record, error) {
	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "SELECT * FROM runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	// Add sorting
	sortBy := "start_time"
	sortOrder := "DESC"
	if query.SortBy != "" {
		sortBy = query.SortBy
	}
	if query.SortOrder != "" {
		sortOrder = query.SortOrder
	}
	sqlQuery += fmt.Sprintf(" ORDER BY %s %s", sortBy, sortOrder)

	// Add pagination
	limit := 100
	if query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)

	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, runlog.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*runlog.Record{}
	for rows.Next() {
		record, err := s.scanRow(rows)
		if err != nil {
			return nil, runlog.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, runlog.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of run records matching the query filters.
func (s *SQLiteStorage) Count(ctx context.Context, query *runlog.Query) (int64, error) {
	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count)
	if err != nil {
		return 0, runlog.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes run records matching the query filters.
// Returns the number of records deleted.
func (s *SQLiteStorage) Delete(ctx context.Context, query *runlog.Query) (int64, error) {
	whereClause, args := s.buildWhereClause(query)

	sqlQuery := "DELETE FROM runs"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, runlog.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, runlog.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return runlog.NewStorageError("sqlite", "close", err)
	}

	s.logger.Debug("SQLite run storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func (s *SQLiteStorage) buildWhereClause(query *runlog.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	// Time range filter
	if query.StartTime != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, *query.StartTime)
	}
	if query.EndTime != nil {
		conditions = append(conditions, "start_time <= ?")
		args = append(args, *query.EndTime)
	}

	// Identity filters
	if query.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, query.RunID)
	}
	if query.Playbook != "" {
		conditions = append(conditions, "playbook = ?")
		args = append(args, query.Playbook)
	}

	// Provider/model filter
	if query.Provider != "" {
		conditions = append(conditions, "provider = ?")
		args = append(args, query.Provider)
	}
	if query.Model != "" {
		conditions = append(conditions, "model = ?")
		args = append(args, query.Model)
	}

	// Token thresholds
	if query.MinTokens != nil {
		conditions = append(conditions, "total_tokens >= ?")
		args = append(args, *query.MinTokens)
	}
	if query.MaxTokens != nil {
		conditions = append(conditions, "total_tokens <= ?")
		args = append(args, *query.MaxTokens)
	}

	// Outcome filters
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, query.Status)
	}
	if query.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, query.Stage)
	}

	// Join conditions with AND
	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}

	return whereClause, args
}

// scanRow scans a database row into a Record.
func (s *SQLiteStorage) scanRow(row *sql.Rows) (*runlog.Record, error) {
	var record runlog.Record
	var providerLatencyMs int64
	var stageVal, errorKindVal, errorVal sql.NullString

	err := row.Scan(
		&record.ID, &record.RunID,
		&record.StartTime, &record.EndTime, &record.RecordedTime,
		&record.Playbook, &record.DocumentHash, &record.Includes,
		&record.Provider, &record.Model,
		&record.Steps, &record.StepsCompleted,
		&record.PromptTokens, &record.CompletionTokens, &record.TotalTokens,
		&providerLatencyMs, &record.FinishReason, &record.OutputHash,
		&record.Status, &stageVal, &errorKindVal, &errorVal,
	)
	if err != nil {
		return nil, err
	}

	// Convert NULL strings back to empty strings
	if stageVal.Valid {
		record.Stage = stageVal.String
	}
	if errorKindVal.Valid {
		record.ErrorKind = errorKindVal.String
	}
	if errorVal.Valid {
		record.Error = errorVal.String
	}

	// Convert provider latency from milliseconds
	record.ProviderLatency = time.Duration(providerLatencyMs) * time.Millisecond

	return &record, nil
}
