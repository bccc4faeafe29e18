package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the run history schema.
const Schema = `
-- Run records table
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,

    -- Timestamps
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP,
    recorded_time TIMESTAMP NOT NULL,

    -- Playbook
    playbook TEXT NOT NULL,
    document_hash TEXT,
    includes INTEGER,

    -- Provider
    provider TEXT,
    model TEXT,

    -- Steps
    steps INTEGER,
    steps_completed INTEGER,

    -- Actual usage
    prompt_tokens INTEGER,
    completion_tokens INTEGER,
    total_tokens INTEGER,

    -- Provider info
    provider_latency INTEGER,
    finish_reason TEXT,
    output_hash TEXT,

    -- Outcome
    status TEXT NOT NULL,
    stage TEXT,
    error_kind TEXT,
    error TEXT
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_runs_start_time ON runs(start_time);
CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_playbook ON runs(playbook);
CREATE INDEX IF NOT EXISTS idx_runs_provider ON runs(provider);
CREATE INDEX IF NOT EXISTS idx_runs_model ON runs(model);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_total_tokens ON runs(total_tokens);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
