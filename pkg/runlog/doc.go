// Package runlog provides durable run history for playbook executions. Every
// run is stored as an immutable record so past executions can be listed,
// inspected, and compared after the fact.
//
// # Architecture
//
// The run history system consists of three layers:
//
//  1. Recorder - Enqueues run records without blocking the runner
//  2. Storage Backend - Persists records (SQLite, in-memory for tests)
//  3. Retention - Prunes old records on a schedule
//
// # Run Records
//
// Each record captures:
//   - Playbook identity (path, SHA-256 of the resolved document)
//   - Provider and model the steps were sent to
//   - Step counts and include counts
//   - Actual token usage and summed provider latency
//   - Outcome (status, failing stage, error kind, error message)
//   - Timestamps (start, end, recorded)
//
// # Recording Flow
//
// Records are written asynchronously so a slow disk never delays the CLI:
//
//	Runner completes (or aborts) a run
//	     ↓
//	Recorder.Record (non-blocking enqueue)
//	     ↓
//	Background worker
//	     ↓
//	Storage backend (SQLite, WAL mode)
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path: ".weft/runlog.db",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	rec := recorder.NewRecorder(store, nil)
//	defer rec.Close()
//
//	rec.Record(ctx, &runlog.Record{
//	    RunID:    runID,
//	    Playbook: "deploy.playbook.yaml",
//	    Provider: "anthropic",
//	    Model:    "claude-sonnet-4-5",
//	    Status:   runlog.StatusSuccess,
//	})
//
// # Querying History
//
//	query := &runlog.Query{
//	    Playbook: "deploy.playbook.yaml",
//	    Status:   runlog.StatusError,
//	    Limit:    20,
//	}
//	records, err := store.Query(ctx, query)
//
// # Retention
//
// Old records can be pruned automatically:
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 90,
//	    PruneSchedule: "0 3 * * *",
//	})
//	pruner.Start(ctx)
//	defer pruner.Stop()
//
// # Thread Safety
//
// All runlog types are safe for concurrent use. The recorder serializes
// writes through a single background goroutine; storage backends guard their
// state internally.
package runlog
