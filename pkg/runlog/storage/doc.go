// Package storage provides storage backends for run history records.
//
// # Storage Backends
//
// The package implements the runlog.Storage interface twice:
//
//   - SQLite: embedded database, the production backend
//   - Memory: in-memory map for tests
//
// # SQLite Backend
//
// The SQLite backend uses the pure-Go modernc.org/sqlite driver, so the weft
// binary stays cgo-free. It provides:
//
//   - WAL mode for concurrent reads during writes
//   - Busy timeout for handling locks
//   - Indexes on the fields the runs command filters by
//   - Schema version tracking for future migrations
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:        ".weft/runlog.db",
//	    WALMode:     true,
//	    BusyTimeout: 5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	records, err := store.Query(ctx, &runlog.Query{
//	    Playbook: "deploy.playbook.yaml",
//	    Limit:    20,
//	})
//
// # Thread Safety
//
// Both backends are safe for concurrent use. Store, Query, Count, and Delete
// may be called from multiple goroutines.
package storage
