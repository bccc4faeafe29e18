// Package retention prunes old run records so the run history database does
// not grow without bound.
//
// # Retention Policy
//
// Two policies can be active at once:
//
//   - Age-based: delete records older than RetentionDays (0 keeps forever)
//   - Count-based: keep at most MaxRecords, deleting oldest first (0 is unlimited)
//
// # Basic Usage
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 90,
//	    PruneSchedule: "0 3 * * *", // Daily at 3 AM
//	})
//
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
//
// One-shot pruning (weft runs prune) skips the scheduler:
//
//	deleted, err := pruner.Prune(ctx)
//
// # Archiving
//
// With ArchiveBeforeDelete set, pruned records are first written to a JSON
// file under ArchivePath, named runs-2006-01-02.json for age-based passes and
// runs-count-2006-01-02-150405.json for count-based passes.
//
// # Scheduling
//
// The scheduler accepts standard five-field cron expressions and stops
// gracefully: Stop waits for a running prune to finish, and a cancelled
// context stops the scheduler in the background. An empty PruneSchedule
// disables scheduling entirely.
package retention
