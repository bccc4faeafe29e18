package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weftworks/weft/pkg/cli"
	"weftworks/weft/pkg/config"
	"weftworks/weft/pkg/runlog"
	"weftworks/weft/pkg/runlog/retention"
	"weftworks/weft/pkg/runlog/storage"
)

var runsFlags struct {
	runID     string
	playbook  string
	provider  string
	model     string
	status    string
	timeRange string
	limit     int
	offset    int
	format    string
	output    string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded playbook runs",
	Long: `List runs recorded to the workspace run history.

Runs are shown newest first. Filters narrow the listing; --limit and
--offset page through large histories.

Examples:
  # Most recent runs
  weft runs

  # Failed runs for one playbook
  weft runs --playbook deploy.yaml --status error

  # Runs within a time window
  weft runs --time-range "2026-08-01T00:00:00Z/2026-08-25T00:00:00Z"

  # Export as CSV
  weft runs --format csv --output runs.csv`,
	RunE: listRuns,
}

var runsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete run records past the retention policy",
	Long: `Delete run records that fall outside the retention policy in
weft.yaml: older than the retention window, or beyond the record cap.`,
	RunE: pruneRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsFlags.runID, "run-id", "", "filter by run ID")
	runsCmd.Flags().StringVar(&runsFlags.playbook, "playbook", "", "filter by playbook path")
	runsCmd.Flags().StringVar(&runsFlags.provider, "provider", "", "filter by provider")
	runsCmd.Flags().StringVar(&runsFlags.model, "model", "", "filter by model")
	runsCmd.Flags().StringVar(&runsFlags.status, "status", "", "filter by status (success, error)")
	runsCmd.Flags().StringVar(&runsFlags.timeRange, "time-range", "", "time range as start/end in RFC3339")
	runsCmd.Flags().IntVar(&runsFlags.limit, "limit", 100, "maximum records to return")
	runsCmd.Flags().IntVar(&runsFlags.offset, "offset", 0, "records to skip")
	runsCmd.Flags().StringVar(&runsFlags.format, "format", "text", "output format (text, json, csv)")
	runsCmd.Flags().StringVar(&runsFlags.output, "output", "", "write output to a file instead of stdout")

	runsCmd.AddCommand(runsPruneCmd)
	rootCmd.AddCommand(runsCmd)
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := initRuntime()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cfg.Workspace.Root)
	if err != nil {
		return cli.NewCommandError("runs", err)
	}
	store, err := openRunStorage(cfg, root)
	if err != nil {
		return cli.NewCommandError("runs", err)
	}
	defer store.Close()

	query, err := buildRunsQuery()
	if err != nil {
		return cli.NewCommandError("runs", err)
	}

	ctx := cli.SetupSignalHandler()
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("runs", err)
	}
	total, err := store.Count(ctx, query)
	if err != nil {
		return cli.NewCommandError("runs", err)
	}

	out := io.Writer(os.Stdout)
	if runsFlags.output != "" {
		f, err := os.Create(runsFlags.output)
		if err != nil {
			return cli.NewCommandError("runs", err)
		}
		defer f.Close()
		out = f
	}

	switch runsFlags.format {
	case "json":
		err = writeRunsJSON(out, records, total)
	case "csv":
		err = writeRunsCSV(out, records)
	default:
		writeRunsText(out, records, total)
	}
	if err != nil {
		return cli.NewCommandError("runs", err)
	}

	if runsFlags.output != "" {
		fmt.Printf("Wrote %d record(s) to %s\n", len(records), runsFlags.output)
	}
	return nil
}

func pruneRuns(cmd *cobra.Command, args []string) error {
	cfg, err := initRuntime()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cfg.Workspace.Root)
	if err != nil {
		return cli.NewCommandError("runs", err)
	}
	store, err := openRunStorage(cfg, root)
	if err != nil {
		return cli.NewCommandError("runs", err)
	}
	defer store.Close()

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: cfg.Runlog.Retention.Days,
		MaxRecords:    cfg.Runlog.Retention.MaxRecords,
	})

	ctx := cli.SetupSignalHandler()
	pruned, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("runs", err)
	}
	fmt.Printf("Pruned %d record(s)\n", pruned)
	return nil
}

// openRunStorage opens the SQLite run history configured in weft.yaml.
// Relative database paths resolve against the workspace root, and the
// parent directory is created on first use.
func openRunStorage(cfg *config.Config, root string) (runlog.Storage, error) {
	dbPath := cfg.Runlog.SQLite.Path
	if dbPath == "" {
		dbPath = storage.DefaultSQLiteConfig().Path
	}
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating runlog directory: %w", err)
	}

	return storage.NewSQLiteStorage(&storage.SQLiteConfig{
		Path:         dbPath,
		MaxOpenConns: cfg.Runlog.SQLite.MaxOpenConns,
		WALMode:      cfg.Runlog.SQLite.WALMode,
		BusyTimeout:  cfg.Runlog.SQLite.BusyTimeout,
	})
}

func buildRunsQuery() (*runlog.Query, error) {
	query := &runlog.Query{
		RunID:     runsFlags.runID,
		Playbook:  runsFlags.playbook,
		Provider:  runsFlags.provider,
		Model:     runsFlags.model,
		Status:    runsFlags.status,
		Limit:     runsFlags.limit,
		Offset:    runsFlags.offset,
		SortBy:    "start_time",
		SortOrder: "desc",
	}

	if runsFlags.timeRange != "" {
		parts := strings.Split(runsFlags.timeRange, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid time range %q, expected start/end in RFC3339", runsFlags.timeRange)
		}
		start, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
		end, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
		query.StartTime = &start
		query.EndTime = &end
	}

	return query, nil
}

func writeRunsText(w io.Writer, records []*runlog.Record, total int64) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "Found %d run(s):\n\n", total)
	for _, r := range records {
		mark := "✓"
		if r.Status != runlog.StatusSuccess {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s  %s\n", mark, r.StartTime.Format(time.RFC3339), r.Playbook)
		fmt.Fprintf(w, "  run %s  %s/%s  %d/%d step(s)  %d token(s)  %s\n",
			shortID(r.RunID), r.Provider, r.Model,
			r.StepsCompleted, r.Steps, r.TotalTokens,
			r.ProviderLatency.Round(time.Millisecond))
		if r.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", r.Error)
		}
	}

	if int64(len(records)) < total {
		fmt.Fprintf(w, "\nShowing %d of %d record(s). Use --limit and --offset to page.\n",
			len(records), total)
	}
}

func writeRunsJSON(w io.Writer, records []*runlog.Record, total int64) error {
	out := struct {
		Total   int64            `json:"total"`
		Records []*runlog.Record `json:"records"`
	}{Total: total, Records: records}
	return (&cli.JSONFormatter{Indent: true}).FormatTo(w, out)
}

func writeRunsCSV(w io.Writer, records []*runlog.Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.RunID,
			r.StartTime.Format(time.RFC3339),
			r.Playbook,
			r.Provider,
			r.Model,
			strconv.Itoa(r.StepsCompleted),
			strconv.Itoa(r.Steps),
			strconv.Itoa(r.TotalTokens),
			strconv.FormatInt(r.ProviderLatency.Milliseconds(), 10),
			r.Status,
			r.Error,
		})
	}

	formatter := &cli.CSVFormatter{Headers: []string{
		"run_id", "start_time", "playbook", "provider", "model",
		"steps_completed", "steps", "total_tokens", "provider_latency_ms",
		"status", "error",
	}}
	return formatter.FormatTo(w, rows)
}
