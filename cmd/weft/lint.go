package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"weftworks/weft/pkg/cli"
	"weftworks/weft/pkg/config"
	"weftworks/weft/pkg/diagnostics"
	"weftworks/weft/pkg/playbook/include"
	"weftworks/weft/pkg/playbook/pipeline"
	"weftworks/weft/pkg/workspace"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate playbook files",
	Long: `Validate playbook files against the document pipeline.

Each file runs through every pipeline stage: YAML parsing, placeholder
interpolation from the workspace variables file, include splicing, and
structural validation. Findings are reported per file with the stage that
rejected the document.

Examples:
  # Lint every playbook under the workspace root
  weft lint

  # Lint a single file
  weft lint --file deploy.yaml

  # Lint a directory tree
  weft lint --dir flows/

  # Machine-readable output
  weft lint --format json`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "single playbook file to lint")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory to lint recursively (default: workspace root)")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format (text, json)")
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := initRuntime()
	if err != nil {
		return err
	}

	ws, err := workspace.Open(cfg.Workspace.Root, slog.Default())
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	files, err := collectPlaybooks(ws.Root(), cfg)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	if len(files) == 0 {
		fmt.Println("No playbook files found.")
		return nil
	}

	pipe := pipeline.New(slog.Default()).WithMaxIncludeSize(cfg.Workspace.MaxIncludeSize)
	env := ws.Env()

	reports := make([]diagnostics.Report, 0, len(files))
	for _, file := range files {
		reports = append(reports, diagnostics.NewReport(file, pipe.RunFile(file, env)))
	}

	switch lintFlags.format {
	case "json":
		if err := (&cli.JSONFormatter{Indent: true}).FormatTo(os.Stdout, reports); err != nil {
			return cli.NewCommandError("lint", err)
		}
	default:
		printReports(reports)
	}

	for _, report := range reports {
		if !report.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

// collectPlaybooks resolves the lint flags to a file list: a single file,
// or a recursive walk of the requested directory.
func collectPlaybooks(root string, cfg *config.Config) ([]string, error) {
	if lintFlags.file != "" {
		if _, err := os.Stat(lintFlags.file); err != nil {
			return nil, err
		}
		return []string{lintFlags.file}, nil
	}

	dir := lintFlags.dir
	if dir == "" {
		dir = root
	}
	return listPlaybooks(dir, libraryDir(root, cfg))
}

// listPlaybooks walks dir for playbook files. Hidden directories, variables
// files, and the library checkout (skipDir, empty to disable) are excluded:
// library modules are include targets, not standalone playbooks, and lint
// under top-level rules would misread their static content.
func listPlaybooks(dir, skipDir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if path != dir && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			if skipDir != "" && path == skipDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") || workspace.IsVarsFile(path) || !include.IsMarkupFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// libraryDir returns the absolute library checkout path, empty when the
// library is disabled.
func libraryDir(root string, cfg *config.Config) string {
	if !cfg.Library.Enabled {
		return ""
	}
	dir := cfg.Library.Dir
	if dir == "" {
		dir = "modules"
	}
	return filepath.Join(root, dir)
}

func printReports(reports []diagnostics.Report) {
	failed := 0
	warnings := 0
	for _, report := range reports {
		if report.Valid {
			fmt.Printf("✓ %s\n", report.File)
		} else {
			failed++
			fmt.Printf("✗ %s\n", report.File)
		}
		for _, d := range report.Diagnostics {
			if d.Severity == diagnostics.SeverityWarning {
				warnings++
			}
			fmt.Printf("  %s\n", d)
		}
	}

	fmt.Println()
	fmt.Printf("Summary: %d file(s) checked, %d failed, %d warning(s)\n",
		len(reports), failed, warnings)
}
