package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"weftworks/weft/pkg/cli"
	"weftworks/weft/pkg/playbook/vars"
	"weftworks/weft/pkg/workspace"
)

var varsFlags struct {
	format string
}

var varsCmd = &cobra.Command{
	Use:   "vars [expression]",
	Short: "Show workspace variables or resolve an expression",
	Long: `Show the variables loaded from the workspace variables file.

Without arguments, every top-level variable is listed. With a path
expression argument, the expression is resolved against the environment
exactly as a ${...} placeholder would be.

Examples:
  # List all workspace variables
  weft vars

  # Resolve a single expression
  weft vars deploy.region
  weft vars 'servers[0].host'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVars,
}

func init() {
	varsCmd.Flags().StringVar(&varsFlags.format, "format", "text", "output format (text, json)")
	rootCmd.AddCommand(varsCmd)
}

func runVars(cmd *cobra.Command, args []string) error {
	cfg, err := initRuntime()
	if err != nil {
		return err
	}

	ws, err := workspace.Open(cfg.Workspace.Root, slog.Default())
	if err != nil {
		return cli.NewCommandError("vars", err)
	}
	env := ws.Env()

	if len(args) == 1 {
		value, ok := env.Lookup(args[0])
		if !ok {
			return cli.NewCommandError("vars", fmt.Errorf("undefined variable expression %q", args[0]))
		}
		if varsFlags.format == "json" {
			return (&cli.JSONFormatter{Indent: true}).FormatTo(os.Stdout, value)
		}
		fmt.Println(vars.Stringify(value))
		return nil
	}

	if varsFlags.format == "json" {
		return (&cli.JSONFormatter{Indent: true}).FormatTo(os.Stdout, env)
	}

	if ws.VarsFile() == "" {
		fmt.Println("No variables file in workspace.")
	} else {
		fmt.Printf("Variables file: %s\n", ws.VarsFile())
	}
	if err := ws.LastError(); err != nil {
		fmt.Printf("Last load failed, environment is empty: %v\n", err)
	}

	names := env.Names()
	for _, name := range names {
		fmt.Printf("  %s = %s\n", name, vars.Stringify(env[name]))
	}
	if len(names) == 0 {
		fmt.Println("  (no variables defined)")
	}
	return nil
}
