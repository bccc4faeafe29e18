package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"weftworks/weft/pkg/cli"
	"weftworks/weft/pkg/diagnostics"
	"weftworks/weft/pkg/playbook/node"
	"weftworks/weft/pkg/playbook/pipeline"
	"weftworks/weft/pkg/workspace"
)

var renderFlags struct {
	output string
}

var renderCmd = &cobra.Command{
	Use:   "render <playbook>",
	Short: "Resolve a playbook and print the result",
	Long: `Resolve a playbook through the document pipeline and print the
fully resolved YAML document: placeholders interpolated, includes spliced.

The document goes to stdout so it can be piped; diagnostics go to stderr.

Examples:
  # Print the resolved document
  weft render deploy.yaml

  # Write it to a file
  weft render deploy.yaml --output deploy.resolved.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.output, "output", "o", "", "write the rendered document to a file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := initRuntime()
	if err != nil {
		return err
	}

	ws, err := workspace.Open(cfg.Workspace.Root, slog.Default())
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	pipe := pipeline.New(slog.Default()).WithMaxIncludeSize(cfg.Workspace.MaxIncludeSize)

	res := pipe.RunFile(args[0], ws.Env())
	if !res.OK() {
		for _, d := range diagnostics.FromResult(args[0], res) {
			fmt.Fprintf(os.Stderr, "%s\n", d)
		}
		return cli.NewCommandError("render", fmt.Errorf("%s failed at the %s stage", args[0], res.Stage))
	}

	data, err := node.Marshal(res.Doc)
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	if renderFlags.output != "" {
		if err := os.WriteFile(renderFlags.output, data, 0o644); err != nil {
			return cli.NewCommandError("render", err)
		}
		fmt.Fprintf(os.Stderr, "Rendered document written to %s\n", renderFlags.output)
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}
