/*
Package cli provides command-line interface utilities for Weft.

The cli package includes output formatters, typed command errors, and signal
helpers used by the weft command.

Output Formatting:

Commands that list data support multiple output formats (text, JSON, CSV):

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

The CSV formatter consumes tabular data as [][]string rows with optional
headers, which is what table-shaped listings (run history) produce.

Signal Handling:

Long-running commands use the signal helpers for graceful shutdown:

	ctx := cli.SetupSignalHandler()
	// ctx is cancelled on SIGINT/SIGTERM

	sigChan := cli.WaitForShutdown()
	<-sigChan // blocks until a shutdown signal arrives

Error Types:

CommandError wraps failures with the command name for consistent top-level
reporting; ConfigError marks configuration problems distinctly so they read
as "fix your weft.yaml" rather than as runtime failures.
*/
package cli
