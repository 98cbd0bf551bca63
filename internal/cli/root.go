package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the sheetshot CLI and returns an error if any command fails.
// This is a convenience entry point for embedding the CLI; the shipped
// binary builds the command tree itself to wire signal handling.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute() error {
	var verbose bool

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
	}

	return root.Execute()
}
