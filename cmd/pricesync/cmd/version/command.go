// Package version implements the version subcommand.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prontoxi/pricesync/cmd/pricesync/app"
)

// New creates the version command.
func New(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pricesync %s\n", a.Version())
			fmt.Fprintf(out, "  commit: %s\n", a.Commit())
			fmt.Fprintf(out, "  built:  %s\n", a.Date())
		},
	}
}
