// Package export implements the export subcommand: write the reports
// without moving the baseline.
package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prontoxi/pricesync"
	"github.com/prontoxi/pricesync/cmd/pricesync/app"
)

// New creates the export command.
func New(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write reports and exports without committing the baseline",
		Long: `Export runs the full pipeline and writes every configured report and
export file, but leaves the baseline snapshot untouched. The same
changes will be reported again on the next run; useful for regenerating
outputs or previewing a cycle's files.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			result, err := engine.Run(cmd.Context(), pricesync.WithoutCommit())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Changeset.Summary.String())
			for _, path := range result.WrittenFiles {
				fmt.Fprintf(out, "wrote %s\n", path)
			}
			fmt.Fprintln(out, "baseline unchanged")
			return nil
		},
	}
}
