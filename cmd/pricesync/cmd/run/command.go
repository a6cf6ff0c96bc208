// Package run implements the run subcommand: one full reconciliation
// cycle.
package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prontoxi/pricesync"
	"github.com/prontoxi/pricesync/cmd/pricesync/app"
)

// New creates the run command.
func New(a *app.App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation cycle",
		Long: `Run ingests the import files, resolves prices under the configured
ignore policy, diffs the result against the committed baseline, writes
every configured report and export, and commits the new baseline.

With --dry-run the changeset is computed and summarized but nothing is
written and the baseline stays where it was.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.Engine()
			if err != nil {
				return err
			}

			var opts []pricesync.RunOption
			if dryRun {
				opts = append(opts, pricesync.WithDryRun())
			}

			result, err := engine.Run(cmd.Context(), opts...)
			if err != nil {
				return err
			}

			printResult(cmd, a, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the changeset without writing or committing")

	return cmd
}

func printResult(cmd *cobra.Command, a *app.App, result *pricesync.RunResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, result.Changeset.Summary.String())
	if len(result.Unpriced) > 0 {
		fmt.Fprintf(out, "%d items unpriced after ignore policy\n", len(result.Unpriced))
	}
	if len(result.Orphans) > 0 {
		fmt.Fprintf(out, "%d orphaned references (see logs)\n", len(result.Orphans))
		for _, o := range result.Orphans {
			a.Logger().Warn().
				Str("source", o.Kind.String()).
				Str("key", o.Key).
				Str("item_code", o.ItemCode).
				Msg("Orphaned reference")
		}
	}
	for _, path := range result.WrittenFiles {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	if result.DryRun {
		fmt.Fprintln(out, "dry run: nothing written, baseline unchanged")
	} else if result.Committed {
		fmt.Fprintln(out, "baseline committed")
	}
}
