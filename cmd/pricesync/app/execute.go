package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/prontoxi/pricesync/pkg/logging"
)

// Execute runs the pricesync CLI with the given arguments and
// subcommands. Main constructs the subcommands so this package never
// imports them.
func (a *App) Execute(ctx context.Context, args []string, cmds ...*cobra.Command) error {
	rootCmd := a.createRootCommand(cmds...)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all
// subcommands.
func (a *App) createRootCommand(cmds ...*cobra.Command) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pricesync",
		Short:   "Pronto catalog and pricing reconciliation",
		Version: a.version,
		Long: `Pricesync joins the Pronto ERP's fragmented catalog and pricing
exports into a single resolved view, diffs it against the last
committed baseline, and writes the reports and import files the
business runs on.

Imports are read from the configured import directory, reports are
written to the output directory, and the baseline snapshot only moves
forward when every export succeeds.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.pricesync.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("pricesync {{.Version}}\n")

	rootCmd.AddCommand(cmds...)

	return rootCmd
}

// setupCommand is called before any command runs: it layers parsed
// flag values over the loaded config and reinitializes the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// ExitOnError prints an error and exits with status 1. Meant for
// top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag
// doesn't exist. Only for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag
// doesn't exist. Only for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
