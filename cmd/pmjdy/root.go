package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmjdystats/pmjdy/internal/log"
)

// NewRootCmd creates the root command. Run without a subcommand, it
// performs a harvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pmjdy",
		Short: "Harvest weekly PMJDY statistics from the public archive",
		Long: `pmjdy walks the PMJDY archive backward one week at a time, from the most
recent report down to the cutoff date, and stores each week's statistics.

Every page is cached under <data-dir>/html, so an interrupted harvest resumes
without downloading pages again. Each week's records are written to
<data-dir>/csv/<date>.csv and finally merged into <data-dir>/data.csv.

Examples:
  # Harvest into ./data
  pmjdy

  # Harvest only the last year, with progress logs
  pmjdy -v --cutoff 2024-01-01

  # Use a different data directory and configuration file
  pmjdy --data-dir /srv/pmjdy -c pmjdy.yaml`,
		Args:          cobra.NoArgs,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runHarvestCmd,
	}

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	addHarvestFlags(cmd)

	cmd.AddCommand(NewConsolidateCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag reads a flag from the command, falling back to the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger builds the process logger from -d, -v and --log-json.
// Logs go to stderr so that report output on stdout stays clean.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	level := log.LevelFromFlags(getBoolFlag(cmd, "debug"), getBoolFlag(cmd, "verbose"))
	if getBoolFlag(cmd, "log-json") {
		return log.NewJSONLogger(cmd.ErrOrStderr(), level)
	}
	return log.NewLogger(cmd.ErrOrStderr(), level)
}
