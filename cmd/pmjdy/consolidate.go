package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pmjdystats/pmjdy/internal/cache"
	"github.com/pmjdystats/pmjdy/internal/dataset"
)

// NewConsolidateCmd creates the consolidate command.
func NewConsolidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Rebuild data.csv from the per-date CSV files",
		Long: `Consolidate merges every <data-dir>/csv/*.csv file into <data-dir>/data.csv
without contacting the archive. Columns are the union of all files in the
order they first appear; missing values are left blank.

Examples:
  pmjdy consolidate
  pmjdy consolidate --data-dir /srv/pmjdy`,
		Args: cobra.NoArgs,
		RunE: runConsolidateCmd,
	}
	addConfigFlags(cmd)
	return cmd
}

func runConsolidateCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	lock, err := cache.AcquireLock(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Error("failed to release lock", "error", err)
		}
	}()

	c := dataset.NewConsolidator(cfg.CSVDir(), cfg.MasterPath(), dataset.WithLogger(logger))
	path, err := c.Consolidate(cmd.Context())
	if errors.Is(err, dataset.ErrNoInputs) {
		return fmt.Errorf("%w (run a harvest first)", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Master data: %s\n", path)
	return nil
}
