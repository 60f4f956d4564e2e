package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pmjdystats/pmjdy/internal/archive"
	"github.com/pmjdystats/pmjdy/internal/cache"
	"github.com/pmjdystats/pmjdy/internal/config"
	"github.com/pmjdystats/pmjdy/internal/dataset"
	"github.com/pmjdystats/pmjdy/internal/ledger"
	"github.com/pmjdystats/pmjdy/internal/model"
	"github.com/pmjdystats/pmjdy/internal/walker"
)

// addHarvestFlags registers the flags of the harvest run.
func addHarvestFlags(cmd *cobra.Command) {
	addConfigFlags(cmd)

	cmd.Flags().String("url", config.DefaultArchiveURL,
		"Archive page URL")
	cmd.Flags().String("cutoff", config.DefaultCutoff,
		"Earliest report date to fetch (YYYY-MM-DD)")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each HTTP request (0 disables it)")
	cmd.Flags().Bool("strict-end-date", false,
		"Fail when the landing page has no end date instead of starting from today")
	cmd.Flags().Bool("no-consolidate", false,
		"Skip rebuilding data.csv after the walk")
}

// runHarvestCmd executes a harvest.
func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go cancelOnSignal(ctx, sigCh, cancel, func() { signal.Stop(sigCh) })

	err = runHarvest(ctx, cfg, logger, cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		// An interrupted harvest is not a failure: everything fetched so
		// far is cached and the next run picks up from there.
		logger.Warn("program interrupted")
		return nil
	}
	return err
}

// cancelOnSignal cancels the run on the first signal and then calls stop,
// so a second signal gets the default handling and kills the process even
// while a request is stuck.
func cancelOnSignal(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc, stop func()) {
	select {
	case <-sigCh:
		stop()
		cancel()
	case <-ctx.Done():
	}
}

// runHarvest walks the archive and consolidates the result.
func runHarvest(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	lock, err := cache.AcquireLock(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Error("failed to release lock", "error", err)
		}
	}()

	ldg, err := ledger.Open(cfg.LedgerDir(), ledger.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer ldg.Close()

	client, err := archive.NewClient(cfg.ArchiveURL,
		archive.WithUserAgent(cfg.UserAgent),
		archive.WithTimeout(cfg.Timeout),
		archive.WithDateField(cfg.DateField),
		archive.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	w, err := walker.New(cfg, client,
		walker.WithLogger(logger),
		walker.WithRecorder(ldg),
	)
	if err != nil {
		return err
	}

	logger.Info("starting harvest",
		"url", client.URL(),
		"data_dir", cfg.DataDir,
		"cutoff", model.ISODate(cfg.Cutoff),
		"config", cfg.ConfigFilePath)

	summary, err := w.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(out, summary)

	if totals, err := ldg.Totals(ctx); err == nil {
		logger.Info("ledger totals",
			"dates", totals.Pages,
			"extracted", totals.Extracted,
			"malformed", totals.Malformed,
			"records", totals.Records)
	}

	if !cfg.Consolidate {
		return nil
	}
	path, err := consolidate(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(out, "Master data: %s\n", path)
	}
	return nil
}

// consolidate rebuilds data.csv. It returns an empty path when there is
// nothing to merge yet.
func consolidate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (string, error) {
	c := dataset.NewConsolidator(cfg.CSVDir(), cfg.MasterPath(), dataset.WithLogger(logger))
	path, err := c.Consolidate(ctx)
	if errors.Is(err, dataset.ErrNoInputs) {
		logger.Warn("no per-date files yet, master data not written", "dir", cfg.CSVDir())
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to consolidate: %w", err)
	}
	return path, nil
}

func printSummary(out io.Writer, s walker.Summary) {
	if s.Dates == 0 {
		fmt.Fprintf(out, "No archive dates between %s and %s\n",
			model.ISODate(s.Anchor), model.ISODate(s.Cutoff))
		return
	}
	fmt.Fprintf(out, "Processed %d dates from %s back to %s\n",
		s.Dates, model.ISODate(s.Anchor), model.ISODate(s.Cutoff))
	fmt.Fprintf(out, "  extracted: %d (%d records)\n", s.Extracted, s.Records)
	fmt.Fprintf(out, "  skipped:   %d\n", s.Malformed)
	fmt.Fprintf(out, "  cached:    %d, fetched: %d\n", s.FromCache, s.FromNetwork)
	if !s.EndDateDetected {
		fmt.Fprintln(out, "  note: archive end date not found, started from today")
	}
}
