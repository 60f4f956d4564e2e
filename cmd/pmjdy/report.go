package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmjdystats/pmjdy/internal/ledger"
	"github.com/pmjdystats/pmjdy/internal/model"
	"github.com/pmjdystats/pmjdy/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize harvested archive dates",
		Long: `Report reads the harvest ledger and shows how many archive dates were
extracted or skipped, and whether they came from the cache or the network.

Examples:
  # Plain text summary
  pmjdy report

  # Markdown document with a per-date table
  pmjdy report -f markdown -o harvest.md

  # JSON for scripts
  pmjdy report -f json`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}
	addConfigFlags(cmd)
	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Output format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to a file instead of stdout (creates directories if needed)")
	cmd.Flags().Bool("all", false,
		"List every date in the text report")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	ldg, err := ledger.Open(cfg.LedgerDir(), ledger.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no harvest ledger in %s (run a harvest first): %w", cfg.DataDir, err)
	}
	defer ldg.Close()

	outcomes, err := ldg.List(cmd.Context(), "")
	if err != nil {
		return err
	}
	harvest := model.NewHarvestReport(cfg.DataDir, outcomes, time.Now())

	var output io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	if report.Format(format) == report.FormatText {
		w = report.NewSimpleWriter(output, report.WithVerbose(all))
	} else if w, err = report.NewWriter(report.Format(format), output); err != nil {
		return err
	}
	_, err = w.Write(harvest)
	return err
}
