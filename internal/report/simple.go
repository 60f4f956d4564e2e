package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmjdystats/pmjdy/internal/model"
)

// SimpleWriter outputs a plain-text report for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose lists every date, not only the malformed ones.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every recorded date.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report.
func (w *SimpleWriter) Write(report *model.HarvestReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeMalformed(&sb, report)
	if w.verbose {
		w.writeOutcomes(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.HarvestReport) {
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                 PMJDY HARVEST REPORT\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Data Directory: %s\n", report.DataDir)
	fmt.Fprintf(sb, "Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Date Range:     %s .. %s\n\n", dateOrDash(report, false), dateOrDash(report, true))
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.HarvestReport) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\nSUMMARY\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Dates:      %d\n", report.Pages)
	fmt.Fprintf(sb, "  Extracted:  %d\n", report.Extracted)
	fmt.Fprintf(sb, "  Malformed:  %d\n", report.Malformed)
	fmt.Fprintf(sb, "  Cached:     %d\n", report.FromCache)
	fmt.Fprintf(sb, "  Fetched:    %d\n", report.FromNetwork)
	fmt.Fprintf(sb, "  Records:    %d\n", report.Records)
	fmt.Fprintf(sb, "  Coverage:   %.1f%%\n\n", report.Coverage()*100)
}

func (w *SimpleWriter) writeMalformed(sb *strings.Builder, report *model.HarvestReport) {
	if !report.HasMalformed() {
		return
	}
	sb.WriteString("SKIPPED DATES\n")
	for _, d := range report.MalformedDates {
		fmt.Fprintf(sb, "  - %s\n", model.ISODate(d))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeOutcomes(sb *strings.Builder, report *model.HarvestReport) {
	sb.WriteString("DATES\n")
	for _, o := range report.Outcomes {
		fmt.Fprintf(sb, "  %s  %-9s  %-7s  %5d records\n",
			model.ISODate(o.Date), o.Status, o.Source, o.Records)
	}
	sb.WriteString("\n")
}
