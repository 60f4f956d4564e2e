package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/pmjdystats/pmjdy/internal/model"
)

// maxLevelsShown caps the level list printed per date.
const maxLevelsShown = 60

// MarkdownWriter outputs reports as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report.
func (w *MarkdownWriter) Write(report *model.HarvestReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeOutcomes(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.HarvestReport) {
	md.H1("PMJDY Harvest Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Data Directory", "`" + report.DataDir + "`"},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Oldest Date", dateOrDash(report, false)},
			{"Newest Date", dateOrDash(report, true)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.HarvestReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Dates", strconv.Itoa(report.Pages)},
			{"Extracted", strconv.Itoa(report.Extracted)},
			{"Malformed", strconv.Itoa(report.Malformed)},
			{"From cache", strconv.Itoa(report.FromCache)},
			{"From network", strconv.Itoa(report.FromNetwork)},
			{"**Records**", "**" + strconv.Itoa(report.Records) + "**"},
		},
	})
	md.PlainText("")

	if report.Pages > 0 {
		w.writePieChart(md, report)
	}
	w.writeAlert(md, report)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.HarvestReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Archive Dates by Status"),
		piechart.WithShowData(true),
	)
	if report.Extracted > 0 {
		chart.LabelAndIntValue("Extracted", uint64(report.Extracted))
	}
	if report.Malformed > 0 {
		chart.LabelAndIntValue("Malformed", uint64(report.Malformed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.HarvestReport) {
	switch {
	case report.Pages == 0:
		md.Note("No archive dates recorded yet. Run a harvest first.")
	case report.HasMalformed():
		md.Warningf("%d of %d dates had no statistics tables and were skipped.",
			report.Malformed, report.Pages)
	default:
		md.Tip("Every recorded date produced records.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, report *model.HarvestReport) {
	md.H2("Dates")
	md.PlainText("")

	if len(report.Outcomes) == 0 {
		md.PlainText("No dates recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Outcomes))
	for i, o := range report.Outcomes {
		levels := strings.Join(o.Levels, ", ")
		if levels == "" {
			levels = "-"
		}
		fetched := "-"
		if !o.FetchedAt.IsZero() {
			fetched = o.FetchedAt.UTC().Format("2006-01-02 15:04")
		}
		rows[i] = []string{
			model.ISODate(o.Date),
			string(o.Status),
			string(o.Source),
			fetched,
			strconv.Itoa(o.Tables),
			strconv.Itoa(o.Records),
			truncateString(levels, maxLevelsShown),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Date", "Status", "Source", "First Fetched", "Tables", "Records", "Levels"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by pmjdy*")
}

// truncateString shortens s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
