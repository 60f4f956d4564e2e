package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmjdystats/pmjdy/internal/model"
)

// Writer writes a harvest report in one format.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.HarvestReport) (int, error)
}

// MultiWriter writes the same report to several Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to every Writer, stopping at the first error.
func (m *MultiWriter) Write(report *model.HarvestReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown}
}

// NewWriter returns the writer for format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want one of %v)", format, Formats())
	}
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// dateOrDash formats a date, or "-" for the zero time.
func dateOrDash(r *model.HarvestReport, newest bool) string {
	t := r.Oldest
	if newest {
		t = r.Newest
	}
	if t.IsZero() {
		return "-"
	}
	return model.ISODate(t)
}
