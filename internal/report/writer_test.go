package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pmjdystats/pmjdy/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestReport() *model.HarvestReport {
	return model.NewHarvestReport("data", []model.PageOutcome{
		{
			Date:      day(2018, time.July, 4),
			Status:    model.StatusExtracted,
			Source:    model.SourceNetwork,
			Tables:    6,
			Records:   40,
			Levels:    []string{"Summary", "Public Sector Banks", "Private Banks"},
			FetchedAt: time.Date(2024, time.February, 28, 6, 15, 0, 0, time.UTC),
		},
		{
			Date:   day(2018, time.June, 27),
			Status: model.StatusMalformed,
			Source: model.SourceCache,
			Tables: 2,
		},
		{
			Date:    day(2018, time.June, 20),
			Status:  model.StatusExtracted,
			Source:  model.SourceCache,
			Tables:  6,
			Records: 38,
		},
	}, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary and skipped dates", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("returned %d bytes, buffer holds %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"PMJDY HARVEST REPORT",
			"Date Range:     2018-06-20 .. 2018-07-04",
			"Extracted:  2",
			"Malformed:  1",
			"Records:    78",
			"SKIPPED DATES",
			"  - 2018-06-27",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "DATES\n  2018") {
			t.Error("per-date list should only appear in verbose mode")
		}
	})

	t.Run("verbose lists every date", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "2018-06-20  extracted  cache") {
			t.Errorf("expected per-date line, got:\n%s", buf.String())
		}
	})

	t.Run("empty report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewHarvestReport("data", nil, time.Now())
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Date Range:     - .. -") {
			t.Errorf("expected empty range, got:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "SKIPPED DATES") {
			t.Error("empty report should not list skipped dates")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output decodes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("compact output should be one line, got:\n%s", buf.String())
		}

		var decoded model.HarvestReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Pages != 3 || decoded.Records != 78 || len(decoded.Outcomes) != 3 {
			t.Errorf("decoded = %+v", decoded)
		}
		if decoded.Outcomes[1].Status != model.StatusMalformed {
			t.Errorf("outcome[1].Status = %q, want malformed", decoded.Outcomes[1].Status)
		}
	})

	t.Run("indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n\t\"data_dir\": \"data\"") {
			t.Errorf("expected tab indentation, got:\n%s", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables chart and warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# PMJDY Harvest Report",
			"## Summary",
			"## Dates",
			"pie",
			"[!WARNING]",
			"2018-06-27",
			"Public Sector Banks",
			"First Fetched",
			"2024-02-28 06:15",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("clean harvest gets a tip", func(t *testing.T) {
		t.Parallel()

		report := model.NewHarvestReport("data", []model.PageOutcome{
			{Date: day(2018, time.July, 4), Status: model.StatusExtracted, Source: model.SourceNetwork, Records: 1},
		}, time.Now())

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Error("expected tip alert")
		}
	})

	t.Run("empty report gets a note", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewHarvestReport("data", nil, time.Now())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "[!NOTE]") {
			t.Error("expected note alert")
		}
		if strings.Contains(output, "pie") {
			t.Error("empty report should not have a chart")
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write(*model.HarvestReport) (int, error) {
	return 0, errors.New("disk full")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		n, err := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js)).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
		if n != text.Len()+js.Len() {
			t.Errorf("n = %d, want %d", n, text.Len()+js.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var text bytes.Buffer
		_, err := NewMultiWriter(failingWriter{}, NewSimpleWriter(&text)).Write(createTestReport())
		if err == nil {
			t.Fatal("expected error")
		}
		if text.Len() != 0 {
			t.Error("writers after the failing one should not run")
		}
	})
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  Format
		want    string
		wantErr bool
	}{
		{format: "", want: "*report.SimpleWriter"},
		{format: FormatText, want: "*report.SimpleWriter"},
		{format: FormatJSON, want: "*report.JSONWriter"},
		{format: "MARKDOWN", want: "*report.MarkdownWriter"},
		{format: "md", want: "*report.MarkdownWriter"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			w, err := NewWriter(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(w); got != tt.want {
				t.Errorf("NewWriter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func typeName(w Writer) string {
	switch w.(type) {
	case *SimpleWriter:
		return "*report.SimpleWriter"
	case *JSONWriter:
		return "*report.JSONWriter"
	case *MarkdownWriter:
		return "*report.MarkdownWriter"
	default:
		return "unknown"
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"ダッシュボード", 5, "ダッ..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
