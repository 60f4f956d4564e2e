// Package report renders a harvest report.
//
// Writers share the Writer interface and differ only in format:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: structured output for scripts
//   - MarkdownWriter: a document with tables and a status chart
package report
