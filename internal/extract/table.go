package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Table is one HTML table with spans expanded.
type Table struct {
	// Header holds one name per column. Tables without header rows get
	// positional names "0", "1", ...
	Header []string

	// Rows are the body rows, each exactly len(Header) cells wide.
	Rows [][]string
}

// Width returns the number of columns.
func (t Table) Width() int {
	return len(t.Header)
}

// cell is a table cell before span expansion.
type cell struct {
	text    string
	header  bool
	colspan int
	rowspan int
}

// ParseTables returns every <table> in the document, nested ones included,
// in document order. Tables without any cell text are left out, so an
// empty placeholder does not shift the positions of the data tables.
func ParseTables(page string) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0)
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		if t := parseTable(sel); !t.empty() {
			tables = append(tables, t)
		}
	})
	return tables, nil
}

// empty reports whether the table has no text in any cell. Positional
// column names do not count.
func (t Table) empty() bool {
	for _, r := range t.Rows {
		for _, c := range r {
			if c != "" {
				return false
			}
		}
	}
	for i, h := range t.Header {
		if h != strconv.Itoa(i) && h != "Unnamed: "+strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// parseTable splits a table into header and body sections and expands
// each section's spans.
func parseTable(sel *goquery.Selection) Table {
	head := readRows(sel.ChildrenFiltered("thead").ChildrenFiltered("tr"))
	body := readRows(sel.ChildrenFiltered("tbody").ChildrenFiltered("tr"))
	body = append(body, readRows(sel.ChildrenFiltered("tr"))...)
	foot := readRows(sel.ChildrenFiltered("tfoot").ChildrenFiltered("tr"))

	// Without a <thead>, leading all-<th> rows are the header.
	if len(head) == 0 {
		for len(body) > 0 && allHeaderCells(body[0]) {
			head = append(head, body[0])
			body = body[1:]
		}
	}

	headRows := expandSpans(head)
	bodyRows := append(expandSpans(body), expandSpans(foot)...)

	width := 0
	for _, r := range headRows {
		width = max(width, len(r))
	}
	for _, r := range bodyRows {
		width = max(width, len(r))
	}

	t := Table{
		Header: buildHeader(headRows, width),
		Rows:   make([][]string, 0, len(bodyRows)),
	}
	for _, r := range bodyRows {
		t.Rows = append(t.Rows, padRow(r, width))
	}
	return t
}

func readRows(rows *goquery.Selection) [][]cell {
	out := make([][]cell, 0, rows.Length())
	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := make([]cell, 0)
		tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, cell{
				text:    cleanText(td.Text()),
				header:  goquery.NodeName(td) == "th",
				colspan: spanAttr(td.Nodes[0], "colspan"),
				rowspan: spanAttr(td.Nodes[0], "rowspan"),
			})
		})
		out = append(out, cells)
	})
	return out
}

func allHeaderCells(row []cell) bool {
	if len(row) == 0 {
		return false
	}
	for _, c := range row {
		if !c.header {
			return false
		}
	}
	return true
}

// remainder is a rowspan cell still owed to the following rows.
type remainder struct {
	index int
	text  string
	left  int
}

// expandSpans lays cells out on a grid. A cell with colspan n fills n
// positions; a cell with rowspan n also fills its position in the next n-1
// rows, shifting that row's own cells to the right.
func expandSpans(rows [][]cell) [][]string {
	out := make([][]string, 0, len(rows))
	var pending []remainder

	for _, row := range rows {
		texts := make([]string, 0, len(row))
		next := make([]remainder, 0)
		index := 0

		takePending := func() {
			for len(pending) > 0 && pending[0].index <= index {
				p := pending[0]
				pending = pending[1:]
				texts = append(texts, p.text)
				if p.left > 1 {
					next = append(next, remainder{index: index, text: p.text, left: p.left - 1})
				}
				index++
			}
		}

		for _, c := range row {
			takePending()
			for range c.colspan {
				texts = append(texts, c.text)
				if c.rowspan > 1 {
					next = append(next, remainder{index: index, text: c.text, left: c.rowspan - 1})
				}
				index++
			}
		}
		for _, p := range pending {
			texts = append(texts, p.text)
			if p.left > 1 {
				next = append(next, remainder{index: index, text: p.text, left: p.left - 1})
			}
			index++
		}

		out = append(out, texts)
		pending = next
	}

	// Rowspans reaching past the last row produce rows of their own.
	for len(pending) > 0 {
		texts := make([]string, 0, len(pending))
		next := make([]remainder, 0)
		for i, p := range pending {
			texts = append(texts, p.text)
			if p.left > 1 {
				next = append(next, remainder{index: i, text: p.text, left: p.left - 1})
			}
		}
		out = append(out, texts)
		pending = next
	}
	return out
}

// buildHeader names each column. Several header rows are joined per column
// with a space, skipping repeats produced by colspan.
func buildHeader(rows [][]string, width int) []string {
	header := make([]string, width)
	if len(rows) == 0 {
		for i := range header {
			header[i] = strconv.Itoa(i)
		}
		return header
	}

	for i := range header {
		parts := make([]string, 0, len(rows))
		for _, r := range rows {
			if i >= len(r) || r[i] == "" {
				continue
			}
			if n := len(parts); n > 0 && parts[n-1] == r[i] {
				continue
			}
			parts = append(parts, r[i])
		}
		header[i] = strings.Join(parts, " ")
		if header[i] == "" {
			header[i] = "Unnamed: " + strconv.Itoa(i)
		}
	}
	return dedupe(header)
}

// dedupe suffixes repeated column names with .1, .2, ... so every column
// can be addressed by name.
func dedupe(header []string) []string {
	seen := make(map[string]int, len(header))
	for _, h := range header {
		seen[h] = 0
	}
	counts := make(map[string]int, len(header))
	for i, h := range header {
		n := counts[h]
		counts[h] = n + 1
		if n == 0 {
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for {
			if _, taken := seen[name]; !taken {
				break
			}
			n++
			name = h + "." + strconv.Itoa(n)
		}
		counts[h] = n + 1
		seen[name] = 0
		header[i] = name
	}
	return header
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// Span limits applied by browsers when building the table grid.
const (
	maxColspan = 1000
	maxRowspan = 65534
)

// spanAttr reads a colspan/rowspan attribute, defaulting to 1 and clamped
// to the browser limits.
func spanAttr(n *html.Node, key string) int {
	limit := maxColspan
	if key == "rowspan" {
		limit = maxRowspan
	}
	for _, a := range n.Attr {
		if a.Key != key {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(a.Val))
		if err != nil || v < 1 {
			return 1
		}
		return min(v, limit)
	}
	return 1
}

// groupedNumber matches numbers written with thousands separators,
// including the Indian 1,23,45,678 grouping.
var groupedNumber = regexp.MustCompile(`^[-+]?\d+(,\d+)+(\.\d+)?$`)

// cleanText normalizes a cell: compatibility forms folded (NBSP becomes a
// space), runs of whitespace collapsed, and thousands separators removed
// from numbers.
func cleanText(s string) string {
	s = strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
	if groupedNumber.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}
