package model

import "slices"

// Column names appended to every extracted row.
const (
	LevelColumn = "level"
	DateColumn  = "date"
)

// RecordSet is the long-format table extracted from one archive page, or the
// concatenation of many of them.
//
// Every row has exactly len(Header) cells.
type RecordSet struct {
	Header []string
	Rows   [][]string
}

// NewRecordSet creates an empty RecordSet with a copy of header.
func NewRecordSet(header []string) *RecordSet {
	return &RecordSet{Header: slices.Clone(header), Rows: make([][]string, 0)}
}

// Len returns the number of rows.
func (r *RecordSet) Len() int {
	return len(r.Rows)
}

// Append adds a row, padding or truncating it to the header width.
func (r *RecordSet) Append(row []string) {
	r.Rows = append(r.Rows, fitWidth(row, len(r.Header)))
}

// Column returns the index of a column, or -1.
func (r *RecordSet) Column(name string) int {
	return slices.Index(r.Header, name)
}

// Levels returns the label of each contiguous run of rows sharing a level.
func (r *RecordSet) Levels() []string {
	idx := r.Column(LevelColumn)
	if idx < 0 {
		return nil
	}
	levels := make([]string, 0)
	for _, row := range r.Rows {
		if n := len(levels); n == 0 || levels[n-1] != row[idx] {
			levels = append(levels, row[idx])
		}
	}
	return levels
}

func fitWidth(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
