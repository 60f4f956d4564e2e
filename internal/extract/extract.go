package extract

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pmjdystats/pmjdy/internal/model"
)

const (
	// ExpectedTables is the table count of a well-formed archive page.
	ExpectedTables = 6

	// PayloadStart is the index of the first statistics table.
	PayloadStart = 2

	// InitialLevel labels the rows of the first payload table.
	InitialLevel = "Summary"
)

// Group is the rows of one payload table tagged with their level.
type Group struct {
	Level string
	Rows  [][]string
}

// FoldLevels walks the payload tables in order, carrying the level label.
// Every row but the last of a table belongs to the current level; the first
// cell of the last row names the level of the next table. An empty table
// leaves the level as it is and a single-row table only renames it.
//
// It returns one group per table and the label left over after the last
// table.
func FoldLevels(tables []Table, initial string) ([]Group, string) {
	level := initial
	groups := make([]Group, 0, len(tables))
	for _, t := range tables {
		if len(t.Rows) == 0 {
			groups = append(groups, Group{Level: level})
			continue
		}
		last := t.Rows[len(t.Rows)-1]
		groups = append(groups, Group{Level: level, Rows: t.Rows[:len(t.Rows)-1]})
		if len(last) > 0 {
			level = last[0]
		} else {
			level = ""
		}
	}
	return groups, level
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for column alignment warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Extractor converts archive pages into record sets.
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one extraction.
type Result struct {
	Records *model.RecordSet
	Tables  int
}

// Extract parses page and returns its rows in long format: the columns of
// the first payload table followed by level and date. Rows of later tables
// are aligned to those columns by position. A payload column already named
// level or date is overwritten rather than duplicated.
func (e *Extractor) Extract(page string, date time.Time) (Result, error) {
	tables, err := ParseTables(page)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedPage, err)
	}
	if len(tables) != ExpectedTables {
		return Result{Tables: len(tables)}, fmt.Errorf("%w: found %d tables, want %d",
			ErrMalformedPage, len(tables), ExpectedTables)
	}

	payload := tables[PayloadStart:]
	columns := payload[0].Header

	header := make([]string, 0, len(columns)+2)
	header = append(header, columns...)
	levelAt := columnIndex(&header, model.LevelColumn)
	dateAt := columnIndex(&header, model.DateColumn)
	records := model.NewRecordSet(header)

	iso := model.ISODate(date)
	groups, _ := FoldLevels(payload, InitialLevel)
	for i, g := range groups {
		if w := payload[i].Width(); w != len(columns) && len(g.Rows) > 0 {
			e.logger.Warn("table width differs from summary table, aligning by position",
				"date", iso,
				"table", PayloadStart+i,
				"level", g.Level,
				"columns", w,
				"want", len(columns))
		}
		for _, row := range g.Rows {
			out := make([]string, len(header))
			copy(out[:len(columns)], row)
			out[levelAt] = g.Level
			out[dateAt] = iso
			records.Append(out)
		}
	}

	return Result{Records: records, Tables: len(tables)}, nil
}

// columnIndex returns the position of name in header, appending it when
// missing.
func columnIndex(header *[]string, name string) int {
	if i := slices.Index(*header, name); i >= 0 {
		return i
	}
	*header = append(*header, name)
	return len(*header) - 1
}
