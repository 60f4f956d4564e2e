package dataset

import "errors"

var (
	// ErrNoInputs is returned by Consolidate when the per-date directory
	// holds no CSV files.
	ErrNoInputs = errors.New("no per-date CSV files to consolidate")

	// ErrEmptyFile is returned when a CSV file has no header row.
	ErrEmptyFile = errors.New("CSV file has no header")
)
