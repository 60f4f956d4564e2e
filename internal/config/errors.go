package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// File.Apply. Callers can match them with errors.Is.
var (
	// ErrNoArchiveURL is returned when the archive URL is empty.
	ErrNoArchiveURL = errors.New("no archive url configured")

	// ErrNoDateField is returned when the date form field name is empty.
	ErrNoDateField = errors.New("no date form field configured")

	// ErrInvalidTimeout is returned when the timeout is negative.
	// Zero disables the timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidInterval is returned when the walk step is not positive.
	// A zero step would never reach the cutoff.
	ErrInvalidInterval = errors.New("invalid interval: must be a positive number of days")

	// ErrInvalidCutoff is returned when the cutoff date is missing or unparsable.
	ErrInvalidCutoff = errors.New("invalid cutoff: expected YYYY-MM-DD")

	// ErrInvalidWeekday is returned when the anchor weekday is unknown.
	ErrInvalidWeekday = errors.New("invalid anchor weekday")

	// ErrInvalidEndDatePattern is returned when the end-date pattern does not compile.
	ErrInvalidEndDatePattern = errors.New("invalid end date pattern")

	// ErrNoDataDir is returned when the data root is empty.
	ErrNoDataDir = errors.New("no data directory configured")
)
