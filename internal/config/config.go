package config

import (
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultArchiveURL is the archive page. Both the initial GET and every
	// date POST go to this URL.
	DefaultArchiveURL = "https://www.pmjdy.gov.in/archive"

	// DefaultDateField is the form field that selects the report date.
	DefaultDateField = "ctl00$ContentPlaceHolder1$txtdate"

	// DefaultUserAgent is a desktop browser identification. The archive
	// rejects requests carrying a default HTTP client user agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/67.0.3396.99 Safari/537.36"

	// DefaultCutoff is the first week the archive publishes. The walk stops
	// at the first date before it.
	DefaultCutoff = "2014-09-20"

	// DefaultIntervalDays is the distance between two weekly reports.
	DefaultIntervalDays = 7

	// DefaultAnchorWeekday is the weekday reports are published for.
	DefaultAnchorWeekday = time.Wednesday

	// DefaultDataDir is the data root, relative to the working directory.
	DefaultDataDir = "data"

	// DefaultTimeout bounds each HTTP request. Zero disables the limit.
	DefaultTimeout = 2 * time.Minute

	// DefaultEndDatePattern finds the most recent report date in the
	// datepicker settings embedded in the landing page.
	DefaultEndDatePattern = `\{"endDate":"(.*?)","format`

	// AppName is the application name used for XDG directory paths.
	AppName = "pmjdy"
)

// On-disk layout below the data root.
const (
	HTMLDirName    = "html"
	CSVDirName     = "csv"
	MasterFileName = "data.csv"
	LedgerFileName = "ledger.db"
	LockFileName   = ".lock"
)

// Config holds all configuration options for a harvest run.
// It is populated from defaults, then the YAML file, then CLI flags.
type Config struct {
	// ArchiveURL is the archive page URL.
	ArchiveURL string

	// DateField is the name of the date form field.
	DateField string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout is the per-request timeout. Zero disables it.
	Timeout time.Duration

	// Cutoff is the earliest date that is still fetched.
	Cutoff time.Time

	// IntervalDays is how far back each step of the walk goes.
	IntervalDays int

	// AnchorWeekday is the weekday the first date is snapped back to.
	AnchorWeekday time.Weekday

	// EndDatePattern is a regular expression whose first group holds the
	// most recent archive date on the landing page.
	EndDatePattern string

	// StrictEndDate makes a missing end-date marker fatal instead of falling
	// back to today.
	StrictEndDate bool

	// DataDir is the data root holding html/, csv/ and data.csv.
	DataDir string

	// Consolidate rebuilds data.csv after the walk.
	Consolidate bool

	// ConfigFilePath is the YAML file the values were loaded from, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	cutoff, _ := time.ParseInLocation("2006-01-02", DefaultCutoff, time.UTC) //nolint:errcheck // constant
	return &Config{
		ArchiveURL:     DefaultArchiveURL,
		DateField:      DefaultDateField,
		UserAgent:      DefaultUserAgent,
		Timeout:        DefaultTimeout,
		Cutoff:         cutoff,
		IntervalDays:   DefaultIntervalDays,
		AnchorWeekday:  DefaultAnchorWeekday,
		EndDatePattern: DefaultEndDatePattern,
		DataDir:        DefaultDataDir,
		Consolidate:    true,
	}
}

// HTMLDir returns the page cache directory.
func (c *Config) HTMLDir() string {
	return filepath.Join(c.DataDir, HTMLDirName)
}

// CSVDir returns the per-date record directory.
func (c *Config) CSVDir() string {
	return filepath.Join(c.DataDir, CSVDirName)
}

// MasterPath returns the consolidated dataset path.
func (c *Config) MasterPath() string {
	return filepath.Join(c.DataDir, MasterFileName)
}

// LedgerDir returns the directory holding the ledger database.
func (c *Config) LedgerDir() string {
	return c.DataDir
}

// XDGConfigDir returns the XDG config directory for the harvester.
// On Linux: ~/.config/pmjdy
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.ArchiveURL == "" {
		return ErrNoArchiveURL
	}
	if c.DateField == "" {
		return ErrNoDateField
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.IntervalDays <= 0 {
		return ErrInvalidInterval
	}
	if c.Cutoff.IsZero() {
		return ErrInvalidCutoff
	}
	if c.AnchorWeekday < time.Sunday || c.AnchorWeekday > time.Saturday {
		return ErrInvalidWeekday
	}
	if _, err := regexp.Compile(c.EndDatePattern); err != nil {
		return ErrInvalidEndDatePattern
	}
	if c.DataDir == "" {
		return ErrNoDataDir
	}
	return nil
}
