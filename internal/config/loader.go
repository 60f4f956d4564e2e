package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pmjdy"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .pmjdy configuration file.
// Empty fields leave the corresponding default untouched.
type File struct {
	ArchiveURL     string `yaml:"archiveURL,omitempty"`
	DateField      string `yaml:"dateField,omitempty"`
	UserAgent      string `yaml:"userAgent,omitempty"`
	Timeout        string `yaml:"timeout,omitempty"`
	Cutoff         string `yaml:"cutoff,omitempty"`
	IntervalDays   int    `yaml:"intervalDays,omitempty"`
	AnchorWeekday  string `yaml:"anchorWeekday,omitempty"`
	EndDatePattern string `yaml:"endDatePattern,omitempty"`
	StrictEndDate  *bool  `yaml:"strictEndDate,omitempty"`
	DataDir        string `yaml:"dataDir,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// Apply copies every set field of the file onto cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.ArchiveURL != "" {
		cfg.ArchiveURL = cf.ArchiveURL
	}
	if cf.DateField != "" {
		cfg.DateField = cf.DateField
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, cf.Timeout)
		}
		cfg.Timeout = d
	}
	if cf.Cutoff != "" {
		cutoff, err := ParseCutoff(cf.Cutoff)
		if err != nil {
			return err
		}
		cfg.Cutoff = cutoff
	}
	if cf.IntervalDays != 0 {
		cfg.IntervalDays = cf.IntervalDays
	}
	if cf.AnchorWeekday != "" {
		wd, err := ParseWeekday(cf.AnchorWeekday)
		if err != nil {
			return err
		}
		cfg.AnchorWeekday = wd
	}
	if cf.EndDatePattern != "" {
		cfg.EndDatePattern = cf.EndDatePattern
	}
	if cf.StrictEndDate != nil {
		cfg.StrictEndDate = *cf.StrictEndDate
	}
	if cf.DataDir != "" {
		cfg.DataDir = cf.DataDir
	}
	return nil
}

// ParseCutoff parses a YYYY-MM-DD cutoff date.
func ParseCutoff(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCutoff, s)
	}
	return t, nil
}

// ParseWeekday parses an English weekday name, case-insensitively.
// Three-letter abbreviations are accepted.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .pmjdy in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .pmjdy in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
