package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig pins the defaults. A failing case here means a default
// changed, which changes what a plain `pmjdy` run fetches.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default archive url", func(t *testing.T) {
		t.Parallel()
		if cfg.ArchiveURL != "https://www.pmjdy.gov.in/archive" {
			t.Errorf("unexpected ArchiveURL %q", cfg.ArchiveURL)
		}
	})

	t.Run("default date field", func(t *testing.T) {
		t.Parallel()
		if cfg.DateField != "ctl00$ContentPlaceHolder1$txtdate" {
			t.Errorf("unexpected DateField %q", cfg.DateField)
		}
	})

	t.Run("default cutoff is 2014-09-20", func(t *testing.T) {
		t.Parallel()
		want := time.Date(2014, time.September, 20, 0, 0, 0, 0, time.UTC)
		if !cfg.Cutoff.Equal(want) {
			t.Errorf("expected cutoff %v, got %v", want, cfg.Cutoff)
		}
	})

	t.Run("default walk is weekly on wednesday", func(t *testing.T) {
		t.Parallel()
		if cfg.IntervalDays != 7 {
			t.Errorf("expected 7 days, got %d", cfg.IntervalDays)
		}
		if cfg.AnchorWeekday != time.Wednesday {
			t.Errorf("expected Wednesday, got %v", cfg.AnchorWeekday)
		}
	})

	t.Run("default layout", func(t *testing.T) {
		t.Parallel()
		if cfg.HTMLDir() != filepath.Join("data", "html") {
			t.Errorf("unexpected html dir %q", cfg.HTMLDir())
		}
		if cfg.CSVDir() != filepath.Join("data", "csv") {
			t.Errorf("unexpected csv dir %q", cfg.CSVDir())
		}
		if cfg.MasterPath() != filepath.Join("data", "data.csv") {
			t.Errorf("unexpected master path %q", cfg.MasterPath())
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method one rule at a time.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "empty url", mutate: func(c *Config) { c.ArchiveURL = "" }, want: ErrNoArchiveURL},
		{name: "empty date field", mutate: func(c *Config) { c.DateField = "" }, want: ErrNoDateField},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, want: ErrInvalidTimeout},
		{name: "zero interval", mutate: func(c *Config) { c.IntervalDays = 0 }, want: ErrInvalidInterval},
		{name: "zero cutoff", mutate: func(c *Config) { c.Cutoff = time.Time{} }, want: ErrInvalidCutoff},
		{name: "bad weekday", mutate: func(c *Config) { c.AnchorWeekday = 9 }, want: ErrInvalidWeekday},
		{name: "bad pattern", mutate: func(c *Config) { c.EndDatePattern = "(" }, want: ErrInvalidEndDatePattern},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, want: ErrNoDataDir},
		{name: "zero timeout is allowed", mutate: func(c *Config) { c.Timeout = 0 }, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".pmjdy")
		content := `archiveURL: http://localhost:8080/archive
timeout: 30s
cutoff: "2016-01-06"
intervalDays: 14
anchorWeekday: fri
strictEndDate: true
dataDir: /tmp/pmjdy
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		file, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		cfg := NewConfig()
		if err := file.Apply(cfg); err != nil {
			t.Fatalf("failed to apply: %v", err)
		}

		if cfg.ArchiveURL != "http://localhost:8080/archive" {
			t.Errorf("unexpected url %q", cfg.ArchiveURL)
		}
		if cfg.Timeout != 30*time.Second {
			t.Errorf("unexpected timeout %v", cfg.Timeout)
		}
		if cfg.Cutoff.Format("2006-01-02") != "2016-01-06" {
			t.Errorf("unexpected cutoff %v", cfg.Cutoff)
		}
		if cfg.IntervalDays != 14 {
			t.Errorf("unexpected interval %d", cfg.IntervalDays)
		}
		if cfg.AnchorWeekday != time.Friday {
			t.Errorf("unexpected weekday %v", cfg.AnchorWeekday)
		}
		if !cfg.StrictEndDate {
			t.Error("expected strict end date")
		}
		if cfg.DataDir != "/tmp/pmjdy" {
			t.Errorf("unexpected data dir %q", cfg.DataDir)
		}
		if cfg.DateField != DefaultDateField {
			t.Errorf("unset field should keep default, got %q", cfg.DateField)
		}
	})

	t.Run("bad timeout is rejected on apply", func(t *testing.T) {
		t.Parallel()

		file := &File{Timeout: "soon"}
		if err := file.Apply(NewConfig()); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".pmjdy")
		if err := os.WriteFile(path, []byte("cutoff: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestParseWeekday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{in: "Wednesday", want: time.Wednesday},
		{in: "wed", want: time.Wednesday},
		{in: " SUNDAY ", want: time.Sunday},
		{in: "we", wantErr: true},
		{in: "funday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWeekday) {
					t.Errorf("expected ErrInvalidWeekday, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
