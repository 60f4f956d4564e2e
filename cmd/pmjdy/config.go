package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pmjdystats/pmjdy/internal/config"
)

// addConfigFlags registers the flags every command that touches the data
// directory shares.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pmjdy in current directory, XDG config dir, or home)")
	cmd.Flags().String("data-dir", config.DefaultDataDir,
		"Data directory holding html/, csv/ and data.csv")
}

// buildConfig layers defaults, the configuration file and explicitly set
// flags, in that order, and validates the result.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	explicitPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; otherwise a missing file just
	// means defaults.
	path := config.FindConfigFile(explicitPath)
	switch {
	case path != "":
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		cfg.ConfigFilePath = path
	case explicitPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
	}

	if err := applyFlags(flags, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies flags the user set on the command line onto cfg.
// Flags a command does not define are ignored.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	set := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if set("data-dir") {
		if cfg.DataDir, err = flags.GetString("data-dir"); err != nil {
			return err
		}
	}
	if set("url") {
		if cfg.ArchiveURL, err = flags.GetString("url"); err != nil {
			return err
		}
	}
	if set("cutoff") {
		raw, err := flags.GetString("cutoff")
		if err != nil {
			return err
		}
		if cfg.Cutoff, err = config.ParseCutoff(raw); err != nil {
			return err
		}
	}
	if set("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if set("strict-end-date") {
		if cfg.StrictEndDate, err = flags.GetBool("strict-end-date"); err != nil {
			return err
		}
	}
	if set("no-consolidate") {
		skip, err := flags.GetBool("no-consolidate")
		if err != nil {
			return err
		}
		cfg.Consolidate = !skip
	}
	return nil
}
